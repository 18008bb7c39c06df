package mcp

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

const defaultLimit = 10

// ParseInput is the input schema for the parse_document tool.
type ParseInput struct {
	Path     string `json:"path" jsonschema:"filesystem path of the .docx document"`
	WithHTML bool   `json:"with_html,omitempty" jsonschema:"sanitize the HTML and extract sections from it"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of sections and media items to return (default 10)"`
}

// ArticleInput identifies a published article.
type ArticleInput struct {
	ID string `json:"id" jsonschema:"the article id"`
}

// ListArticlesInput is the (empty) input schema for the list_articles tool.
type ListArticlesInput struct{}

// ListArticlesOutput is the output schema for the list_articles tool.
type ListArticlesOutput struct {
	Items []domain.ManifestSummary `json:"items"`
	Count int                      `json:"count"`
}

// VerifyOutput is the output schema for the verify_article tool.
type VerifyOutput struct {
	ID      string `json:"id"`
	Trusted bool   `json:"trusted"`
	Reason  string `json:"reason,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "parse_document",
		Description: "Convert a .docx document and return its sections, media and word count",
	}, s.handleParse)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_articles",
		Description: "List published articles, most recently updated first",
	}, s.handleListArticles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_manifest",
		Description: "Return the signed manifest of a published article",
	}, s.handleGetManifest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify_article",
		Description: "Recompute a published article's checksum and signature",
	}, s.handleVerify)
}

func (s *Server) handleParse(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseInput,
) (*mcp.CallToolResult, domain.ParseSummary, error) {
	if input.Path == "" {
		return nil, domain.ParseSummary{}, domain.ErrInvalidInput
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	doc, err := s.ports.Ingestion.Parse(ctx, driven.FileSource(input.Path), domain.ParseOptions{WithHTML: input.WithHTML})
	if err != nil {
		return nil, domain.ParseSummary{}, err
	}
	return nil, doc.Summary(filepath.Base(input.Path), limit), nil
}

func (s *Server) handleListArticles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListArticlesInput,
) (*mcp.CallToolResult, ListArticlesOutput, error) {
	if s.ports.Articles == nil {
		return nil, ListArticlesOutput{}, ErrArticlesUnavailable
	}
	items, err := s.ports.Articles.ListManifests(ctx)
	if err != nil {
		return nil, ListArticlesOutput{}, err
	}
	return nil, ListArticlesOutput{Items: items, Count: len(items)}, nil
}

func (s *Server) handleGetManifest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ArticleInput,
) (*mcp.CallToolResult, domain.ArticleManifest, error) {
	if s.ports.Articles == nil {
		return nil, domain.ArticleManifest{}, ErrArticlesUnavailable
	}
	m, err := s.ports.Articles.Manifest(ctx, input.ID)
	if err != nil {
		return nil, domain.ArticleManifest{}, err
	}
	return nil, *m, nil
}

// handleVerify reports untrusted content as a result rather than a tool error.
func (s *Server) handleVerify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ArticleInput,
) (*mcp.CallToolResult, VerifyOutput, error) {
	if s.ports.Articles == nil {
		return nil, VerifyOutput{}, ErrArticlesUnavailable
	}
	err := s.ports.Articles.Verify(ctx, input.ID)
	switch {
	case err == nil:
		return nil, VerifyOutput{ID: input.ID, Trusted: true}, nil
	case errors.Is(err, domain.ErrUntrustedContent):
		return nil, VerifyOutput{ID: input.ID, Reason: err.Error()}, nil
	default:
		return nil, VerifyOutput{}, err
	}
}
