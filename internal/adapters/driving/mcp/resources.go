package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for lwb-ingest resources.
	uriScheme = "lwb://"

	manifestSuffix = "/manifest"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "manifest",
		Name:        "manifest",
		Description: "Summaries of all published articles",
		MIMEType:    "application/json",
	}, s.handleManifestListResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "articles/{articleId}",
		Name:        "article",
		Description: "A published article with its sections and media catalog",
		MIMEType:    "application/json",
	}, s.handleArticleResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "articles/{articleId}/manifest",
		Name:        "article-manifest",
		Description: "The signed manifest of a published article",
		MIMEType:    "application/json",
	}, s.handleArticleManifestResource)
}

// handleManifestListResource returns the public manifest listing.
func (s *Server) handleManifestListResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Articles == nil {
		return jsonResult(req.Params.URI, []domain.ManifestSummary{})
	}

	items, err := s.ports.Articles.ListManifests(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing manifests: %w", err)
	}
	return jsonResult(req.Params.URI, items)
}

// handleArticleResource returns a stored article.
func (s *Server) handleArticleResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractArticleID(req.Params.URI)
	if s.ports.Articles == nil || id == "" || strings.HasSuffix(req.Params.URI, manifestSuffix) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	article, err := s.ports.Articles.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting article: %w", err)
	}
	return jsonResult(req.Params.URI, article)
}

// handleArticleManifestResource returns the signed manifest of an article.
func (s *Server) handleArticleManifestResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	if s.ports.Articles == nil || !strings.HasSuffix(uri, manifestSuffix) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	id := extractArticleID(strings.TrimSuffix(uri, manifestSuffix))
	if id == "" {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	m, err := s.ports.Articles.Manifest(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("building manifest: %w", err)
	}
	return jsonResult(uri, m)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractArticleID extracts the article ID from a URI like lwb://articles/{articleId}.
// IDs containing a slash are rejected.
func extractArticleID(uri string) string {
	const prefix = uriScheme + "articles/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
