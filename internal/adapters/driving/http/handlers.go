package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/lwb-ingest/internal/logger"
	"github.com/custodia-labs/lwb-ingest/internal/metrics"
)

// multipartOverhead is the allowance for form fields and boundaries on top of the file.
const multipartOverhead = 1 << 20

// ManifestListResponse is the public manifest listing.
type ManifestListResponse struct {
	Items []domain.ManifestSummary `json:"items"`
}

// VerifyResponse reports whether stored content matches its signature.
type VerifyResponse struct {
	ID      string `json:"id"`
	Trusted bool   `json:"trusted"`
	Reason  string `json:"reason,omitempty"`
}

// upload is a parsed multipart upload.
type upload struct {
	source driven.Source
	opts   domain.ParseOptions
	form   map[string]string
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePublish ingests an upload and stores it as the next article version.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if s.articles == nil {
		writeError(w, http.StatusServiceUnavailable, "publishing disabled: manifest secret not configured")
		return
	}

	up, ok := s.readUpload(w, r, "title", "id", "slug")
	if !ok {
		return
	}

	start := time.Now()
	result, err := s.articles.Publish(r.Context(), driving.PublishRequest{
		ID:      up.form["id"],
		Title:   up.form["title"],
		Slug:    up.form["slug"],
		Source:  up.source,
		Options: up.opts,
	})
	s.observeIngest(err, time.Since(start))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.metrics.ArticlesPublished.Inc()
	logger.Info("published %s v%d", result.Article.ID, result.Article.Version)
	writeJSON(w, http.StatusCreated, result)
}

// handleParse ingests an upload without storing it.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	doc, err := s.ingestion.Parse(r.Context(), up.source, up.opts)
	s.observeIngest(err, time.Since(start))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleListManifests(w http.ResponseWriter, r *http.Request) {
	if s.articles == nil {
		writeJSON(w, http.StatusOK, ManifestListResponse{Items: []domain.ManifestSummary{}})
		return
	}

	items, err := s.articles.ListManifests(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ManifestListResponse{Items: items})
}

// handleGetArticle looks the article up by id, then by slug.
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	if !s.requireArticles(w) {
		return
	}
	ref := chi.URLParam(r, "id")

	article, err := s.articles.Get(r.Context(), ref)
	if errors.Is(err, domain.ErrNotFound) {
		article, err = s.getBySlug(r, ref)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (s *Server) getBySlug(r *http.Request, slug string) (*domain.StoredArticle, error) {
	items, err := s.articles.ListManifests(r.Context())
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Slug == slug {
			return s.articles.Get(r.Context(), item.ID)
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Server) handleGetManifest(w http.ResponseWriter, r *http.Request) {
	if !s.requireArticles(w) {
		return
	}
	m, err := s.articles.Manifest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if !s.requireArticles(w) {
		return
	}
	id := chi.URLParam(r, "id")

	err := s.articles.Verify(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, VerifyResponse{ID: id, Trusted: true})
	case errors.Is(err, domain.ErrUntrustedContent):
		logger.Warn("article %s failed verification: %v", id, err)
		writeJSON(w, http.StatusOK, VerifyResponse{ID: id, Reason: err.Error()})
	default:
		writeServiceError(w, err)
	}
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if !s.requireArticles(w) {
		return
	}
	if err := s.articles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readUpload parses the multipart form, the "file" part and the named text fields.
// It writes the error response itself and reports whether the caller may continue.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, fields ...string) (*upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, false
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return nil, false
	}
	defer file.Close()

	if header.Size > s.cfg.MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return nil, false
	}
	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload")
		return nil, false
	}

	opts := s.cfg.Defaults
	if raw := r.FormValue("html"); raw != "" {
		withHTML, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "html must be a boolean")
			return nil, false
		}
		opts.WithHTML = withHTML
	}

	form := make(map[string]string, len(fields))
	for _, f := range fields {
		form[f] = r.FormValue(f)
	}

	return &upload{
		source: driven.BytesSource{Filename: header.Filename, Content: content},
		opts:   opts,
		form:   form,
	}, true
}

func (s *Server) requireArticles(w http.ResponseWriter) bool {
	if s.articles == nil {
		writeError(w, http.StatusNotFound, "no articles: manifest secret not configured")
		return false
	}
	return true
}

func (s *Server) observeIngest(err error, elapsed time.Duration) {
	result := metrics.ResultOK
	switch {
	case err == nil:
	case statusFor(err) < http.StatusInternalServerError:
		result = metrics.ResultInvalid
	default:
		result = metrics.ResultError
	}
	s.metrics.ObserveIngest(result, elapsed.Seconds())
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidDocument), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrUntrustedContent), errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMissingSecret):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError hides internal error text behind a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
