package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var errServiceRequired = errors.New("a core service is required")

func wrapResponseWriter(w http.ResponseWriter, r *http.Request) middleware.WrapResponseWriter {
	return middleware.NewWrapResponseWriter(w, r.ProtoMajor)
}

/* handlers */

type uploadResponse struct {
	Status string             `json:"status"`
	Data   model.BlobMetadata `json:"data"`
}

// HandleUploadBlob ingests the multipart field "blob"
func (s *Server) HandleUploadBlob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc := s.params.Service
		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBlobSize()+multipartOverhead)

		file, _, err := r.FormFile("blob")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, r, status.ErrFileTooLarge)
				return
			}
			s.writeError(w, r, fmt.Errorf("a multipart field %q is required: %w", "blob", err))
			return
		}
		defer func() { _ = file.Close() }()

		meta, err := svc.IngestReader(r.Context(), file)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, uploadResponse{Status: statusOK, Data: meta})
	}
}

type applyRequest struct {
	Update *model.Update `json:"update"`
}

// HandleApplyUpdate applies a signed update
func (s *Server) HandleApplyUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, status.ErrInvalidUpdate.Withf("Invalid update: %v", err))
			return
		}
		if err := s.params.Service.ApplyUpdate(r.Context(), req.Update); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, okResponse{Status: statusOK})
	}
}

type updateIDResponse struct {
	UpdateID uint64 `json:"updateId"`
}

// HandleGetUpdateID returns the last sequence number applied for an address
func (s *Server) HandleGetUpdateID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := requiredParam(r, "address")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		id, err := s.params.Service.LastSequence(address)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, updateIDResponse{UpdateID: id})
	}
}

type articlesResponse struct {
	Status      string              `json:"status"`
	UserAddress string              `json:"userAddress"`
	Articles    []model.ArticleInfo `json:"articles"`
}

// HandleGetArticles lists the articles of a user
func (s *Server) HandleGetArticles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := requiredParam(r, "userAddress")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		articles, err := s.params.Service.ListArticles(r.Context(), address)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, articlesResponse{Status: statusOK, UserAddress: address, Articles: articles})
	}
}

type articleResponse struct {
	Status      string        `json:"status"`
	UserAddress string        `json:"userAddress"`
	Article     model.Article `json:"article"`
}

// HandleGetArticle returns an article of a user
func (s *Server) HandleGetArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address, err := requiredParam(r, "userAddress")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		slug, err := requiredParam(r, "slug")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		article, err := s.params.Service.GetArticle(r.Context(), address, slug)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, articleResponse{Status: statusOK, UserAddress: address, Article: article})
	}
}

func requiredParam(r *http.Request, name string) (string, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return "", fmt.Errorf("query parameter %q is required", name)
	}
	return value, nil
}

// InitRouter mounts all routes
func InitRouter(srv *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(srv.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/v1/fs", func(r chi.Router) {
		r.Post("/blob/upload", srv.HandleUploadBlob())
		r.Get("/blob/get-articles", srv.HandleGetArticles())
		r.Get("/blob/get-article", srv.HandleGetArticle())
		r.Post("/update/apply", srv.HandleApplyUpdate())
		r.Get("/user/get-update-id", srv.HandleGetUpdateID())
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(srv.params.Gatherer, promhttp.HandlerOpts{}))

	return r
}
