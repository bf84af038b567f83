package web

import (
	"context"
	"net/http"
	"time"

	"github.com/fairjournal/journalfs/pkg/core"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	statusOK    = "ok"
	statusError = "error"

	// RequestIDHeader carries the id of a request, in requests and responses
	RequestIDHeader = "X-Request-Id"

	// extra room for multipart framing around an uploaded blob
	multipartOverhead = 1 << 20
)

// ServerParams holds the collaborators of the HTTP server
type ServerParams struct {
	Service  *core.Service
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
}

// Server handles the HTTP routes of journalfs
type Server struct {
	params ServerParams
	logger *zap.Logger
}

// NewServer builds a server for a core service
func NewServer(params ServerParams) (*Server, error) {
	if params.Service == nil {
		return nil, errServiceRequired
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if params.Gatherer == nil {
		params.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{params: params, logger: logger}, nil
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type okResponse struct {
	Status string `json:"status"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("cannot write response", zap.String("request_id", requestID(r.Context())), zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Info("request failed",
		zap.String("request_id", requestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Status: statusError, Message: err.Error()})
}

type ctxKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// withRequestID tags each request with a ksuid, unless the client provided an id
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = ksuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := wrapResponseWriter(w, r)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("request_id", requestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
