package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one line per request and echoes a request id back to
// the caller, reusing the inbound one when present.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Info("request",
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Routes registers the JSON API on a new mux. Every route sees the session
// user, when there is one.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/categories", h.ListCategories)

	mux.HandleFunc("GET /api/session", h.GetSession)
	mux.HandleFunc("POST /api/session", h.SignIn)
	mux.HandleFunc("DELETE /api/session", h.RequireUser(h.SignOut))

	mux.HandleFunc("POST /api/users", h.SignUp)
	mux.HandleFunc("GET /api/users/{id}", h.ShowUser)

	mux.HandleFunc("GET /api/project_discovery", h.Discovery)
	mux.HandleFunc("GET /api/project_searches", h.Search)

	mux.HandleFunc("GET /api/projects", h.ListProjects)
	mux.HandleFunc("POST /api/projects", h.RequireUser(h.CreateProject))
	mux.HandleFunc("GET /api/projects/{id}", h.ShowProject)
	mux.HandleFunc("PATCH /api/projects/{id}", h.RequireUser(h.UpdateProject))
	mux.HandleFunc("DELETE /api/projects/{id}", h.RequireUser(h.DeleteProject))

	mux.HandleFunc("POST /api/projects/{id}/rewards", h.RequireUser(h.CreateReward))
	mux.HandleFunc("PATCH /api/projects/{id}/rewards/{rid}", h.RequireUser(h.UpdateReward))
	mux.HandleFunc("DELETE /api/projects/{id}/rewards/{rid}", h.RequireUser(h.DeleteReward))
	mux.HandleFunc("POST /api/projects/{id}/rewards/{rid}/backings", h.RequireUser(h.CreateBacking))

	return h.Authenticate(mux)
}
