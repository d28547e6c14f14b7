package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JoeShih716/go-platform-automation/internal/app/worker/service"
	"github.com/JoeShih716/go-platform-automation/internal/automation/session"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	registry "github.com/JoeShih716/go-platform-automation/internal/infrastructure/service_discovery/redis"
)

// HealthCheck 依賴的健康檢查 (redis、database...)
type HealthCheck func(ctx context.Context) error

// JobReader 查詢工作與佇列深度
type JobReader interface {
	Get(ctx context.Context, jobID string) (*domain.Job, error)
	Depth(ctx context.Context) (map[string]int64, error)
}

// RecordReader 查詢工作對應的紀錄狀態
type RecordReader interface {
	FindByJobID(ctx context.Context, jobID string) (*domain.RecordStatus, error)
}

// ReplicaLister 列出活躍的 worker 副本
type ReplicaLister interface {
	List(ctx context.Context) ([]registry.WorkerInfo, error)
}

// Deps 維運 API 需要的元件
type Deps struct {
	Checks    map[string]HealthCheck
	Platforms func() []domain.Platform
	Sessions  func() []session.SessionInfo
	Stats     func() service.Stats
	Jobs      JobReader
	Records   RecordReader
	Replicas  ReplicaLister
	Logger    *slog.Logger
}

// HTTPHandler worker 的維運 HTTP 介面 (唯讀)
type HTTPHandler struct {
	deps Deps
}

// NewHTTPHandler 建立維運 Handler
func NewHTTPHandler(deps Deps) *HTTPHandler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &HTTPHandler{deps: deps}
}

// Router 註冊所有路由
func (h *HTTPHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", h.health)
	r.Get("/platforms", h.platforms)
	r.Get("/sessions", h.sessions)
	r.Get("/stats", h.stats)
	r.Get("/workers", h.workers)
	r.Get("/queue", h.queueDepth)
	r.Get("/jobs/{id}", h.job)
	return r
}

func (h *HTTPHandler) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(h.deps.Checks))
	for name, check := range h.deps.Checks {
		if err := check(r.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	writeJSON(w, status, map[string]any{"checks": checks})
}

func (h *HTTPHandler) platforms(w http.ResponseWriter, _ *http.Request) {
	var out []domain.Platform
	if h.deps.Platforms != nil {
		out = h.deps.Platforms()
	}
	writeJSON(w, http.StatusOK, map[string]any{"platforms": out})
}

func (h *HTTPHandler) sessions(w http.ResponseWriter, _ *http.Request) {
	out := []session.SessionInfo{}
	if h.deps.Sessions != nil {
		out = append(out, h.deps.Sessions()...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (h *HTTPHandler) stats(w http.ResponseWriter, _ *http.Request) {
	var stats service.Stats
	if h.deps.Stats != nil {
		stats = h.deps.Stats()
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) workers(w http.ResponseWriter, r *http.Request) {
	out := []registry.WorkerInfo{}
	if h.deps.Replicas != nil {
		list, err := h.deps.Replicas.List(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		out = append(out, list...)
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": out})
}

func (h *HTTPHandler) queueDepth(w http.ResponseWriter, r *http.Request) {
	depth, err := h.deps.Jobs.Depth(r.Context())
	if err != nil {
		h.deps.Logger.Error("read queue depth failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, depth)
}

type jobResponse struct {
	Job    *domain.Job          `json:"job"`
	Record *domain.RecordStatus `json:"record,omitempty"`
}

func (h *HTTPHandler) job(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := h.deps.Jobs.Get(r.Context(), id)
	if errors.Is(err, domain.ErrJobNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	resp := jobResponse{Job: job}
	if h.deps.Records != nil {
		rec, err := h.deps.Records.FindByJobID(r.Context(), id)
		switch {
		case err == nil:
			resp.Record = rec
		case errors.Is(err, domain.ErrRecordNotFound):
		default:
			h.deps.Logger.Warn("read record failed", "job_id", id, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
