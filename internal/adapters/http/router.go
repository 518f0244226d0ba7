package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/legal-doc-assistant/internal/config"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
	"github.com/kirillkom/legal-doc-assistant/internal/observability/metrics"
)

const serviceName = "legal-doc-assistant"

type Router struct {
	cfg            config.Config
	sessions       ports.SessionManager
	loader         ports.DocumentLoader
	runner         ports.FeatureRunner
	exporter       ports.InsightExporter
	httpMetrics    *metrics.HTTPServerMetrics
	maxUploadBytes int64
}

func NewRouter(
	cfg config.Config,
	sessions ports.SessionManager,
	loader ports.DocumentLoader,
	runner ports.FeatureRunner,
	exporter ports.InsightExporter,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	maxUploadBytes := int64(cfg.MaxUploadMB) << 20
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &Router{
		cfg:            cfg,
		sessions:       sessions,
		loader:         loader,
		runner:         runner,
		exporter:       exporter,
		httpMetrics:    httpMetrics,
		maxUploadBytes: maxUploadBytes,
	}
}

type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// routes is the single source of truth for the API surface. The OpenAPI
// contract test compares this table against api/openapi.yaml.
func (rt *Router) routes() []route {
	return []route{
		{http.MethodGet, "/healthz", rt.healthz},
		{http.MethodGet, "/v1/features", rt.listFeatures},
		{http.MethodPost, "/v1/sessions", rt.createSession},
		{http.MethodGet, "/v1/sessions/{session_id}", rt.getSession},
		{http.MethodDelete, "/v1/sessions/{session_id}", rt.deleteSession},
		{http.MethodPut, "/v1/sessions/{session_id}/persona", rt.setPersona},
		{http.MethodPut, "/v1/sessions/{session_id}/inputs/{feature}", rt.setFeatureInput},
		{http.MethodPost, "/v1/sessions/{session_id}/document", rt.loadDocument},
		{http.MethodDelete, "/v1/sessions/{session_id}/document", rt.clearDocument},
		{http.MethodGet, "/v1/sessions/{session_id}/clauses", rt.listClauses},
		{http.MethodPost, "/v1/sessions/{session_id}/features/{feature}/run", rt.runFeature},
		{http.MethodGet, "/v1/sessions/{session_id}/features/{feature}", rt.getFeatureResult},
		{http.MethodGet, "/v1/sessions/{session_id}/features/{feature}/export", rt.exportFeature},
		{http.MethodGet, "/v1/sessions/{session_id}/export/workbook", rt.exportWorkbook},
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, rte := range rt.routes() {
		mux.HandleFunc(rte.method+" "+rte.pattern, rte.handler)
	}
	if rt.httpMetrics != nil {
		mux.Handle("GET /metrics", rt.httpMetrics.Handler())
	}

	var handler http.Handler = mux
	if rt.cfg.APIMaxConcurrent > 0 {
		queueTimeout := time.Duration(rt.cfg.APIQueueTimeoutMS) * time.Millisecond
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, queueTimeout)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rate.Limit(rt.cfg.APIRateLimitRPS), rt.cfg.APIRateLimitBurst)
	}
	if rt.httpMetrics != nil {
		handler = rt.httpMetrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
