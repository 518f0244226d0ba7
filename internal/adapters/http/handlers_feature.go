package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

func (rt *Router) runFeature(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	sessionID := r.PathValue("session_id")
	feature := domain.FeatureID(r.PathValue("feature"))
	result, err := rt.runner.Run(r.Context(), sessionID, feature, req.Input)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) getFeatureResult(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	feature := domain.FeatureID(r.PathValue("feature"))
	result, err := rt.runner.Result(r.Context(), sessionID, feature)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) exportFeature(w http.ResponseWriter, r *http.Request) {
	format, err := domain.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, err)
		return
	}

	sessionID := r.PathValue("session_id")
	feature := domain.FeatureID(r.PathValue("feature"))
	artifact, err := rt.exporter.ExportFeature(r.Context(), sessionID, feature, format)
	if err != nil {
		respondError(w, err)
		return
	}
	writeArtifact(w, artifact)
}

func (rt *Router) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	artifact, err := rt.exporter.ExportWorkbook(r.Context(), r.PathValue("session_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeArtifact(w, artifact)
}

func writeArtifact(w http.ResponseWriter, artifact domain.Artifact) {
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}
