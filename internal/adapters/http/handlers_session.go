package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

func (rt *Router) listFeatures(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"features": domain.Catalog()})
}

func (rt *Router) createSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := rt.sessions.Create(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		ID        string    `json:"id"`
		Persona   string    `json:"persona"`
		CreatedAt time.Time `json:"created_at"`
	}{snapshot.ID, snapshot.Persona, snapshot.CreatedAt})
}

func (rt *Router) getSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := rt.sessions.Get(r.Context(), r.PathValue("session_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (rt *Router) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := rt.sessions.Delete(r.Context(), r.PathValue("session_id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) setPersona(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Persona string `json:"persona"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	sessionID := r.PathValue("session_id")
	if _, err := rt.sessions.SetPersona(r.Context(), sessionID, req.Persona); err != nil {
		respondError(w, err)
		return
	}

	snapshot, err := rt.sessions.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (rt *Router) setFeatureInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	sessionID := r.PathValue("session_id")
	feature := domain.FeatureID(r.PathValue("feature"))
	if err := rt.sessions.SetFeatureInput(r.Context(), sessionID, feature, req.Text); err != nil {
		respondError(w, err)
		return
	}

	snapshot, err := rt.sessions.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// decodeJSONBody tolerates an empty body so optional request payloads stay
// optional.
func decodeJSONBody(r *http.Request, target any) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
