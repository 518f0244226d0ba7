package httpadapter

import (
	"io"
	"net/http"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

func (rt *Router) loadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	declaredType, err := domain.DocumentTypeFromFilename(fileHeader.Filename)
	if err != nil {
		respondError(w, err)
		return
	}
	mode, err := domain.ParseExtractionMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read upload: " + err.Error()})
		return
	}

	document, err := rt.loader.Load(r.Context(), r.PathValue("session_id"), domain.Upload{
		SourceID:     fileHeader.Filename,
		Data:         data,
		DeclaredType: declaredType,
		Mode:         mode,
		Force:        r.URL.Query().Get("force") == "true",
	})
	if err != nil {
		respondError(w, err)
		return
	}

	// Extraction failures come back as status=failed in the body, not as an
	// HTTP error. The session still tracks the failed source.
	writeJSON(w, http.StatusOK, document)
}

func (rt *Router) clearDocument(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	if _, err := rt.loader.Clear(r.Context(), sessionID); err != nil {
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

func (rt *Router) listClauses(w http.ResponseWriter, r *http.Request) {
	snapshot, err := rt.sessions.Get(r.Context(), r.PathValue("session_id"))
	if err != nil {
		respondError(w, err)
		return
	}

	clauses := domain.ClauseCandidates(snapshot.Document.Text)
	if clauses == nil {
		clauses = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"clauses": clauses})
}
