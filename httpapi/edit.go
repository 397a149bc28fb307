package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/iashutoshrawat/lumora/edit"
	"github.com/iashutoshrawat/lumora/metrics"
)

// handleEdit applies a natural-language chart edit. A regeneration
// whose output cannot be parsed returns 500 with the raw model output
// so the caller can inspect or retry.
func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req edit.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.CurrentConfig == nil || req.UserRequest == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing currentConfig or userRequest", "")
		return
	}

	start := time.Now()
	resp, err := h.editor.Edit(r.Context(), req)
	if err != nil {
		var parseErr *edit.ParseError
		if errors.As(err, &parseErr) {
			metrics.ObserveEdit(edit.MethodFullRegeneration, start, err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":     "Failed to parse modified configuration",
				"details":   parseErr.Err.Error(),
				"rawOutput": parseErr.RawOutput,
			})
			return
		}
		metrics.ObserveEdit("", start, err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to edit chart", err.Error())
		return
	}

	metrics.ObserveEdit(resp.EditMethod, start, nil)
	writeJSON(w, http.StatusOK, resp)
}
