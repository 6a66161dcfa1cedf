package ingest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"siteproof/internal/domain"
	"siteproof/pkg/e"
)

type reportResponse struct {
	ID             string                  `json:"id"`
	Task           string                  `json:"task"`
	Locations      []domain.LocationStatus `json:"locations"`
	UserID         string                  `json:"user_id"`
	UserName       string                  `json:"user_name"`
	UserAvatarRef  string                  `json:"user_avatar_ref,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	CreationStatus domain.StatusKind       `json:"creation_status"`
}

type ingestResponse struct {
	Report reportResponse `json:"report"`
	Files  []string       `json:"files"`
}

func toIngestResponse(res *domain.IngestResult) ingestResponse {
	paths := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		paths = append(paths, f.RelativePath)
	}
	return ingestResponse{
		Report: reportResponse{
			ID:             res.Report.ID.String(),
			Task:           res.Report.Task,
			Locations:      res.Report.LocationStatuses,
			UserID:         res.Report.UserID,
			UserName:       res.Report.UserName,
			UserAvatarRef:  res.Report.UserAvatarRef,
			CreatedAt:      res.Report.CreatedAt,
			CreationStatus: res.Report.CreationStatus,
		},
		Files: paths,
	}
}

// failureBody surfaces the partial-write state: files flushed before the
// failure stay on storage and the caller reconciles with this list.
type failureBody struct {
	Error        string   `json:"error"`
	FilesWritten []string `json:"files_written,omitempty"`
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("ingest handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	var ingErr *domain.IngestError
	if errors.As(err, &ingErr) {
		written := make([]string, 0, len(ingErr.Written))
		for _, f := range ingErr.Written {
			written = append(written, f.RelativePath)
		}
		switch ingErr.Stage {
		case domain.StageValidate:
			h.writeJSON(w, http.StatusBadRequest, failureBody{Error: "invalid input"})
		case domain.StageProcess:
			h.writeJSON(w, http.StatusUnprocessableEntity, failureBody{
				Error:        "image processing failed",
				FilesWritten: written,
			})
		default:
			h.writeJSON(w, http.StatusInternalServerError, failureBody{
				Error:        "persistence failed",
				FilesWritten: written,
			})
		}
		return
	}

	switch {
	case errors.Is(err, e.ErrLocked):
		h.writeJSON(w, http.StatusConflict, failureBody{Error: "batch already in progress for this location"})
	case errors.Is(err, e.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, failureBody{Error: "invalid input"})
	default:
		h.writeJSON(w, http.StatusInternalServerError, failureBody{Error: "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
