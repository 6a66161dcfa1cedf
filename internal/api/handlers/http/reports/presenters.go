package reports

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"siteproof/internal/domain"
	"siteproof/pkg/e"
)

type statusBadge struct {
	Status domain.StatusKind `json:"status"`
	Style  string            `json:"style"`
}

type locationEntry struct {
	LocationID string            `json:"location_id"`
	Status     domain.StatusKind `json:"status"`
	Style      string            `json:"style"`
}

type reportEntry struct {
	ID             string            `json:"id"`
	Rollup         statusBadge       `json:"rollup"`
	Locations      []locationEntry   `json:"locations"`
	UserID         string            `json:"user_id"`
	UserName       string            `json:"user_name"`
	UserAvatarRef  string            `json:"user_avatar_ref,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	CreationStatus domain.StatusKind `json:"creation_status"`
}

type taskReportsResponse struct {
	Task    string        `json:"task"`
	Rollup  statusBadge   `json:"rollup"`
	Reports []reportEntry `json:"reports"`
}

func badge(s domain.StatusKind) statusBadge {
	return statusBadge{Status: s, Style: domain.BadgeStyle(s)}
}

func toTaskReportsResponse(res *domain.TaskReports) taskReportsResponse {
	entries := make([]reportEntry, 0, len(res.Reports))
	for _, r := range res.Reports {
		locations := make([]locationEntry, 0, len(r.LocationStatuses))
		for _, ls := range r.LocationStatuses {
			locations = append(locations, locationEntry{
				LocationID: ls.LocationID,
				Status:     ls.Status,
				Style:      domain.BadgeStyle(ls.Status),
			})
		}
		entries = append(entries, reportEntry{
			ID:             r.ID.String(),
			Rollup:         badge(domain.Rollup(r.LocationStatuses)),
			Locations:      locations,
			UserID:         r.UserID,
			UserName:       r.UserName,
			UserAvatarRef:  r.UserAvatarRef,
			CreatedAt:      r.CreatedAt,
			CreationStatus: r.CreationStatus,
		})
	}
	return taskReportsResponse{
		Task:    res.Task,
		Rollup:  badge(res.RollupStatus),
		Reports: entries,
	}
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("reports handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	switch {
	case errors.Is(err, e.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, e.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid input"})
	default:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
