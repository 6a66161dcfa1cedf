package reports

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"siteproof/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ReportService interface {
	ListByTask(ctx context.Context, task string) (*domain.TaskReports, error)
}

type Handler struct {
	logger  *slog.Logger
	Reports ReportService
}

func NewHandler(logger *slog.Logger, reports ReportService) *Handler {
	return &Handler{
		logger:  logger,
		Reports: reports,
	}
}

// ListByTask renders the task's reports the way the report table consumes
// them: a rollup badge for the whole task, a rollup per report, and styled
// per-location entries.
func (h *Handler) ListByTask(w http.ResponseWriter, r *http.Request) {
	task := chi.URLParam(r, "task")

	res, err := h.Reports.ListByTask(r.Context(), task)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toTaskReportsResponse(res))
}
