package service

import (
	"context"

	"log/slog"

	"siteproof/internal/domain"
	"siteproof/pkg/e"
)

type reportService struct {
	reports ReportRepository
	logger  *slog.Logger
}

func NewReportService(reports ReportRepository, logger *slog.Logger) ReportService {
	return &reportService{reports: reports, logger: logger}
}

// ListByTask loads every report for a task and computes the rollup status on
// demand over all location statuses currently loaded, in stored order.
func (s *reportService) ListByTask(ctx context.Context, task string) (*domain.TaskReports, error) {
	const op = "service.ListByTask"

	if task == "" {
		return nil, e.Wrap(op, e.ErrInvalidInput)
	}

	reports, err := s.reports.ListByTask(ctx, task)
	if err != nil {
		s.logger.Error("list reports failed",
			slog.String("task", task),
			slog.Any("error", err),
		)
		return nil, err
	}

	combined := make([]domain.LocationStatus, 0, len(reports))
	for _, r := range reports {
		combined = append(combined, r.LocationStatuses...)
	}

	return &domain.TaskReports{
		Task:         task,
		Reports:      reports,
		RollupStatus: domain.Rollup(combined),
	}, nil
}
