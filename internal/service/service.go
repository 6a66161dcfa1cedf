package service

import (
	"context"
	"siteproof/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type IngestService interface {
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
}

type ReportService interface {
	ListByTask(ctx context.Context, task string) (*domain.TaskReports, error)
}

// ReportRepository is the opaque append-only store for reports.
type ReportRepository interface {
	Insert(ctx context.Context, report *domain.Report) error
	ListByTask(ctx context.Context, task string) ([]*domain.Report, error)
}

// BatchLock serializes batches per (task, location) pair.
type BatchLock interface {
	Acquire(ctx context.Context, task, locationID string) error
	Release(ctx context.Context, task, locationID string) error
}

// FileStore is the filesystem collaborator: deterministic paths plus plain
// create/write semantics, nothing more.
type FileStore interface {
	AllocatePath(task, locationID string, seq int) string
	EnsureDirectory(task, locationID string) error
	Write(relPath string, data []byte) error
}

type Annotator interface {
	Annotate(data []byte, lines []string) ([]byte, error)
}

type Service struct {
	IngestService IngestService
	ReportService ReportService
}

func NewService(
	ingestService IngestService,
	reportService ReportService,
) *Service {
	return &Service{
		IngestService: ingestService,
		ReportService: reportService,
	}
}

func (s *Service) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	return s.IngestService.Ingest(ctx, req)
}

func (s *Service) ListByTask(ctx context.Context, task string) (*domain.TaskReports, error) {
	return s.ReportService.ListByTask(ctx, task)
}
