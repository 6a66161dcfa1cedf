package service

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"siteproof/internal/domain"
	"siteproof/internal/exif"
	"siteproof/internal/geo"
	"siteproof/pkg/e"
	"siteproof/pkg/validator"

	"github.com/google/uuid"
)

type ingestService struct {
	reports   ReportRepository
	files     FileStore
	annotator Annotator
	locks     BatchLock
	logger    *slog.Logger
}

func NewIngestService(
	reports ReportRepository,
	files FileStore,
	annotator Annotator,
	locks BatchLock,
	logger *slog.Logger,
) IngestService {
	return &ingestService{
		reports:   reports,
		files:     files,
		annotator: annotator,
		locks:     locks,
		logger:    logger,
	}
}

// Ingest drives one batch through extract -> format -> annotate -> store,
// strictly in order (sequence numbers are batch-local), then persists the
// report. It fails fast on the first unprocessable image; files already
// written stay on disk and ride along inside the returned IngestError.
func (s *ingestService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	const op = "service.Ingest"

	if err := validator.ValidateStruct(&req); err != nil {
		s.logger.Warn("ingest rejected",
			slog.String("task", req.Task),
			slog.String("location", req.LocationID),
			slog.Any("error", err),
		)
		return nil, &domain.IngestError{
			Stage:      domain.StageValidate,
			Task:       req.Task,
			LocationID: req.LocationID,
			Err:        e.Wrap(op, e.ErrInvalidInput),
		}
	}

	if err := s.locks.Acquire(ctx, req.Task, req.LocationID); err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		// Release must go through even when the request context is gone.
		if err := s.locks.Release(context.Background(), req.Task, req.LocationID); err != nil {
			s.logger.Error("ingest lock release failed",
				slog.String("task", req.Task),
				slog.String("location", req.LocationID),
				slog.Any("error", err),
			)
		}
	}()

	if err := s.files.EnsureDirectory(req.Task, req.LocationID); err != nil {
		return nil, s.processErr(req, nil, e.Wrap(op, err))
	}

	written := make([]domain.StoredFileRef, 0, len(req.Images))
	for i, img := range req.Images {
		// Cancellation stops before the next write; files already on disk
		// are never retracted.
		if err := ctx.Err(); err != nil {
			return nil, s.processErr(req, written, e.WrapError(ctx, op, err))
		}

		// Metadata decode failures never fail the batch: every error maps to
		// the fallback metadata here and only here.
		meta, err := exif.Extract(img)
		if err != nil {
			s.logger.Debug("metadata extraction degraded to fallback",
				slog.Int("index", i),
				slog.Any("error", err),
			)
			meta = domain.FallbackMetadata()
		}

		annotated, err := s.annotator.Annotate(img, captionLines(meta, req))
		if err != nil {
			return nil, s.processErr(req, written, e.Wrap(op, err))
		}

		seq := i + 1
		relPath := s.files.AllocatePath(req.Task, req.LocationID, seq)
		if err := s.files.Write(relPath, annotated); err != nil {
			return nil, s.processErr(req, written, e.Wrap(op, err))
		}

		written = append(written, domain.StoredFileRef{
			Task:           req.Task,
			LocationID:     req.LocationID,
			SequenceNumber: seq,
			RelativePath:   relPath,
		})
	}

	report := &domain.Report{
		ID:   uuid.New(),
		Task: req.Task,
		LocationStatuses: []domain.LocationStatus{
			{LocationID: req.LocationID, Status: domain.StatusPending},
		},
		UserID:         req.Author.ID,
		UserName:       req.Author.Name,
		UserAvatarRef:  req.Author.AvatarRef,
		CreatedAt:      time.Now().UTC(),
		CreationStatus: domain.StatusPending,
	}

	if err := s.reports.Insert(ctx, report); err != nil {
		// No cleanup of written files: the caller gets the list and decides.
		return nil, &domain.IngestError{
			Stage:      domain.StagePersist,
			Task:       req.Task,
			LocationID: req.LocationID,
			Written:    written,
			Err:        e.Wrap(op, err),
		}
	}

	s.logger.Info("batch ingested",
		slog.String("task", req.Task),
		slog.String("location", req.LocationID),
		slog.Int("files", len(written)),
		slog.String("report_id", report.ID.String()),
	)

	return &domain.IngestResult{Report: report, Files: written}, nil
}

func (s *ingestService) processErr(req domain.IngestRequest, written []domain.StoredFileRef, err error) error {
	return &domain.IngestError{
		Stage:      domain.StageProcess,
		Task:       req.Task,
		LocationID: req.LocationID,
		Written:    written,
		Err:        err,
	}
}

// captionLines builds the two caption rows burned into every photo.
func captionLines(meta domain.CaptureMetadata, req domain.IngestRequest) []string {
	return []string{
		fmt.Sprintf("%s | Task: %s | BS: %s", meta.Timestamp, req.Task, req.LocationID),
		fmt.Sprintf("Location: %s | Author: %s", geo.FormatCoordinate(meta.Coordinate), req.Author.Name),
	}
}
