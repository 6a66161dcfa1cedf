package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"

	"siteproof/internal/domain"
	"siteproof/internal/service"
	mock_service "siteproof/internal/service/mocks"
	"siteproof/pkg/e"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRequest(images ...[]byte) domain.IngestRequest {
	return domain.IngestRequest{
		Task:       "siteA",
		LocationID: "bs1",
		Author: domain.Author{
			ID:        "u-42",
			Name:      "R. Painter",
			AvatarRef: "avatars/u-42.png",
		},
		Images: images,
	}
}

func TestIngest_HappyPath(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mock_service.NewMockReportRepository(ctrl)
	files := mock_service.NewMockFileStore(ctrl)
	annotator := mock_service.NewMockAnnotator(ctrl)
	locks := mock_service.NewMockBatchLock(ctrl)

	req := testRequest([]byte("img-one"), []byte("img-two"))

	locks.EXPECT().Acquire(gomock.Any(), "siteA", "bs1").Return(nil)
	locks.EXPECT().Release(gomock.Any(), "siteA", "bs1").Return(nil)
	files.EXPECT().EnsureDirectory("siteA", "bs1").Return(nil)

	annotator.EXPECT().Annotate(gomock.Any(), gomock.Any()).Return([]byte("annotated"), nil).Times(2)

	for seq := 1; seq <= 2; seq++ {
		rel := fmt.Sprintf("uploads/siteA/bs1/bs1-%03d.jpg", seq)
		files.EXPECT().AllocatePath("siteA", "bs1", seq).Return(rel)
		files.EXPECT().Write(rel, []byte("annotated")).Return(nil)
	}

	var persisted *domain.Report
	reports.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *domain.Report) error {
			persisted = r
			return nil
		})

	svc := service.NewIngestService(reports, files, annotator, locks, testLogger())

	res, err := svc.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(res.Files) != 2 {
		t.Fatalf("files: got=%d want=2", len(res.Files))
	}
	for i, f := range res.Files {
		if f.SequenceNumber != i+1 {
			t.Fatalf("sequence: got=%d want=%d", f.SequenceNumber, i+1)
		}
	}

	if persisted == nil {
		t.Fatalf("report not persisted")
	}
	if persisted != res.Report {
		t.Fatalf("returned report differs from persisted one")
	}
	if persisted.CreationStatus != domain.StatusPending {
		t.Fatalf("creation status: got=%q want=%q", persisted.CreationStatus, domain.StatusPending)
	}
	wantLS := []domain.LocationStatus{{LocationID: "bs1", Status: domain.StatusPending}}
	if len(persisted.LocationStatuses) != 1 || persisted.LocationStatuses[0] != wantLS[0] {
		t.Fatalf("location statuses: got=%+v want=%+v", persisted.LocationStatuses, wantLS)
	}
	if persisted.UserID != "u-42" || persisted.UserName != "R. Painter" {
		t.Fatalf("author not carried over: %+v", persisted)
	}
}

func TestIngest_RejectsEmptyBatchBeforeSideEffects(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECTs: any touched collaborator fails the test.
	reports := mock_service.NewMockReportRepository(ctrl)
	files := mock_service.NewMockFileStore(ctrl)
	annotator := mock_service.NewMockAnnotator(ctrl)
	locks := mock_service.NewMockBatchLock(ctrl)

	svc := service.NewIngestService(reports, files, annotator, locks, testLogger())

	tests := []struct {
		name string
		req  domain.IngestRequest
	}{
		{"empty image set", testRequest()},
		{"missing task", func() domain.IngestRequest {
			r := testRequest([]byte("img"))
			r.Task = ""
			return r
		}()},
		{"missing location", func() domain.IngestRequest {
			r := testRequest([]byte("img"))
			r.LocationID = ""
			return r
		}()},
		{"path-breaking location", func() domain.IngestRequest {
			r := testRequest([]byte("img"))
			r.LocationID = "../bs1"
			return r
		}()},
	}

	for _, tt := range tests {
		_, err := svc.Ingest(context.Background(), tt.req)
		if err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
		var ingErr *domain.IngestError
		if !errors.As(err, &ingErr) {
			t.Fatalf("%s: expected IngestError, got %v", tt.name, err)
		}
		if ingErr.Stage != domain.StageValidate {
			t.Fatalf("%s: stage got=%q want=%q", tt.name, ingErr.Stage, domain.StageValidate)
		}
		if !errors.Is(err, e.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tt.name, err)
		}
	}
}

func TestIngest_FailsFastAndKeepsEarlierFiles(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mock_service.NewMockReportRepository(ctrl)
	files := mock_service.NewMockFileStore(ctrl)
	annotator := mock_service.NewMockAnnotator(ctrl)
	locks := mock_service.NewMockBatchLock(ctrl)

	req := testRequest([]byte("img-one"), []byte("img-two"), []byte("img-three"))

	locks.EXPECT().Acquire(gomock.Any(), "siteA", "bs1").Return(nil)
	locks.EXPECT().Release(gomock.Any(), "siteA", "bs1").Return(nil)
	files.EXPECT().EnsureDirectory("siteA", "bs1").Return(nil)

	gomock.InOrder(
		annotator.EXPECT().Annotate(gomock.Any(), gomock.Any()).Return([]byte("annotated"), nil),
		annotator.EXPECT().Annotate(gomock.Any(), gomock.Any()).Return(nil, e.ErrImageDecode),
	)
	files.EXPECT().AllocatePath("siteA", "bs1", 1).Return("uploads/siteA/bs1/bs1-001.jpg")
	files.EXPECT().Write("uploads/siteA/bs1/bs1-001.jpg", []byte("annotated")).Return(nil)

	svc := service.NewIngestService(reports, files, annotator, locks, testLogger())

	_, err := svc.Ingest(context.Background(), req)
	if err == nil {
		t.Fatalf("expected error")
	}

	var ingErr *domain.IngestError
	if !errors.As(err, &ingErr) {
		t.Fatalf("expected IngestError, got %v", err)
	}
	if ingErr.Stage != domain.StageProcess {
		t.Fatalf("stage: got=%q want=%q", ingErr.Stage, domain.StageProcess)
	}
	if !errors.Is(err, e.ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
	if len(ingErr.Written) != 1 || ingErr.Written[0].RelativePath != "uploads/siteA/bs1/bs1-001.jpg" {
		t.Fatalf("written files: got=%+v", ingErr.Written)
	}
}

func TestIngest_PersistFailureKeepsFiles(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mock_service.NewMockReportRepository(ctrl)
	files := mock_service.NewMockFileStore(ctrl)
	annotator := mock_service.NewMockAnnotator(ctrl)
	locks := mock_service.NewMockBatchLock(ctrl)

	req := testRequest([]byte("img-one"))

	locks.EXPECT().Acquire(gomock.Any(), "siteA", "bs1").Return(nil)
	locks.EXPECT().Release(gomock.Any(), "siteA", "bs1").Return(nil)
	files.EXPECT().EnsureDirectory("siteA", "bs1").Return(nil)
	annotator.EXPECT().Annotate(gomock.Any(), gomock.Any()).Return([]byte("annotated"), nil)
	files.EXPECT().AllocatePath("siteA", "bs1", 1).Return("uploads/siteA/bs1/bs1-001.jpg")
	files.EXPECT().Write("uploads/siteA/bs1/bs1-001.jpg", []byte("annotated")).Return(nil)

	reports.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	svc := service.NewIngestService(reports, files, annotator, locks, testLogger())

	_, err := svc.Ingest(context.Background(), req)
	if err == nil {
		t.Fatalf("expected error")
	}

	var ingErr *domain.IngestError
	if !errors.As(err, &ingErr) {
		t.Fatalf("expected IngestError, got %v", err)
	}
	if ingErr.Stage != domain.StagePersist {
		t.Fatalf("stage: got=%q want=%q", ingErr.Stage, domain.StagePersist)
	}
	if len(ingErr.Written) != 1 {
		t.Fatalf("written files: got=%d want=1", len(ingErr.Written))
	}
}

func TestIngest_HeldLockRejectsBatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mock_service.NewMockReportRepository(ctrl)
	files := mock_service.NewMockFileStore(ctrl)
	annotator := mock_service.NewMockAnnotator(ctrl)
	locks := mock_service.NewMockBatchLock(ctrl)

	req := testRequest([]byte("img-one"))

	locks.EXPECT().Acquire(gomock.Any(), "siteA", "bs1").Return(e.ErrLocked)

	svc := service.NewIngestService(reports, files, annotator, locks, testLogger())

	_, err := svc.Ingest(context.Background(), req)
	if !errors.Is(err, e.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestIngest_CancelledContextStopsBeforeNextWrite(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mock_service.NewMockReportRepository(ctrl)
	files := mock_service.NewMockFileStore(ctrl)
	annotator := mock_service.NewMockAnnotator(ctrl)
	locks := mock_service.NewMockBatchLock(ctrl)

	req := testRequest([]byte("img-one"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	locks.EXPECT().Acquire(gomock.Any(), "siteA", "bs1").Return(nil)
	locks.EXPECT().Release(gomock.Any(), "siteA", "bs1").Return(nil)
	files.EXPECT().EnsureDirectory("siteA", "bs1").Return(nil)

	svc := service.NewIngestService(reports, files, annotator, locks, testLogger())

	_, err := svc.Ingest(ctx, req)
	if err == nil {
		t.Fatalf("expected error")
	}
	var ingErr *domain.IngestError
	if !errors.As(err, &ingErr) {
		t.Fatalf("expected IngestError, got %v", err)
	}
	if ingErr.Stage != domain.StageProcess {
		t.Fatalf("stage: got=%q want=%q", ingErr.Stage, domain.StageProcess)
	}
	if !errors.Is(err, e.ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if len(ingErr.Written) != 0 {
		t.Fatalf("no files should be written, got %+v", ingErr.Written)
	}
}
