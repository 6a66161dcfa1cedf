package ingest

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"siteproof/internal/domain"
)

// Batches are bounded by the multipart memory budget, not a file count.
const maxMultipartMemory = 64 << 20

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type IngestService interface {
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
}

type Handler struct {
	logger   *slog.Logger
	Ingestor IngestService
}

func NewHandler(logger *slog.Logger, ingestor IngestService) *Handler {
	return &Handler{
		logger:   logger,
		Ingestor: ingestor,
	}
}

// IngestPhotos accepts a multipart batch for one (task, location) pair.
// Photos arrive under form keys photo, photo1, photo2, ...; author fields as
// plain form values (identity itself is resolved upstream of this service).
func (h *Handler) IngestPhotos(w http.ResponseWriter, r *http.Request) {
	task := chi.URLParam(r, "task")
	locationID := chi.URLParam(r, "locationID")

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart payload"})
		return
	}

	images, err := collectPhotos(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable photo part"})
		return
	}

	req := domain.IngestRequest{
		Task:       task,
		LocationID: locationID,
		Author: domain.Author{
			ID:        r.FormValue("author_id"),
			Name:      r.FormValue("author_name"),
			AvatarRef: r.FormValue("author_avatar"),
		},
		Images: images,
	}

	res, err := h.Ingestor.Ingest(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toIngestResponse(res))
}

// collectPhotos gathers photo* parts in upload order. Form file maps iterate
// randomly, and the batch order decides sequence numbers, so keys are ordered
// by their numeric suffix: photo2 comes before photo10, which a plain string
// sort would get wrong.
func collectPhotos(r *http.Request) ([][]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	keys := make([]string, 0, len(r.MultipartForm.File))
	for key := range r.MultipartForm.File {
		if strings.HasPrefix(key, "photo") {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iNum := photoIndex(keys[i])
		nj, jNum := photoIndex(keys[j])
		if iNum && jNum {
			return ni < nj
		}
		if iNum != jNum {
			return iNum
		}
		return keys[i] < keys[j]
	})

	var images [][]byte
	for _, key := range keys {
		for _, fh := range r.MultipartForm.File[key] {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return nil, err
			}
			images = append(images, data)
		}
	}
	return images, nil
}

// photoIndex parses the numeric suffix of a photo form key. A bare "photo"
// counts as index 0; non-numeric suffixes fall back to string order.
func photoIndex(key string) (int, bool) {
	suffix := strings.TrimPrefix(key, "photo")
	if suffix == "" {
		return 0, true
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}
