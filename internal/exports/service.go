package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"saarthi_backend/internal/adapters/storage"
	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"
)

const csvContentType = "text/csv"

// ArchiveResult describes an uploaded export.
type ArchiveResult struct {
	Entity    string    `json:"entity"`
	Rows      int       `json:"rows"`
	FileKey   string    `json:"file_key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service renders entity tables as CSV and archives them in object storage.
type Service struct {
	repo   *Repository
	store  storage.ObjectStore
	bucket string
	log    *logger.Logger
	now    func() time.Time
}

// NewService creates an export service. A nil store disables archiving.
func NewService(repo *Repository, store storage.ObjectStore, bucket string, log *logger.Logger) *Service {
	return &Service{repo: repo, store: store, bucket: bucket, log: log, now: time.Now}
}

// Entity validates and normalises an entity path parameter such as
// "inquiries.csv".
func Entity(raw string) (string, error) {
	entity := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".csv")
	if _, ok := entities[entity]; !ok {
		return "", apperr.NotFound(fmt.Sprintf("unknown export %q", raw)).
			WithDetails(map[string][]string{"entities": Entities()})
	}
	return entity, nil
}

// WriteCSV streams entity as CSV to w and returns the number of data rows.
func (s *Service) WriteCSV(ctx context.Context, entity string, w io.Writer) (int, error) {
	writer := csv.NewWriter(w)
	count, err := s.repo.Stream(ctx, entity, writer.Write, writer.Write)
	if err != nil {
		return count, err
	}
	writer.Flush()
	return count, writer.Error()
}

// FileName is the download name of an export taken now.
func (s *Service) FileName(entity string) string {
	return fmt.Sprintf("%s-%s.csv", entity, s.now().UTC().Format("20060102-150405"))
}

// Archive uploads a fresh CSV of entity and returns a presigned download link.
func (s *Service) Archive(ctx context.Context, entity string) (ArchiveResult, error) {
	if s.store == nil {
		return ArchiveResult{}, apperr.Unavailable("export archive storage is not configured", nil).WithOp("exports.Archive")
	}

	var buf bytes.Buffer
	rows, err := s.WriteCSV(ctx, entity, &buf)
	if err != nil {
		return ArchiveResult{}, err
	}
	obj := storage.Object{
		Folder:      "exports/" + entity,
		Name:        s.FileName(entity),
		ContentType: csvContentType,
		Body:        &buf,
		Size:        int64(buf.Len()),
		Metadata:    map[string]string{"entity": entity, "rows": strconv.Itoa(rows)},
	}
	if err := s.store.Validate(obj); err != nil {
		return ArchiveResult{}, apperr.BadRequest(err.Error())
	}
	if err := s.store.EnsureBucket(ctx, s.bucket); err != nil {
		return ArchiveResult{}, apperr.Unavailable("export bucket unavailable", err)
	}

	key, err := s.store.Put(ctx, s.bucket, obj)
	if err != nil {
		return ArchiveResult{}, apperr.Unavailable("export upload failed", err)
	}
	link, err := s.store.PresignGet(ctx, s.bucket, key)
	if err != nil {
		return ArchiveResult{}, apperr.Unavailable("export link failed", err)
	}

	s.log.Info("export archived", "entity", entity, "rows", rows, "fileKey", key)
	return ArchiveResult{Entity: entity, Rows: rows, FileKey: key, URL: link.URL, ExpiresAt: link.ExpiresAt}, nil
}
