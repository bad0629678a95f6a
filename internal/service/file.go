package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"secondopinion/internal/model"
	"secondopinion/internal/repository"
	"secondopinion/internal/storage"
	"secondopinion/internal/thumbnail"
)

var (
	ErrIDRequired     = errors.New("id is required")
	ErrNotFound       = errors.New("file not found")
	ErrReaderNil      = errors.New("reader is nil")
	ErrOwnerNotFound  = errors.New("owner not found")
	ErrDoctorNotFound = errors.New("doctor not found")
)

const resourceRaw = "raw"

// UploadInput carries everything about an upload except its bytes.
type UploadInput struct {
	Owner       model.OwnerRef
	Category    model.Category
	Filename    string
	ContentType string
	Size        int64
	Description string
}

// FileListResult is the service-level DTO for a page of files.
type FileListResult struct {
	Items []model.File `json:"data"`
	Total int          `json:"total"`
}

// FileService defines the use cases for patient and doctor files.
type FileService interface {
	// Upload checks the owner, streams the content to object storage and saves the metadata.
	// Decodable images also get a thumbnail object and resource type image; anything else is raw.
	// The stored objects are removed again if the metadata cannot be saved.
	Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.File, error)

	// Get returns an active file. Soft-deleted files are reported as ErrNotFound.
	Get(ctx context.Context, id string) (*model.File, error)

	// GetForAudit returns a file even when it has been soft-deleted.
	GetForAudit(ctx context.Context, id string) (*model.File, error)

	// ListByOwner returns the owner's active files using limit and offset.
	ListByOwner(ctx context.Context, owner model.OwnerRef, limit, offset int) (*FileListResult, error)

	// UpdateDescription replaces the description of an active file.
	UpdateDescription(ctx context.Context, id, description string) (*model.File, error)

	// SoftDelete stamps the deletion time and returns the updated record. Calling it on an
	// already deleted file refreshes the stamp.
	SoftDelete(ctx context.Context, id string) (*model.File, error)

	// Content opens the stored bytes of an active file. The caller closes the reader.
	Content(ctx context.Context, id string) (io.ReadCloser, *model.File, error)

	// DownloadURL returns a time-limited link to the stored bytes of an active file.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

type fileService struct {
	store storage.Storage
	files repository.FileRepository
	dir   repository.DirectoryRepository
	now   func() time.Time
}

// NewFileService constructs a new FileService.
func NewFileService(store storage.Storage, files repository.FileRepository, dir repository.DirectoryRepository) FileService {
	return &fileService{store: store, files: files, dir: dir, now: time.Now}
}

func (s *fileService) Upload(ctx context.Context, r io.Reader, in UploadInput) (*model.File, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if in.Owner.IsZero() {
		return nil, model.ErrInvalidOwnerKind
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidCategory, in.Category)
	}

	exists, err := s.dir.OwnerExists(ctx, in.Owner)
	if err != nil {
		return nil, fmt.Errorf("check owner: %w", err)
	}
	if !exists {
		return nil, ErrOwnerNotFound
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	key := path.Join("upload", string(in.Category), uuid.New().String()+ext)

	// Images are teed into memory while they stream to storage so the thumbnail can be
	// rendered without reading the object back.
	var src *bytes.Buffer
	if strings.HasPrefix(in.ContentType, "image/") {
		src = &bytes.Buffer{}
		r = io.TeeReader(r, src)
	}

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
			"owner":             in.Owner.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	keys := []string{key}
	resource := resourceRaw
	if src != nil {
		thumbKey, err := s.putThumbnail(ctx, key, ext, src)
		if err != nil {
			_ = s.rollback(ctx, keys)
			return nil, err
		}
		if thumbKey != "" {
			keys = append(keys, thumbKey)
			resource = model.ResourceImage
		}
	}

	plain, secure := s.store.URLs(objInfo.Key)
	now := s.now().UTC()
	f := &model.File{
		ID:    uuid.New().String(),
		Owner: in.Owner,
		Storage: model.StorageHandle{
			ProviderID:   objInfo.Key,
			URL:          plain,
			SecureURL:    secure,
			Format:       strings.TrimPrefix(ext, "."),
			ResourceType: resource,
			Bytes:        objInfo.Size,
		},
		Filename:    in.Filename,
		MimeType:    in.ContentType,
		Size:        objInfo.Size,
		Description: in.Description,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
		UploadedAt:  now,
	}

	stored, err := s.files.Create(ctx, f)
	if err != nil {
		if delErr := s.rollback(ctx, keys); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// putThumbnail stores the square preview of an uploaded image next to it and returns its key.
// Content that does not decode as an image gets no thumbnail and an empty key.
func (s *fileService) putThumbnail(ctx context.Context, key, ext string, src io.Reader) (string, error) {
	img, err := thumbnail.Fill(src, ext)
	if err != nil {
		if errors.Is(err, thumbnail.ErrUnsupported) {
			return "", nil
		}
		return "", err
	}

	thumbKey := model.ThumbnailKey(key)
	_, err = s.store.Put(ctx, thumbKey, bytes.NewReader(img.Data), storage.PutObjectOptions{
		Size:        int64(len(img.Data)),
		ContentType: img.ContentType,
		Metadata:    map[string]string{"thumbnail-of": key},
	})
	if err != nil {
		return "", fmt.Errorf("upload thumbnail: %w", err)
	}
	return thumbKey, nil
}

// rollback removes objects written by a failed upload and reports the first delete error.
func (s *fileService) rollback(ctx context.Context, keys []string) error {
	var first error
	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *fileService) Get(ctx context.Context, id string) (*model.File, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return notFound(s.files.FindByID(ctx, id))
}

func (s *fileService) GetForAudit(ctx context.Context, id string) (*model.File, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return notFound(s.files.FindByIDIncludingDeleted(ctx, id))
}

func (s *fileService) ListByOwner(ctx context.Context, owner model.OwnerRef, limit, offset int) (*FileListResult, error) {
	if owner.IsZero() {
		return nil, model.ErrInvalidOwnerKind
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.files.ListByOwner(ctx, owner, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &FileListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *fileService) UpdateDescription(ctx context.Context, id, description string) (*model.File, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	f, err := notFound(s.files.FindByID(ctx, id))
	if err != nil {
		return nil, err
	}
	f.Description = description
	f.UpdatedAt = s.now().UTC()
	if err := s.files.Update(ctx, f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// SoftDelete is a plain read-modify-write; concurrent calls each succeed and the last
// timestamp written wins.
func (s *fileService) SoftDelete(ctx context.Context, id string) (*model.File, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	f, err := notFound(s.files.FindByIDIncludingDeleted(ctx, id))
	if err != nil {
		return nil, err
	}
	f.MarkDeleted(s.now().UTC())
	if err := s.files.Update(ctx, f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *fileService) Content(ctx context.Context, id string) (io.ReadCloser, *model.File, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, f.Storage.ProviderID)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", f.Storage.ProviderID, err)
	}
	return rc, f, nil
}

func (s *fileService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, f.Storage.ProviderID, expiry)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", f.Storage.ProviderID, err)
	}
	return u, nil
}

func notFound(f *model.File, err error) (*model.File, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
