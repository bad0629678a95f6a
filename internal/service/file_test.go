package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"secondopinion/internal/model"
	"secondopinion/internal/repository"
	repoMocks "secondopinion/internal/repository/mocks"
	"secondopinion/internal/storage"
	storeMocks "secondopinion/internal/storage/mocks"
)

var testNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestFileService(store storage.Storage, files repository.FileRepository, dir repository.DirectoryRepository) *fileService {
	svc := NewFileService(store, files, dir).(*fileService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()
	owner := model.PatientOwner("patient-1")
	photo := samplePNG(t, 640, 480)

	tests := []struct {
		name       string
		in         UploadInput
		setupMocks func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader
		check      func(t *testing.T, f *model.File)
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "happy path image",
			in: UploadInput{
				Owner: owner, Category: model.CategoryProfilePhoto, Filename: "Me.PNG",
				ContentType: "image/png", Size: int64(len(photo)), Description: "avatar",
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader {
				mDir.On("OwnerExists", ctx, owner).Return(true, nil)
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "upload/profile_photo/") && strings.HasSuffix(key, ".png")
				}), mock.Anything, storage.PutObjectOptions{
					Size:        int64(len(photo)),
					ContentType: "image/png",
					Metadata:    map[string]string{"original-filename": "Me.PNG", "owner": "Patient/patient-1"},
				}).Return(drain, nil).Once()
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "upload/"+model.ThumbnailTransformation+"/profile_photo/")
				}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.ContentType == "image/png" && opt.Size > 0
				})).Return(drain, nil).Once()
				mStore.On("URLs", mock.Anything).Return("http://cdn/media/upload/x.png", "https://cdn/media/upload/x.png")
				return bytes.NewReader(photo)
			},
			check: func(t *testing.T, f *model.File) {
				assert.Equal(t, owner, f.Owner)
				assert.Equal(t, model.CategoryProfilePhoto, f.Category)
				assert.Equal(t, "image", f.Storage.ResourceType)
				assert.Equal(t, "png", f.Storage.Format)
				assert.Equal(t, int64(len(photo)), f.Storage.Bytes)
				assert.Equal(t, "https://cdn/media/upload/x.png", f.Storage.SecureURL)
				assert.Equal(t, testNow, f.CreatedAt)
				assert.Equal(t, testNow, f.UploadedAt)
				assert.Nil(t, f.DeletedAt)
				_, ok := f.Thumbnail()
				assert.True(t, ok)
			},
		},
		{
			name: "image that does not decode is stored raw",
			in: UploadInput{
				Owner: owner, Category: model.CategoryLabResult, Filename: "scan.jpg",
				ContentType: "image/jpeg", Size: 11,
			},
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader {
				mDir.On("OwnerExists", ctx, owner).Return(true, nil)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(drain, nil).Once()
				mStore.On("URLs", mock.Anything).Return("http://cdn/media/upload/y.jpg", "https://cdn/media/upload/y.jpg")
				return strings.NewReader("hello world")
			},
			check: func(t *testing.T, f *model.File) {
				assert.Equal(t, "raw", f.Storage.ResourceType)
				_, ok := f.Thumbnail()
				assert.False(t, ok, "no thumbnail object was stored")
			},
		},
		{
			name:       "thumbnail storage error removes the original",
			in:         UploadInput{Owner: owner, Category: model.CategoryOther, Filename: "p.png", ContentType: "image/png", Size: int64(len(photo))},
			wantErrMsg: "upload thumbnail: storage fail",
			setupMocks: func(mStore *storeMocks.MockStorage, _ *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader {
				mDir.On("OwnerExists", ctx, owner).Return(true, nil)
				isThumb := func(key string) bool { return strings.Contains(key, model.ThumbnailTransformation) }
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool { return !isThumb(key) }), mock.Anything, mock.Anything).
					Return(drain, nil).Once()
				mStore.On("Put", ctx, mock.MatchedBy(isThumb), mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail")).Once()
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "upload/other/") && strings.HasSuffix(key, ".png")
				})).Return(nil).Once()
				return bytes.NewReader(photo)
			},
		},
		{
			name:       "repository error removes image and thumbnail",
			in:         UploadInput{Owner: owner, Category: model.CategoryOther, Filename: "p.png", ContentType: "image/png", Size: int64(len(photo))},
			wantErrMsg: "db save failed: db fail",
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader {
				mDir.On("OwnerExists", ctx, owner).Return(true, nil)
				mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(drain, nil).Twice()
				mStore.On("URLs", mock.Anything).Return("", "")
				mFiles.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "upload/other/")
				})).Return(nil).Once()
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "upload/"+model.ThumbnailTransformation+"/other/")
				})).Return(nil).Once()
				return bytes.NewReader(photo)
			},
		},
		{
			name:    "validation error - nil reader",
			in:      UploadInput{Owner: owner, Category: model.CategoryOther},
			wantErr: ErrReaderNil,
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockFileRepository, *repoMocks.MockDirectoryRepository) io.Reader {
				return nil
			},
		},
		{
			name:    "validation error - missing owner",
			in:      UploadInput{Category: model.CategoryOther},
			wantErr: model.ErrInvalidOwnerKind,
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockFileRepository, *repoMocks.MockDirectoryRepository) io.Reader {
				return strings.NewReader("x")
			},
		},
		{
			name:    "validation error - bad category",
			in:      UploadInput{Owner: owner, Category: "x_ray"},
			wantErr: model.ErrInvalidCategory,
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockFileRepository, *repoMocks.MockDirectoryRepository) io.Reader {
				return strings.NewReader("x")
			},
		},
		{
			name:    "owner does not resolve",
			in:      UploadInput{Owner: owner, Category: model.CategoryLabResult},
			wantErr: ErrOwnerNotFound,
			setupMocks: func(_ *storeMocks.MockStorage, _ *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader {
				mDir.On("OwnerExists", ctx, owner).Return(false, nil)
				return strings.NewReader("x")
			},
		},
		{
			name:       "storage error",
			in:         UploadInput{Owner: owner, Category: model.CategoryLabResult, Filename: "a.pdf", Size: 5},
			wantErrMsg: "upload to storage: storage fail",
			setupMocks: func(mStore *storeMocks.MockStorage, _ *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader {
				r := strings.NewReader("hello")
				mDir.On("OwnerExists", ctx, owner).Return(true, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
		},
		{
			name:       "repository error with successful rollback",
			in:         UploadInput{Owner: owner, Category: model.CategoryLabResult, Filename: "a.pdf", Size: 5},
			wantErrMsg: "db save failed: db fail",
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader {
				r := strings.NewReader("hello")
				mDir.On("OwnerExists", ctx, owner).Return(true, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mStore.On("URLs", mock.Anything).Return("", "")
				mFiles.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "upload/lab_result/") && strings.HasSuffix(key, ".pdf")
				})).Return(nil)
				return r
			},
		},
		{
			name:       "repository error with failed rollback",
			in:         UploadInput{Owner: owner, Category: model.CategoryLabResult, Filename: "a.pdf", Size: 5},
			wantErrMsg: "rollback delete failed: delete fail",
			setupMocks: func(mStore *storeMocks.MockStorage, mFiles *repoMocks.MockFileRepository, mDir *repoMocks.MockDirectoryRepository) io.Reader {
				r := strings.NewReader("hello")
				mDir.On("OwnerExists", ctx, owner).Return(true, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mStore.On("URLs", mock.Anything).Return("", "")
				mFiles.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mFiles := new(repoMocks.MockFileRepository)
			mDir := new(repoMocks.MockDirectoryRepository)
			files := repository.FileRepository(mFiles)
			if tt.check != nil {
				files = &echoCreate{MockFileRepository: mFiles}
			}
			svc := newTestFileService(mStore, files, mDir)

			r := tt.setupMocks(mStore, mFiles, mDir)

			f, err := svc.Upload(ctx, r, tt.in)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			default:
				require.NoError(t, err)
				require.NotNil(t, f)
				tt.check(t, f)
			}

			mStore.AssertExpectations(t)
			mFiles.AssertExpectations(t)
			mDir.AssertExpectations(t)
		})
	}
}

// drain consumes the upload like a real object store does.
func drain(_ context.Context, key string, r io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
	n, _ := io.Copy(io.Discard, r)
	return storage.ObjectInfo{Key: key, Size: n}
}

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFileService_UploadStoresThumbnail(t *testing.T) {
	ctx := context.Background()
	owner := model.DoctorOwner("doc-1")
	photo := samplePNG(t, 640, 480)

	mStore := new(storeMocks.MockStorage)
	mDir := new(repoMocks.MockDirectoryRepository)
	mDir.On("OwnerExists", ctx, owner).Return(true, nil)

	var originalKey, thumbKey string
	var thumb []byte
	mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(func(_ context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
			b, _ := io.ReadAll(r)
			if opt.Metadata["thumbnail-of"] != "" {
				thumbKey, thumb = key, b
				assert.Equal(t, originalKey, opt.Metadata["thumbnail-of"])
				assert.Equal(t, int64(len(b)), opt.Size)
			} else {
				originalKey = key
				assert.Equal(t, photo, b, "original streamed unchanged")
			}
			return storage.ObjectInfo{Key: key, Size: int64(len(b))}
		}, nil).Twice()
	mStore.On("URLs", mock.Anything).Return(func(key string) (string, string) {
		return "http://minio:9000/media/" + key, "https://minio:9000/media/" + key
	})

	svc := newTestFileService(mStore, &echoCreate{MockFileRepository: new(repoMocks.MockFileRepository)}, mDir)
	f, err := svc.Upload(ctx, bytes.NewReader(photo), UploadInput{
		Owner: owner, Category: model.CategoryProfilePhoto, Filename: "face.png",
		ContentType: "image/png", Size: int64(len(photo)),
	})
	require.NoError(t, err)

	assert.Equal(t, model.ThumbnailKey(originalKey), thumbKey)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 300, cfg.Height)

	u, ok := f.Thumbnail()
	require.True(t, ok)
	assert.Equal(t, "https://minio:9000/media/"+thumbKey, u, "thumbnail URL resolves to the stored object")
	mStore.AssertExpectations(t)
}

// echoCreate returns the record handed to Create, like a RETURNING clause would.
type echoCreate struct {
	*repoMocks.MockFileRepository
}

func (e *echoCreate) Create(_ context.Context, f *model.File) (*model.File, error) {
	return f, nil
}

func TestFileService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("id required", func(t *testing.T) {
		svc := newTestFileService(nil, new(repoMocks.MockFileRepository), nil)
		_, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("not found", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)
		svc := newTestFileService(nil, mFiles, nil)

		_, err := svc.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrNotFound)
		mFiles.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, "f1").Return(nil, errors.New("timeout"))
		svc := newTestFileService(nil, mFiles, nil)

		_, err := svc.Get(ctx, "f1")
		assert.EqualError(t, err, "timeout")
	})
}

func TestFileService_ListByOwner(t *testing.T) {
	ctx := context.Background()
	owner := model.DoctorOwner("doc-1")

	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("ListByOwner", ctx, owner, repository.PageQuery{Limit: 10, Offset: 0}).
		Return(&repository.PageResult[model.File]{Items: []model.File{{ID: "f1"}}, Total: 1}, nil)
	svc := newTestFileService(nil, mFiles, nil)

	res, err := svc.ListByOwner(ctx, owner, -1, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	mFiles.AssertExpectations(t)

	_, err = svc.ListByOwner(ctx, model.OwnerRef{}, 10, 0)
	assert.ErrorIs(t, err, model.ErrInvalidOwnerKind)
}

func TestFileService_UpdateDescription(t *testing.T) {
	ctx := context.Background()
	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("FindByID", ctx, "f1").Return(&model.File{ID: "f1", Description: "old"}, nil)
	mFiles.On("Update", ctx, mock.MatchedBy(func(f *model.File) bool {
		return f.ID == "f1" && f.Description == "new" && f.UpdatedAt.Equal(testNow) && f.DeletedAt == nil
	})).Return(nil)
	svc := newTestFileService(nil, mFiles, nil)

	f, err := svc.UpdateDescription(ctx, "f1", "new")
	require.NoError(t, err)
	assert.Equal(t, "new", f.Description)
	mFiles.AssertExpectations(t)
}

func TestFileService_SoftDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemFiles()
	svc := newTestFileService(nil, repo, nil)
	owner := model.PatientOwner("p1")

	repo.put(&model.File{ID: "keep", Owner: owner, CreatedAt: testNow})
	repo.put(&model.File{
		ID:        "drop",
		Owner:     owner,
		CreatedAt: testNow.Add(time.Second),
		Storage:   model.StorageHandle{ProviderID: "upload/other/drop.bin", SecureURL: "https://cdn/upload/other/drop.bin"},
	})

	before, err := svc.ListByOwner(ctx, owner, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, before.Total)

	deleted, err := svc.SoftDelete(ctx, "drop")
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	assert.Equal(t, testNow, *deleted.DeletedAt)

	after, err := svc.ListByOwner(ctx, owner, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Total)
	require.Len(t, after.Items, 1)
	assert.Equal(t, "keep", after.Items[0].ID)

	_, err = svc.Get(ctx, "drop")
	assert.ErrorIs(t, err, ErrNotFound)

	audit, err := svc.GetForAudit(ctx, "drop")
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleDeleted, audit.Lifecycle())
	assert.Equal(t, "upload/other/drop.bin", audit.Storage.ProviderID)

	// A second call refreshes the stamp.
	later := testNow.Add(time.Hour)
	svc.now = func() time.Time { return later }
	again, err := svc.SoftDelete(ctx, "drop")
	require.NoError(t, err)
	assert.Equal(t, later, *again.DeletedAt)

	_, err = svc.SoftDelete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SoftDelete(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)
}

// memFiles is an in-memory FileRepository with the same visibility rules as the SQL one.
type memFiles struct {
	mu    sync.Mutex
	files map[string]model.File
}

func newMemFiles() *memFiles { return &memFiles{files: map[string]model.File{}} }

func (m *memFiles) put(f *model.File) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[f.ID] = *f
}

func (m *memFiles) Create(_ context.Context, f *model.File) (*model.File, error) {
	m.put(f)
	out := *f
	return &out, nil
}

func (m *memFiles) FindByID(ctx context.Context, id string) (*model.File, error) {
	f, err := m.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.DeletedAt != nil {
		return nil, sql.ErrNoRows
	}
	return f, nil
}

func (m *memFiles) FindByIDIncludingDeleted(_ context.Context, id string) (*model.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &f, nil
}

func (m *memFiles) ListByOwner(_ context.Context, owner model.OwnerRef, pq repository.PageQuery) (*repository.PageResult[model.File], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]model.File, 0)
	for _, f := range m.files {
		if f.Owner == owner && f.DeletedAt == nil {
			items = append(items, f)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	total := len(items)
	if pq.Offset < len(items) {
		items = items[pq.Offset:]
	} else {
		items = items[:0]
	}
	if len(items) > pq.Limit {
		items = items[:pq.Limit]
	}
	return &repository.PageResult[model.File]{Items: items, Total: total}, nil
}

func (m *memFiles) Update(_ context.Context, f *model.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.files[f.ID]
	if !ok {
		return sql.ErrNoRows
	}
	cur.Description = f.Description
	cur.UpdatedAt = f.UpdatedAt
	cur.DeletedAt = f.DeletedAt
	m.files[f.ID] = cur
	return nil
}

func TestFileService_Content(t *testing.T) {
	ctx := context.Background()
	stored := &model.File{ID: "f1", Storage: model.StorageHandle{ProviderID: "upload/other/k.pdf"}}

	t.Run("streams the stored object", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, "f1").Return(stored, nil)
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "upload/other/k.pdf").
			Return(io.NopCloser(strings.NewReader("pdf")), storage.ObjectInfo{Key: "upload/other/k.pdf", Size: 3}, nil)
		svc := newTestFileService(mStore, mFiles, nil)

		rc, f, err := svc.Content(ctx, "f1")
		require.NoError(t, err)
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		assert.Equal(t, "pdf", string(b))
		assert.Equal(t, "f1", f.ID)
	})

	t.Run("deleted file is not served", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, "f1").Return(nil, sql.ErrNoRows)
		mStore := new(storeMocks.MockStorage)
		svc := newTestFileService(mStore, mFiles, nil)

		_, _, err := svc.Content(ctx, "f1")
		assert.ErrorIs(t, err, ErrNotFound)
		mStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("storage error", func(t *testing.T) {
		mFiles := new(repoMocks.MockFileRepository)
		mFiles.On("FindByID", ctx, "f1").Return(stored, nil)
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "upload/other/k.pdf").Return(nil, storage.ObjectInfo{}, errors.New("no such key"))
		svc := newTestFileService(mStore, mFiles, nil)

		_, _, err := svc.Content(ctx, "f1")
		assert.EqualError(t, err, "open upload/other/k.pdf: no such key")
	})
}

func TestFileService_DownloadURL(t *testing.T) {
	ctx := context.Background()
	mFiles := new(repoMocks.MockFileRepository)
	mFiles.On("FindByID", ctx, "f1").
		Return(&model.File{ID: "f1", Storage: model.StorageHandle{ProviderID: "upload/other/k.pdf"}}, nil)
	mStore := new(storeMocks.MockStorage)
	mStore.On("PresignGet", ctx, "upload/other/k.pdf", 15*time.Minute).Return("https://minio/signed", nil)
	svc := newTestFileService(mStore, mFiles, nil)

	u, err := svc.DownloadURL(ctx, "f1", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://minio/signed", u)
	mStore.AssertExpectations(t)
}
