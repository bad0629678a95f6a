package postgres

import (
	"context"
	"database/sql"

	"secondopinion/internal/model"
	"secondopinion/internal/repository"
)

const fileColumns = `id, owner_kind, owner_id, provider_id, url, secure_url, format, resource_type, storage_bytes,
		filename, mime_type, size, description, category, created_at, updated_at, uploaded_at, deleted_at`

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*model.File, error) {
	var (
		f         model.File
		kind, oid string
		category  string
		deletedAt sql.NullTime
	)
	if err := row.Scan(
		&f.ID,
		&kind,
		&oid,
		&f.Storage.ProviderID,
		&f.Storage.URL,
		&f.Storage.SecureURL,
		&f.Storage.Format,
		&f.Storage.ResourceType,
		&f.Storage.Bytes,
		&f.Filename,
		&f.MimeType,
		&f.Size,
		&f.Description,
		&category,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.UploadedAt,
		&deletedAt,
	); err != nil {
		return nil, err
	}

	owner, err := model.ParseOwnerRef(kind, oid)
	if err != nil {
		return nil, err
	}
	f.Owner = owner
	f.Category = model.Category(category)
	if deletedAt.Valid {
		t := deletedAt.Time
		f.DeletedAt = &t
	}
	return &f, nil
}

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, owner_kind, owner_id, provider_id, url, secure_url, format, resource_type, storage_bytes,
		filename, mime_type, size, description, category, created_at, updated_at, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + fileColumns
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		string(f.Owner.Kind()),
		f.Owner.ID(),
		f.Storage.ProviderID,
		f.Storage.URL,
		f.Storage.SecureURL,
		f.Storage.Format,
		f.Storage.ResourceType,
		f.Storage.Bytes,
		f.Filename,
		f.MimeType,
		f.Size,
		f.Description,
		string(f.Category),
		f.CreatedAt,
		f.UpdatedAt,
		f.UploadedAt,
	)
	return scanFile(row)
}

// FindByID fetches a single active file by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.File, error) {
	const q = `SELECT ` + fileColumns + `
		FROM files
		WHERE id = $1 AND deleted_at IS NULL`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// FindByIDIncludingDeleted fetches a file by its ID, soft-deleted or not.
func (r *FilePostgres) FindByIDIncludingDeleted(ctx context.Context, id string) (*model.File, error) {
	const q = `SELECT ` + fileColumns + `
		FROM files
		WHERE id = $1`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// ListByOwner returns the owner's active files using LIMIT/OFFSET pagination and a total count.
func (r *FilePostgres) ListByOwner(ctx context.Context, owner model.OwnerRef, pq repository.PageQuery) (*repository.PageResult[model.File], error) {
	const qCount = `SELECT COUNT(*) FROM files WHERE owner_kind = $1 AND owner_id = $2 AND deleted_at IS NULL`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, string(owner.Kind()), owner.ID()).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + fileColumns + `
		FROM files
		WHERE owner_kind = $1 AND owner_id = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, qList, string(owner.Kind()), owner.ID(), pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.File]{Items: items, Total: total}, nil
}

// Update writes back description, updated_at and deleted_at. Owner, category and storage
// columns are never touched.
func (r *FilePostgres) Update(ctx context.Context, f *model.File) error {
	const q = `
		UPDATE files
		SET description = $1, updated_at = $2, deleted_at = $3
		WHERE id = $4`
	var deletedAt sql.NullTime
	if f.DeletedAt != nil {
		deletedAt = sql.NullTime{Time: *f.DeletedAt, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, q, f.Description, f.UpdatedAt, deletedAt, f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
