// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and contain no business logic.
package repository

import (
	"context"

	"secondopinion/internal/model"
)

// FileRepository defines data access for file metadata using SQL queries only.
// Soft-deleted rows are invisible to every method except FindByIDIncludingDeleted.
type FileRepository interface {
	// Create inserts a new file record and returns the stored row.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns an active file by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.File, error)

	// FindByIDIncludingDeleted returns a file by its ID whatever its lifecycle state.
	FindByIDIncludingDeleted(ctx context.Context, id string) (*model.File, error)

	// ListByOwner returns a page of the owner's active files, newest first.
	ListByOwner(ctx context.Context, owner model.OwnerRef, pq PageQuery) (*PageResult[model.File], error)

	// Update persists the mutable fields of f: description, updated_at and deleted_at.
	// It returns sql.ErrNoRows when no row has f.ID.
	Update(ctx context.Context, f *model.File) error
}

// DirectoryRepository reads the doctor and patient records the reports and uploads depend on.
type DirectoryRepository interface {
	// FindDoctor returns a doctor by ID, or sql.ErrNoRows.
	FindDoctor(ctx context.Context, id string) (*model.Doctor, error)

	// ListPatients returns the doctor's patients ordered by name, then ID.
	ListPatients(ctx context.Context, doctorID string) ([]model.Patient, error)

	// OwnerExists reports whether the owner's ID resolves in the collection its kind names.
	OwnerExists(ctx context.Context, owner model.OwnerRef) (bool, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
