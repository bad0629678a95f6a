package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"secondopinion/internal/model"
	"secondopinion/internal/repository"
)

// DirectoryPostgres reads doctors and patients. Nullable text columns come back as empty strings.
type DirectoryPostgres struct {
	db *sql.DB
}

// NewDirectoryPostgres creates a new DirectoryPostgres repository.
func NewDirectoryPostgres(db *sql.DB) *DirectoryPostgres {
	return &DirectoryPostgres{db: db}
}

var _ repository.DirectoryRepository = (*DirectoryPostgres)(nil)

// FindDoctor fetches a doctor by ID.
func (r *DirectoryPostgres) FindDoctor(ctx context.Context, id string) (*model.Doctor, error) {
	const q = `
		SELECT id, COALESCE(name, ''), COALESCE(specialization, ''), COALESCE(email, '')
		FROM doctors
		WHERE id = $1
	`
	var d model.Doctor
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.Specialty, &d.Email); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListPatients returns every patient assigned to the doctor.
func (r *DirectoryPostgres) ListPatients(ctx context.Context, doctorID string) ([]model.Patient, error) {
	const q = `
		SELECT id, doctor_id, COALESCE(name, ''), COALESCE(gender, ''), COALESCE(contact_number, ''), COALESCE(email, '')
		FROM patients
		WHERE doctor_id = $1
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := make([]model.Patient, 0)
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.DoctorID, &p.Name, &p.Gender, &p.ContactNumber, &p.Email); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return patients, nil
}

// OwnerExists checks the owner ID against the table picked by the owner kind.
func (r *DirectoryPostgres) OwnerExists(ctx context.Context, owner model.OwnerRef) (bool, error) {
	table, err := owner.Collection()
	if err != nil {
		return false, err
	}
	// table comes from a closed set of constants, never from input.
	q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, owner.ID()).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
