package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"secondopinion/internal/model"
	"secondopinion/internal/report"
	"secondopinion/internal/repository"
)

// Renderer is the part of report.Renderer the report service drives.
type Renderer interface {
	PatientRoster(ctx context.Context, doctor *model.Doctor, patients []model.Patient) (report.Artifact, error)
	Invoice(ctx context.Context, doctor *model.Doctor, patients []model.Patient) (report.Artifact, error)
}

// ReportService loads a doctor with its patients and renders the requested artifact.
type ReportService interface {
	PatientRoster(ctx context.Context, doctorID string) (report.Artifact, error)
	Invoice(ctx context.Context, doctorID string) (report.Artifact, error)
}

type reportService struct {
	dir      repository.DirectoryRepository
	renderer Renderer
}

// NewReportService constructs a new ReportService.
func NewReportService(dir repository.DirectoryRepository, renderer Renderer) ReportService {
	return &reportService{dir: dir, renderer: renderer}
}

func (s *reportService) PatientRoster(ctx context.Context, doctorID string) (report.Artifact, error) {
	doctor, patients, err := s.load(ctx, doctorID)
	if err != nil {
		return report.Artifact{}, err
	}
	return s.renderer.PatientRoster(ctx, doctor, patients)
}

func (s *reportService) Invoice(ctx context.Context, doctorID string) (report.Artifact, error) {
	doctor, patients, err := s.load(ctx, doctorID)
	if err != nil {
		return report.Artifact{}, err
	}
	return s.renderer.Invoice(ctx, doctor, patients)
}

func (s *reportService) load(ctx context.Context, doctorID string) (*model.Doctor, []model.Patient, error) {
	if doctorID == "" {
		return nil, nil, ErrIDRequired
	}
	doctor, err := s.dir.FindDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrDoctorNotFound
		}
		return nil, nil, fmt.Errorf("load doctor: %w", err)
	}
	patients, err := s.dir.ListPatients(ctx, doctorID)
	if err != nil {
		return nil, nil, fmt.Errorf("load patients: %w", err)
	}
	return doctor, patients, nil
}
