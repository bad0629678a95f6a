package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"secondopinion/internal/model"
	"secondopinion/internal/report"
	"secondopinion/internal/service"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, r io.Reader, in service.UploadInput) (*model.File, error) {
	args := m.Called(ctx, r, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, id string) (*model.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) GetForAudit(ctx context.Context, id string) (*model.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) ListByOwner(ctx context.Context, owner model.OwnerRef, limit, offset int) (*service.FileListResult, error) {
	args := m.Called(ctx, owner, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileListResult), args.Error(1)
}

func (m *MockFileService) UpdateDescription(ctx context.Context, id, description string) (*model.File, error) {
	args := m.Called(ctx, id, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) SoftDelete(ctx context.Context, id string) (*model.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Content(ctx context.Context, id string) (io.ReadCloser, *model.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.File), args.Error(2)
}

func (m *MockFileService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) PatientRoster(ctx context.Context, doctorID string) (report.Artifact, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(report.Artifact), args.Error(1)
}

func (m *MockReportService) Invoice(ctx context.Context, doctorID string) (report.Artifact, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(report.Artifact), args.Error(1)
}
