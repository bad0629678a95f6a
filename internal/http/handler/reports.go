package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"secondopinion/internal/report"
	"secondopinion/internal/service"
)

type renderFunc func(c *fiber.Ctx, doctorID string) (report.Artifact, error)

// ExportPatientRoster streams the doctor's patient roster workbook as an attachment.
func ExportPatientRoster(svc service.ReportService) fiber.Handler {
	return download(func(c *fiber.Ctx, id string) (report.Artifact, error) {
		return svc.PatientRoster(c.UserContext(), id)
	})
}

// DownloadInvoice streams the doctor's invoice PDF as an attachment.
func DownloadInvoice(svc service.ReportService) fiber.Handler {
	return download(func(c *fiber.Ctx, id string) (report.Artifact, error) {
		return svc.Invoice(c.UserContext(), id)
	})
}

func download(render renderFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		a, err := render(c, id)
		if err != nil {
			if errors.Is(err, service.ErrDoctorNotFound) {
				return writeError(c, fiber.StatusNotFound, "DOCTOR_NOT_FOUND", "doctor not found")
			}
			return writeInternal(c, "REPORT_FAILED", "failed to generate report", err)
		}

		if err := c.Download(a.Path, a.Filename); err != nil {
			return writeInternal(c, "REPORT_FAILED", "failed to generate report", err)
		}
		c.Set(fiber.HeaderContentType, a.ContentType)
		return nil
	}
}
