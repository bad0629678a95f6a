package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"secondopinion/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, fileSvc service.FileService, reportSvc service.ReportService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	files := app.Group("/files")
	files.Post("/", UploadFile(fileSvc))
	files.Get("/:id", GetFile(fileSvc))
	files.Get("/:id/audit", GetFileAudit(fileSvc))
	files.Get("/:id/content", FileContent(fileSvc))
	files.Get("/:id/download", DownloadFile(fileSvc))
	files.Patch("/:id", UpdateFile(fileSvc))
	files.Delete("/:id", DeleteFile(fileSvc))

	app.Get("/owners/:kind/:id/files", ListOwnerFiles(fileSvc))

	doctors := app.Group("/doctors")
	doctors.Get("/:id/patients/export", ExportPatientRoster(reportSvc))
	doctors.Get("/:id/invoice", DownloadInvoice(reportSvc))
}
