package handler

import (
	"errors"
	"mime"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"secondopinion/internal/model"
	"secondopinion/internal/service"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const downloadURLExpiry = 15 * time.Minute

// uploadForm holds the non-file fields of POST /files.
type uploadForm struct {
	OwnerKind   string `form:"owner_kind" validate:"required,oneof=Patient Doctor"`
	OwnerID     string `form:"owner_id" validate:"required,uuid"`
	Category    string `form:"category" validate:"required"`
	Description string `form:"description" validate:"max=1000"`
}

type updateFileRequest struct {
	Description *string `json:"description" validate:"required,max=1000"`
}

// fileResponse adds the derived thumbnail URL to a file record.
type fileResponse struct {
	*model.File
	ThumbnailURL *string `json:"thumbnail_url"`
}

type fileListResponse struct {
	Data   []fileResponse `json:"data"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func toFileResponse(f *model.File) fileResponse {
	res := fileResponse{File: f}
	if u, ok := f.Thumbnail(); ok {
		res.ThumbnailURL = &u
	}
	return res
}

func fileID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// writeFileError translates service errors on the /files routes.
func writeFileError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
	case errors.Is(err, service.ErrOwnerNotFound):
		return writeError(c, fiber.StatusNotFound, "OWNER_NOT_FOUND", "owner not found")
	case errors.Is(err, model.ErrInvalidCategory):
		return writeError(c, fiber.StatusBadRequest, "INVALID_CATEGORY", "invalid category")
	case errors.Is(err, model.ErrInvalidOwnerKind):
		return writeError(c, fiber.StatusBadRequest, "INVALID_OWNER_KIND", "invalid owner kind")
	default:
		return writeInternal(c, "INTERNAL_ERROR", "internal server error", err)
	}
}

// UploadFile handles multipart uploads (field name: file).
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form uploadForm
		if err := c.BodyParser(&form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid form")
		}
		if err := validate.Struct(form); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}

		owner, err := model.ParseOwnerRef(form.OwnerKind, form.OwnerID)
		if err != nil {
			return writeFileError(c, err)
		}
		category, err := model.ParseCategory(form.Category)
		if err != nil {
			return writeFileError(c, err)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		file, err := svc.Upload(c.UserContext(), f, service.UploadInput{
			Owner:       owner,
			Category:    category,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Description: form.Description,
		})
		if err != nil {
			return writeFileError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toFileResponse(file))
	}
}

// GetFile returns an active file.
func GetFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		f, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(toFileResponse(f))
	}
}

// GetFileAudit returns a file whether or not it has been deleted.
func GetFileAudit(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		f, err := svc.GetForAudit(c.UserContext(), id)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(toFileResponse(f))
	}
}

// UpdateFile changes the description of an active file.
func UpdateFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateFileRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		}
		f, err := svc.UpdateDescription(c.UserContext(), id, *req.Description)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(toFileResponse(f))
	}
}

// DeleteFile soft-deletes a file and returns the updated record.
func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		f, err := svc.SoftDelete(c.UserContext(), id)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.JSON(toFileResponse(f))
	}
}

// FileContent streams the stored bytes of an active file.
func FileContent(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, f, err := svc.Content(c.UserContext(), id)
		if err != nil {
			return writeFileError(c, err)
		}
		// fasthttp closes rc once the body has been written.
		c.Set(fiber.HeaderContentType, f.MimeType)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": f.Filename}))
		return c.SendStream(rc, int(f.Size))
	}
}

// DownloadFile redirects to a short-lived signed link for an active file.
func DownloadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := fileID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.DownloadURL(c.UserContext(), id, downloadURLExpiry)
		if err != nil {
			return writeFileError(c, err)
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}

// ListOwnerFiles lists the active files of a patient or doctor with limit & offset.
func ListOwnerFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, err := model.ParseOwnerRef(c.Params("kind"), c.Params("id"))
		if err != nil {
			return writeFileError(c, err)
		}
		if _, err := uuid.Parse(owner.ID()); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListByOwner(c.UserContext(), owner, limit, offset)
		if err != nil {
			return writeFileError(c, err)
		}

		out := fileListResponse{
			Data:   make([]fileResponse, 0, len(res.Items)),
			Total:  res.Total,
			Limit:  limit,
			Offset: offset,
		}
		for i := range res.Items {
			out.Data = append(out.Data, toFileResponse(&res.Items[i]))
		}
		return c.JSON(out)
	}
}

// validationMessage reports the first failing field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "invalid field " + fe.Field() + " (" + fe.Tag() + ")"
	}
	return "invalid request"
}
