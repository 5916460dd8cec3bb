package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anonshare/anonshare/internal/controller/restapi/v1/response"
	"github.com/anonshare/anonshare/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

func (r *V1) uploadImage(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "file is required")
	}

	fileReader, err := file.Open()
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadImage")

		return errorResponse(ctx, http.StatusBadRequest, "upload transfer failed")
	}
	defer fileReader.Close()

	record, err := r.artifacts.Ingest(ctx.UserContext(), fileReader, file.Filename, file.Size)
	if err != nil {
		return r.ingestErrorResponse(ctx, err)
	}

	resp := response.Artifact{
		ID:                record.ID,
		OriginalName:      record.OriginalName,
		OriginalMimeType:  record.OriginalMimeType,
		ThumbnailMimeType: record.ThumbnailMimeType,
		SizeKB:            record.SizeKB,
		Dimensions:        record.Dimensions,
		CreatedAt:         record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	return ctx.Status(http.StatusCreated).JSON(resp)
}

func (r *V1) ingestErrorResponse(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errs.ErrTransfer):
		return errorResponse(ctx, http.StatusBadRequest, "upload transfer failed")
	case errors.Is(err, errs.ErrEmptyFile):
		return errorResponse(ctx, http.StatusBadRequest, "no file selected or file is empty")
	case errors.Is(err, errs.ErrTooLarge):
		return errorResponse(ctx, http.StatusRequestEntityTooLarge, "file is too large")
	case errors.Is(err, errs.ErrInvalidType):
		return errorResponse(ctx, http.StatusUnsupportedMediaType,
			fmt.Sprintf("invalid file type, allowed: jpg, png, gif, webp (%s)", rootMessage(err)))
	case errors.Is(err, errs.ErrUndecodable), errors.Is(err, errs.ErrEncode):
		return errorResponse(ctx, http.StatusUnprocessableEntity, "thumbnail creation failed")
	default:
		r.logger.Error(err, "restapi - v1 - uploadImage")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}
}

func (r *V1) viewImage(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	record, err := r.artifacts.ResolveForView(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) || errors.Is(err, errs.ErrFilesMissing) {
			return errorResponse(ctx, http.StatusNotFound, "image not found")
		}
		r.logger.Error(err, "restapi - v1 - viewImage")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	resp := response.Artifact{
		ID:                record.ID,
		OriginalName:      record.OriginalName,
		OriginalMimeType:  record.OriginalMimeType,
		ThumbnailMimeType: record.ThumbnailMimeType,
		SizeKB:            record.SizeKB,
		Dimensions:        record.Dimensions,
		CreatedAt:         record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	return ctx.JSON(resp)
}

func (r *V1) downloadImage(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	body, record, err := r.artifacts.ResolveForDownload(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) || errors.Is(err, errs.ErrFilesMissing) {
			return errorResponse(ctx, http.StatusNotFound, "image not found")
		}
		r.logger.Error(err, "restapi - v1 - downloadImage")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	filename := strings.ReplaceAll(record.OriginalName, `"`, "")

	ctx.Set(fiber.HeaderContentType, record.OriginalMimeType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))

	return ctx.SendStream(body)
}

func (r *V1) thumbnailImage(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	data, mimeType, err := r.artifacts.ResolveForThumbnail(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) || errors.Is(err, errs.ErrFilesMissing) {
			return errorResponse(ctx, http.StatusNotFound, "thumbnail not found")
		}
		r.logger.Error(err, "restapi - v1 - thumbnailImage")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	ctx.Set(fiber.HeaderContentType, mimeType)

	return ctx.Send(data)
}
