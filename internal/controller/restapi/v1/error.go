package v1

import (
	"errors"

	"github.com/anonshare/anonshare/internal/controller/restapi/v1/response"
	"github.com/gofiber/fiber/v2"
)

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}

// rootMessage peels the use-case prefix off a wrapped validation error so
// the client sees the cause (e.g. the detected MIME type) without the
// internal call chain.
func rootMessage(err error) string {
	if u := errors.Unwrap(err); u != nil {
		return u.Error()
	}

	return err.Error()
}
