package web

import (
	"errors"

	authservice "github.com/PeterRema/calendario-project/auth/service"
	authstorage "github.com/PeterRema/calendario-project/auth/storage"
	"github.com/PeterRema/calendario-project/internal/service"
	"github.com/PeterRema/calendario-project/internal/storage"

	"github.com/gofiber/fiber/v2"
)

var (
	errNotAuthenticated = errors.New("not authenticated")
	errForbidden        = errors.New("forbidden")
)

// apiError translates service errors into the uniform {error: string}
// body. Anything unexpected becomes a 500 without leaking its message.
func (s *Server) apiError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errNotAuthenticated):
		return jsonError(ctx, fiber.StatusUnauthorized, err)
	case errors.Is(err, errForbidden):
		return jsonError(ctx, fiber.StatusForbidden, err)
	case errors.Is(err, authservice.ErrValidation),
		errors.Is(err, authservice.ErrWrongPassword),
		errors.Is(err, authservice.ErrSelfDelete),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidType):
		return jsonError(ctx, fiber.StatusBadRequest, err)
	case errors.Is(err, authstorage.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return jsonError(ctx, fiber.StatusNotFound, err)
	case errors.Is(err, authstorage.ErrEmailTaken):
		return jsonError(ctx, fiber.StatusConflict, err)
	default:
		s.log.WithError(err).Error("unexpected error")
		return jsonError(ctx, fiber.StatusInternalServerError, errors.New("internal error"))
	}
}

func jsonError(ctx *fiber.Ctx, status int, err error) error {
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
