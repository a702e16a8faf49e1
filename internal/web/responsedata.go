package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	authservice "github.com/goserg/guildrating/internal/auth/service"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/roster"
	"github.com/goserg/guildrating/internal/service"
	"github.com/goserg/guildrating/internal/storage"
)

type errorResponse struct {
	Errors []string `json:"errors"`
}

type multierr interface {
	Unwrap() []error
}

func unwrap(err error) []error {
	var merr multierr
	if errors.As(err, &merr) {
		var errs []error
		for _, err := range merr.Unwrap() {
			errs = append(errs, unwrap(err)...)
		}
		return errs
	}
	return []error{err}
}

func newErrorResponse(err error) errorResponse {
	var resp errorResponse
	for _, err := range unwrap(err) {
		resp.Errors = append(resp.Errors, err.Error())
	}
	return resp
}

var badRequestErrors = []error{
	elo.ErrInvalidMatchOutcome,
	elo.ErrEmptyPlayerList,
	elo.ErrInvalidRatingValue,
	elo.ErrInvalidRatingDelta,
	elo.ErrDuplicateMVP,
	elo.ErrMissingTeamIdentifier,
	elo.ErrMissingMVP,
	elo.ErrMissingPlayer,
	elo.ErrSamePlayer,
	elo.ErrDuplicatePlayer,
	storage.ErrInvalidPlayerID,
	roster.ErrUnknownGroup,
	service.ErrInvalidExport,
	service.ErrInvalidExportVersion,
	ErrMissingValue,
}

func statusFor(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return fiber.StatusBadRequest
		}
	}
	switch {
	case errors.Is(err, authservice.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, authservice.ErrNotAuthorized), errors.Is(err, authservice.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNoHistoryToUndo), errors.Is(err, service.ErrCooldownActive):
		return fiber.StatusConflict
	case errors.Is(err, storage.ErrConcurrentModification):
		return fiber.StatusConflict
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(newErrorResponse(err))
}
