package main

import (
	"errors"

	"github.com/kbukum/studentstats"
	apperrors "github.com/kbukum/studentstats/errors"
	"github.com/kbukum/studentstats/studentapi"
)

// toAppError gives every failure a stable error code for logs and exit output.
func toAppError(err error, unit string) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	var unreachable *studentstats.UnreachableError
	switch {
	case errors.As(err, &unreachable):
		return apperrors.APIUnreachable(unreachable.Page, unreachable.Attempts, err)
	case errors.Is(err, studentstats.ErrNoMarks):
		return apperrors.NoMarks(unit, err)
	case errors.Is(err, studentstats.ErrNoSuchElement):
		return apperrors.NoSuchElement(err)
	case errors.Is(err, studentapi.ErrPageOutOfRange):
		return apperrors.NotFound("page", "").WithCause(err)
	case studentapi.IsTimeout(err):
		return apperrors.Timeout("page fetch").WithCause(err)
	default:
		return apperrors.Internal(err)
	}
}
