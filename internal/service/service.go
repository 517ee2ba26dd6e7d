// Package service contains the business rules of the tracker.
//
// Handlers call services with plain values; services validate, call the
// repository interfaces and return apperror kinds. Nothing here knows about HTTP.
package service

import (
	"errors"
	"log/slog"

	"github.com/sakif/exercise-tracker/internal/apperror"
)

// storeFailure passes domain errors through untouched and turns anything else
// into a logged PersistenceError.
func storeFailure(logger *slog.Logger, op string, err error, attrs ...any) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	logger.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
	return apperror.Persistence(op, err)
}
