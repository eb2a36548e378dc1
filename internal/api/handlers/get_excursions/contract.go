package get_excursions

import (
	"context"

	"github.com/velmar/excursion-service/internal/domain"
)

type ExcursionProvider interface {
	ListActive(ctx context.Context, category *string) ([]*domain.Excursion, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
