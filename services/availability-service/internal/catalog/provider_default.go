//go:build !protogen

package catalog

import (
	"log/slog"

	"github.com/salonflow/salonflow/libs/db"
)

func NewProvider(_ *slog.Logger, pool *db.Pool, _ string) (Provider, error) {
	return NewDBProvider(pool), nil
}
