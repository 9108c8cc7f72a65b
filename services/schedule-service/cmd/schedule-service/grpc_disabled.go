//go:build !protogen

package main

import (
	"context"
	"log/slog"

	"github.com/salonflow/salonflow/libs/db"
	"github.com/salonflow/salonflow/services/schedule-service/internal/storage"
)

func startGrpcServer(_ context.Context, _ *slog.Logger, _ *db.Pool, _ *storage.Repository) error {
	return nil
}
