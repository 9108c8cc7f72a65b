package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/salonflow/salonflow/libs/db"
)

// ServiceInfo is what the slot and validation paths need to know about
// a bookable service.
type ServiceInfo struct {
	Name            string
	DurationMinutes int
	Price           string
}

// Provider resolves service catalog entries. The second return value is
// false when the service does not exist or is inactive.
type Provider interface {
	GetService(ctx context.Context, businessID, serviceID string) (ServiceInfo, bool, error)
}

// dbProvider reads the service catalog replicated into the local read
// model, so slot pricing works without a network hop.
type dbProvider struct {
	pool *db.Pool
}

func NewDBProvider(pool *db.Pool) Provider {
	return &dbProvider{pool: pool}
}

func (p *dbProvider) GetService(ctx context.Context, businessID, serviceID string) (ServiceInfo, bool, error) {
	var info ServiceInfo
	err := p.pool.QueryRow(ctx, `
		SELECT name, duration_minutes, COALESCE(price, '')
		FROM service_catalog
		WHERE id = $1 AND business_id = $2 AND active
	`, serviceID, businessID).Scan(&info.Name, &info.DurationMinutes, &info.Price)
	if err == pgx.ErrNoRows {
		return ServiceInfo{}, false, nil
	}
	if err != nil {
		return ServiceInfo{}, false, err
	}
	return info, true, nil
}
