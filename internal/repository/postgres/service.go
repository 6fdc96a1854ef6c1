package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/portal-api/internal/model"
)

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, name, price, slots, created_at, updated_at
		FROM services
		ORDER BY name ASC
	`
	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) ListNames(ctx context.Context) ([]*model.ServiceName, error) {
	query := `
		SELECT name
		FROM services
		ORDER BY name ASC
	`
	var names []*model.ServiceName
	if err := r.db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("failed to list service names: %w", err)
	}
	return names, nil
}
