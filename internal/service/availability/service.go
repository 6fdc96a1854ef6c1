package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
)

const (
	nameCacheKey = "service_names"
	nameCacheTTL = 5 * time.Minute
)

// Service computes per-date slot availability. Availability is derived from
// live booking state on every call; only the static name projection is cached.
type Service struct {
	serviceRepo repository.ServiceRepository
	bookingRepo repository.BookingRepository
	names       *cache.Cache
}

func NewService(serviceRepo repository.ServiceRepository, bookingRepo repository.BookingRepository) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		bookingRepo: bookingRepo,
		names:       cache.New(nameCacheTTL, 10*time.Minute),
	}
}

// ListAvailability returns every service with its slots narrowed to the ones
// not yet taken on the given date. Slot order follows the catalog.
func (s *Service) ListAvailability(ctx context.Context, date string) ([]*model.ServiceView, error) {
	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}

	booked, err := s.bookingRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	// taken[treatmentName] is the set of slot labels already booked on date.
	taken := make(map[string]map[string]struct{}, len(booked))
	for _, b := range booked {
		if taken[b.TreatmentName] == nil {
			taken[b.TreatmentName] = make(map[string]struct{})
		}
		taken[b.TreatmentName][b.Time] = struct{}{}
	}

	views := make([]*model.ServiceView, 0, len(services))
	for _, svc := range services {
		remaining := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if _, used := taken[svc.Name][slot]; !used {
				remaining = append(remaining, slot)
			}
		}
		views = append(views, &model.ServiceView{
			ID:    svc.ID.String(),
			Name:  svc.Name,
			Price: svc.Price,
			Slots: remaining,
		})
	}
	return views, nil
}

// ListServiceNames returns the minimal catalog projection. The catalog does
// not change at runtime, so a short TTL cache is safe here.
func (s *Service) ListServiceNames(ctx context.Context) ([]*model.ServiceName, error) {
	if cached, ok := s.names.Get(nameCacheKey); ok {
		return cached.([]*model.ServiceName), nil
	}

	names, err := s.serviceRepo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load service names: %w", err)
	}

	s.names.Set(nameCacheKey, names, cache.DefaultExpiration)
	return names, nil
}
