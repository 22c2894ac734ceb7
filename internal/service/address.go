package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/storage"
	"github.com/vitrinshop/vitrin/internal/telemetry"
)

// AddressService mutates the addresses collection. Addresses carry no bus
// topic and nothing watches them live, so this service writes without
// publishing.
type AddressService interface {
	// Addresses returns a user's saved addresses. An empty userID returns
	// everything.
	Addresses(ctx context.Context, userID string) ([]domain.Address, error)

	// SaveAddress inserts or updates an address (matched by id; an empty id
	// gets one assigned). Marking it default clears the default flag on the
	// user's other addresses.
	SaveAddress(ctx context.Context, addr domain.Address) (*domain.Address, error)

	// RemoveAddress deletes an address by id. A missing id is a silent
	// no-op.
	RemoveAddress(ctx context.Context, id string) error

	// SetDefault makes one address the user's default, clearing the flag
	// everywhere else. A missing id is a silent no-op.
	SetDefault(ctx context.Context, userID, id string) error
}

type addressService struct {
	store   *storage.Store
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewAddressService creates an AddressService.
func NewAddressService(store *storage.Store, logger *slog.Logger, metrics *telemetry.Metrics) AddressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &addressService{store: store, logger: logger, metrics: metrics}
}

func (s *addressService) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.store.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return addresses, nil
	}

	filtered := make([]domain.Address, 0, len(addresses))
	for _, a := range addresses {
		if a.UserID == userID {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (s *addressService) SaveAddress(ctx context.Context, addr domain.Address) (*domain.Address, error) {
	if err := validate.Struct(addr); err != nil {
		return nil, &domain.Error{Code: domain.EINVALID, Op: "address.save", Message: "Invalid address", Err: err}
	}
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}

	addresses, err := s.store.Addresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read addresses: %w", err)
	}

	if addr.IsDefault {
		for i := range addresses {
			if addresses[i].UserID == addr.UserID && addresses[i].ID != addr.ID {
				addresses[i].IsDefault = false
			}
		}
	}

	replaced := false
	for i := range addresses {
		if addresses[i].ID == addr.ID {
			addresses[i] = addr
			replaced = true
			break
		}
	}
	if !replaced {
		addresses = append(addresses, addr)
	}

	if err := s.store.SetAddresses(ctx, addresses); err != nil {
		return nil, err
	}
	s.count("save")

	s.logger.Info("address saved", "address_id", addr.ID, "user_id", addr.UserID, "default", addr.IsDefault)
	return &addr, nil
}

func (s *addressService) RemoveAddress(ctx context.Context, id string) error {
	addresses, err := s.store.Addresses(ctx)
	if err != nil {
		return fmt.Errorf("failed to read addresses: %w", err)
	}

	remaining := make([]domain.Address, 0, len(addresses))
	for _, a := range addresses {
		if a.ID != id {
			remaining = append(remaining, a)
		}
	}
	if len(remaining) == len(addresses) {
		return nil
	}

	if err := s.store.SetAddresses(ctx, remaining); err != nil {
		return err
	}
	s.count("remove")
	return nil
}

func (s *addressService) SetDefault(ctx context.Context, userID, id string) error {
	addresses, err := s.store.Addresses(ctx)
	if err != nil {
		return fmt.Errorf("failed to read addresses: %w", err)
	}

	found := false
	for i := range addresses {
		if addresses[i].UserID != userID {
			continue
		}
		if addresses[i].ID == id {
			addresses[i].IsDefault = true
			found = true
		} else {
			addresses[i].IsDefault = false
		}
	}
	if !found {
		return nil
	}

	if err := s.store.SetAddresses(ctx, addresses); err != nil {
		return err
	}
	s.count("set_default")
	return nil
}

func (s *addressService) count(op string) {
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(domain.CollectionAddresses, op).Inc()
	}
}
