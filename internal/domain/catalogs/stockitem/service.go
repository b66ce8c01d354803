package stockitem

import (
	"context"
	"fmt"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/pkg/logger"
)

// Service provides business logic for the StockItem catalog.
type Service struct {
	repo Repository
}

// NewService creates a new StockItem service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new stock item.
func (s *Service) Create(ctx context.Context, item *StockItem) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByCode(ctx, item.PropertyID, item.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("stock item", "code", item.Code)
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("create stock item: %w", err)
	}

	logger.Info(ctx, "stock item created", "id", item.ID, "code", item.Code)
	return nil
}

// GetByID retrieves a stock item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*StockItem, error) {
	return s.repo.GetByID(ctx, itemID)
}

// Update modifies a stock item. The code is immutable once created.
func (s *Service) Update(ctx context.Context, item *StockItem) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if current.Code != item.Code {
		return apperror.NewValidation("item code is immutable").
			WithDetail("field", "code")
	}

	item.Touch()
	return s.repo.Update(ctx, item)
}

// Deactivate flips the active flag; ledger history is untouched.
func (s *Service) Deactivate(ctx context.Context, itemID id.ID) error {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.IsActive {
		return nil
	}

	item.IsActive = false
	item.Touch()
	return s.repo.Update(ctx, item)
}

// List retrieves stock items with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*StockItem, error) {
	return s.repo.List(ctx, filter)
}
