package warehouse

import (
	"context"
	"fmt"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/pkg/logger"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	repo Repository
}

// NewService creates a new Warehouse service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new warehouse.
func (s *Service) Create(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}
	if wh.Code == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}

	exists, err := s.repo.ExistsByCode(ctx, wh.PropertyID, wh.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("warehouse", "code", wh.Code)
	}

	if err := s.repo.Create(ctx, wh); err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}

	logger.Info(ctx, "warehouse created",
		"id", wh.ID,
		"code", wh.Code,
		"type", wh.Type,
	)
	return nil
}

// GetByID retrieves a warehouse.
func (s *Service) GetByID(ctx context.Context, whID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, whID)
}

// Update renames or retypes a warehouse. The code is immutable.
func (s *Service) Update(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}
	wh.Touch()
	return s.repo.Update(ctx, wh)
}

// Deactivate flips the active flag. Historical stock levels, movements and
// documents referencing the warehouse are left untouched.
func (s *Service) Deactivate(ctx context.Context, whID id.ID) error {
	wh, err := s.repo.GetByID(ctx, whID)
	if err != nil {
		return err
	}
	if !wh.IsActive {
		return nil
	}

	wh.IsActive = false
	wh.Touch()
	if err := s.repo.Update(ctx, wh); err != nil {
		return fmt.Errorf("deactivate warehouse: %w", err)
	}

	logger.Info(ctx, "warehouse deactivated", "id", whID)
	return nil
}

// Activate flips the active flag back on.
func (s *Service) Activate(ctx context.Context, whID id.ID) error {
	wh, err := s.repo.GetByID(ctx, whID)
	if err != nil {
		return err
	}
	if wh.IsActive {
		return nil
	}

	wh.IsActive = true
	wh.Touch()
	return s.repo.Update(ctx, wh)
}

// List retrieves warehouses with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Warehouse, error) {
	return s.repo.List(ctx, filter)
}
