package supplier

import (
	"context"
	"fmt"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/pkg/logger"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	repo Repository
}

// NewService creates a new Supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	if sup.Code == "" {
		return apperror.NewValidation("code is required").WithDetail("field", "code")
	}

	exists, err := s.repo.ExistsByCode(ctx, sup.PropertyID, sup.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("supplier", "code", sup.Code)
	}

	if err := s.repo.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	logger.Info(ctx, "supplier created", "id", sup.ID, "code", sup.Code)
	return nil
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supID)
}

// Update modifies a supplier.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	sup.Touch()
	return s.repo.Update(ctx, sup)
}

// Deactivate flips the active flag.
func (s *Service) Deactivate(ctx context.Context, supID id.ID) error {
	sup, err := s.repo.GetByID(ctx, supID)
	if err != nil {
		return err
	}
	if !sup.IsActive {
		return nil
	}

	sup.IsActive = false
	sup.Touch()
	return s.repo.Update(ctx, sup)
}

// List retrieves suppliers with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Supplier, error) {
	return s.repo.List(ctx, filter)
}
