// Package supplier provides the Supplier catalog.
package supplier

import (
	"context"
	"time"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
)

// Supplier represents a vendor that purchase orders are placed with.
type Supplier struct {
	ID id.ID `db:"id" json:"id"`

	PropertyID string `db:"property_id" json:"propertyId"`

	// Code is unique within the property.
	Code string `db:"code" json:"code"`

	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email,omitempty"`
	Phone string `db:"phone" json:"phone,omitempty"`

	IsActive bool `db:"is_active" json:"isActive"`

	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewSupplier creates a new active Supplier.
func NewSupplier(propertyID, code, name string) *Supplier {
	now := time.Now().UTC()
	return &Supplier{
		ID:         id.New(),
		PropertyID: propertyID,
		Code:       code,
		Name:       name,
		IsActive:   true,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate checks entity invariants.
func (s *Supplier) Validate(ctx context.Context) error {
	if s.PropertyID == "" {
		return apperror.NewValidation("property is required").
			WithDetail("field", "propertyId")
	}
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Touch updates the timestamp for an update.
func (s *Supplier) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
