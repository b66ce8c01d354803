// Package warehouse provides the Warehouse catalog.
// Warehouses are the physical or logical stock locations of a property:
// main store, kitchen, housekeeping store, bar, minibar.
package warehouse

import (
	"context"
	"time"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
)

// WarehouseType defines the type of warehouse.
type WarehouseType string

const (
	TypeMainStore    WarehouseType = "main_store"
	TypeKitchen      WarehouseType = "kitchen"
	TypeHousekeeping WarehouseType = "housekeeping"
	TypeBar          WarehouseType = "bar"
	TypeMinibar      WarehouseType = "minibar"
)

// Warehouse represents a stock location within a property.
type Warehouse struct {
	ID id.ID `db:"id" json:"id"`

	// PropertyID scopes the warehouse to exactly one property.
	PropertyID string `db:"property_id" json:"propertyId"`

	// Code is a human-readable identifier, unique within the property.
	Code string `db:"code" json:"code"`

	Name string        `db:"name" json:"name"`
	Type WarehouseType `db:"type" json:"type"`

	// IsActive indicates if warehouse is operational. Deactivation is a flag
	// flip only: historical levels and movements are never touched.
	IsActive bool `db:"is_active" json:"isActive"`

	// Version for optimistic locking
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewWarehouse creates a new active Warehouse.
func NewWarehouse(propertyID, code, name string, whType WarehouseType) *Warehouse {
	now := time.Now().UTC()
	return &Warehouse{
		ID:         id.New(),
		PropertyID: propertyID,
		Code:       code,
		Name:       name,
		Type:       whType,
		IsActive:   true,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate checks entity invariants.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.PropertyID == "" {
		return apperror.NewValidation("property is required").
			WithDetail("field", "propertyId")
	}
	if w.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !isValidWarehouseType(w.Type) {
		return apperror.NewValidation("invalid warehouse type").
			WithDetail("field", "type").
			WithDetail("value", string(w.Type))
	}
	return nil
}

// Touch updates the timestamp for an update.
func (w *Warehouse) Touch() {
	w.UpdatedAt = time.Now().UTC()
}

func isValidWarehouseType(t WarehouseType) bool {
	switch t {
	case TypeMainStore, TypeKitchen, TypeHousekeeping, TypeBar, TypeMinibar:
		return true
	}
	return false
}
