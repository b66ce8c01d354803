// Package stockitem provides the StockItem catalog: trackable goods
// independent of location (dry goods, linen, beverages, amenities).
package stockitem

import (
	"context"
	"time"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
)

// StockItem represents a catalog entry for a trackable good.
type StockItem struct {
	ID id.ID `db:"id" json:"id"`

	PropertyID string `db:"property_id" json:"propertyId"`

	// Code is the immutable item identity, unique within the property.
	Code string `db:"code" json:"code"`

	Name string `db:"name" json:"name"`

	// Unit of measure (e.g. "kg", "btl", "pcs")
	Unit string `db:"unit" json:"unit"`

	Category string `db:"category" json:"category,omitempty"`

	// ConsignmentSupplierID links consignment stock to its supplier.
	ConsignmentSupplierID *id.ID `db:"consignment_supplier_id" json:"consignmentSupplierId,omitempty"`

	IsActive bool `db:"is_active" json:"isActive"`

	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewStockItem creates a new active StockItem.
func NewStockItem(propertyID, code, name, unit string) *StockItem {
	now := time.Now().UTC()
	return &StockItem{
		ID:         id.New(),
		PropertyID: propertyID,
		Code:       code,
		Name:       name,
		Unit:       unit,
		IsActive:   true,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate checks entity invariants.
func (i *StockItem) Validate(ctx context.Context) error {
	if i.PropertyID == "" {
		return apperror.NewValidation("property is required").
			WithDetail("field", "propertyId")
	}
	if i.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	if i.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if i.Unit == "" {
		return apperror.NewValidation("unit of measure is required").
			WithDetail("field", "unit")
	}
	return nil
}

// Touch updates the timestamp for an update.
func (i *StockItem) Touch() {
	i.UpdatedAt = time.Now().UTC()
}
