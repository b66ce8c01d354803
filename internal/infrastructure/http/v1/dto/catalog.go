package dto

import (
	"innkeep/internal/domain/catalogs/stockitem"
	"innkeep/internal/domain/catalogs/supplier"
	"innkeep/internal/domain/catalogs/warehouse"
)

// --- Warehouse ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code string                  `json:"code" binding:"required"`
	Name string                  `json:"name" binding:"required"`
	Type warehouse.WarehouseType `json:"type" binding:"required"`
}

// ToEntity converts the request to a domain entity scoped to propertyID.
func (r *CreateWarehouseRequest) ToEntity(propertyID string) *warehouse.Warehouse {
	return warehouse.NewWarehouse(propertyID, r.Code, r.Name, r.Type)
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
// Code is immutable and absent here.
type UpdateWarehouseRequest struct {
	Name    string                  `json:"name" binding:"required"`
	Type    warehouse.WarehouseType `json:"type" binding:"required"`
	Version int                     `json:"version" binding:"required"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Name = r.Name
	wh.Type = r.Type
	wh.Version = r.Version
}

// --- StockItem ---

// CreateStockItemRequest is the request body for creating a stock item.
type CreateStockItemRequest struct {
	Code                  string  `json:"code" binding:"required"`
	Name                  string  `json:"name" binding:"required"`
	Unit                  string  `json:"unit" binding:"required"`
	Category              string  `json:"category"`
	ConsignmentSupplierID *string `json:"consignmentSupplierId"`
}

// UpdateStockItemRequest is the request body for updating a stock item.
type UpdateStockItemRequest struct {
	Name                  string  `json:"name" binding:"required"`
	Unit                  string  `json:"unit" binding:"required"`
	Category              string  `json:"category"`
	ConsignmentSupplierID *string `json:"consignmentSupplierId"`
	Version               int     `json:"version" binding:"required"`
}

// ApplyTo applies the update to an existing entity. ConsignmentSupplierID
// is parsed and set by the handler.
func (r *UpdateStockItemRequest) ApplyTo(item *stockitem.StockItem) {
	item.Name = r.Name
	item.Unit = r.Unit
	item.Category = r.Category
	item.Version = r.Version
}

// --- Supplier ---

// CreateSupplierRequest is the request body for creating a supplier.
type CreateSupplierRequest struct {
	Code  string `json:"code" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ToEntity converts the request to a domain entity scoped to propertyID.
func (r *CreateSupplierRequest) ToEntity(propertyID string) *supplier.Supplier {
	sup := supplier.NewSupplier(propertyID, r.Code, r.Name)
	sup.Email = r.Email
	sup.Phone = r.Phone
	return sup
}

// UpdateSupplierRequest is the request body for updating a supplier.
type UpdateSupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Version int    `json:"version" binding:"required"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateSupplierRequest) ApplyTo(sup *supplier.Supplier) {
	sup.Name = r.Name
	sup.Email = r.Email
	sup.Phone = r.Phone
	sup.Version = r.Version
}
