package parlevel

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/core/types"
	"innkeep/internal/domain/catalogs/stockitem"
	"innkeep/internal/domain/catalogs/supplier"
	"innkeep/internal/domain/catalogs/warehouse"
	"innkeep/internal/domain/ledger"
)

type parKey struct {
	warehouseID id.ID
	itemID      id.ID
}

type fakeRepo struct {
	levels map[parKey]ParLevel
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{levels: make(map[parKey]ParLevel)}
}

func (f *fakeRepo) Set(ctx context.Context, level ParLevel) error {
	f.levels[parKey{level.WarehouseID, level.ItemID}] = level
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, warehouseID, itemID id.ID) (*ParLevel, error) {
	if level, ok := f.levels[parKey{warehouseID, itemID}]; ok {
		return &level, nil
	}
	return nil, apperror.NewNotFound("par level", itemID.String())
}

func (f *fakeRepo) Remove(ctx context.Context, warehouseID, itemID id.ID) error {
	delete(f.levels, parKey{warehouseID, itemID})
	return nil
}

func (f *fakeRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]ParLevel, error) {
	var out []ParLevel
	for key, level := range f.levels {
		if key.warehouseID == warehouseID {
			out = append(out, level)
		}
	}
	return out, nil
}

type fakeWarehouses struct {
	byID map[id.ID]*warehouse.Warehouse
}

func (f *fakeWarehouses) Create(ctx context.Context, wh *warehouse.Warehouse) error { return nil }
func (f *fakeWarehouses) GetByID(ctx context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	if wh, ok := f.byID[whID]; ok {
		return wh, nil
	}
	return nil, apperror.NewNotFound("warehouse", whID.String())
}
func (f *fakeWarehouses) GetByCode(ctx context.Context, propertyID, code string) (*warehouse.Warehouse, error) {
	return nil, apperror.NewNotFound("warehouse", code)
}
func (f *fakeWarehouses) Update(ctx context.Context, wh *warehouse.Warehouse) error { return nil }
func (f *fakeWarehouses) List(ctx context.Context, filter warehouse.ListFilter) ([]*warehouse.Warehouse, error) {
	return nil, nil
}
func (f *fakeWarehouses) ExistsByCode(ctx context.Context, propertyID, code string) (bool, error) {
	return false, nil
}

type fakeItems struct {
	byID map[id.ID]*stockitem.StockItem
}

func (f *fakeItems) Create(ctx context.Context, item *stockitem.StockItem) error { return nil }
func (f *fakeItems) GetByID(ctx context.Context, itemID id.ID) (*stockitem.StockItem, error) {
	if item, ok := f.byID[itemID]; ok {
		return item, nil
	}
	return nil, apperror.NewNotFound("stock item", itemID.String())
}
func (f *fakeItems) GetByCode(ctx context.Context, propertyID, code string) (*stockitem.StockItem, error) {
	return nil, apperror.NewNotFound("stock item", code)
}
func (f *fakeItems) Update(ctx context.Context, item *stockitem.StockItem) error { return nil }
func (f *fakeItems) List(ctx context.Context, filter stockitem.ListFilter) ([]*stockitem.StockItem, error) {
	return nil, nil
}
func (f *fakeItems) ExistsByCode(ctx context.Context, propertyID, code string) (bool, error) {
	return false, nil
}

type fakeSuppliers struct {
	byID map[id.ID]*supplier.Supplier
}

func (f *fakeSuppliers) Create(ctx context.Context, sup *supplier.Supplier) error { return nil }
func (f *fakeSuppliers) GetByID(ctx context.Context, supID id.ID) (*supplier.Supplier, error) {
	if sup, ok := f.byID[supID]; ok {
		return sup, nil
	}
	return nil, apperror.NewNotFound("supplier", supID.String())
}
func (f *fakeSuppliers) Update(ctx context.Context, sup *supplier.Supplier) error { return nil }
func (f *fakeSuppliers) List(ctx context.Context, filter supplier.ListFilter) ([]*supplier.Supplier, error) {
	return nil, nil
}
func (f *fakeSuppliers) ExistsByCode(ctx context.Context, propertyID, code string) (bool, error) {
	return false, nil
}

type levelKey struct {
	warehouseID id.ID
	itemID      id.ID
}

type fakeLedgerRepo struct {
	levels map[levelKey]ledger.StockLevel
}

func (f *fakeLedgerRepo) seed(warehouseID, itemID id.ID, qty string) {
	f.levels[levelKey{warehouseID, itemID}] = ledger.StockLevel{
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    types.MustDecimal(qty),
		AverageCost: decimal.Zero,
	}
}

func (f *fakeLedgerRepo) GetLevel(ctx context.Context, warehouseID, itemID id.ID) (ledger.StockLevel, error) {
	if level, ok := f.levels[levelKey{warehouseID, itemID}]; ok {
		return level, nil
	}
	return ledger.StockLevel{
		ItemID: itemID, WarehouseID: warehouseID,
		Quantity: decimal.Zero, AverageCost: decimal.Zero,
	}, nil
}

func (f *fakeLedgerRepo) GetLevelForUpdate(ctx context.Context, warehouseID, itemID id.ID) (ledger.StockLevel, error) {
	return f.GetLevel(ctx, warehouseID, itemID)
}

func (f *fakeLedgerRepo) SaveLevel(ctx context.Context, level ledger.StockLevel) error {
	f.levels[levelKey{level.WarehouseID, level.ItemID}] = level
	return nil
}

func (f *fakeLedgerRepo) CreateMovements(ctx context.Context, movements []ledger.StockMovement) error {
	return nil
}

func (f *fakeLedgerRepo) CreateBatch(ctx context.Context, batch ledger.StockBatch) error { return nil }

func (f *fakeLedgerRepo) ListLevelsByWarehouse(ctx context.Context, warehouseID id.ID, filter ledger.LevelFilter) ([]ledger.StockLevel, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) ListBatches(ctx context.Context, filter ledger.BatchFilter) ([]ledger.StockBatch, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) SumMovements(ctx context.Context, warehouseID, itemID id.ID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type fixture struct {
	svc        *Service
	ledgerRepo *fakeLedgerRepo

	warehouseID id.ID
	supplierID  id.ID
	itemA       id.ID
	itemB       id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	wh := warehouse.NewWarehouse("prop-1", "BAR", "Pool Bar", warehouse.TypeBar)
	sup := supplier.NewSupplier("prop-1", "SUP-1", "Beverage Co")
	itemA := stockitem.NewStockItem("prop-1", "GIN", "Gin", "btl")
	itemB := stockitem.NewStockItem("prop-1", "TONIC", "Tonic Water", "btl")

	f := &fixture{
		ledgerRepo:  &fakeLedgerRepo{levels: make(map[levelKey]ledger.StockLevel)},
		warehouseID: wh.ID,
		supplierID:  sup.ID,
		itemA:       itemA.ID,
		itemB:       itemB.ID,
	}
	f.svc = NewService(
		newFakeRepo(),
		&fakeWarehouses{byID: map[id.ID]*warehouse.Warehouse{wh.ID: wh}},
		&fakeItems{byID: map[id.ID]*stockitem.StockItem{itemA.ID: itemA, itemB.ID: itemB}},
		&fakeSuppliers{byID: map[id.ID]*supplier.Supplier{sup.ID: sup}},
		ledger.NewService(f.ledgerRepo),
	)
	return f
}

func TestSet_StoresRoundedPar(t *testing.T) {
	f := newFixture(t)

	level, err := f.svc.Set(context.Background(), f.warehouseID, f.itemA, types.MustDecimal("12.3456"), nil)
	require.NoError(t, err)

	assert.Equal(t, "12.346", level.Par.StringFixed(3))
	assert.Nil(t, level.PreferredSupplierID)
}

func TestSet_RejectsNonPositivePar(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Set(context.Background(), f.warehouseID, f.itemA, decimal.Zero, nil)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSet_ValidatesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	par := types.MustDecimal("5")

	_, err := f.svc.Set(ctx, id.New(), f.itemA, par, nil)
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.Set(ctx, f.warehouseID, id.New(), par, nil)
	assert.True(t, apperror.IsNotFound(err))

	unknown := id.New()
	_, err = f.svc.Set(ctx, f.warehouseID, f.itemA, par, &unknown)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSet_IsUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Set(ctx, f.warehouseID, f.itemA, types.MustDecimal("5"), nil)
	require.NoError(t, err)
	_, err = f.svc.Set(ctx, f.warehouseID, f.itemA, types.MustDecimal("8"), &f.supplierID)
	require.NoError(t, err)

	levels, err := f.svc.ListByWarehouse(ctx, f.warehouseID)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "8.000", levels[0].Par.StringFixed(3))
	require.NotNil(t, levels[0].PreferredSupplierID)
	assert.Equal(t, f.supplierID, *levels[0].PreferredSupplierID)
}

func TestGetSuggestedItems_ReportsItemsBelowPar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Set(ctx, f.warehouseID, f.itemA, types.MustDecimal("10"), &f.supplierID)
	require.NoError(t, err)
	_, err = f.svc.Set(ctx, f.warehouseID, f.itemB, types.MustDecimal("24"), nil)
	require.NoError(t, err)

	f.ledgerRepo.seed(f.warehouseID, f.itemA, "3")
	f.ledgerRepo.seed(f.warehouseID, f.itemB, "24")

	suggestions, err := f.svc.GetSuggestedItems(ctx, f.warehouseID)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	sg := suggestions[0]
	assert.Equal(t, f.itemA, sg.ItemID)
	assert.Equal(t, "3.000", sg.Current.StringFixed(3))
	assert.Equal(t, "7.000", sg.Suggested.StringFixed(3))
	require.NotNil(t, sg.PreferredSupplierID)
	assert.Equal(t, f.supplierID, *sg.PreferredSupplierID)
}

func TestGetSuggestedItems_ZeroStockSuggestsFullPar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Set(ctx, f.warehouseID, f.itemA, types.MustDecimal("6"), nil)
	require.NoError(t, err)

	suggestions, err := f.svc.GetSuggestedItems(ctx, f.warehouseID)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "6.000", suggestions[0].Suggested.StringFixed(3))
	assert.True(t, suggestions[0].Current.IsZero())
}

func TestRemove_DropsConfiguration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Set(ctx, f.warehouseID, f.itemA, types.MustDecimal("6"), nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.Remove(ctx, f.warehouseID, f.itemA))

	levels, err := f.svc.ListByWarehouse(ctx, f.warehouseID)
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestGetSuggestedItems_UnknownWarehouse(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetSuggestedItems(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
