package procurement

import (
	"context"
	"strings"
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
	"innkeep/internal/domain/event"
	"innkeep/internal/domain/ledger"
)

// --- fakes ---

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	orders   map[id.ID]*PurchaseOrder
	receipts map[id.ID][]Receipt
	highest  string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:   make(map[id.ID]*PurchaseOrder),
		receipts: make(map[id.ID][]Receipt),
	}
}

func clone(po *PurchaseOrder) *PurchaseOrder {
	cp := *po
	cp.Items = make([]PurchaseOrderItem, len(po.Items))
	copy(cp.Items, po.Items)
	return &cp
}

func (f *fakeRepo) HighestNumber(ctx context.Context, prefix string) (string, error) {
	if strings.HasPrefix(f.highest, prefix) {
		return f.highest, nil
	}
	return "", nil
}

func (f *fakeRepo) Create(ctx context.Context, po *PurchaseOrder) error {
	f.orders[po.ID] = clone(po)
	f.highest = po.Number
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error) {
	po, ok := f.orders[poID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", poID.String())
	}
	return clone(po), nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, poID id.ID) (*PurchaseOrder, error) {
	return f.GetByID(ctx, poID)
}

func (f *fakeRepo) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	for _, po := range f.orders {
		if po.Number == number {
			return clone(po), nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (f *fakeRepo) Update(ctx context.Context, po *PurchaseOrder) error {
	stored, ok := f.orders[po.ID]
	if !ok {
		return apperror.NewNotFound("purchase order", po.ID.String())
	}
	if stored.Version != po.Version-1 {
		return apperror.NewConcurrentModification("purchase order", po.ID)
	}
	items := stored.Items
	f.orders[po.ID] = clone(po)
	f.orders[po.ID].Items = items
	return nil
}

func (f *fakeRepo) SaveItems(ctx context.Context, poID id.ID, items []PurchaseOrderItem) error {
	stored := f.orders[poID]
	stored.Items = make([]PurchaseOrderItem, len(items))
	copy(stored.Items, items)
	return nil
}

func (f *fakeRepo) UpdateItemReceivedQty(ctx context.Context, item PurchaseOrderItem) error {
	stored := f.orders[item.OrderID]
	for i := range stored.Items {
		if stored.Items[i].ItemID == item.ItemID {
			stored.Items[i].ReceivedQty = item.ReceivedQty
			return nil
		}
	}
	return apperror.NewNotFound("purchase order line", item.ItemID.String())
}

func (f *fakeRepo) CreateReceipt(ctx context.Context, receipt *Receipt) error {
	f.receipts[receipt.OrderID] = append(f.receipts[receipt.OrderID], *receipt)
	return nil
}

func (f *fakeRepo) GetReceipts(ctx context.Context, poID id.ID) ([]Receipt, error) {
	return f.receipts[poID], nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*PurchaseOrder, error) {
	var out []*PurchaseOrder
	for _, po := range f.orders {
		if filter.Status != nil && po.Status != *filter.Status {
			continue
		}
		if filter.WarehouseID != nil && po.WarehouseID != *filter.WarehouseID {
			continue
		}
		out = append(out, clone(po))
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

type levelKey struct {
	warehouseID id.ID
	itemID      id.ID
}

// fakeLedgerRepo backs a real ledger.Service in workflow tests.
type fakeLedgerRepo struct {
	levels    map[levelKey]ledger.StockLevel
	movements []ledger.StockMovement
	batches   []ledger.StockBatch
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{levels: make(map[levelKey]ledger.StockLevel)}
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
	f.movements = append(f.movements, movements...)
	return nil
}

func (f *fakeLedgerRepo) CreateBatch(ctx context.Context, batch ledger.StockBatch) error {
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeLedgerRepo) ListLevelsByWarehouse(ctx context.Context, warehouseID id.ID, filter ledger.LevelFilter) ([]ledger.StockLevel, error) {
	return nil, nil
}

func (f *fakeLedgerRepo) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, error) {
	return f.movements, nil
}

func (f *fakeLedgerRepo) ListBatches(ctx context.Context, filter ledger.BatchFilter) ([]ledger.StockBatch, error) {
	return f.batches, nil
}

func (f *fakeLedgerRepo) SumMovements(ctx context.Context, warehouseID, itemID id.ID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// capturingPublisher records published events.
type capturingPublisher struct {
	events []event.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, ev event.Event) error {
	p.events = append(p.events, ev)
	return nil
}

// --- fixture ---

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	ledgerRepo *fakeLedgerRepo
	events     *capturingPublisher

	propertyID  string
	supplierID  id.ID
	warehouseID id.ID
	itemA       id.ID
	itemB       id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:       newFakeRepo(),
		ledgerRepo: newFakeLedgerRepo(),
		events:     &capturingPublisher{},
		propertyID: "prop-1",
	}

	sup := supplier.NewSupplier(f.propertyID, "SUP-1", "Fresh Foods")
	wh := warehouse.NewWarehouse(f.propertyID, "MAIN", "Main Store", warehouse.TypeMainStore)
	itemA := stockitem.NewStockItem(f.propertyID, "FLOUR", "Flour", "kg")
	itemB := stockitem.NewStockItem(f.propertyID, "OIL", "Olive Oil", "btl")
	f.supplierID, f.warehouseID = sup.ID, wh.ID
	f.itemA, f.itemB = itemA.ID, itemB.ID

	f.svc = NewService(
		f.repo,
		&fakeWarehouses{byID: map[id.ID]*warehouse.Warehouse{wh.ID: wh}},
		&fakeSuppliers{byID: map[id.ID]*supplier.Supplier{sup.ID: sup}},
		&fakeItems{byID: map[id.ID]*stockitem.StockItem{itemA.ID: itemA, itemB.ID: itemB}},
		ledger.NewService(f.ledgerRepo),
		fakeTx{},
		nil,
		f.events,
	)
	return f
}

func (f *fixture) draftWithLines(t *testing.T) *PurchaseOrder {
	t.Helper()
	ctx := context.Background()

	po, err := f.svc.Create(ctx, f.propertyID, f.supplierID, f.warehouseID, "buyer")
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, po.ID, f.itemA, types.MustDecimal("10"), types.MustDecimal("2.00"))
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, po.ID, f.itemB, types.MustDecimal("4"), types.MustDecimal("12.50"))
	require.NoError(t, err)

	return po
}

func (f *fixture) sentOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	ctx := context.Background()

	po := f.draftWithLines(t)
	require.NoError(t, f.svc.SubmitForApproval(ctx, po.ID, "buyer"))
	require.NoError(t, f.svc.Approve(ctx, po.ID, "manager"))
	require.NoError(t, f.svc.SendToSupplier(ctx, po.ID, "buyer"))
	return po
}

// --- tests ---

func TestCreate_GeneratesSequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.propertyID, f.supplierID, f.warehouseID, "buyer")
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.propertyID, f.supplierID, f.warehouseID, "buyer")
	require.NoError(t, err)

	assert.Regexp(t, `^PO-\d{8}-0001$`, first.Number)
	assert.Regexp(t, `^PO-\d{8}-0002$`, second.Number)
	assert.Equal(t, StatusDraft, first.Status)
}

func TestCreate_RejectsInactiveSupplier(t *testing.T) {
	f := newFixture(t)
	sup := supplier.NewSupplier(f.propertyID, "SUP-2", "Closed Down")
	sup.IsActive = false

	svc := NewService(
		f.repo,
		&fakeWarehouses{byID: map[id.ID]*warehouse.Warehouse{}},
		&fakeSuppliers{byID: map[id.ID]*supplier.Supplier{sup.ID: sup}},
		&fakeItems{byID: map[id.ID]*stockitem.StockItem{}},
		ledger.NewService(f.ledgerRepo),
		fakeTx{}, nil, nil,
	)

	_, err := svc.Create(context.Background(), f.propertyID, sup.ID, id.New(), "buyer")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestAddItem_ComputesTotals(t *testing.T) {
	f := newFixture(t)
	po := f.draftWithLines(t)

	got, err := f.svc.GetByID(context.Background(), po.ID)
	require.NoError(t, err)

	// 10 * 2.00 + 4 * 12.50 = 70.00
	assert.Equal(t, "70.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "70.00", got.Total.StringFixed(2))
	require.Len(t, got.Items, 2)
}

func TestAddItem_RejectsDuplicateLine(t *testing.T) {
	f := newFixture(t)
	po := f.draftWithLines(t)

	_, err := f.svc.AddItem(context.Background(), po.ID, f.itemA, types.MustDecimal("1"), types.MustDecimal("1"))

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestAddItem_RejectsUnknownStockItem(t *testing.T) {
	f := newFixture(t)
	po := f.draftWithLines(t)

	_, err := f.svc.AddItem(context.Background(), po.ID, id.New(), types.MustDecimal("1"), types.MustDecimal("1"))
	assert.True(t, apperror.IsNotFound(err))
}

func TestLineEdits_DraftOnly(t *testing.T) {
	f := newFixture(t)
	po := f.draftWithLines(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SubmitForApproval(ctx, po.ID, "buyer"))

	_, err := f.svc.AddItem(ctx, po.ID, f.itemB, types.MustDecimal("1"), types.MustDecimal("1"))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))

	_, err = f.svc.UpdateItem(ctx, po.ID, f.itemA, types.MustDecimal("2"), types.MustDecimal("2"))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))

	_, err = f.svc.RemoveItem(ctx, po.ID, f.itemA)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
}

func TestSubmit_RequiresLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	po, err := f.svc.Create(ctx, f.propertyID, f.supplierID, f.warehouseID, "buyer")
	require.NoError(t, err)

	err = f.svc.SubmitForApproval(ctx, po.ID, "buyer")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReject_ReturnsToDraftWithReason(t *testing.T) {
	f := newFixture(t)
	po := f.draftWithLines(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SubmitForApproval(ctx, po.ID, "buyer"))
	require.NoError(t, f.svc.Reject(ctx, po.ID, "manager", "budget exceeded"))

	got, err := f.svc.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got.Status)
	assert.Nil(t, got.SubmittedAt)
	assert.Contains(t, got.Notes, "budget exceeded")

	// rejected drafts are editable again
	_, err = f.svc.UpdateItem(ctx, po.ID, f.itemA, types.MustDecimal("5"), types.MustDecimal("2.00"))
	require.NoError(t, err)
}

func TestReject_RequiresReason(t *testing.T) {
	f := newFixture(t)
	po := f.draftWithLines(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SubmitForApproval(ctx, po.ID, "buyer"))

	err := f.svc.Reject(ctx, po.ID, "manager", "")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceive_FullDelivery(t *testing.T) {
	f := newFixture(t)
	po := f.sentOrder(t)
	ctx := context.Background()

	receipt, err := f.svc.Receive(ctx, po.ID, "storekeeper", "all good", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("10")},
		{ItemID: f.itemB, Quantity: types.MustDecimal("4")},
	})
	require.NoError(t, err)
	require.Len(t, receipt.Items, 2)

	got, err := f.svc.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, got.Status)

	// stock landed at ordered cost
	level, ok := f.ledgerRepo.levels[levelKey{f.warehouseID, f.itemA}]
	require.True(t, ok)
	assert.Equal(t, "10.000", level.Quantity.StringFixed(3))
	assert.Equal(t, "2.0000", level.AverageCost.StringFixed(4))
}

func TestReceive_PartialThenComplete(t *testing.T) {
	f := newFixture(t)
	po := f.sentOrder(t)
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("6"), BatchNumber: "LOT-A1"},
	})
	require.NoError(t, err)

	got, _ := f.svc.GetByID(ctx, po.ID)
	assert.Equal(t, StatusPartiallyReceived, got.Status)
	require.Len(t, f.ledgerRepo.batches, 1)
	assert.Equal(t, "LOT-A1", f.ledgerRepo.batches[0].BatchNumber)

	_, err = f.svc.Receive(ctx, po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("4")},
		{ItemID: f.itemB, Quantity: types.MustDecimal("4")},
	})
	require.NoError(t, err)

	got, _ = f.svc.GetByID(ctx, po.ID)
	assert.Equal(t, StatusReceived, got.Status)

	receipts, err := f.svc.GetReceipts(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, receipts, 2)
}

func TestReceive_OverReceiveRejectsWholeCall(t *testing.T) {
	f := newFixture(t)
	po := f.sentOrder(t)
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("3")},
		{ItemID: f.itemB, Quantity: types.MustDecimal("5")}, // ordered 4
	})

	assert.True(t, apperror.IsCode(err, apperror.CodeReceiveLimitExceeded))

	// the valid line must not have landed either
	assert.Empty(t, f.ledgerRepo.movements)
	got, _ := f.svc.GetByID(ctx, po.ID)
	assert.Equal(t, StatusSent, got.Status)
	assert.True(t, got.Items[0].ReceivedQty.IsZero())
}

func TestReceive_DuplicateLinesAccumulateAgainstLimit(t *testing.T) {
	f := newFixture(t)
	po := f.sentOrder(t)

	_, err := f.svc.Receive(context.Background(), po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("7")},
		{ItemID: f.itemA, Quantity: types.MustDecimal("7")}, // 14 > ordered 10
	})

	assert.True(t, apperror.IsCode(err, apperror.CodeReceiveLimitExceeded))
}

func TestReceive_OnlyInSentOrPartial(t *testing.T) {
	f := newFixture(t)
	po := f.draftWithLines(t)

	_, err := f.svc.Receive(context.Background(), po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("1")},
	})

	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
}

func TestReceive_AfterFullyReceivedReportsLimit(t *testing.T) {
	f := newFixture(t)
	po := f.sentOrder(t)
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("10")},
		{ItemID: f.itemB, Quantity: types.MustDecimal("4")},
	})
	require.NoError(t, err)
	movements := len(f.ledgerRepo.movements)

	_, err = f.svc.Receive(ctx, po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("1")},
	})

	assert.True(t, apperror.IsCode(err, apperror.CodeReceiveLimitExceeded))

	got, _ := f.svc.GetByID(ctx, po.ID)
	assert.Equal(t, StatusReceived, got.Status)
	assert.Len(t, f.ledgerRepo.movements, movements)
}

func TestClose_OnlyFromReceived(t *testing.T) {
	f := newFixture(t)
	po := f.sentOrder(t)
	ctx := context.Background()

	err := f.svc.Close(ctx, po.ID, "buyer")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))

	_, err = f.svc.Receive(ctx, po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("10")},
		{ItemID: f.itemB, Quantity: types.MustDecimal("4")},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Close(ctx, po.ID, "buyer"))
	got, _ := f.svc.GetByID(ctx, po.ID)
	assert.Equal(t, StatusClosed, got.Status)
}

func TestCancel_KeepsReceivedStock(t *testing.T) {
	f := newFixture(t)
	po := f.sentOrder(t)
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("6")},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, po.ID, "buyer", "supplier out of stock"))

	got, _ := f.svc.GetByID(ctx, po.ID)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Contains(t, got.Notes, "supplier out of stock")

	level := f.ledgerRepo.levels[levelKey{f.warehouseID, f.itemA}]
	assert.Equal(t, "6.000", level.Quantity.StringFixed(3))
}

func TestGetPendingForApproval_FiltersQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.draftWithLines(t)
	require.NoError(t, f.svc.SubmitForApproval(ctx, pending.ID, "buyer"))

	// a second order left in DRAFT stays out of the queue
	_, err := f.svc.Create(ctx, f.propertyID, f.supplierID, f.warehouseID, "buyer")
	require.NoError(t, err)

	queue, err := f.svc.GetPendingForApproval(ctx, f.warehouseID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, pending.ID, queue[0].ID)
	assert.Equal(t, StatusPendingApproval, queue[0].Status)

	other, err := f.svc.GetPendingForApproval(ctx, id.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestWorkflow_PublishesEvents(t *testing.T) {
	f := newFixture(t)
	po := f.sentOrder(t)
	ctx := context.Background()

	_, err := f.svc.Receive(ctx, po.ID, "storekeeper", "", []ReceiveLine{
		{ItemID: f.itemA, Quantity: types.MustDecimal("10")},
		{ItemID: f.itemB, Quantity: types.MustDecimal("4")},
	})
	require.NoError(t, err)

	var seen []string
	for _, ev := range f.events.events {
		seen = append(seen, ev.Type)
		assert.Equal(t, "purchase_order", ev.AggregateType)
		assert.Equal(t, po.ID, ev.AggregateID)
	}
	assert.Equal(t, []string{
		event.TypeOrderSubmitted,
		event.TypeOrderApproved,
		event.TypeOrderSent,
		event.TypeOrderReceived,
	}, seen)
}
