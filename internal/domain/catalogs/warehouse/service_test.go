package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
)

type fakeRepo struct {
	byID   map[id.ID]*Warehouse
	byCode map[string]*Warehouse
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:   make(map[id.ID]*Warehouse),
		byCode: make(map[string]*Warehouse),
	}
}

func codeKey(propertyID, code string) string { return propertyID + "/" + code }

func (f *fakeRepo) Create(ctx context.Context, wh *Warehouse) error {
	f.byID[wh.ID] = wh
	f.byCode[codeKey(wh.PropertyID, wh.Code)] = wh
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, whID id.ID) (*Warehouse, error) {
	if wh, ok := f.byID[whID]; ok {
		cp := *wh
		return &cp, nil
	}
	return nil, apperror.NewNotFound("warehouse", whID.String())
}

func (f *fakeRepo) GetByCode(ctx context.Context, propertyID, code string) (*Warehouse, error) {
	if wh, ok := f.byCode[codeKey(propertyID, code)]; ok {
		cp := *wh
		return &cp, nil
	}
	return nil, apperror.NewNotFound("warehouse", code)
}

func (f *fakeRepo) Update(ctx context.Context, wh *Warehouse) error {
	stored, ok := f.byID[wh.ID]
	if !ok {
		return apperror.NewNotFound("warehouse", wh.ID.String())
	}
	if stored.Version != wh.Version {
		return apperror.NewConcurrentModification("warehouse", wh.ID)
	}
	cp := *wh
	cp.Version++
	f.byID[wh.ID] = &cp
	f.byCode[codeKey(cp.PropertyID, cp.Code)] = &cp
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*Warehouse, error) {
	var out []*Warehouse
	for _, wh := range f.byID {
		if filter.ActiveOnly && !wh.IsActive {
			continue
		}
		if filter.Type != nil && wh.Type != *filter.Type {
			continue
		}
		cp := *wh
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) ExistsByCode(ctx context.Context, propertyID, code string) (bool, error) {
	_, ok := f.byCode[codeKey(propertyID, code)]
	return ok, nil
}

func TestCreate_RejectsDuplicateCode(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	first := NewWarehouse("prop-1", "MAIN", "Main Store", TypeMainStore)
	require.NoError(t, svc.Create(ctx, first))

	dup := NewWarehouse("prop-1", "MAIN", "Other", TypeKitchen)
	err := svc.Create(ctx, dup)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	// the same code in another property is fine
	other := NewWarehouse("prop-2", "MAIN", "Main Store", TypeMainStore)
	require.NoError(t, svc.Create(ctx, other))
}

func TestCreate_RejectsInvalidType(t *testing.T) {
	svc := NewService(newFakeRepo())

	wh := NewWarehouse("prop-1", "XX", "Dry Dock", WarehouseType("dry_dock"))
	err := svc.Create(context.Background(), wh)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDeactivateActivate_Roundtrip(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	wh := NewWarehouse("prop-1", "BAR", "Pool Bar", TypeBar)
	require.NoError(t, svc.Create(ctx, wh))

	require.NoError(t, svc.Deactivate(ctx, wh.ID))
	got, err := svc.GetByID(ctx, wh.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// idempotent
	require.NoError(t, svc.Deactivate(ctx, wh.ID))

	require.NoError(t, svc.Activate(ctx, wh.ID))
	got, err = svc.GetByID(ctx, wh.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestList_FiltersInactive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	active := NewWarehouse("prop-1", "MAIN", "Main Store", TypeMainStore)
	dormant := NewWarehouse("prop-1", "OLD", "Old Cellar", TypeMainStore)
	require.NoError(t, svc.Create(ctx, active))
	require.NoError(t, svc.Create(ctx, dormant))
	require.NoError(t, svc.Deactivate(ctx, dormant.ID))

	got, err := svc.List(ctx, ListFilter{PropertyID: "prop-1", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MAIN", got[0].Code)
}
