package ledger_repo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/core/id"
)

func TestEnsureLevelQuery(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()

	sql, args, err := ensureLevelQuery(warehouseID, itemID)
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO stock_levels (item_id,warehouse_id,quantity,average_cost,updated_at) "+
			"VALUES ($1,$2,$3,$4,$5) ON CONFLICT (item_id, warehouse_id) DO NOTHING",
		sql)
	require.Len(t, args, 5)
	assert.Equal(t, itemID, args[0])
	assert.Equal(t, warehouseID, args[1])
	assert.True(t, args[2].(decimal.Decimal).IsZero())
	assert.True(t, args[3].(decimal.Decimal).IsZero())
}

func TestLevelQuery_LockSuffix(t *testing.T) {
	warehouseID, itemID := id.New(), id.New()
	cols := []string{"item_id", "warehouse_id", "quantity", "average_cost", "updated_at"}

	locked, args, err := levelQuery(cols, warehouseID, itemID, true)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT item_id, warehouse_id, quantity, average_cost, updated_at "+
			"FROM stock_levels WHERE warehouse_id = $1 AND item_id = $2 FOR UPDATE",
		locked)
	assert.Equal(t, []any{warehouseID, itemID}, args)

	plain, _, err := levelQuery(cols, warehouseID, itemID, false)
	require.NoError(t, err)
	assert.NotContains(t, plain, "FOR UPDATE")
}
