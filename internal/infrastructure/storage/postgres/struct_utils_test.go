package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"innkeep/internal/core/id"
)

type mockRow struct {
	ID        id.ID           `db:"id" json:"id"`
	Code      string          `db:"code" json:"code"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	Version   int             `db:"version" json:"version"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
	Ignored   string          `db:"-" json:"-"`
	Untagged  string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockRow]()

	assert.Equal(t, []string{"id", "code", "quantity", "version", "updated_at"}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	row := mockRow{
		ID:        id.New(),
		Code:      "MAIN",
		Quantity:  decimal.RequireFromString("12.5"),
		Version:   3,
		UpdatedAt: now,
		Ignored:   "skip me",
		Untagged:  "skip me too",
	}

	m := StructToMap(row)

	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, "MAIN", m["code"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, now, m["updated_at"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 5)
}

func TestStructToMap_PointerInput(t *testing.T) {
	row := &mockRow{Code: "PTR"}

	m := StructToMap(row)

	assert.Equal(t, "PTR", m["code"])
}
