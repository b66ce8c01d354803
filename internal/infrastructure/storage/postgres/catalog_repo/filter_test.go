package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo() *baseCatalogRepo[any] {
	return newBaseCatalogRepo[any](nil, "test_table", []string{"id", "code"}, func() any { return nil })
}

func TestBaseSelect_UsesDollarPlaceholders(t *testing.T) {
	repo := testRepo()

	sql, args, err := repo.baseSelect().
		Where(squirrel.Eq{"property_id": "prop-1"}).
		Where(squirrel.Eq{"code": "MAIN"}).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, code FROM test_table WHERE property_id = $1 AND code = $2", sql)
	assert.Equal(t, []any{"prop-1", "MAIN"}, args)
}

func TestPaginate(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		name    string
		limit   int
		offset  int
		wantSQL string
	}{
		{
			name:    "both",
			limit:   50,
			offset:  100,
			wantSQL: "SELECT id, code FROM test_table LIMIT 50 OFFSET 100",
		},
		{
			name:    "limit only",
			limit:   20,
			wantSQL: "SELECT id, code FROM test_table LIMIT 20",
		},
		{
			name:    "unset leaves query unbounded",
			wantSQL: "SELECT id, code FROM test_table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := paginate(repo.baseSelect(), tt.limit, tt.offset).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
		})
	}
}
