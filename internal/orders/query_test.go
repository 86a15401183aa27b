package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery_OwnerScopeOnly(t *testing.T) {
	filters := ListFilters{ActorID: "user-1", Skip: 0, Limit: 10}

	dataSQL, dataArgs, countSQL, countArgs := buildListQuery(filters)

	assert.NotContains(t, dataSQL, "JOIN")
	assert.NotContains(t, countSQL, "DISTINCT")
	assert.Contains(t, countSQL, "COUNT(*)")
	assert.Contains(t, dataSQL, "o.created_by = $1")
	assert.Contains(t, countSQL, "o.created_by = $1")
	assert.Equal(t, []any{"user-1"}, countArgs)
	assert.Equal(t, []any{"user-1", 0, 10}, dataArgs)
	assert.Contains(t, dataSQL, "OFFSET $2 LIMIT $3")
}

func TestBuildListQuery_SectionFilterJoinsAndDeduplicates(t *testing.T) {
	filters := ListFilters{ActorID: "user-1", Section: "beverages", Skip: 0, Limit: 10}

	dataSQL, dataArgs, countSQL, countArgs := buildListQuery(filters)

	// the join can produce one row per matching line; both queries must
	// collapse rows by order identity
	assert.Contains(t, dataSQL, "JOIN order_items i ON i.order_id = o.id")
	assert.Contains(t, dataSQL, "JOIN products p ON p.id = i.product_id")
	assert.Contains(t, dataSQL, "SELECT DISTINCT")
	assert.Contains(t, countSQL, "COUNT(DISTINCT o.id)")
	assert.Contains(t, dataSQL, "p.section = $2")
	assert.Equal(t, []any{"user-1", "beverages"}, countArgs)
	assert.Equal(t, []any{"user-1", "beverages", 0, 10}, dataArgs)
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	filters := ListFilters{
		ActorID:   "user-1",
		ClientID:  "client-2",
		OrderID:   "order-3",
		Status:    StatusPending,
		Section:   "beverages",
		StartDate: &start,
		EndDate:   &end,
		Skip:      20,
		Limit:     10,
	}

	dataSQL, dataArgs, countSQL, countArgs := buildListQuery(filters)

	assert.Contains(t, dataSQL, "o.created_by = $1")
	assert.Contains(t, dataSQL, "o.client_id = $2")
	assert.Contains(t, dataSQL, "o.id = $3")
	assert.Contains(t, dataSQL, "o.status = $4")
	assert.Contains(t, dataSQL, "o.created_at >= $5")
	assert.Contains(t, dataSQL, "o.created_at <= $6")
	assert.Contains(t, dataSQL, "p.section = $7")
	assert.Contains(t, dataSQL, "OFFSET $8 LIMIT $9")

	assert.Equal(t, []any{"user-1", "client-2", "order-3", StatusPending, start, end, "beverages"}, countArgs)
	assert.Len(t, dataArgs, 9)
	assert.Contains(t, countSQL, "COUNT(DISTINCT o.id)")
}

func TestBuildListQuery_DateRangeWithoutSection(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	filters := ListFilters{ActorID: "user-1", StartDate: &start, Skip: 0, Limit: 5}

	dataSQL, _, countSQL, countArgs := buildListQuery(filters)

	assert.Contains(t, dataSQL, "o.created_at >= $2")
	assert.NotContains(t, dataSQL, "JOIN")
	assert.Contains(t, countSQL, "COUNT(*)")
	assert.Equal(t, []any{"user-1", start}, countArgs)
}
