package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchSQL(t *testing.T, filter Filter) (string, []any) {
	t.Helper()
	filter.Normalize()
	sql, args, err := buildSearchQuery(filter)
	require.NoError(t, err)
	return sql, args
}

func TestBuildSearchQueryNoFilters(t *testing.T) {
	sql, args := searchSQL(t, Filter{})

	assert.NotContains(t, sql, "WHERE", "empty filter selects everything")
	assert.Contains(t, sql, "count(*) OVER() as total_count")
	assert.Contains(t, sql, "ORDER BY l.created_at DESC")
	assert.Contains(t, sql, "LIMIT 20")
	assert.Contains(t, sql, "OFFSET 0")
	assert.Empty(t, args)
}

func TestBuildSearchQueryText(t *testing.T) {
	sql, args := searchSQL(t, Filter{Query: "tractor"})

	// One case-insensitive pattern over title, description and category.
	assert.Contains(t, sql, "l.title ILIKE")
	assert.Contains(t, sql, "l.description ILIKE")
	assert.Contains(t, sql, "l.category ILIKE")
	assert.Contains(t, sql, " OR ")
	assert.Equal(t, []any{"%tractor%", "%tractor%", "%tractor%"}, args)
}

func TestBuildSearchQueryEqualityFilters(t *testing.T) {
	available := true
	sql, args := searchSQL(t, Filter{
		Type:      "equipment",
		Category:  "tractor",
		Brand:     "Mahindra",
		Condition: "good",
		Pincode:   "411001",
		Available: &available,
	})

	assert.Contains(t, sql, "l.type =")
	assert.Contains(t, sql, "l.category =")
	assert.Contains(t, sql, "l.brand =")
	assert.Contains(t, sql, "l.condition =")
	assert.Contains(t, sql, "l.pincode =")
	assert.Contains(t, sql, "l.available =")

	assert.Contains(t, args, "equipment")
	assert.Contains(t, args, "tractor")
	assert.Contains(t, args, "Mahindra")
	assert.Contains(t, args, "good")
	assert.Contains(t, args, "411001")
	assert.Contains(t, args, true)
}

func TestBuildSearchQueryLocationSubstring(t *testing.T) {
	sql, args := searchSQL(t, Filter{Location: "Pune"})

	assert.Contains(t, sql, "l.location ILIKE")
	assert.Contains(t, args, "%Pune%")
}

func TestBuildSearchQueryPriceBounds(t *testing.T) {
	sql, args := searchSQL(t, Filter{
		PriceMinDay: ptr(50.0),
		PriceMaxDay: ptr(150.0),
	})

	// Inclusive bounds on the day column only.
	assert.Contains(t, sql, "l.price_per_day >=")
	assert.Contains(t, sql, "l.price_per_day <=")
	assert.NotContains(t, sql, "l.price_per_hour")
	assert.NotContains(t, sql, "l.price_per_week")
	assert.NotContains(t, sql, "l.price_per_month")
	assert.Equal(t, []any{50.0, 150.0}, args)

	sql, _ = searchSQL(t, Filter{PriceMinMonth: ptr(1000.0)})
	assert.Contains(t, sql, "l.price_per_month >=")
	assert.NotContains(t, sql, "l.price_per_month <=")
}

func TestBuildSearchQueryConjunction(t *testing.T) {
	sql, args := searchSQL(t, Filter{
		Query:       "rotavator",
		Type:        "equipment",
		PriceMaxDay: ptr(100.0),
	})

	// All filters combine with AND.
	assert.Contains(t, sql, "AND l.type =")
	assert.Contains(t, sql, "AND l.price_per_day <=")
	assert.Len(t, args, 5) // 3 pattern args + type + price
}

func TestBuildSearchQueryGeoSkipsPagination(t *testing.T) {
	sql, _ := searchSQL(t, Filter{UserLat: ptr(18.52), UserLong: ptr(73.86)})

	// The radius cut happens in the service, so the query must return every
	// candidate row.
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, "OFFSET")
	assert.Contains(t, sql, "ORDER BY l.created_at DESC")

	sql, _ = searchSQL(t, Filter{Limit: 5, Offset: 10})
	assert.Contains(t, sql, "LIMIT 5")
	assert.Contains(t, sql, "OFFSET 10")
}

func TestBuildSearchQueryDollarPlaceholders(t *testing.T) {
	sql, _ := searchSQL(t, Filter{Type: "land", Category: "paddy"})

	assert.Contains(t, sql, "$1")
	assert.Contains(t, sql, "$2")
	assert.NotContains(t, sql, "?")
}
