package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceForPeriod(t *testing.T) {
	price := 120.0
	l := &Listing{Period: PeriodHour, PricePerHour: &price}
	assert.Equal(t, &price, l.PriceForPeriod())

	l = &Listing{Period: PeriodMonth, PricePerDay: &price}
	assert.Nil(t, l.PriceForPeriod(), "price set for a different period does not count")

	l = &Listing{Period: Period("fortnight"), PricePerHour: &price}
	assert.Nil(t, l.PriceForPeriod())
}

func TestFilterNormalize(t *testing.T) {
	var f Filter
	f.Normalize()
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 0, f.Offset)
	assert.Equal(t, 100.0, f.DistanceKm)

	f = Filter{Limit: 5, Offset: 40, DistanceKm: 30}
	f.Normalize()
	assert.Equal(t, 5, f.Limit)
	assert.Equal(t, 40, f.Offset)
	assert.Equal(t, 30.0, f.DistanceKm)

	f = Filter{Offset: -3}
	f.Normalize()
	assert.Equal(t, 0, f.Offset)
}

func TestFilterHasGeo(t *testing.T) {
	lat, long := 18.52, 73.86

	assert.False(t, (&Filter{}).HasGeo())
	assert.False(t, (&Filter{UserLat: &lat}).HasGeo(), "latitude alone is not enough")
	assert.True(t, (&Filter{UserLat: &lat, UserLong: &long}).HasGeo())
}
