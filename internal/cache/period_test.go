package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock implements a mock time source for testing
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestPeriodKeys(t *testing.T) {
	ts := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-15", DayKey(ts))
	assert.Equal(t, "2025-06", MonthKey(ts))
}

func TestDayCache(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	c := NewDayCache[string]()

	_, ok := c.Get(now)
	assert.False(t, ok, "empty cache should miss")

	c.Put(now, "morning value")

	value, ok := c.Get(now)
	require.True(t, ok)
	assert.Equal(t, "morning value", value)

	// Same calendar day, hours later: still valid
	value, ok = c.Get(now.Add(15 * time.Hour))
	require.True(t, ok)
	assert.Equal(t, "morning value", value)

	// Crossing midnight invalidates the slot
	nextDay := now.Add(17 * time.Hour)
	_, ok = c.Get(nextDay)
	assert.False(t, ok, "value from yesterday should miss")

	// A fresh Put re-keys to the new day
	c.Put(nextDay, "next day value")
	value, ok = c.Get(nextDay)
	require.True(t, ok)
	assert.Equal(t, "next day value", value)
}

func TestDayCacheUsesCallerCalendar(t *testing.T) {
	pacific := time.FixedZone("PDT", -7*3600)
	c := NewDayCache[string]()

	// Local evening; in UTC the next date has already started.
	evening := time.Date(2025, 6, 15, 17, 30, 0, 0, pacific)
	require.Equal(t, "2025-06-16", DayKey(evening.UTC()))

	c.Put(evening, "evening value")

	// Still the same local day hours later
	value, ok := c.Get(evening.Add(5 * time.Hour))
	require.True(t, ok)
	assert.Equal(t, "evening value", value)

	// Next local morning: the entry is stale even though the UTC date
	// matches the stored one
	nextMorning := time.Date(2025, 6, 16, 10, 30, 0, 0, pacific)
	_, ok = c.Get(nextMorning)
	assert.False(t, ok, "entry from the previous local day should miss")
}

func TestDayCacheSinglePeriodSingleValue(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	c := NewDayCache[int]()

	c.Put(now, 1)
	c.Put(now, 2)

	// Repeated gets within one period observe one stable value
	first, ok := c.Get(now)
	require.True(t, ok)
	second, ok := c.Get(now.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, second)
}

func TestMonthCache(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	c := NewMonthCache[[]string]()

	assert.False(t, c.HasCurrentMonth(now))

	c.Put("2025-06", []string{"june"})
	c.Put("2025-05", []string{"may"})

	assert.True(t, c.HasCurrentMonth(now))

	june, ok := c.Get("2025-06")
	require.True(t, ok)
	assert.Equal(t, []string{"june"}, june)

	// Previous months stay addressable
	may, ok := c.Get("2025-05")
	require.True(t, ok)
	assert.Equal(t, []string{"may"}, may)

	_, ok = c.Get("2025-07")
	assert.False(t, ok)
}

func TestMonthCacheRollover(t *testing.T) {
	now := time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)
	c := NewMonthCache[int]()

	c.Put("2025-06", 6)
	assert.True(t, c.HasCurrentMonth(now))

	// July: the June entry is no longer the current month but is still
	// readable as the previous one
	assert.False(t, c.HasCurrentMonth(now.Add(2*time.Hour)))

	june, ok := c.Get("2025-06")
	require.True(t, ok)
	assert.Equal(t, 6, june)
}

func TestMonthCachePurge(t *testing.T) {
	c := NewMonthCache[int]()
	c.Put("2025-06", 6)
	c.Put("2025-05", 5)

	c.Purge()

	_, ok := c.Get("2025-06")
	assert.False(t, ok)
	_, ok = c.Get("2025-05")
	assert.False(t, ok)
}
