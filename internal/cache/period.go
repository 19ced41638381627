package cache

import (
	"sync"
	"time"
)

// Period key formats. A day-granularity entry is valid only while the
// current date equals its key; a month-granularity entry only while the
// current year-month equals its key.
const (
	dayKeyFormat   = "2006-01-02"
	monthKeyFormat = "2006-01"
)

// DayKey returns the day-granularity period key for t.
func DayKey(t time.Time) string {
	return t.Format(dayKeyFormat)
}

// MonthKey returns the month-granularity period key for t.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyFormat)
}

// DayCache holds a single value keyed by calendar date. The caller's
// now carries the relevant timezone, so Get returns a miss as soon as
// now rolls past the stored day; the owning component is responsible
// for re-fetching and calling Put.
type DayCache[V any] struct {
	mu    sync.RWMutex
	key   string
	value V
	set   bool
}

func NewDayCache[V any]() *DayCache[V] {
	return &DayCache[V]{}
}

// Get returns the cached value if it was stored for now's calendar day.
func (c *DayCache[V]) Get(now time.Time) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	if !c.set || c.key != DayKey(now) {
		return zero, false
	}
	return c.value, true
}

// Put stores value under now's day key, replacing any previous day's
// entry.
func (c *DayCache[V]) Put(now time.Time, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = DayKey(now)
	c.value = value
	c.set = true
}

// MonthCache holds values keyed by year-month. Unlike DayCache it keeps
// entries for months other than the current one, so a consumer can look
// back at the previous month's table; staleness is judged per lookup key
// rather than by a single current-period slot.
type MonthCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

func NewMonthCache[V any]() *MonthCache[V] {
	return &MonthCache[V]{
		entries: make(map[string]V),
	}
}

// Get returns the entry stored under the given year-month key.
func (c *MonthCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	return value, ok
}

// Put stores value under the given year-month key.
func (c *MonthCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

// HasCurrentMonth reports whether now's year-month has an entry. A
// false result signals the owning component to refresh the year.
func (c *MonthCache[V]) HasCurrentMonth(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[MonthKey(now)]
	return ok
}

// Purge drops all month entries.
func (c *MonthCache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]V)
}
