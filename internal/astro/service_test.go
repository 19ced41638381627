package astro

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/models"
	"github.com/camano/tidewatch/pkg/http/client"
)

// memoryPhaseStore is an in-memory stand-in for the S3 phase cache.
type memoryPhaseStore struct {
	phases map[int][]models.MoonPhaseEvent
	saves  int
}

func newMemoryPhaseStore() *memoryPhaseStore {
	return &memoryPhaseStore{phases: make(map[int][]models.MoonPhaseEvent)}
}

func (s *memoryPhaseStore) GetPhases(_ context.Context, year int) ([]models.MoonPhaseEvent, error) {
	return s.phases[year], nil
}

func (s *memoryPhaseStore) SavePhases(_ context.Context, year int, phases []models.MoonPhaseEvent) error {
	s.phases[year] = phases
	s.saves++
	return nil
}

const usnoOnedayBody = `{
	"properties": {
		"data": {
			"sundata": [
				{"phen": "Rise", "time": "05:12"},
				{"phen": "Upper Transit", "time": "13:10"},
				{"phen": "Set", "time": "21:09"}
			],
			"moondata": [
				{"phen": "Rise", "time": "23:02"},
				{"phen": "Set", "time": "08:34"}
			]
		}
	}
}`

func TestFetchDayTimes(t *testing.T) {
	var gotPath string
	httpClient := &client.Client{GetFunc: func(_ context.Context, path string) (*client.Response, error) {
		gotPath = path
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(usnoOnedayBody)}, nil
	}}

	service := NewService(httpClient, nil, config.New())

	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	day, err := service.fetchDayTimes(context.Background(), date)
	require.NoError(t, err)

	assert.Contains(t, gotPath, "/rstt/oneday?date=2025-06-15")
	assert.Contains(t, gotPath, "coords=48.2573,-122.5167")

	assert.Equal(t, "5:12 AM", day.Sunrise)
	assert.Equal(t, "9:09 PM", day.Sunset)
	assert.Equal(t, "1:10 PM", day.SolarNoon)
	assert.Equal(t, "11:02 PM", day.Moonrise)
	assert.Equal(t, "8:34 AM", day.Moonset)
}

func TestFetchDayTimesMissingProperties(t *testing.T) {
	httpClient := &client.Client{GetFunc: func(_ context.Context, _ string) (*client.Response, error) {
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
	}}

	service := NewService(httpClient, nil, config.New())

	_, err := service.fetchDayTimes(context.Background(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing properties")
}

func TestFetchYearPhases(t *testing.T) {
	const usnoPhasesBody = `{
		"phasedata": [
			{"phase": "New Moon", "year": 2025, "month": 6, "day": 15, "time": "04:21"},
			{"phase": "First Quarter", "year": 2025, "month": 6, "day": 23, "time": "16:05"}
		]
	}`

	httpClient := &client.Client{GetFunc: func(_ context.Context, path string) (*client.Response, error) {
		assert.Contains(t, path, "/moon/phases/year?year=2025")
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(usnoPhasesBody)}, nil
	}}

	store := newMemoryPhaseStore()
	service := NewService(httpClient, store, config.New())

	phases, err := service.fetchYearPhases(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, phases, 2)

	assert.Equal(t, models.MoonPhaseNew, phases[0].Phase)
	assert.Equal(t, "2025-06-15", phases[0].Date)
	assert.Equal(t, models.MoonPhaseFirstQuarter, phases[1].Phase)
	assert.Equal(t, "2025-06-23", phases[1].Date)

	// The fetched list was written through to the store
	assert.Equal(t, 1, store.saves)
	assert.Len(t, store.phases[2025], 2)
}

func TestFetchYearPhasesServedFromStore(t *testing.T) {
	httpClient := &client.Client{GetFunc: func(_ context.Context, _ string) (*client.Response, error) {
		t.Fatal("unexpected upstream fetch on store hit")
		return nil, nil
	}}

	store := newMemoryPhaseStore()
	store.phases[2025] = []models.MoonPhaseEvent{
		{Phase: models.MoonPhaseFull, Date: "2025-06-10", Time: "03:17"},
	}

	service := NewService(httpClient, store, config.New())

	phases, err := service.fetchYearPhases(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, models.MoonPhaseFull, phases[0].Phase)
}

func TestFetchYearPhasesStoreErrorFallsThrough(t *testing.T) {
	httpClient := &client.Client{GetFunc: func(_ context.Context, _ string) (*client.Response, error) {
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"phasedata": []}`)}, nil
	}}

	store := &erroringPhaseStore{}
	service := NewService(httpClient, store, config.New())

	phases, err := service.fetchYearPhases(context.Background(), 2025)
	require.NoError(t, err)
	assert.Empty(t, phases)
}

type erroringPhaseStore struct{}

func (s *erroringPhaseStore) GetPhases(_ context.Context, _ int) ([]models.MoonPhaseEvent, error) {
	return nil, errors.New("store unavailable")
}

func (s *erroringPhaseStore) SavePhases(_ context.Context, _ int, _ []models.MoonPhaseEvent) error {
	return errors.New("store unavailable")
}

func TestGetAstronomyData(t *testing.T) {
	httpClient := &client.Client{GetFunc: func(_ context.Context, path string) (*client.Response, error) {
		if strings.HasPrefix(path, "/moon/phases") {
			return &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"phasedata": []}`)}, nil
		}
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(usnoOnedayBody)}, nil
	}}

	service := NewService(httpClient, nil, config.New())

	data, err := service.GetAstronomyData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "astronomy", data.ResponseType)
	assert.Equal(t, "5:12 AM", data.Sunrise)
	assert.Equal(t, "9:09 PM", data.Sunset)
	assert.Equal(t, "11:02 PM", data.Moonrise)
	assert.Equal(t, "8:34 AM", data.Moonset)
	assert.NotEmpty(t, data.LastUpdate)

	// No phase data anywhere degrades the phase block, not the response
	assert.Equal(t, "Unknown", data.MoonPhase)
	assert.Equal(t, 50, data.MoonIllumination)
}

func TestConvertTo12Hr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"05:12", "5:12 AM"},
		{"13:10", "1:10 PM"},
		{"00:00", "12:00 AM"},
		{"12:00", "12:00 PM"},
		{"23:59", "11:59 PM"},
		{"", ""},
		{"--:--", "--:--"},
		{"not a time", "not a time"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, convertTo12Hr(tt.in))
	}
}

func TestFindPhenomenon(t *testing.T) {
	list := []models.UsnoPhenomenon{
		{Phen: "Rise", Time: "05:12"},
		{Phen: "Set", Time: "21:09"},
	}

	assert.Equal(t, "05:12", findPhenomenon(list, "Rise"))
	assert.Equal(t, "21:09", findPhenomenon(list, "Set"))
	assert.Equal(t, "", findPhenomenon(list, "Upper Transit"))
}
