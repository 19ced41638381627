package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camano/tidewatch/internal/astro"
	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/tide"
	"github.com/camano/tidewatch/internal/weather"
	"github.com/camano/tidewatch/pkg/http/client"
)

func TestSchedulerRegistersAllJobs(t *testing.T) {
	cfg := config.New()
	cfg.TideRefreshInterval = time.Hour
	cfg.WeatherRefreshInterval = time.Hour
	cfg.AstronomyRefreshInterval = time.Hour

	// Jobs fire immediately on Start; an erroring client keeps them
	// side-effect free.
	httpClient := &client.Client{GetFunc: func(_ context.Context, _ string) (*client.Response, error) {
		return nil, errors.New("upstream down")
	}}

	tides := tide.NewService(httpClient, nil, cfg)
	wx := weather.NewService(httpClient, cfg)
	astronomy := astro.NewService(httpClient, nil, cfg)

	s := New(cfg, tides, wx, astronomy)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 3, s.scheduler.Len())
}
