package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	resp, err := Success(map[string]string{"responseType": "tide"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.JSONEq(t, `{"responseType": "tide"}`, resp.Body)
}

func TestSuccessUnmarshalableBody(t *testing.T) {
	resp, err := Success(make(chan int))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestError(t *testing.T) {
	resp, err := Error("Something went wrong", http.StatusBadGateway)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "error", body.ResponseType)
	assert.Equal(t, "Something went wrong", body.Error)
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   int
	}{
		{"absent", map[string]string{}, 7},
		{"valid", map[string]string{"days": "3"}, 3},
		{"at max", map[string]string{"days": "30"}, 30},
		{"above max clamps", map[string]string{"days": "31"}, 30},
		{"zero falls back", map[string]string{"days": "0"}, 7},
		{"negative falls back", map[string]string{"days": "-2"}, 7},
		{"malformed falls back", map[string]string{"days": "week"}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDays(tt.params, 7, 30))
		})
	}
}
