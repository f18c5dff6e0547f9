package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestProbes(t *testing.T) {
	var dbErr error
	app := fiber.New()
	NewProbes(map[string]Pinger{
		"db": pingFunc(func(context.Context) error { return dbErr }),
	}).Register(app)

	tests := []struct {
		path   string
		dbErr  error
		status int
	}{
		{"/health/live", nil, http.StatusOK},
		{"/health/startup", nil, http.StatusOK},
		{"/health/ready", nil, http.StatusOK},
		{"/health/ready", errors.New("closed"), http.StatusServiceUnavailable},
		{"/health/live", errors.New("closed"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			dbErr = tt.dbErr
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
