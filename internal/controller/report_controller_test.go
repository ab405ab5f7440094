package controller_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"prodreport-be/internal/controller"
	"prodreport-be/internal/pkg/serverutils"
	"prodreport-be/internal/service"
	"prodreport-be/pkg/sheets"
	memws "prodreport-be/pkg/sheets/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

var statusHeader = []string{"Client", "Project", "Item Description", "Rough Turning", "Rough Turning Plan", "Tasks"}

// stalledAPI serves the header instantly but never answers row reads, like a
// remote sheet that stopped responding.
type stalledAPI struct {
	*memws.Worksheet
}

func (s *stalledAPI) AllRows(ctx context.Context) ([][]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newStatusApp(t *testing.T, api sheets.RowAPI, storeTimeout time.Duration) *fiber.App {
	t.Helper()

	store, err := sheets.Open(context.Background(), api)
	require.NoError(t, err)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	ledger := service.NewLedgerService(store, service.NewPublisherService("STATUS_TEST", pubSub), nil, nopLogger{})

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	group := app.Group("/api")
	controller.NewReportController(ledger, storeTimeout).RegisterRoutes(group)
	return app
}

func TestStatusEndpointReturnsReport(t *testing.T) {
	ws := memws.New(statusHeader)
	_, err := ws.AppendRow(context.Background(), []string{"Acme", "Site1", "Widget", "10", "10", "1"})
	require.NoError(t, err)

	app := newStatusApp(t, ws, time.Second)

	req := httptest.NewRequest("GET", "/api/report/v1/status?client=Acme&project=Site1&item=Widget", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Configured bool    `json:"configured"`
			Completed  int     `json:"completed"`
			Percentage float64 `json:"percentage"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.True(t, body.Data.Configured)
	assert.Equal(t, 1, body.Data.Completed)
	assert.InDelta(t, 100.0, body.Data.Percentage, 0.001)
}

func TestStatusEndpointValidatesQuery(t *testing.T) {
	app := newStatusApp(t, memws.New(statusHeader), time.Second)

	req := httptest.NewRequest("GET", "/api/report/v1/status?client=Acme", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// The status endpoint bounds its store call with the configured timeout; a
// stalled sheet turns into a 502, not a request hanging for the HTTP client's
// full deadline.
func TestStatusEndpointBoundsStoreCalls(t *testing.T) {
	app := newStatusApp(t, &stalledAPI{Worksheet: memws.New(statusHeader)}, 30*time.Millisecond)

	req := httptest.NewRequest("GET", "/api/report/v1/status?client=Acme&project=Site1", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
