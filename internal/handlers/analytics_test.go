package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realflow-ai/realflow-backend/internal/models"
	"github.com/realflow-ai/realflow-backend/internal/storage"
)

func getJSON(t *testing.T, app *fiber.App, path string) map[string]interface{} {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func seedCalls(t *testing.T, store *storage.MemoryStore) {
	t.Helper()

	fixtures := []*models.Call{
		{CallID: "call-1", CallerName: "Jane", CallerPhone: "555-0001", LeadScore: 80, IsHotLead: true, HotLeadReason: "Immediate timeline"},
		{CallID: "call-2", CallerName: "Bob", CallerPhone: "555-0002", LeadScore: 75},
		{CallID: "call-3", CallerName: "Eve", CallerPhone: "555-0003", LeadScore: 20},
	}
	for _, call := range fixtures {
		_, err := store.CreateCall(call)
		require.NoError(t, err)
	}
}

func TestGetAnalytics(t *testing.T) {
	app, store := newTestApp()
	seedCalls(t, store)

	decoded := getJSON(t, app, "/analytics")

	assert.Equal(t, float64(3), decoded["total_calls"])
	assert.Equal(t, float64(1), decoded["hot_leads_count"])
	assert.Equal(t, 58.33, decoded["average_lead_score"], "average is rounded to 2 decimals")

	recent := decoded["recent_calls"].([]interface{})
	assert.Len(t, recent, 3)
}

func TestGetAnalyticsEmptyStore(t *testing.T) {
	app, _ := newTestApp()

	decoded := getJSON(t, app, "/analytics")

	assert.Equal(t, float64(0), decoded["total_calls"])
	assert.Equal(t, float64(0), decoded["average_lead_score"])
}

func TestGetHotLeads(t *testing.T) {
	app, store := newTestApp()
	seedCalls(t, store)

	decoded := getJSON(t, app, "/hot-leads")

	assert.Equal(t, float64(1), decoded["count"])
	leads := decoded["hot_leads"].([]interface{})
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane", leads[0].(map[string]interface{})["caller_name"])
}

func TestGetCallsPagination(t *testing.T) {
	app, store := newTestApp()
	seedCalls(t, store)

	decoded := getJSON(t, app, "/calls?limit=2&offset=1")

	assert.Equal(t, float64(2), decoded["count"])
	calls := decoded["calls"].([]interface{})
	require.Len(t, calls, 2)
	// Newest first: offset 1 skips call-3, the most recent insert.
	assert.Equal(t, "call-2", calls[0].(map[string]interface{})["call_id"])
	assert.Equal(t, "call-1", calls[1].(map[string]interface{})["call_id"])
}

func TestGetCallsNegativeOffset(t *testing.T) {
	app, store := newTestApp()
	seedCalls(t, store)

	// A negative offset in the query string is treated as zero.
	decoded := getJSON(t, app, "/calls?offset=-1")

	assert.Equal(t, float64(3), decoded["count"])
}
