package googleapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLetter(t *testing.T) {
	tests := map[int]string{
		1:  "A",
		2:  "B",
		26: "Z",
		27: "AA",
		28: "AB",
		52: "AZ",
		53: "BA",
	}
	for col, want := range tests {
		assert.Equal(t, want, columnLetter(col), "column %d", col)
	}
}

func TestRowFromRange(t *testing.T) {
	row, err := rowFromRange("Summary!A5:E5")
	require.NoError(t, err)
	assert.Equal(t, 5, row)

	row, err = rowFromRange("Log!B12")
	require.NoError(t, err)
	assert.Equal(t, 12, row)

	_, err = rowFromRange("garbage")
	assert.Error(t, err)
}

func TestAppendRowReturnsNewIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Path, "/v4/spreadsheets/sheet-id/values/Summary:append")

		var body struct {
			Values [][]string `json:"values"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]string{{"Acme", "Site1"}}, body.Values)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"updates": map[string]string{"updatedRange": "Summary!A7:B7"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", "sheet-id", "Summary")
	row, err := client.AppendRow(context.Background(), []string{"Acme", "Site1"})
	require.NoError(t, err)
	assert.Equal(t, 7, row)
}

func TestGetCellAddressesA1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "Summary!D3")
		json.NewEncoder(w).Encode(map[string]interface{}{"values": [][]string{{"42"}}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", "sheet-id", "Summary")
	value, err := client.GetCell(context.Background(), 3, 4)
	require.NoError(t, err)
	assert.Equal(t, "42", value)
}

func TestGetCellEmptyRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", "sheet-id", "Summary")
	value, err := client.GetCell(context.Background(), 3, 4)
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestErrorStatusSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", "sheet-id", "Summary")
	_, err := client.AllRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
