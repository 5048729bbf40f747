package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"catalogsync/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(t *testing.T, payload any) *http.Response {
	t.Helper()
	blob, err := json.Marshal(payload)
	require.NoError(t, err)
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(string(blob))), Header: header}
}

func newTestSheet(t *testing.T, rt roundTripFunc) *Sheet {
	t.Helper()
	svc, err := sheets.NewService(context.Background(),
		option.WithHTTPClient(&http.Client{Transport: rt}),
		option.WithEndpoint("https://sheets.test/"),
	)
	require.NoError(t, err)
	return &Sheet{service: svc, spreadsheetID: "sheet-1"}
}

func TestReadPadsTrimmedRows(t *testing.T) {
	s := newTestSheet(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.URL.Path, "/spreadsheets/sheet-1/values/")
		return jsonResponse(t, map[string]any{
			"range":  "KOLSTAD!A2:D3",
			"values": [][]any{{"1.00", "YES"}, {"2.00", "NO", "55", "YES"}},
		}), nil
	})

	rows, err := s.Read(context.Background(), "KOLSTAD!A2:D3")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1.00", "YES", "", ""}, rows[0])
	assert.Equal(t, "55", rows[1][2])
}

func TestWriteSendsSingleCell(t *testing.T) {
	var body map[string]any
	s := newTestSheet(t, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		return jsonResponse(t, map[string]any{"updatedCells": 1}), nil
	})

	require.NoError(t, s.Write(context.Background(), "KOLSTAD!D5", "NO"))
	assert.Equal(t, []any{[]any{"NO"}}, body["values"])
}

func TestClientOptionRequiresCredentials(t *testing.T) {
	_, err := clientOption(context.Background(), config.Config{})
	require.Error(t, err)

	_, err = clientOption(context.Background(), config.Config{GoogleRefreshToken: "r"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")

	opt, err := clientOption(context.Background(), config.Config{GoogleAPIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, opt)
}
