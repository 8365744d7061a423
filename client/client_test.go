package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/sheet-editor/api"
	"github.com/warp/sheet-editor/sheet"
	"github.com/warp/sheet-editor/sheet/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func setupClient(t *testing.T) (*Client, *store.Memory) {
	mem := store.NewMemory()
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(mem), nil))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c, mem
}

func stubClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

// =============================================================================
// CONFIG
// =============================================================================

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:4200", "ftp://example.com", "http://"} {
		_, err := New(Config{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New(Config{BaseURL: "http://localhost:4200/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4200", c.BaseURL())
}

// =============================================================================
// ROUND TRIPS AGAINST THE REAL ROUTER
// =============================================================================

func TestListSheets_EmptyAndPopulated(t *testing.T) {
	c, mem := setupClient(t)
	ctx := context.Background()

	list, err := c.ListSheets(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = mem.CreateSheet(ctx, "Q1", nil)
	require.NoError(t, err)
	_, err = mem.CreateSheet(ctx, "Q2", nil)
	require.NoError(t, err)

	list, err = c.ListSheets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Q1", list[0].Title)
	assert.Equal(t, "Q2", list[1].Title)
	assert.False(t, list[0].CreatedAt.IsZero())
}

func TestGetSheet_TitleNeedsEscaping(t *testing.T) {
	c, mem := setupClient(t)
	ctx := context.Background()

	title := "2024 P&L / draft?"
	_, err := mem.CreateSheet(ctx, title, []sheet.Row{sheet.NewRow("Jan", 100, 40, 60)})
	require.NoError(t, err)

	s, err := c.GetSheet(ctx, title)
	require.NoError(t, err)
	assert.Equal(t, title, s.Title)
	require.Len(t, s.Rows, 1)
	assert.True(t, s.Rows[0].Equal(sheet.NewRow("Jan", 100, 40, 60)))
}

func TestGetSheet_NotFoundIsRemoteError(t *testing.T) {
	c, _ := setupClient(t)

	_, err := c.GetSheet(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemote)

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.StatusCode)
}

func TestUpdateSheet_ReplacesRows(t *testing.T) {
	c, mem := setupClient(t)
	ctx := context.Background()

	_, err := mem.CreateSheet(ctx, "Q1", []sheet.Row{sheet.NewRow("Jan", 100, 40, 60)})
	require.NoError(t, err)

	rows := []sheet.Row{sheet.NewRow("Jan", 100, 40, 70), sheet.NewRow("Feb", 90, 50, 40)}
	require.NoError(t, c.UpdateSheet(ctx, "Q1", rows))

	got, err := mem.GetSheet(ctx, "Q1")
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.True(t, got.Rows[0].Profit.Equal(sheet.NewRow("", 0, 0, 70).Profit))
	assert.Equal(t, "Feb", got.Rows[1].Month)
}

func TestUpdateSheet_NilRowsSendsEmptyArray(t *testing.T) {
	var body string
	c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.UpdateSheet(context.Background(), "Q1", nil))
	assert.JSONEq(t, `{"title":"Q1","data":[]}`, body)
}

func TestUploadCSV_ThenDuplicate(t *testing.T) {
	c, mem := setupClient(t)
	ctx := context.Background()

	csvText := "Month,Revenue,Expenses,Profit\nJan,100,40,60\n"
	require.NoError(t, c.UploadCSV(ctx, "Q1", "q1.csv", strings.NewReader(csvText)))

	got, err := mem.GetSheet(ctx, "Q1")
	require.NoError(t, err)
	assert.Len(t, got.Rows, 1)

	err = c.UploadCSV(ctx, "Q1", "q1.csv", strings.NewReader(csvText))
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusConflict, re.StatusCode)
}

func TestUploadCSV_InvalidContent(t *testing.T) {
	c, _ := setupClient(t)

	err := c.UploadCSV(context.Background(), "Q1", "bad.csv", strings.NewReader("not,a,sheet\n1,2,3\n"))
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
	assert.Contains(t, re.Message, "Invalid CSV Format")
}

func TestDeleteSheet(t *testing.T) {
	c, mem := setupClient(t)
	ctx := context.Background()

	_, err := mem.CreateSheet(ctx, "Q1", nil)
	require.NoError(t, err)

	require.NoError(t, c.DeleteSheet(ctx, "Q1"))
	_, err = mem.GetSheet(ctx, "Q1")
	assert.ErrorIs(t, err, sheet.ErrSheetNotFound)

	err = c.DeleteSheet(ctx, "Q1")
	assert.ErrorIs(t, err, ErrRemote)
}

func TestExportSheet_WritesWorkbook(t *testing.T) {
	c, mem := setupClient(t)
	ctx := context.Background()

	_, err := mem.CreateSheet(ctx, "Q1", []sheet.Row{sheet.NewRow("Jan", 100, 40, 60)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.ExportSheet(ctx, "Q1", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	month, err := f.GetCellValue(sheet.XLSXSheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Jan", month)
}

// =============================================================================
// FAILURE CLASSIFICATION
// =============================================================================

func TestServerError_IsRemoteErrorRegardlessOfBody(t *testing.T) {
	c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := c.DeleteSheet(context.Background(), "Q1")
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
	assert.Equal(t, "boom", re.Message)
}

func TestServerError_JSONMessage(t *testing.T) {
	c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid rows","details":"row 0: Profit: must be a number"}`))
	})

	_, err := c.ListSheets(context.Background())
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Invalid rows: row 0: Profit: must be a number", re.Message)
}

func TestGetSheet_MalformedRowsAreValidationErrors(t *testing.T) {
	c := stubClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Q1","data":[{"Month":"Jan","Revenue":100,"Expenses":40,"Profit":"n/a"}]}`))
	})

	_, err := c.GetSheet(context.Background(), "Q1")
	require.Error(t, err)
	assert.ErrorIs(t, err, sheet.ErrValidation)
	assert.False(t, errors.Is(err, ErrRemote))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.ListSheets(context.Background())
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Zero(t, re.StatusCode)
	assert.Error(t, re.Err)
}
