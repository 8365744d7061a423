package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/sheet-editor/sheet"
	"github.com/warp/sheet-editor/sheet/store"
)

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func TestMemory_CreateListGet(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.Now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	rows := []sheet.Row{sheet.NewRow("Jan", 100, 40, 60)}
	_, err := m.CreateSheet(ctx, "B", rows)
	require.NoError(t, err)
	_, err = m.CreateSheet(ctx, "A", nil)
	require.NoError(t, err)

	// Caller mutation must not reach the store.
	rows[0].Month = "changed"

	list, err := m.ListSheets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Title, "creation order, not alphabetical")
	assert.True(t, list[0].CreatedAt.Before(list[1].CreatedAt))

	s, err := m.GetSheet(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "Jan", s.Rows[0].Month)
}

func TestMemory_DuplicateAndMissing(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.CreateSheet(ctx, "Q1", nil)
	require.NoError(t, err)

	_, err = m.CreateSheet(ctx, "Q1", nil)
	assert.ErrorIs(t, err, sheet.ErrDuplicateTitle)

	_, err = m.GetSheet(ctx, "nope")
	assert.ErrorIs(t, err, sheet.ErrSheetNotFound)
	_, err = m.ReplaceRows(ctx, "nope", nil)
	assert.ErrorIs(t, err, sheet.ErrSheetNotFound)
	assert.ErrorIs(t, m.DeleteSheet(ctx, "nope"), sheet.ErrSheetNotFound)
}

func TestMemory_ReplaceBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	m.Now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	created, err := m.CreateSheet(ctx, "Q1", []sheet.Row{sheet.NewRow("Jan", 1, 1, 0)})
	require.NoError(t, err)

	updated, err := m.ReplaceRows(ctx, "Q1", []sheet.Row{sheet.NewRow("Feb", 2, 1, 1), sheet.NewRow("Mar", 3, 1, 2)})
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	s, err := m.GetSheet(ctx, "Q1")
	require.NoError(t, err)
	assert.Len(t, s.Rows, 2)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	for _, title := range []string{"A", "B", "C"} {
		_, err := m.CreateSheet(ctx, title, nil)
		require.NoError(t, err)
	}
	require.NoError(t, m.DeleteSheet(ctx, "B"))

	list, err := m.ListSheets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "C", list[1].Title)
}

func TestMemory_Reset(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.CreateSheet(ctx, "A", nil)
	require.NoError(t, err)
	require.NoError(t, m.Reset(ctx))

	list, err := m.ListSheets(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = m.CreateSheet(ctx, "A", nil)
	assert.NoError(t, err)
}
