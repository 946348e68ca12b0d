package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradejournal/src/database"
	"github.com/username/tradejournal/src/model"
	"github.com/username/tradejournal/src/models"
)

func newTestStore(t *testing.T) *SQLiteTradeStore {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteTradeStore(db)
}

func storedTrade(importID, hash string, date string) models.StoredTrade {
	sl := 1.08
	entry := "08:00"
	return models.StoredTrade{
		AccountID: "acc-1",
		ImportID:  importID,
		Format:    models.FormatMT4,
		HashID:    hash,
		CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		CanonicalTrade: models.CanonicalTrade{
			Instrument:   "EURUSD",
			Direction:    models.DirectionLong,
			EntryPrice:   1.085,
			ExitPrice:    1.09,
			PositionSize: 0.1,
			Outcome:      models.OutcomeWin,
			PnL:          50,
			TradeDate:    date,
			StopLoss:     &sl,
			EntryTime:    &entry,
			Ticket:       "1001",
			SourceRow:    2,
		},
	}
}

func TestSQLiteTradeStoreInsertAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateJob(ctx, &model.ImportJob{ID: "imp-1", AccountID: "acc-1"}))

	res, err := store.InsertBatch(ctx, []models.StoredTrade{
		storedTrade("imp-1", "h1", "2024-01-15"),
		storedTrade("imp-1", "h2", "2024-01-16"),
	})
	require.NoError(t, err)
	assert.Len(t, res.IDs, 2)
	assert.Zero(t, res.Duplicates)

	trades, err := store.ListTrades(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "2024-01-16", trades[0].TradeDate)
	assert.Equal(t, "h2", trades[0].HashID)
	require.NotNil(t, trades[0].StopLoss)
	assert.Equal(t, 1.08, *trades[0].StopLoss)
	assert.Nil(t, trades[0].TakeProfit)
	require.NotNil(t, trades[0].EntryTime)
	assert.Equal(t, "08:00", *trades[0].EntryTime)
	assert.Nil(t, trades[0].ExitTime)
	assert.Equal(t, models.FormatMT4, trades[0].Format)
	assert.Equal(t, "1001", trades[0].Ticket)

	other, err := store.ListTrades(ctx, "acc-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSQLiteTradeStoreSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateJob(ctx, &model.ImportJob{ID: "imp-1", AccountID: "acc-1"}))
	require.NoError(t, store.CreateJob(ctx, &model.ImportJob{ID: "imp-2", AccountID: "acc-1"}))

	_, err := store.InsertBatch(ctx, []models.StoredTrade{storedTrade("imp-1", "h1", "2024-01-15")})
	require.NoError(t, err)

	res, err := store.InsertBatch(ctx, []models.StoredTrade{
		storedTrade("imp-2", "h1", "2024-01-15"),
		storedTrade("imp-2", "h3", "2024-01-17"),
	})
	require.NoError(t, err)
	assert.Len(t, res.IDs, 1)
	assert.Equal(t, 1, res.Duplicates)
}

func TestSQLiteTradeStoreFailedBatchWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateJob(ctx, &model.ImportJob{ID: "imp-1", AccountID: "acc-1"}))

	// The second trade references an import job that does not exist.
	_, err := store.InsertBatch(ctx, []models.StoredTrade{
		storedTrade("imp-1", "h1", "2024-01-15"),
		storedTrade("missing", "h2", "2024-01-16"),
	})
	require.Error(t, err)

	trades, err := store.ListTrades(ctx, "acc-1")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSQLiteTradeStoreDeleteImport(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateJob(ctx, &model.ImportJob{ID: "imp-1", AccountID: "acc-1"}))
	require.NoError(t, store.CreateJob(ctx, &model.ImportJob{ID: "imp-2", AccountID: "acc-1"}))

	_, err := store.InsertBatch(ctx, []models.StoredTrade{
		storedTrade("imp-1", "h1", "2024-01-15"),
		storedTrade("imp-2", "h2", "2024-01-16"),
	})
	require.NoError(t, err)

	n, err := store.DeleteImport(ctx, "acc-1", "imp-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = store.DeleteImport(ctx, "acc-2", "imp-2")
	require.NoError(t, err)
	assert.Zero(t, n)

	trades, err := store.ListTrades(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "imp-2", trades[0].ImportID)
}

func TestSQLiteTradeStoreJobs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	job := &model.ImportJob{ID: "imp-1", AccountID: "acc-1", FileName: "history.csv", Format: "MT4", RowsParsed: 3}
	require.NoError(t, store.CreateJob(ctx, job))

	job.Status = model.StatusCompleted
	job.RowsCommitted = 3
	require.NoError(t, store.FinishJob(ctx, job))

	got, err := store.GetJob(ctx, "acc-1", "imp-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, 3, got.RowsCommitted)
	assert.NotNil(t, got.FinishedAt)

	_, err = store.GetJob(ctx, "acc-2", "imp-1")
	assert.ErrorIs(t, err, model.ErrImportJobNotFound)
}
