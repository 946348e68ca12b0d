// src/services/trade_store.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/username/tradejournal/src/logger"
	"github.com/username/tradejournal/src/model"
	"github.com/username/tradejournal/src/models"
)

const insertTradeSQL = `INSERT INTO imported_trades (
	account_id, import_id, format, instrument, direction, entry_price, exit_price, stop_loss, take_profit,
	position_size, outcome, pnl, trade_date, entry_time, exit_time, timeframe, commission, swap, ticket,
	source_row, hash_id, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectTradesSQL = `SELECT id, account_id, import_id, format, instrument, direction, entry_price, exit_price,
	stop_loss, take_profit, position_size, outcome, pnl, trade_date, entry_time, exit_time, timeframe,
	commission, swap, ticket, source_row, hash_id, created_at
FROM imported_trades
WHERE account_id = ?
ORDER BY trade_date DESC, id DESC`

// SQLiteTradeStore implements TradeStore and JobStore on the application database.
type SQLiteTradeStore struct {
	db *sql.DB
}

func NewSQLiteTradeStore(db *sql.DB) *SQLiteTradeStore {
	return &SQLiteTradeStore{db: db}
}

// InsertBatch writes one batch in a single transaction. Trades already stored
// for the account (same hash) are skipped and counted as duplicates; any other
// failure rolls the whole batch back.
func (s *SQLiteTradeStore) InsertBatch(ctx context.Context, batch []models.StoredTrade) (BatchResult, error) {
	var result BatchResult

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, insertTradeSQL)
	if err != nil {
		return result, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, tr := range batch {
		res, err := stmt.ExecContext(ctx,
			tr.AccountID, tr.ImportID, string(tr.Format), tr.Instrument, string(tr.Direction), tr.EntryPrice,
			tr.ExitPrice, nullFloat(tr.StopLoss), nullFloat(tr.TakeProfit), tr.PositionSize, string(tr.Outcome),
			tr.PnL, tr.TradeDate, nullString(tr.EntryTime), nullString(tr.ExitTime), nullString(tr.Timeframe),
			nullFloat(tr.Commission), nullFloat(tr.Swap), tr.Ticket, tr.SourceRow, tr.HashID, tr.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				logger.L.Debug("Skipping duplicate trade on import", "accountID", tr.AccountID, "hash_id", tr.HashID)
				result.Duplicates++
				continue
			}
			return BatchResult{}, fmt.Errorf("error inserting trade (row %d, %s): %w", tr.SourceRow, tr.Instrument, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return BatchResult{}, fmt.Errorf("error reading inserted trade id: %w", err)
		}
		result.IDs = append(result.IDs, id)
	}

	if err := dbTx.Commit(); err != nil {
		return BatchResult{}, fmt.Errorf("error committing trades: %w", err)
	}
	return result, nil
}

// ListTrades returns every stored trade of an account, newest trade date first.
func (s *SQLiteTradeStore) ListTrades(ctx context.Context, accountID string) ([]models.StoredTrade, error) {
	rows, err := s.db.QueryContext(ctx, selectTradesSQL, accountID)
	if err != nil {
		return nil, fmt.Errorf("error querying trades for account %s: %w", accountID, err)
	}
	defer rows.Close()

	trades := []models.StoredTrade{}
	for rows.Next() {
		var (
			tr                                     models.StoredTrade
			format, direction, outcome             string
			stopLoss, takeProfit, commission, swap sql.NullFloat64
			entryTime, exitTime, timeframe, ticket sql.NullString
			sourceRow                              sql.NullInt64
		)
		if err := rows.Scan(&tr.ID, &tr.AccountID, &tr.ImportID, &format, &tr.Instrument, &direction,
			&tr.EntryPrice, &tr.ExitPrice, &stopLoss, &takeProfit, &tr.PositionSize, &outcome, &tr.PnL,
			&tr.TradeDate, &entryTime, &exitTime, &timeframe, &commission, &swap, &ticket, &sourceRow,
			&tr.HashID, &tr.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning trade for account %s: %w", accountID, err)
		}
		tr.Format = models.FormatKind(format)
		tr.Direction = models.Direction(direction)
		tr.Outcome = models.Outcome(outcome)
		tr.StopLoss = floatPtr(stopLoss)
		tr.TakeProfit = floatPtr(takeProfit)
		tr.Commission = floatPtr(commission)
		tr.Swap = floatPtr(swap)
		tr.EntryTime = stringPtr(entryTime)
		tr.ExitTime = stringPtr(exitTime)
		tr.Timeframe = stringPtr(timeframe)
		tr.Ticket = ticket.String
		tr.SourceRow = int(sourceRow.Int64)
		trades = append(trades, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades for account %s: %w", accountID, err)
	}
	return trades, nil
}

// DeleteImport removes the trades one import wrote and returns how many were deleted.
func (s *SQLiteTradeStore) DeleteImport(ctx context.Context, accountID, importID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM imported_trades WHERE account_id = ? AND import_id = ?`, accountID, importID)
	if err != nil {
		return 0, fmt.Errorf("error deleting trades of import %s: %w", importID, err)
	}
	return res.RowsAffected()
}

func (s *SQLiteTradeStore) CreateJob(_ context.Context, job *model.ImportJob) error {
	return model.CreateImportJob(s.db, job)
}

func (s *SQLiteTradeStore) FinishJob(_ context.Context, job *model.ImportJob) error {
	return model.FinishImportJob(s.db, job)
}

func (s *SQLiteTradeStore) GetJob(_ context.Context, accountID, id string) (*model.ImportJob, error) {
	return model.GetImportJob(s.db, accountID, id)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
