package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT,
		entry_price REAL,
		stop_loss REAL,
		take_profit REAL,
		position_size REAL,
		setup_id TEXT,
		tags TEXT,
		mistakes TEXT,
		emotion_before TEXT,
		entry_reason TEXT,
		emotion_after TEXT,
		outcome_mode TEXT,
		manual_exit_price REAL,
		exit_price REAL,
		risk_reward REAL,
		pnl REAL,
		status TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_trades_created ON trades(created_at);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_setup ON trades(setup_id);

	CREATE TABLE IF NOT EXISTS setups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		checklist TEXT,
		default_rr REAL,
		default_tags TEXT,
		default_mistakes TEXT,
		is_active INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		triggered_at DATETIME,
		symbol TEXT,
		condition TEXT,
		target_price REAL,
		news_id TEXT,
		news_title TEXT,
		event_time DATETIME,
		trigger_before_minutes INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Trades ---

const tradeColumns = `id, created_at, symbol, side, entry_price, stop_loss, take_profit,
	position_size, setup_id, tags, mistakes, emotion_before, entry_reason, emotion_after,
	outcome_mode, manual_exit_price, exit_price, risk_reward, pnl, status`

// SaveTrade writes the full record in a single statement; a re-save of an
// existing ID replaces the row atomically.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.TradeRecord) error {
	tags, err := json.Marshal(trade.Tags)
	if err != nil {
		return apperrors.NewStoreError("save_trade", trade.ID, err)
	}
	mistakes, err := json.Marshal(trade.Mistakes)
	if err != nil {
		return apperrors.NewStoreError("save_trade", trade.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ID,
		trade.CreatedAt.UTC(),
		trade.Symbol,
		nullSide(trade.Side),
		nullFloat(trade.EntryPrice),
		nullFloat(trade.StopLoss),
		nullFloat(trade.TakeProfit),
		nullFloat(trade.PositionSize),
		trade.SetupID,
		string(tags),
		string(mistakes),
		string(trade.Psychology.EmotionBefore),
		string(trade.Psychology.EntryReason),
		string(trade.Psychology.EmotionAfter),
		string(trade.OutcomeMode),
		nullFloat(trade.ManualExitPrice),
		nullFloat(trade.ExitPrice),
		nullFloat(trade.RiskRewardRatio),
		nullFloat(trade.ProfitOrLoss),
		nullStatus(trade.Status),
	)
	if err != nil {
		return apperrors.NewStoreError("save_trade", trade.ID, err)
	}
	return nil
}

// GetTrade fetches a trade by ID.
func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*models.TradeRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_trade", id, err)
	}
	return trade, nil
}

// DeleteTrade removes a trade by ID.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("delete_trade", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListTrades returns trades in ascending creation order. A row that fails
// to parse is skipped so one corrupt record never blanks a whole listing.
func (s *SQLiteStore) ListTrades(ctx context.Context, filter TradeFilter) ([]models.TradeRecord, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, filter.Symbol)
	}
	if filter.SetupID != "" {
		query += ` AND setup_id = ?`
		args = append(args, filter.SetupID)
	}
	if !filter.StartDate.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.StartDate.UTC())
	}
	if !filter.EndDate.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, filter.EndDate.UTC())
	}
	query += ` ORDER BY created_at ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list_trades", "", err)
	}
	defer rows.Close()

	var trades []models.TradeRecord
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			continue // corrupt row, skip
		}
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list_trades", "", err)
	}
	return trades, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.TradeRecord, error) {
	var t models.TradeRecord
	var side, status, tags, mistakes sql.NullString
	var emotionBefore, entryReason, emotionAfter, outcomeMode sql.NullString
	var entry, stop, tp, size, manualExit, exit, rr, pnl sql.NullFloat64

	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.Symbol, &side, &entry, &stop, &tp, &size,
		&t.SetupID, &tags, &mistakes, &emotionBefore, &entryReason, &emotionAfter,
		&outcomeMode, &manualExit, &exit, &rr, &pnl, &status,
	)
	if err != nil {
		return nil, err
	}

	if side.Valid && side.String != "" {
		v := models.Side(side.String)
		t.Side = &v
	}
	if status.Valid && status.String != "" {
		v := models.TradeStatus(status.String)
		t.Status = &v
	}
	t.EntryPrice = floatPtr(entry)
	t.StopLoss = floatPtr(stop)
	t.TakeProfit = floatPtr(tp)
	t.PositionSize = floatPtr(size)
	t.ManualExitPrice = floatPtr(manualExit)
	t.ExitPrice = floatPtr(exit)
	t.RiskRewardRatio = floatPtr(rr)
	t.ProfitOrLoss = floatPtr(pnl)
	t.Psychology = models.Psychology{
		EmotionBefore: models.Emotion(emotionBefore.String),
		EntryReason:   models.EntryReason(entryReason.String),
		EmotionAfter:  models.Emotion(emotionAfter.String),
	}
	t.OutcomeMode = models.OutcomeMode(outcomeMode.String)

	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &t.Tags); err != nil {
			return nil, err
		}
	}
	if mistakes.Valid && mistakes.String != "" {
		if err := json.Unmarshal([]byte(mistakes.String), &t.Mistakes); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// --- Setups ---

// SaveSetup writes a setup record.
func (s *SQLiteStore) SaveSetup(ctx context.Context, setup *models.TradingSetup) error {
	checklist, err := json.Marshal(setup.Checklist)
	if err != nil {
		return apperrors.NewStoreError("save_setup", setup.ID, err)
	}
	tags, err := json.Marshal(setup.DefaultTags)
	if err != nil {
		return apperrors.NewStoreError("save_setup", setup.ID, err)
	}
	mistakes, err := json.Marshal(setup.DefaultMistakes)
	if err != nil {
		return apperrors.NewStoreError("save_setup", setup.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO setups
			(id, name, category, checklist, default_rr, default_tags, default_mistakes, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		setup.ID, setup.Name, setup.Category, string(checklist),
		nullFloat(setup.DefaultRR), string(tags), string(mistakes),
		boolToInt(setup.IsActive), setup.CreatedAt.UTC(),
	)
	if err != nil {
		return apperrors.NewStoreError("save_setup", setup.ID, err)
	}
	return nil
}

// GetSetup fetches a setup by ID.
func (s *SQLiteStore) GetSetup(ctx context.Context, id string) (*models.TradingSetup, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, checklist, default_rr, default_tags, default_mistakes, is_active, created_at
		FROM setups WHERE id = ?`, id)
	setup, err := scanSetup(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_setup", id, err)
	}
	return setup, nil
}

// DeleteSetup removes a setup by ID.
func (s *SQLiteStore) DeleteSetup(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM setups WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("delete_setup", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListSetups returns all setups, active first then by name.
func (s *SQLiteStore) ListSetups(ctx context.Context) ([]models.TradingSetup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, checklist, default_rr, default_tags, default_mistakes, is_active, created_at
		FROM setups ORDER BY is_active DESC, name ASC`)
	if err != nil {
		return nil, apperrors.NewStoreError("list_setups", "", err)
	}
	defer rows.Close()

	var setups []models.TradingSetup
	for rows.Next() {
		setup, err := scanSetup(rows)
		if err != nil {
			continue // corrupt row, skip
		}
		setups = append(setups, *setup)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list_setups", "", err)
	}
	return setups, nil
}

// ActivateSetup marks one setup active and deactivates all others in a
// single transaction.
func (s *SQLiteStore) ActivateSetup(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("activate_setup", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE setups SET is_active = 0`); err != nil {
		return apperrors.NewStoreError("activate_setup", id, err)
	}
	result, err := tx.ExecContext(ctx, `UPDATE setups SET is_active = 1 WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("activate_setup", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("activate_setup", id, err)
	}
	return nil
}

func scanSetup(row rowScanner) (*models.TradingSetup, error) {
	var setup models.TradingSetup
	var checklist, tags, mistakes sql.NullString
	var defaultRR sql.NullFloat64
	var isActive int

	err := row.Scan(&setup.ID, &setup.Name, &setup.Category, &checklist,
		&defaultRR, &tags, &mistakes, &isActive, &setup.CreatedAt)
	if err != nil {
		return nil, err
	}

	setup.DefaultRR = floatPtr(defaultRR)
	setup.IsActive = isActive != 0
	if checklist.Valid && checklist.String != "" {
		if err := json.Unmarshal([]byte(checklist.String), &setup.Checklist); err != nil {
			return nil, err
		}
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &setup.DefaultTags); err != nil {
			return nil, err
		}
	}
	if mistakes.Valid && mistakes.String != "" {
		if err := json.Unmarshal([]byte(mistakes.String), &setup.DefaultMistakes); err != nil {
			return nil, err
		}
	}
	return &setup, nil
}

// --- Alerts ---

const alertColumns = `id, kind, status, created_at, triggered_at, symbol, condition,
	target_price, news_id, news_title, event_time, trigger_before_minutes`

// SaveAlert writes an alert record.
func (s *SQLiteStore) SaveAlert(ctx context.Context, alert *models.Alert) error {
	var triggeredAt interface{}
	if alert.TriggeredAt != nil {
		triggeredAt = alert.TriggeredAt.UTC()
	}
	var eventTime interface{}
	if !alert.EventTime.IsZero() {
		eventTime = alert.EventTime.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO alerts (`+alertColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.ID, string(alert.Kind), string(alert.Status), alert.CreatedAt.UTC(), triggeredAt,
		alert.Symbol, string(alert.Condition), alert.TargetPrice,
		alert.NewsID, alert.NewsTitle, eventTime, alert.TriggerBeforeMinutes,
	)
	if err != nil {
		return apperrors.NewStoreError("save_alert", alert.ID, err)
	}
	return nil
}

// GetAlert fetches an alert by ID.
func (s *SQLiteStore) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)
	alert, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_alert", id, err)
	}
	return alert, nil
}

// DeleteAlert removes an alert by ID.
func (s *SQLiteStore) DeleteAlert(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("delete_alert", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListAlerts returns alerts, optionally filtered by status, oldest first.
func (s *SQLiteStore) ListAlerts(ctx context.Context, status *models.AlertStatus) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list_alerts", "", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			continue // corrupt row, skip
		}
		alerts = append(alerts, *alert)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list_alerts", "", err)
	}
	return alerts, nil
}

// TriggerAlert flips an active alert to triggered. The guard on status
// makes the write idempotent: a second call finds no active row and
// reports ErrAlertTerminal instead of re-firing.
func (s *SQLiteStore) TriggerAlert(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE alerts SET status = ?, triggered_at = ?
		WHERE id = ? AND status = ?`,
		string(models.AlertTriggered), at.UTC(), id, string(models.AlertActive),
	)
	if err != nil {
		return apperrors.NewStoreError("trigger_alert", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		if _, err := s.GetAlert(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrAlertTerminal
	}
	return nil
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	var kind, status, symbol, condition, newsID, newsTitle sql.NullString
	var triggeredAt, eventTime sql.NullTime
	var targetPrice sql.NullFloat64
	var triggerBefore sql.NullInt64

	err := row.Scan(&a.ID, &kind, &status, &a.CreatedAt, &triggeredAt,
		&symbol, &condition, &targetPrice, &newsID, &newsTitle, &eventTime, &triggerBefore)
	if err != nil {
		return nil, err
	}

	a.Kind = models.AlertKind(kind.String)
	a.Status = models.AlertStatus(status.String)
	a.Symbol = symbol.String
	a.Condition = models.PriceCondition(condition.String)
	a.TargetPrice = targetPrice.Float64
	a.NewsID = newsID.String
	a.NewsTitle = newsTitle.String
	a.TriggerBeforeMinutes = int(triggerBefore.Int64)
	if triggeredAt.Valid {
		t := triggeredAt.Time
		a.TriggeredAt = &t
	}
	if eventTime.Valid {
		a.EventTime = eventTime.Time
	}
	return &a, nil
}

// --- helpers ---

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullSide(p *models.Side) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func nullStatus(p *models.TradeStatus) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
