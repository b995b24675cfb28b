package journal

import (
	"database/sql"
	"sync"
	"time"

	"github.com/iov-one/piggybank/errors"
	"github.com/tendermint/tendermint/libs/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists entries to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger log.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "open sqlite: %s", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrInput, "set WAL mode: %s", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	if logger != nil {
		logger.Debug("journal opened", "path", dbPath)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS actions (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			action    TEXT NOT NULL,
			bank_id   TEXT,
			digest    TEXT,
			status    TEXT NOT NULL,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_ts ON actions(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_bank ON actions(bank_id)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return errors.Wrapf(errors.ErrState, "exec %q: %s", s[:30], err)
		}
	}
	return nil
}

// Record stores given entry. A zero time is replaced with the current time.
// On success the entry ID is set.
func (r *SQLiteRecorder) Record(e *Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO actions
		(timestamp, action, bank_id, digest, status, error)
		VALUES (?,?,?,?,?,?)`,
		e.Time.UnixMilli(), e.Action, e.BankID, e.Digest, e.Status, e.Error,
	)
	if err != nil {
		return errors.Wrapf(errors.ErrState, "insert: %s", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

// History returns recorded entries, newest first.
func (r *SQLiteRecorder) History(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, action, bank_id, digest, status, error
		FROM actions ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "query: %s", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                    Entry
			ts                   int64
			bank, digest, errMsg sql.NullString
		)
		if err := rows.Scan(&e.ID, &ts, &e.Action, &bank, &digest, &e.Status, &errMsg); err != nil {
			return nil, errors.Wrapf(errors.ErrState, "scan: %s", err)
		}
		e.Time = time.UnixMilli(ts)
		e.BankID = bank.String
		e.Digest = digest.String
		e.Error = errMsg.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "rows: %s", err)
	}
	return entries, nil
}

func (r *SQLiteRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Close()
}
