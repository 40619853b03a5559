/*
Package sqlite persists accounts, trip events, and issued tickets.

PURPOSE:
  The fare engine itself keeps all state in memory; this package is the
  external persistence collaborator that survives restarts. It
  serializes Account aggregates and Tickets and rehydrates aggregates on
  startup.

KEY TABLES:
  accounts:    current balance/pending-credit per card (upserted)
  trip_events: append-only boarding log (rebuilds history + transfer state)
  tickets:     append-only receipts

APPEND-ONLY ENFORCEMENT:
  trip_events and tickets are never updated or deleted; corrections in
  the money state flow through new charges, mirrored by upserts on
  accounts.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block
  and crash recovery is cheap.

USAGE:
  store, err := sqlite.New("./fare.db")
  ...
  accounts, err := store.LoadAllAccounts(ctx)

SEE ALSO:
  - fare/account.go: RestoreAccount used during rehydration
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/fare-engine/fare"
)

// Store persists fare-engine state in SQLite.
type Store struct {
	db *sql.DB
}

// New opens (and migrates) the database at path. Use ":memory:" for an
// in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		variant TEXT NOT NULL,
		balance TEXT NOT NULL,
		pending_credit TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Append-only boarding log
	CREATE TABLE IF NOT EXISTS trip_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		at TEXT NOT NULL,
		line TEXT NOT NULL,
		fare TEXT NOT NULL,
		is_transfer INTEGER NOT NULL,
		paid INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trip_events_account_at
		ON trip_events(account_id, at);

	-- Append-only receipts
	CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		variant TEXT NOT NULL,
		line TEXT NOT NULL,
		fare TEXT NOT NULL,
		resulting_balance TEXT NOT NULL,
		negative_balance INTEGER NOT NULL,
		total_due TEXT NOT NULL,
		is_transfer INTEGER NOT NULL,
		issued_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tickets_account_issued
		ON tickets(account_id, issued_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ACCOUNTS
// =============================================================================

// SaveAccount upserts the current money state of an account.
func (s *Store) SaveAccount(ctx context.Context, snap fare.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, variant, balance, pending_credit, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			balance = excluded.balance,
			pending_credit = excluded.pending_credit`,
		string(snap.ID),
		string(snap.Variant),
		snap.Balance.Value.String(),
		snap.PendingCredit.Value.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadAccount rehydrates one aggregate, trip history included.
func (s *Store) LoadAccount(ctx context.Context, id fare.AccountID) (*fare.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT variant, balance, pending_credit FROM accounts WHERE id = ?`, string(id))

	var variantStr, balanceStr, pendingStr string
	if err := row.Scan(&variantStr, &balanceStr, &pendingStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fare.ErrInvalidAccount
		}
		return nil, err
	}

	variant, err := fare.ParseVariant(variantStr)
	if err != nil {
		return nil, err
	}
	events, err := s.LoadTrips(ctx, id)
	if err != nil {
		return nil, err
	}

	return fare.RestoreAccount(
		id,
		variant,
		fare.MustParseAmount(balanceStr),
		fare.MustParseAmount(pendingStr),
		events,
	), nil
}

// LoadAllAccounts rehydrates every stored aggregate. Used at startup to
// fill the registry.
func (s *Store) LoadAllAccounts(ctx context.Context) ([]*fare.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []fare.AccountID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, fare.AccountID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	accounts := make([]*fare.Account, 0, len(ids))
	for _, id := range ids {
		acct, err := s.LoadAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// =============================================================================
// TRIP EVENTS
// =============================================================================

// AppendTrip records one boarding. Append-only.
func (s *Store) AppendTrip(ctx context.Context, id fare.AccountID, ev fare.TripEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trip_events (account_id, at, line, fare, is_transfer, paid)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(id),
		ev.At.UTC().Format(time.RFC3339Nano),
		string(ev.Line),
		ev.FareCharged.Value.String(),
		boolInt(ev.IsTransfer),
		boolInt(ev.Paid),
	)
	return err
}

// LoadTrips returns an account's boarding log, oldest first.
func (s *Store) LoadTrips(ctx context.Context, id fare.AccountID) ([]fare.TripEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT at, line, fare, is_transfer, paid
		FROM trip_events WHERE account_id = ? ORDER BY at, id`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []fare.TripEvent
	for rows.Next() {
		var atStr, line, fareStr string
		var isTransfer, paid int
		if err := rows.Scan(&atStr, &line, &fareStr, &isTransfer, &paid); err != nil {
			return nil, err
		}
		at, err := time.Parse(time.RFC3339Nano, atStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt trip timestamp %q: %w", atStr, err)
		}
		events = append(events, fare.TripEvent{
			At:          at,
			Line:        fare.LineID(line),
			FareCharged: fare.MustParseAmount(fareStr),
			IsTransfer:  isTransfer != 0,
			Paid:        paid != 0,
		})
	}
	return events, rows.Err()
}

// =============================================================================
// TICKETS
// =============================================================================

// AppendTicket stores a receipt. Append-only.
func (s *Store) AppendTicket(ctx context.Context, t *fare.Ticket) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets
			(id, account_id, variant, line, fare, resulting_balance,
			 negative_balance, total_due, is_transfer, issued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.ID),
		string(t.AccountID),
		string(t.Variant),
		string(t.Line),
		t.FareCharged.Value.String(),
		t.ResultingBalance.Value.String(),
		boolInt(t.NegativeBalance),
		t.TotalAmountDue.Value.String(),
		boolInt(t.IsTransfer),
		t.IssuedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListTickets returns an account's receipts, oldest first.
func (s *Store) ListTickets(ctx context.Context, id fare.AccountID) ([]fare.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, variant, line, fare, resulting_balance,
		       negative_balance, total_due, is_transfer, issued_at
		FROM tickets WHERE account_id = ? ORDER BY issued_at, id`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []fare.Ticket
	for rows.Next() {
		var tid, variantStr, line, fareStr, balanceStr, totalStr, issuedStr string
		var negative, transfer int
		if err := rows.Scan(&tid, &variantStr, &line, &fareStr, &balanceStr,
			&negative, &totalStr, &transfer, &issuedStr); err != nil {
			return nil, err
		}
		issuedAt, err := time.Parse(time.RFC3339Nano, issuedStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt ticket timestamp %q: %w", issuedStr, err)
		}
		tickets = append(tickets, fare.Ticket{
			ID:               fare.TicketID(tid),
			AccountID:        id,
			Variant:          fare.Variant(variantStr),
			Line:             fare.LineID(line),
			FareCharged:      fare.MustParseAmount(fareStr),
			ResultingBalance: fare.MustParseAmount(balanceStr),
			NegativeBalance:  negative != 0,
			TotalAmountDue:   fare.MustParseAmount(totalStr),
			IsTransfer:       transfer != 0,
			IssuedAt:         issuedAt,
		})
	}
	return tickets, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
