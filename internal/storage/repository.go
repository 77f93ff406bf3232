package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/brusiqueira9/expense-guru/internal/core"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateCategory = errors.New("category already exists")
)

// User is the persisted account record. Password hashing happens in the auth
// package; storage only ever sees the hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new account and assigns its id.
func (r *SQLiteRepository) CreateUser(ctx context.Context, email, passwordHash, name string) (User, error) {
	u := User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", u.ID)
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

const transactionColumns = `id, user_id, type, amount_cents, category_id, category_name,
	date, description, due_date, payment_status, recurrence, recurrence_end_date,
	parent_transaction_id`

// CreateTransaction persists a draft and returns the id it was assigned.
// Drafts never arrive with an id; linkage between a recurring template and
// its occurrences is only possible once this id exists.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	id := uuid.New().String()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.UserID, string(t.Type), t.Amount.Cents,
		nullString(t.CategoryID), t.CategoryName,
		t.Date.String(), t.Description,
		nullString(t.DueDate.String()), nullString(string(t.PaymentStatus)),
		string(t.Recurrence), nullString(t.RecurrenceEndDate.String()),
		nullString(t.ParentTransactionID))
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", id,
		"transaction_type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	return id, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns every live transaction for the user, oldest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY date, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTransactionByID looks a transaction up without user scoping. Only the
// sync worker uses this; the HTTP path always scopes by user.
func (r *SQLiteRepository) GetTransactionByID(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE id = ? AND deleted_at IS NULL`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactionsByParent returns the live occurrences derived from a
// recurring template.
func (r *SQLiteRepository) ListTransactionsByParent(ctx context.Context, userID, parentID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE parent_transaction_id = ? AND user_id = ? AND deleted_at IS NULL
		 ORDER BY date`, parentID, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by parent: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTransaction soft deletes a single transaction.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET deleted_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransactionsByParent soft deletes every occurrence derived from the
// given template. The template itself is deleted separately.
func (r *SQLiteRepository) DeleteTransactionsByParent(ctx context.Context, userID, parentID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET deleted_at = CURRENT_TIMESTAMP
		 WHERE parent_transaction_id = ? AND user_id = ? AND deleted_at IS NULL`, parentID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete transactions by parent: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type FROM categories ORDER BY type, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.Name, &typ); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCategory returns a single category by id.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	var c core.Category
	var typ string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name, &typ)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.Type = core.TransactionType(typ)
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string, typ core.TransactionType) (core.Category, error) {
	c := core.Category{ID: uuid.New().String(), Name: name, Type: typ}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, type) VALUES (?, ?, ?)`, c.ID, c.Name, string(c.Type))
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, ErrDuplicateCategory
		}
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.ID = uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, target_cents, current_cents, deadline)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents,
		nullString(g.Deadline.String()))
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, deadline
		 FROM goals WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, deadline
		 FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_cents = ?, deadline = ?
		 WHERE id = ? AND user_id = ?`,
		g.Name, g.TargetAmount.Cents, nullString(g.Deadline.String()), g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToGoal records a contribution toward a goal.
func (r *SQLiteRepository) AddToGoal(ctx context.Context, userID, id string, cents int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = current_cents + ?
		 WHERE id = ? AND user_id = ?`, cents, id, userID)
	if err != nil {
		return fmt.Errorf("add to goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPendingSync returns transactions not yet mirrored to the spreadsheet
// export, oldest first, skipping rows already flagged with a sync error.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE synced = 0 AND sync_error = 0 AND deleted_at IS NULL
		 ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                                  core.Transaction
		typ, recurrence                    string
		categoryID, dueDate, status        sql.NullString
		recurrenceEnd, parentTransactionID sql.NullString
		date                               string
	)

	err := row.Scan(&t.ID, &t.UserID, &typ, &t.Amount.Cents, &categoryID, &t.CategoryName,
		&date, &t.Description, &dueDate, &status, &recurrence, &recurrenceEnd,
		&parentTransactionID)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Type = core.TransactionType(typ)
	t.CategoryID = categoryID.String
	t.Recurrence = core.Recurrence(recurrence)
	t.PaymentStatus = core.PaymentStatus(status.String)
	t.ParentTransactionID = parentTransactionID.String

	if t.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if dueDate.Valid {
		if t.DueDate, err = core.ParseDate(dueDate.String); err != nil {
			return core.Transaction{}, fmt.Errorf("parse due date %q: %w", dueDate.String, err)
		}
	}
	if recurrenceEnd.Valid {
		if t.RecurrenceEndDate, err = core.ParseDate(recurrenceEnd.String); err != nil {
			return core.Transaction{}, fmt.Errorf("parse recurrence end date %q: %w", recurrenceEnd.String, err)
		}
	}
	return t, nil
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g        core.Goal
		deadline sql.NullString
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &deadline)
	if err != nil {
		return core.Goal{}, err
	}
	if deadline.Valid {
		if g.Deadline, err = core.ParseDate(deadline.String); err != nil {
			return core.Goal{}, fmt.Errorf("parse deadline %q: %w", deadline.String, err)
		}
	}
	return g, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite reports constraint failures in the error text;
	// matching on it avoids importing the driver's internal error codes.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
