package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

var ErrDuplicateInvoice = errors.New("journal entry for invoice already exists")

// Entry is the local record of one recorded sale. The journal is an audit
// trail for the terminal; the backend remains the source of truth.
type Entry struct {
	ID            string
	InvoiceNumber string
	RegisterID    string
	SaleType      domain.SaleType
	PaymentMethod string
	ClientID      *string
	TotalAmount   float64
	AmountPaid    float64
	BalanceDue    float64
	Items         []domain.CartLine
	RecordedAt    time.Time
}

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "journal_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Record(ctx context.Context, entry *Entry) error {
	itemsJSON, err := json.Marshal(entry.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal entry items: %w", err)
	}

	query := `INSERT INTO sales_journal
	          (id, invoice_number, register_id, sale_type, payment_method, client_id,
	           total_amount, amount_paid, balance_due, items, recorded_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.InvoiceNumber,
		entry.RegisterID,
		entry.SaleType,
		entry.PaymentMethod,
		entry.ClientID,
		entry.TotalAmount,
		entry.AmountPaid,
		entry.BalanceDue,
		itemsJSON)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateInvoice
		}
		return fmt.Errorf("insert journal entry: %w", insertErr)
	}
	return nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT id, invoice_number, register_id, sale_type, payment_method, client_id,
	                 total_amount, amount_paid, balance_due, items, recorded_at
	          FROM sales_journal ORDER BY recorded_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var itemsJSON []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.InvoiceNumber,
			&entry.RegisterID,
			&entry.SaleType,
			&entry.PaymentMethod,
			&entry.ClientID,
			&entry.TotalAmount,
			&entry.AmountPaid,
			&entry.BalanceDue,
			&itemsJSON,
			&entry.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		if err := json.Unmarshal(itemsJSON, &entry.Items); err != nil {
			return nil, fmt.Errorf("unmarshal entry items: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
