package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/zenithlab/zenith-bot/internal/catalog"
	"github.com/zenithlab/zenith-bot/internal/conversation"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore keeps sessions in a single "sessions" table.
type PostgresStore struct {
	db *sqlx.DB
}

type sessionRow struct {
	UserID              string    `db:"user_id"`
	Step                string    `db:"step"`
	SelectedCategory    string    `db:"selected_category"`
	SelectedSubCategory string    `db:"selected_sub_category"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// NewPostgresStore applies pending migrations, then opens the pool.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres store: DATABASE_URL is not set")
	}
	if err := runMigrations(dsn); err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return newPostgresStore(db), nil
}

func newPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func runMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	// The migrate driver closes the *sql.DB it is given, so it gets its own.
	mdb, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("db open for migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(mdb, &migratepg.Config{})
	if err != nil {
		mdb.Close()
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		mdb.Close()
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration execution failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (conversation.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, step, selected_category, selected_sub_category, updated_at
		FROM sessions
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return conversation.NewSession(userID), nil
	}
	if err != nil {
		return conversation.Session{}, fmt.Errorf("reading session %s: %w", userID, err)
	}
	return row.session(), nil
}

func (s *PostgresStore) Put(ctx context.Context, sess conversation.Session) error {
	if sess.UserID == "" {
		return ErrEmptyUserID
	}
	row := toRow(sess)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO sessions (user_id, step, selected_category, selected_sub_category, updated_at)
		VALUES (:user_id, :step, :selected_category, :selected_sub_category, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			step = EXCLUDED.step,
			selected_category = EXCLUDED.selected_category,
			selected_sub_category = EXCLUDED.selected_sub_category,
			updated_at = EXCLUDED.updated_at
	`, row)
	if err != nil {
		return fmt.Errorf("writing session %s: %w", sess.UserID, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func toRow(s conversation.Session) sessionRow {
	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	return sessionRow{
		UserID:              s.UserID,
		Step:                string(s.Step),
		SelectedCategory:    string(s.SelectedCategory),
		SelectedSubCategory: s.SelectedSubCategory,
		UpdatedAt:           updated,
	}
}

func (r sessionRow) session() conversation.Session {
	return conversation.Session{
		UserID:              r.UserID,
		Step:                conversation.Step(r.Step),
		SelectedCategory:    catalog.Code(r.SelectedCategory),
		SelectedSubCategory: r.SelectedSubCategory,
		UpdatedAt:           r.UpdatedAt,
	}
}
