package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/zenithlab/zenith-bot/internal/catalog"
	"github.com/zenithlab/zenith-bot/internal/conversation"
)

var sessionColumns = []string{"user_id", "step", "selected_category", "selected_sub_category", "updated_at"}

var (
	selectSession = regexp.QuoteMeta("SELECT user_id, step, selected_category, selected_sub_category, updated_at FROM sessions WHERE user_id = $1")
	upsertSession = regexp.QuoteMeta("INSERT INTO sessions (user_id, step, selected_category, selected_sub_category, updated_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (user_id) DO UPDATE SET")
)

func newMockPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	s := newPostgresStore(sqlx.NewDb(db, "postgres"))
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		s.Close()
	})
	return s, mock
}

func TestPostgresStoreMissingUserIsDefault(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectQuery(selectSession).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(sessionColumns))

	got, err := s.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != conversation.NewSession("ghost") {
		t.Errorf("expected default session, got %+v", got)
	}
}

func TestPostgresStorePutThenGet(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	updated := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	want := conversation.Session{
		UserID:              "u1",
		Step:                conversation.StepServiceDetail,
		SelectedCategory:    catalog.Chatbot,
		SelectedSubCategory: "카톡챗봇",
		UpdatedAt:           updated,
	}

	mock.ExpectExec(upsertSession).
		WithArgs("u1", "service_detail", "chatbot", "카톡챗봇", updated).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectSession).WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(sessionColumns).AddRow("u1", "service_detail", "chatbot", "카톡챗봇", updated),
	)

	if err := s.Put(context.Background(), want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestPostgresStoreRejectsEmptyUserID(t *testing.T) {
	s, _ := newMockPostgresStore(t)
	if err := s.Put(context.Background(), conversation.Session{Step: conversation.StepWelcome}); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("expected ErrEmptyUserID, got %v", err)
	}
}

func TestPostgresStoreUndecodableRow(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	mock.ExpectQuery(selectSession).WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(sessionColumns).AddRow("u1", "sub_category", "chatbot", "", "not-a-time"),
	)

	if _, err := s.Get(context.Background(), "u1"); err == nil {
		t.Fatal("expected scan error for malformed updated_at")
	}
}

func TestPostgresStoreQueryErrors(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(selectSession).WithArgs("u1").WillReturnError(boom)
	mock.ExpectExec(upsertSession).WillReturnError(boom)

	if _, err := s.Get(context.Background(), "u1"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped read error, got %v", err)
	}
	if err := s.Put(context.Background(), conversation.NewSession("u1")); !errors.Is(err, boom) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}
