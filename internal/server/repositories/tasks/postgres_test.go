package tasks

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func taskColumns() []string {
	return []string{"id", "user_id", "title", "description", "status", "created_at", "updated_at"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+tasks\s*\(user_id,\s*title,\s*description,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now)
	mock.ExpectQuery(q).
		WithArgs(int64(1), "T", nil, models.StatusPending).
		WillReturnRows(rows)

	task := &models.Task{UserID: 1, Title: "T", Status: models.StatusPending}
	got, err := repo.Create(context.Background(), task)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	desc := "details"
	rows := sqlmock.NewRows(taskColumns()).
		AddRow(int64(5), int64(1), "T", &desc, "pending", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM tasks\s+WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.UserID != 1 || got.Description == nil || *got.Description != "details" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM tasks`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestListByOwner_WithStatusFilter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(taskColumns()).
		AddRow(int64(2), int64(1), "B", nil, "completed", time.Now(), time.Now()).
		AddRow(int64(1), int64(1), "A", nil, "completed", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM tasks\s+WHERE user_id = \$1 .*ORDER BY created_at DESC`).
		WithArgs(int64(1), sql.NullString{String: "completed", Valid: true}, 10, 0).
		WillReturnRows(rows)

	st := models.StatusCompleted
	got, err := repo.ListByOwner(context.Background(), 1, &st, 10, 0)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Fatalf("unexpected tasks: %+v", got)
	}
}

func TestListByOwner_NoFilterPassesNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM tasks`).
		WithArgs(int64(1), sql.NullString{}, 10, 0).
		WillReturnRows(sqlmock.NewRows(taskColumns()))

	got, err := repo.ListByOwner(context.Background(), 1, nil, 10, 0)
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestCountByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tasks`).
		WithArgs(int64(1), sql.NullString{}).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountByOwner(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("CountByOwner error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*\$1,\s*description\s*=\s*\$2,\s*status\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$4\s+RETURNING\s+updated_at\s*$`

	later := time.Now().Add(time.Minute)
	mock.ExpectQuery(q).
		WithArgs("T2", nil, models.StatusCompleted, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))

	task := &models.Task{ID: 5, Title: "T2", Status: models.StatusCompleted}
	got, err := repo.Update(context.Background(), task)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !got.UpdatedAt.Equal(later) {
		t.Fatalf("expected refreshed updated_at, got %+v", got)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM tasks WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 5)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}
