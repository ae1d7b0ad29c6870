package repository

import (
	"context"
	"errors"
	"testing"

	"ArtistSync/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSlugExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "events" WHERE slug = \$1`).
		WithArgs("spring-fling-2026-03-14-the-venue").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "events" WHERE slug = \$1`).
		WithArgs("spring-fling-2026-03-14-the-venue-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.SlugExists(context.Background(), "spring-fling-2026-03-14-the-venue")
	if err != nil || !exists {
		t.Errorf("SlugExists = %v, %v, want true", exists, err)
	}
	exists, err = repo.SlugExists(context.Background(), "spring-fling-2026-03-14-the-venue-1")
	if err != nil || exists {
		t.Errorf("SlugExists = %v, %v, want false", exists, err)
	}
	expectationsMet(t, mock)
}

func TestSaveApprovedEventRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	// 场地查询失败：整个事务回滚，草稿保持待审核
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "venues" WHERE name = \$1`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	event := &model.Event{Slug: "x", Title: "X", Date: "2026-03-14", Time: "21:00"}
	venue := &model.Venue{Name: "The Venue"}
	err := repo.SaveApprovedEvent(context.Background(), event, venue, []string{"DJ A"}, "bio", 3)
	if err == nil {
		t.Fatal("SaveApprovedEvent must fail when the venue lookup fails")
	}
	expectationsMet(t, mock)
}

func TestSaveApprovedEventRollsBackWhenDraftNotPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	mock.ExpectBegin()
	// 场地已存在
	mock.ExpectQuery(`SELECT \* FROM "venues" WHERE name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(11, "The Venue"))
	mock.ExpectQuery(`INSERT INTO "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
	// 草稿已是终态：守卫更新零行受影响，整个事务回滚
	mock.ExpectExec(`UPDATE "event_drafts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	event := &model.Event{Slug: "x", Title: "X", Date: "2026-03-14", Time: "21:00"}
	venue := &model.Venue{Name: "The Venue"}
	err := repo.SaveApprovedEvent(context.Background(), event, venue, nil, "bio", 3)
	if err == nil {
		t.Fatal("SaveApprovedEvent must fail when the draft left pending_review")
	}
	expectationsMet(t, mock)
}
