package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/JKozubekINF1/dart-counter/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "test.db"))
}

func TestUserLifecycle(t *testing.T) {
	store := testStore(t)

	user, err := store.CreateUser("alice")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID == "" || user.Name != "alice" {
		t.Errorf("user not populated: %+v", user)
	}

	users, err := store.ListUsers()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 1 || users[0].Name != "alice" {
		t.Errorf("expected one user alice, got %+v", users)
	}

	if err := store.DeleteUser(user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.DeleteUser(user.ID); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound on second delete, got %v", err)
	}
}

func TestCreateUserRejectsEmptyName(t *testing.T) {
	store := testStore(t)
	if _, err := store.CreateUser(""); !errors.Is(err, models.ErrInvalidUserName) {
		t.Errorf("expected ErrInvalidUserName, got %v", err)
	}
}

func TestMatchRecordRoundTrip(t *testing.T) {
	store := testStore(t)

	rec := &models.MatchRecord{
		ID:         "rec-1",
		Date:       time.Now(),
		WinnerSeat: 0,
		ScoreStr:   "2:1",
		Timeline: []models.TimelineEntry{
			{Num: 1, PlayerID: 0, Avg: 60.5},
		},
		Players: []models.RecordedPlayer{
			{Seat: 0, Name: "alice", UserID: "u1", Stats: models.MatchStats{Score100: 3, Heatmap: map[string]int{"T20": 5}}},
			{Seat: 1, Name: "bob", Stats: models.MatchStats{Heatmap: map[string]int{}}},
		},
	}

	if err := store.AppendMatchRecord(rec); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	records, err := store.ListMatchRecords()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}

	got := records[0]
	if got.ScoreStr != "2:1" || got.WinnerSeat != 0 {
		t.Errorf("record fields wrong: %+v", got)
	}
	if len(got.Timeline) != 1 || got.Timeline[0].Avg != 60.5 {
		t.Errorf("timeline blob wrong: %+v", got.Timeline)
	}
	if len(got.Players) != 2 || got.Players[0].Stats.Score100 != 3 || got.Players[0].Stats.Heatmap["T20"] != 5 {
		t.Errorf("player blob wrong: %+v", got.Players)
	}
}

func TestRecordsOrderedByDate(t *testing.T) {
	store := testStore(t)

	newer := &models.MatchRecord{ID: "b", Date: time.Now()}
	older := &models.MatchRecord{ID: "a", Date: time.Now().Add(-time.Hour)}
	if err := store.AppendMatchRecord(newer); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := store.AppendMatchRecord(older); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	records, err := store.ListMatchRecords()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 2 || records[0].ID != "a" || records[1].ID != "b" {
		t.Errorf("records not ordered oldest first: %+v", records)
	}
}

func TestFallbackStoreKeepsWorking(t *testing.T) {
	// A path that cannot exist forces the in-memory fallback
	store := NewStore(filepath.Join(t.TempDir(), "missing", "nested", "test.db"))

	if _, err := store.CreateUser("carol"); err != nil {
		t.Fatalf("fallback create failed: %v", err)
	}
	users, err := store.ListUsers()
	if err != nil || len(users) != 1 {
		t.Fatalf("fallback list failed: users=%v err=%v", users, err)
	}

	if err := store.AppendMatchRecord(&models.MatchRecord{ID: "r1", Date: time.Now()}); err != nil {
		t.Fatalf("fallback append failed: %v", err)
	}
	records, err := store.ListMatchRecords()
	if err != nil || len(records) != 1 {
		t.Fatalf("fallback records failed: records=%v err=%v", records, err)
	}
}
