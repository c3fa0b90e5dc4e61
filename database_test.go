package main

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHighScoreMonotonic(t *testing.T) {
	db := openTestDB(t)
	id, err := db.CreateCommander("rex", "rex@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateCommander: %v", err)
	}

	newBest, err := db.SetHighScore(id, 500)
	if err != nil || !newBest {
		t.Fatalf("first score should be a new best, got %v, %v", newBest, err)
	}

	newBest, err = db.SetHighScore(id, 300)
	if err != nil {
		t.Fatalf("SetHighScore: %v", err)
	}
	if newBest {
		t.Error("lower score must not replace the best")
	}
	if hs, _ := db.GetHighScore(id); hs != 500 {
		t.Errorf("expected high score 500, got %d", hs)
	}

	if newBest, _ = db.SetHighScore(id, 800); !newBest {
		t.Error("higher score should be a new best")
	}
	if hs, _ := db.GetHighScore(id); hs != 800 {
		t.Errorf("expected high score 800, got %d", hs)
	}
}

func TestRecordMatchAccumulatesStats(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateCommander("vera", "", "hash")

	if _, err := db.RecordMatch(id, 700, 5, 2, 3, 120); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	if _, err := db.RecordMatch(id, 300, 2, 1, 0, 60); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}

	stats, err := db.GetStats(id)
	if err != nil || stats == nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Matches != 2 || stats.Kills != 7 || stats.Rams != 3 || stats.PowerUps != 3 {
		t.Errorf("stats not accumulated: %+v", stats)
	}

	history, err := db.GetMatchHistory(id, 10)
	if err != nil {
		t.Fatalf("GetMatchHistory: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 matches in history, got %d", len(history))
	}
}

func TestLeaderboardExcludesGuests(t *testing.T) {
	db := openTestDB(t)
	cid, _ := db.CreateCommander("alice", "", "hash")
	gid, _ := db.CreateGuest("Guest-1234")
	db.SetHighScore(cid, 400)
	db.SetHighScore(gid, 9000)

	board, err := db.GetLeaderboard(10)
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(board) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(board))
	}
	if board[0].Username != "alice" || board[0].HighScore != 400 {
		t.Errorf("unexpected entry: %+v", board[0])
	}
	if board[0].Rank != 1 {
		t.Errorf("expected rank 1, got %d", board[0].Rank)
	}
}

func TestUnlockAchievementOnce(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateCommander("bob", "", "hash")

	first, err := db.UnlockAchievement(id, "first_kill")
	if err != nil || !first {
		t.Fatalf("first unlock should succeed, got %v, %v", first, err)
	}
	again, err := db.UnlockAchievement(id, "first_kill")
	if err != nil {
		t.Fatalf("UnlockAchievement: %v", err)
	}
	if again {
		t.Error("repeat unlock must report false")
	}

	list, _ := db.GetAchievements(id)
	if len(list) != 1 || list[0] != "first_kill" {
		t.Errorf("unexpected achievement list: %v", list)
	}
}

func TestCheckAchievements(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateCommander("carol", "", "hash")
	db.RecordMatch(id, 2500, 12, 0, 0, 300)

	unlocked := CheckAchievements(db, id, 2500, 12)
	got := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		got[a.ID] = true
	}
	for _, want := range []string{"first_kill", "ace", "high_roller"} {
		if !got[want] {
			t.Errorf("expected %s to unlock, got %v", want, unlocked)
		}
	}

	// A second identical match unlocks nothing new
	db.RecordMatch(id, 2500, 12, 0, 0, 300)
	if again := CheckAchievements(db, id, 2500, 12); len(again) != 0 {
		t.Errorf("repeat match should unlock nothing, got %v", again)
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("missing key should be empty, got %q", v)
	}
	db.SetSetting("motd", "welcome")
	if v := db.GetSetting("motd"); v != "welcome" {
		t.Errorf("expected welcome, got %q", v)
	}
	db.SetSetting("motd", "updated")
	if v := db.GetSetting("motd"); v != "updated" {
		t.Errorf("upsert should replace, got %q", v)
	}
}

func TestUsernameLookup(t *testing.T) {
	db := openTestDB(t)
	db.CreateCommander("dana", "", "hash")

	exists, err := db.UsernameExists("dana")
	if err != nil || !exists {
		t.Errorf("expected dana to exist, got %v, %v", exists, err)
	}
	exists, _ = db.UsernameExists("nobody")
	if exists {
		t.Error("unknown username should not exist")
	}

	row, err := db.GetCommanderByUsername("dana")
	if err != nil || row == nil {
		t.Fatalf("GetCommanderByUsername: %v", err)
	}
	if row.Username != "dana" {
		t.Errorf("expected dana, got %q", row.Username)
	}

	if row, _ := db.GetCommanderByUsername("nobody"); row != nil {
		t.Error("unknown username should return nil without error")
	}
}
