package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	at := time.Date(2026, 5, 1, 10, 0, 0, 123_000_000, time.UTC)

	recs := []Record{
		{Session: "g1", Seq: 1, Room: 1, Machine: "room-1", ItemID: "a", ItemName: "Red Key", Rarity: "common", Cost: 20, PityAfter: 1, DrawnAt: at},
		{Session: "g1", Seq: 2, Room: 1, Machine: "room-1", ItemID: "b", ItemName: "Lens", Rarity: "rare", Cost: 20, PityAfter: 2, Lost: true, DrawnAt: at.Add(time.Second)},
		{Session: "g1", Seq: 3, Room: 1, Machine: "room-1", ItemID: "c", ItemName: "Skeleton Key", Rarity: "epic", Cost: 20, Forced: true, DrawnAt: at.Add(2 * time.Second)},
	}
	for _, rec := range recs {
		if err := s.RecordDraw(ctx, rec); err != nil {
			t.Fatalf("RecordDraw: %v", err)
		}
	}

	got, err := s.Recent(ctx, "g1", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(got))
	}
	if got[0].ItemID != "c" || got[1].ItemID != "b" {
		t.Fatalf("order = %s, %s; want c, b", got[0].ItemID, got[1].ItemID)
	}
	if !got[0].Forced || got[0].Lost || !got[1].Lost || got[1].Forced {
		t.Errorf("flags not preserved: %+v", got)
	}
	if !got[1].DrawnAt.Equal(at.Add(time.Second)) {
		t.Errorf("DrawnAt = %v, want %v", got[1].DrawnAt, at.Add(time.Second))
	}
	if got[1].PityAfter != 2 || got[1].Rarity != "rare" || got[1].Cost != 20 || got[1].Seq != 2 || got[1].Session != "g1" {
		t.Errorf("record = %+v", got[1])
	}
}

func TestTruncateDropsLaterDrawsOfOneSession(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for _, rec := range []Record{
		{Session: "old", Seq: 1, ItemID: "o1"},
		{Session: "old", Seq: 2, ItemID: "o2"},
		{Session: "old", Seq: 3, ItemID: "o3"},
		{Session: "new", Seq: 1, ItemID: "n1"},
	} {
		rec.Machine, rec.ItemName, rec.Rarity = "room-1", "Key", "common"
		if err := s.RecordDraw(ctx, rec); err != nil {
			t.Fatalf("RecordDraw: %v", err)
		}
	}

	if err := s.Truncate(ctx, "old", 1); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	old, err := s.Recent(ctx, "old", 10)
	if err != nil || len(old) != 1 || old[0].ItemID != "o1" {
		t.Fatalf("old session after Truncate = %+v, %v; want only o1", old, err)
	}
	other, err := s.Recent(ctx, "new", 10)
	if err != nil || len(other) != 1 {
		t.Fatalf("other session = %+v, %v; want untouched", other, err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("Open accepted a blank path")
	}
}

func TestRecentWithoutLimit(t *testing.T) {
	got, err := openTestStore(t).Recent(context.Background(), "g1", 0)
	if err != nil || got != nil {
		t.Fatalf("Recent(0) = %v, %v", got, err)
	}
}

func TestRecordDrawHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := openTestStore(t).RecordDraw(ctx, Record{ItemName: "x"}); err == nil {
		t.Fatalf("RecordDraw ignored a cancelled context")
	}
}
