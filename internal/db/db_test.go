// ABOUTME: Tests for the sent-notification log.
// ABOUTME: Validates persistence, filtering, and ordering.
package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sent.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") did not return an error")
	}
}

func TestLogAndQuery(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records := []SentRecord{
		{Message: "first", Title: "Alpha", Priority: 1, RequestID: "r1", SentAt: time.Now().Add(-2 * time.Hour)},
		{Message: "second", Device: "phone", RequestID: "r2", SentAt: time.Now().Add(-1 * time.Hour)},
		{Message: "third deploy finished", RequestID: "r3", SentAt: time.Now()},
	}
	for _, rec := range records {
		if err := store.LogSent(ctx, rec); err != nil {
			t.Fatalf("LogSent() error: %v", err)
		}
	}

	got, err := store.QuerySent(ctx, 10, nil, "")
	if err != nil {
		t.Fatalf("QuerySent() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("QuerySent() returned %d records, want 3", len(got))
	}
	if got[0].Message != "third deploy finished" {
		t.Errorf("first row = %q, want newest entry", got[0].Message)
	}
	if got[2].RequestID != "r1" {
		t.Errorf("last row request = %q, want r1", got[2].RequestID)
	}
}

func TestQuerySentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.LogSent(ctx, SentRecord{Message: "msg", SentAt: time.Now()}); err != nil {
			t.Fatalf("LogSent() error: %v", err)
		}
	}

	got, err := store.QuerySent(ctx, 2, nil, "")
	if err != nil {
		t.Fatalf("QuerySent() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("QuerySent() returned %d records, want 2", len(got))
	}
}

func TestQuerySentSince(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	if err := store.LogSent(ctx, SentRecord{Message: "old", SentAt: old}); err != nil {
		t.Fatalf("LogSent() error: %v", err)
	}
	if err := store.LogSent(ctx, SentRecord{Message: "recent", SentAt: time.Now()}); err != nil {
		t.Fatalf("LogSent() error: %v", err)
	}

	since := time.Now().Add(-1 * time.Hour)
	got, err := store.QuerySent(ctx, 10, &since, "")
	if err != nil {
		t.Fatalf("QuerySent() error: %v", err)
	}
	if len(got) != 1 || got[0].Message != "recent" {
		t.Errorf("QuerySent(since) = %+v, want only the recent record", got)
	}
}

func TestQuerySentSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.LogSent(ctx, SentRecord{Message: "deploy finished", SentAt: time.Now()}); err != nil {
		t.Fatalf("LogSent() error: %v", err)
	}
	if err := store.LogSent(ctx, SentRecord{Message: "other", Title: "deploy alert", SentAt: time.Now()}); err != nil {
		t.Fatalf("LogSent() error: %v", err)
	}
	if err := store.LogSent(ctx, SentRecord{Message: "unrelated", SentAt: time.Now()}); err != nil {
		t.Fatalf("LogSent() error: %v", err)
	}

	got, err := store.QuerySent(ctx, 10, nil, "deploy")
	if err != nil {
		t.Fatalf("QuerySent() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("QuerySent(search) returned %d records, want 2 (message and title matches)", len(got))
	}
}

func TestLogSentDefaultsTimestamp(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.LogSent(ctx, SentRecord{Message: "no timestamp"}); err != nil {
		t.Fatalf("LogSent() error: %v", err)
	}

	got, err := store.QuerySent(ctx, 1, nil, "")
	if err != nil {
		t.Fatalf("QuerySent() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("QuerySent() returned %d records, want 1", len(got))
	}
	if got[0].SentAt.IsZero() {
		t.Error("SentAt is zero, want defaulted timestamp")
	}
}
