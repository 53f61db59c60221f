package audit

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestLogAndTail(t *testing.T) {
	logger := NewLogger(filepath.Join(t.TempDir(), "events.db"))

	for i, eventType := range []string{"plan.generated", "plan.exported", "plan.verified"} {
		payload := map[string]any{"seq": i}
		if err := logger.Log("cli", eventType, payload); err != nil {
			t.Fatal(err)
		}
	}

	events, err := logger.Tail(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// Newest first.
	if events[0].Type != "plan.verified" || events[1].Type != "plan.exported" {
		t.Fatalf("tail order = %s, %s", events[0].Type, events[1].Type)
	}
	if events[0].Source != "cli" {
		t.Fatalf("source = %q, want cli", events[0].Source)
	}
	if events[0].TS.IsZero() {
		t.Fatal("timestamp not recorded")
	}

	var payload struct {
		Seq int `json:"seq"`
	}
	if err := json.Unmarshal(events[0].Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Seq != 2 {
		t.Fatalf("payload seq = %d, want 2", payload.Seq)
	}
}

func TestTailDefaultsLimit(t *testing.T) {
	logger := NewLogger(filepath.Join(t.TempDir(), "events.db"))
	if err := logger.Log("cli", "plan.generated", nil); err != nil {
		t.Fatal(err)
	}
	events, err := logger.Tail(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestEnvOverridesDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("SITEPLAN_AUDIT_DB", path)

	logger := &Logger{}
	if err := logger.Log("cli", "plan.generated", map[string]string{"as_of": "2026-03-01"}); err != nil {
		t.Fatal(err)
	}
	events, err := logger.Tail(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events from env-resolved db, want 1", len(events))
	}
}
