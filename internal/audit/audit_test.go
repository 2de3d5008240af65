package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "decisions.jsonl")
}

func record(t *testing.T, l *Log, decision string) {
	t.Helper()
	err := l.Record(Entry{
		DecisionID: "d-00000001-abcd1234",
		ActionType: "data_access",
		Actor:      "agent",
		Decision:   decision,
		Severity:   "info",
		Reasoning:  "no policy concerns identified",
		Confidence: 0.9,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
}

func TestRecordAndVerify(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 5; i++ {
		record(t, l, "allow")
	}
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("expected valid chain: %+v", result)
	}
	if result.Lines != 5 {
		t.Errorf("lines = %d, want 5", result.Lines)
	}
}

func TestChainSurvivesReopen(t *testing.T) {
	path := tempLogPath(t)

	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	record(t, l, "allow")
	l.Close()

	l, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	record(t, l, "block")
	l.Close()

	result := Verify(path)
	if !result.Valid {
		t.Fatalf("chain broken across reopen: %+v", result)
	}
	if result.Lines != 2 {
		t.Errorf("lines = %d, want 2", result.Lines)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	record(t, l, "allow")
	record(t, l, "block")
	record(t, l, "allow")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tampered := strings.Replace(string(data), `"decision":"block"`, `"decision":"allow"`, 1)
	if tampered == string(data) {
		t.Fatal("tamper substitution did not apply")
	}
	if err := os.WriteFile(path, []byte(tampered), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	result := Verify(path)
	if result.Valid {
		t.Fatal("tampered log verified as valid")
	}
	if result.ErrorLine != 3 {
		t.Errorf("error line = %d, want 3 (entry after the edit)", result.ErrorLine)
	}
}

func TestVerifyRejectsForeignFirstEntry(t *testing.T) {
	path := tempLogPath(t)
	line := `{"ts":"2026-01-01T00:00:00.000Z","decision":"allow","prev_hash":"sha256:beef"}`
	if err := os.WriteFile(path, []byte(line+"\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	result := Verify(path)
	if result.Valid {
		t.Fatal("log with foreign genesis verified as valid")
	}
	if result.ErrorLine != 1 {
		t.Errorf("error line = %d, want 1", result.ErrorLine)
	}
}

func TestReplayFiltersByActor(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	entries := []Entry{
		{Actor: "alpha", ActionType: "data_access", Decision: "allow"},
		{Actor: "beta", ActionType: "data_access", Decision: "block"},
		{Actor: "alpha", ActionType: "user_interact", Decision: "monitor"},
	}
	for _, e := range entries {
		if err := l.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	l.Close()

	result, err := Replay(path, ReplayFilter{Actor: "alpha"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Summary.Total != 2 {
		t.Fatalf("total = %d, want 2", result.Summary.Total)
	}
	if result.Summary.AllowCount != 1 || result.Summary.MonitorCount != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if result.Summary.BlockCount != 0 {
		t.Errorf("beta's block leaked into alpha's replay: %+v", result.Summary)
	}
}

func TestReplayFiltersByActionType(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	record(t, l, "allow")
	if err := l.Record(Entry{Actor: "agent", ActionType: "system_modify", Decision: "escalate"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	l.Close()

	result, err := Replay(path, ReplayFilter{ActionType: "system_modify"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Summary.Total != 1 || result.Summary.EscalateCount != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestReplayFiltersByTimeRange(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stamps := []string{
		"2026-01-01T00:00:00.000Z",
		"2026-01-02T00:00:00.000Z",
		"2026-01-03T00:00:00.000Z",
	}
	for _, ts := range stamps {
		if err := l.Record(Entry{Timestamp: ts, Actor: "agent", Decision: "allow"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	l.Close()

	mid, err := time.Parse(TimestampFormat, stamps[1])
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// Both bounds are inclusive.
	result, err := Replay(path, ReplayFilter{From: mid, To: mid})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Summary.Total != 1 || result.Entries[0].Timestamp != stamps[1] {
		t.Fatalf("expected only the middle entry, got %+v", result.Summary)
	}

	result, err = Replay(path, ReplayFilter{To: mid})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Summary.Total != 2 {
		t.Errorf("upper bound alone should keep two entries, got %d", result.Summary.Total)
	}
}

func TestReplaySkipsMalformedLines(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	record(t, l, "allow")
	l.Close()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	f.WriteString("{garbage\n")
	f.Close()

	result, err := Replay(path, ReplayFilter{})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if result.Summary.Total != 1 {
		t.Errorf("total = %d, want 1", result.Summary.Total)
	}
}
