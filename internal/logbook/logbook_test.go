package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	lb, err := New(filepath.Join(t.TempDir(), "logs", "journey.log"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer lb.Close()

	lb.Info("week %d started", 1)
	lb.Warn("reminder skipped")
	lb.Error("generation failed")

	lines := lb.Tail(10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "INFO") || !strings.Contains(lines[0], "week 1 started") {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[2], "ERROR") {
		t.Fatalf("unexpected last line: %s", lines[2])
	}
}

func TestTailLimitsToMostRecent(t *testing.T) {
	lb, err := New(filepath.Join(t.TempDir(), "journey.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer lb.Close()

	for i := 0; i < 10; i++ {
		lb.Info("entry %d", i)
	}
	lines := lb.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[2], "entry 9") {
		t.Fatalf("expected newest entry last, got %s", lines[2])
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var lb *Logbook
	lb.Info("ignored")
	lb.Warn("ignored")
	lb.Error("ignored")
	if lb.Tail(5) != nil {
		t.Fatal("expected nil tail from nil logbook")
	}
	if lb.Path() != "" {
		t.Fatal("expected empty path from nil logbook")
	}
	if err := lb.Close(); err != nil {
		t.Fatalf("nil close must not error: %v", err)
	}
}
