package ui

import (
	"errors"
	"strings"
	"testing"

	"recforge/internal/driver"
)

func TestApplyEventTracksRecords(t *testing.T) {
	m := NewProgressModel("deriving", []string{"a.toml", "b.yaml"}, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "a.toml", Stage: driver.StageLoad, Status: driver.StatusDone, Records: 2})
	m.applyEvent(driver.Event{File: "b.yaml", Stage: driver.StageLoad, Status: driver.StatusError, Err: errors.New("bad")})
	if got := m.items[0].label(); got != "0/2" {
		t.Fatalf("label = %q, want 0/2", got)
	}
	if got := m.percent(); got != (0.1+1.0)/2 {
		t.Fatalf("percent = %v", got)
	}

	m.applyEvent(driver.Event{File: "a.toml", Record: "P", Stage: driver.StageDerive, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "a.toml", Record: "Q", Stage: driver.StageDerive, Status: driver.StatusError})
	if m.items[0].status != "done" || m.items[0].label() != "1 failed" {
		t.Fatalf("item = %+v", m.items[0])
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}

	m.applyEvent(driver.Event{File: "unknown.toml", Status: driver.StatusDone})
	view := m.View()
	for _, want := range []string{"a.toml", "b.yaml", "1 failed", "error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("declarations/points.toml", 10); got != "declara..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("字段重复声明.toml", 9); got != "字段重..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("ab", 10); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate = %q", got)
	}
}
