package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"mexpand/internal/driver"
)

func newTestModel(files ...string) *progressModel {
	return NewProgressModel("expand", files, make(chan driver.Event)).(*progressModel)
}

func TestApplyEventTracksStatus(t *testing.T) {
	m := newTestModel("a.rs", "b.rs")

	m.applyEvent(driver.Event{File: "a.rs", Stage: driver.StageParse, Status: driver.StatusWorking})
	if got := itemLabel(m.items[0]); got != "parsing" {
		t.Fatalf("label %q", got)
	}
	if p := m.percent(); p <= 0 || p >= 0.5 {
		t.Fatalf("percent after parse %.2f", p)
	}

	m.applyEvent(driver.Event{File: "a.rs", Stage: driver.StageExpand, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.rs", Stage: driver.StageExpand, Status: driver.StatusCached})
	if p := m.percent(); p != 1 {
		t.Fatalf("percent when finished %.2f", p)
	}

	// поздние события не откатывают завершённый файл
	m.applyEvent(driver.Event{File: "a.rs", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != driver.StatusDone {
		t.Fatalf("finished file regressed to %s", m.items[0].status)
	}
	if cmd := m.applyEvent(driver.Event{File: "zzz.rs", Status: driver.StatusDone}); cmd != nil {
		t.Fatalf("unknown file must be ignored")
	}
}

func TestViewListsFiles(t *testing.T) {
	m := newTestModel("src/lib.rs", "src/main.rs")
	m.applyEvent(driver.Event{File: "src/lib.rs", Stage: driver.StageExpand, Status: driver.StatusError})

	view := m.View()
	for _, want := range []string{"expand (1/2)", "src/lib.rs", "src/main.rs", "error", "queued"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestChannelClosedQuits(t *testing.T) {
	ch := make(chan driver.Event)
	close(ch)
	m := NewProgressModel("expand", []string{"a.rs"}, ch).(*progressModel)

	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg, got %T", msg)
	}
	_, cmd := m.Update(msg)
	if !m.done || cmd == nil {
		t.Fatalf("model must finish on a closed channel")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit")
	}
	if !Completed(m) {
		t.Fatalf("closed channel must count as completed")
	}
	if Completed(newTestModel("b.rs")) {
		t.Fatalf("fresh model is not completed")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short.rs", 20, "short.rs"},
		{"a/very/long/path/file.rs", 10, "a/very/..."},
		{"abcde", 2, "ab"},
		{"x.rs", 0, "x.rs"},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.width)
		if got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
		if tc.width > 0 && runewidth.StringWidth(got) > tc.width {
			t.Fatalf("truncate(%q, %d) too wide", tc.in, tc.width)
		}
	}
}
