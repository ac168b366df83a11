package observ

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("parse")
	time.Sleep(time.Millisecond)
	done("3 calls")
	idx := tm.Begin("expand")
	tm.End(idx, "")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "parse" || report.Phases[0].Note != "3 calls" || report.Phases[0].DurationMS <= 0 {
		t.Fatalf("unexpected phase %+v", report.Phases[0])
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Fatalf("total %f smaller than a phase", report.TotalMS)
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "parse", "// 3 calls", "total"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("unexpected report %+v", r)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveExpansion("line", OutcomeOK)
	m.ObserveExpansion("line", OutcomeOK)
	m.ObserveExpansion("env", OutcomeUnresolved)
	m.ObserveFile(FileStatusOK, 2*time.Millisecond)
	m.ObserveFile(FileStatusCancelled, 0)

	if got := testutil.ToFloat64(m.Expansions.WithLabelValues("line", OutcomeOK)); got != 2 {
		t.Fatalf("line ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Expansions.WithLabelValues("env", OutcomeUnresolved)); got != 1 {
		t.Fatalf("env unresolved = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.Files); got != 2 {
		t.Fatalf("files series = %d, want 2", got)
	}
	n, err := testutil.GatherAndCount(reg, "mexpand_expand_duration_seconds")
	if err != nil || n != 1 {
		t.Fatalf("duration histogram not registered: n=%d err=%v", n, err)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveExpansion("line", OutcomeOK)
	m.ObserveFile(FileStatusOK, time.Second)
}
