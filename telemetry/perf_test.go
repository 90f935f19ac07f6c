package telemetry

import (
	"log/slog"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseExpression)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseBreeding)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhasePct[PhaseExpression]; !ok {
		t.Error("expected expression phase to be tracked")
	}
	if stats.PhasePct[PhaseBreeding] <= stats.PhasePct[PhaseExpression] {
		t.Errorf("expected breeding (%v%%) > expression (%v%%)", stats.PhasePct[PhaseBreeding], stats.PhasePct[PhaseExpression])
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCleanup)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfStatsCSVAndLog(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[string]float64{PhaseStress: 25, PhaseMetabolism: 40},
	}
	row := s.ToCSV(300)
	if row.WindowEnd != 300 || row.AvgTickUS != 2000 || row.StressPct != 25 || row.MetabolismPct != 40 {
		t.Errorf("unexpected CSV row %+v", row)
	}
	if s.LogValue().Kind() != slog.KindGroup {
		t.Error("LogValue should be a group")
	}
}
