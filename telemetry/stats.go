package telemetry

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// WindowStats is one rolled-up sampling window, ready to flush to CSV.
type WindowStats struct {
	WindowEnd time.Duration `csv:"window_end_ns"`

	AvgTickUS   float64 `csv:"avg_tick_us"`
	P50TickUS   float64 `csv:"p50_tick_us"`
	P90TickUS   float64 `csv:"p90_tick_us"`
	StdDevTickUS float64 `csv:"stddev_tick_us"`

	InputPct     float64 `csv:"input_pct"`
	SystemsPct   float64 `csv:"systems_pct"`
	ReconcilePct float64 `csv:"reconcile_pct"`
	ExportPct    float64 `csv:"export_pct"`

	EntityCount     int `csv:"entity_count"`
	PoolQueueDepth  int `csv:"pool_queue_depth"`
	ExportKeyframes int `csv:"export_keyframes"`
}

// Stats rolls up the collector's current window into one WindowStats
// record. entityCount, poolQueueDepth and exportKeyframes are sampled at
// call time by the caller (sim/render/pool don't know about telemetry).
func (p *PerfCollector) Stats(windowEnd time.Duration, entityCount, poolQueueDepth, exportKeyframes int) WindowStats {
	samples := p.samplesSoFar()
	if len(samples) == 0 {
		return WindowStats{WindowEnd: windowEnd, EntityCount: entityCount, PoolQueueDepth: poolQueueDepth, ExportKeyframes: exportKeyframes}
	}

	ticksUS := make([]float64, len(samples))
	phaseSum := make(map[string]time.Duration)
	for i, s := range samples {
		ticksUS[i] = float64(s.TickDuration.Microseconds())
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}
	sort.Float64s(ticksUS)

	avg := stat.Mean(ticksUS, nil)
	std := stat.StdDev(ticksUS, nil)
	p50 := stat.Quantile(0.5, stat.Empirical, ticksUS, nil)
	p90 := stat.Quantile(0.9, stat.Empirical, ticksUS, nil)

	var totalTick time.Duration
	for _, s := range samples {
		totalTick += s.TickDuration
	}

	pct := func(phase string) float64 {
		if totalTick == 0 {
			return 0
		}
		return float64(phaseSum[phase]) / float64(totalTick) * 100
	}

	return WindowStats{
		WindowEnd:       windowEnd,
		AvgTickUS:       avg,
		P50TickUS:       p50,
		P90TickUS:       p90,
		StdDevTickUS:    std,
		InputPct:        pct(PhaseInput),
		SystemsPct:      pct(PhaseSystems),
		ReconcilePct:    pct(PhaseReconcile),
		ExportPct:       pct(PhaseExport),
		EntityCount:     entityCount,
		PoolQueueDepth:  poolQueueDepth,
		ExportKeyframes: exportKeyframes,
	}
}
