// Package telemetry exports the engine's own running costs as CSV, the
// way a profiler dashboard would: tick timings broken down by phase,
// pool backlog, and export keyframe volume, rolled up over a sliding
// window and written as CSV rows by Output. It's diagnostic tooling for
// a Hades-embedding game, not part of the simulation itself.
package telemetry

import "time"

// Phase names for one simulation tick, matching sim.Simulation's own
// internal ordering (input script, system fan-out, lifecycle reconcile,
// change export).
const (
	PhaseInput     = "input"
	PhaseSystems   = "systems"
	PhaseReconcile = "reconcile"
	PhaseExport    = "export"
)

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks tick timings over a rolling window of samples.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase closes out the previous phase (if any) and begins timing a
// new one. Called once per sim.Simulation.Tick phase transition.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick closes the final phase and records the completed sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// samplesSoFar returns the valid prefix of the ring buffer.
func (p *PerfCollector) samplesSoFar() []PerfSample {
	return p.samples[:p.sampleCount]
}
