// Package cegar implements the counter-example-guided abstraction
// refinement flow behind the `abs`/`pdra`/`abs2`/`memabs`/`memabs2` CLI
// commands (spec §6.1). Unlike the rest of this module, CEGAR is an
// explicit "external orchestrator over the core" (Glossary), so it is the
// one package allowed a goroutine worker pool — grounded directly on the
// teacher's pkg/search/worker.go, each worker here running one
// abstraction trial over its own rtl.Lib/aig.Graph instead of one
// instruction-sequence search.
package cegar

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wlncore/wlncheck/pkg/aig"
	"github.com/wlncore/wlncheck/pkg/blast"
	"github.com/wlncore/wlncheck/pkg/guidance"
	"github.com/wlncore/wlncheck/pkg/report"
	"github.com/wlncore/wlncheck/pkg/rtl"
	"github.com/wlncore/wlncheck/pkg/satsolver"
)

// Thresholds is the Go rendition of the CEGAR flags' "-AMXFIL num" knobs
// (spec §6.1). runOne copies Adder and Multiplier into blast.Options'
// AdderThreshold/MulThreshold, which Blast does not consult: every
// operator is blasted in full whatever the thresholds. Xor, Fanout and
// Levels are carried but not read.
type Thresholds struct {
	Adder      int // -A
	Multiplier int // -M
	Xor        int // -X: red_xor/comparison chains
	Fanout     int // -F: fanout-bound boxing of shared subexpressions
	Iterations int // -I: max refinement rounds for this trial
	Levels     int // -L: AIG-level cutoff
}

// Trial is one abstraction attempt: a threshold combination plus the
// guidance task it is trying to decide.
type Trial struct {
	Thresholds Thresholds
	Task       guidance.Task
}

// TrialResult is one trial's outcome, reported the same way a guidance
// task's outcome is (spec §4.E "Failure policy" extends naturally to
// CEGAR: a trial that can't decide the property is logged and the pool
// moves to the next combination).
type TrialResult struct {
	Trial      Trial
	Outcome    report.Outcome
	Rounds     int
	Abandoned  bool // true if Iterations rounds ran without an equal, error or exact-threshold verdict
}

// Pool runs a set of abstraction trials concurrently, each against its own
// freshly parsed rtl.Lib and aig.Graph so trials never share mutable
// state (spec §5: the core itself stays single-threaded per instance,
// only the orchestrator fans out across instances).
type Pool struct {
	NumWorkers int
	Results    *report.Table

	mu        sync.Mutex
	trials    []TrialResult
	completed atomic.Int64
}

// NewPool creates a pool with the given worker count; 0 means
// runtime.NumCPU().
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers, Results: report.NewTable()}
}

// Source supplies a fresh, independently parsed+normalized rtl.Lib for
// each worker (re-parsing rather than sharing one Lib across goroutines,
// since Lib.BlastCache and Module.wireIndex are mutated in place during
// blasting).
type Source func() (*rtl.Lib, error)

// RunTrials distributes trials across workers and blocks until every
// trial has either reached a verdict or been abandoned at its round
// limit, printing a progress line every few seconds the way teacher's
// WorkerPool.RunTasks does.
func (p *Pool) RunTrials(src Source, limits satsolver.Limits, trials []Trial) []TrialResult {
	total := int64(len(trials))
	ch := make(chan Trial, len(trials))
	for _, t := range trials {
		ch <- t
	}
	close(ch)

	done := make(chan struct{})
	start := time.Now()
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				comp := p.completed.Load()
				fmt.Printf("  [%s] %d/%d trials complete\n", time.Since(start).Round(time.Second), comp, total)
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for trial := range ch {
				res := p.runOne(src, limits, trial)
				p.mu.Lock()
				p.trials = append(p.trials, res)
				p.mu.Unlock()
				p.Results.Add(res.Outcome)
				p.completed.Add(1)
			}
		}()
	}
	wg.Wait()
	close(done)

	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]TrialResult, len(p.trials))
	copy(out, p.trials)
	return out
}

// runOne performs one trial's refinement loop: blast with the trial's
// thresholds set in the options, check the task, and unless the verdict is
// equal or error or the thresholds already reach the exact setting, double
// both thresholds and retry, up to Iterations rounds. A verdict at the
// exact setting is returned as is, without further rounds.
func (p *Pool) runOne(src Source, limits satsolver.Limits, trial Trial) TrialResult {
	th := trial.Thresholds
	for round := 1; ; round++ {
		lib, err := src()
		if err != nil {
			o := report.Outcome{Verb: trial.Task.Verb, Type: trial.Task.Type, ModuleA: trial.Task.ModuleA, ModuleB: trial.Task.ModuleB}
			o.Verdict = report.VerdictError
			o.Err = err.Error()
			return TrialResult{Trial: trial, Outcome: o, Rounds: round}
		}

		opts := blast.DefaultOptions()
		opts.AdderThreshold = th.Adder
		opts.MulThreshold = th.Multiplier
		opts.AddBoundaryPOs = true

		g := aig.NewGraph(0, 0)
		outcome := guidance.Check(lib, g, opts, limits, trial.Task)

		exact := th.Adder >= blast.DefaultOptions().AdderThreshold && th.Multiplier >= blast.DefaultOptions().MulThreshold
		if outcome.Verdict == report.VerdictEqual || outcome.Verdict == report.VerdictError || exact {
			return TrialResult{Trial: trial, Outcome: outcome, Rounds: round}
		}
		if round >= th.Iterations {
			return TrialResult{Trial: trial, Outcome: outcome, Rounds: round, Abandoned: true}
		}

		th.Adder = growThreshold(th.Adder)
		th.Multiplier = growThreshold(th.Multiplier)
	}
}

func growThreshold(n int) int {
	if n <= 0 {
		return 2
	}
	if n > (1<<30)/2 {
		return 1 << 30
	}
	return n * 2
}
