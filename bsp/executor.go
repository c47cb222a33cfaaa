package bsp

import "context"

// ExecutorFactory creates the Executor that runs a burst of supersteps.
type ExecutorFactory[VT, ET any] func(*Graph[VT, ET], ExecutorHooks[VT, ET]) *Executor[VT, ET]

// Executor drives the supersteps of a Graph and invokes the configured hooks
// around each one.
type Executor[VT, ET any] struct {
	g     *Graph[VT, ET]
	hooks ExecutorHooks[VT, ET]
}

// NewExecutor returns an Executor for g. The superstep counter of g is reset
// so the first superstep run by the executor is superstep 0.
func NewExecutor[VT, ET any](g *Graph[VT, ET], hooks ExecutorHooks[VT, ET]) *Executor[VT, ET] {
	if hooks.PreStep == nil {
		hooks.PreStep = func(context.Context, *Graph[VT, ET]) error { return nil }
	}
	if hooks.PostStep == nil {
		hooks.PostStep = func(context.Context, *Graph[VT, ET], int) error { return nil }
	}
	if hooks.PostStepKeepRunning == nil {
		hooks.PostStepKeepRunning = func(context.Context, *Graph[VT, ET], int) (bool, error) { return true, nil }
	}
	g.superstep = 0
	return &Executor[VT, ET]{g: g, hooks: hooks}
}

// ExecutorHooks are invoked by an Executor around every superstep. All hooks
// are optional. Hooks run on the caller's goroutine while no vertex is being
// processed, so they may read and modify vertex values.
type ExecutorHooks[VT, ET any] struct {
	// PreStep runs before the superstep. Returning an error aborts the run
	// before any vertex is processed.
	PreStep func(ctx context.Context, g *Graph[VT, ET]) error

	// PostStep runs after the superstep with the number of vertices that
	// were processed in it.
	PostStep func(ctx context.Context, g *Graph[VT, ET], activeInStep int) error

	// PostStepKeepRunning runs after PostStep and stops the run when it
	// returns false.
	PostStepKeepRunning func(ctx context.Context, g *Graph[VT, ET], activeInStep int) (bool, error)
}

// RunSteps executes at most numSteps supersteps. It stops earlier when the
// context expires, a hook or compute function fails, or PostStepKeepRunning
// returns false. A negative numSteps means no limit.
func (ex *Executor[VT, ET]) RunSteps(ctx context.Context, numSteps int) error {
	for ; numSteps != 0; ex.g.superstep, numSteps = ex.g.superstep+1, numSteps-1 {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := ex.hooks.PreStep(ctx, ex.g); err != nil {
			return err
		}
		activeInStep, err := ex.g.step()
		if err != nil {
			return err
		}
		if err = ex.hooks.PostStep(ctx, ex.g, activeInStep); err != nil {
			return err
		}
		keepRunning, err := ex.hooks.PostStepKeepRunning(ctx, ex.g, activeInStep)
		if err != nil || !keepRunning {
			return err
		}
	}
	return nil
}
