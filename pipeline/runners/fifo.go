package runners

import (
	"context"

	"github.com/Ahmed-Sermani/ria/pipeline"
	"golang.org/x/xerrors"
)

type fifo struct {
	proc pipeline.Processor
}

// FIFO returns a StageRunner that hands payloads to proc one at a time, in
// the order they arrive, and forwards the results in the same order.
func FIFO(proc pipeline.Processor) pipeline.StageRunner {
	return fifo{proc: proc}
}

func (runner fifo) Run(ctx context.Context, params pipeline.StageParams) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, open := <-params.Input():
			if !open {
				return
			}

			out, err := runner.proc.Process(ctx, payload)
			if err != nil {
				pipeline.EmitError(xerrors.Errorf("pipeline stage %d: %w", params.StageIndex(), err), params.Error())
				payload.MarkAsProcessed()
				return
			}
			if out == nil {
				payload.MarkAsProcessed()
				continue
			}

			select {
			case params.Output() <- out:
			case <-ctx.Done():
				out.MarkAsProcessed()
				return
			}
		}
	}
}
