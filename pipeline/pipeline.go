/*
   Moves payloads from a Source, through a chain of stages, to a Sink.
*/
package pipeline

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Payload is implemented by values that travel through the pipeline.
type Payload interface {
	// MarkAsProcessed is called by the pipeline once the payload reached the
	// sink or was dropped by a stage. Implementations may recycle it.
	MarkAsProcessed()
}

// Processor is implemented by types that transform a Payload as part of a
// pipeline stage. Returning a nil Payload drops it.
type Processor interface {
	Process(context.Context, Payload) (Payload, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(context.Context, Payload) (Payload, error)

func (f ProcessorFunc) Process(ctx context.Context, p Payload) (Payload, error) {
	return f(ctx, p)
}

// StageParams is passed to the Run method of each stage.
type StageParams interface {
	// StageIndex returns the position of the stage in the pipeline.
	StageIndex() int
	// Input returns the channel the stage reads payloads from.
	Input() <-chan Payload
	// Output returns the channel the stage writes payloads to.
	Output() chan<- Payload
	// Error returns the channel the stage reports errors to.
	Error() chan<- error
}

// StageRunner is implemented by types that can be chained together to form
// a pipeline. Run blocks until the input channel is closed, the context is
// cancelled or processing fails.
type StageRunner interface {
	Run(context.Context, StageParams)
}

// Source feeds payloads into the pipeline.
type Source interface {
	// Next advances to the next payload. It returns false when the source is
	// exhausted or an error occurred.
	Next(context.Context) bool

	// Payload returns the current payload.
	Payload() Payload

	// Error returns the last error observed by the source.
	Error() error
}

// Sink consumes the payloads that made it through every stage.
type Sink interface {
	Consume(context.Context, Payload) error
}

type Pipeline struct {
	stages []StageRunner
}

// New returns a Pipeline where input payloads traverse the given stages in
// order.
func New(stages ...StageRunner) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process reads source until it is exhausted, pushes every payload through
// the stages and hands the results to sink. The first error cancels the
// remaining work; every error reported until then is returned.
func (p *Pipeline) Process(ctx context.Context, source Source, sink Sink) error {
	var wg sync.WaitGroup
	ctx, ctxCancel := context.WithCancel(ctx)
	defer ctxCancel()

	// The output of stage i is the input of stage i+1; the extra channel
	// wires the source and the sink.
	stageCh := make([]chan Payload, len(p.stages)+1)
	errCh := make(chan error, len(p.stages)+2)
	for i := range stageCh {
		stageCh[i] = make(chan Payload)
	}

	wg.Add(len(p.stages))
	for i := range p.stages {
		go func(stageIndex int) {
			defer wg.Done()
			p.stages[stageIndex].Run(ctx, &workerParams{
				stage: stageIndex,
				inCh:  stageCh[stageIndex],
				outCh: stageCh[stageIndex+1],
				errCh: errCh,
			})
			close(stageCh[stageIndex+1])
		}(i)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceWorker(ctx, source, stageCh[0], errCh)
		close(stageCh[0])
	}()
	go func() {
		defer wg.Done()
		sinkWorker(ctx, sink, stageCh[len(stageCh)-1], errCh)
	}()

	go func() {
		wg.Wait()
		close(errCh)
		ctxCancel()
	}()

	var err error
	for pErr := range errCh {
		err = multierror.Append(err, pErr)
		ctxCancel()
	}
	return err
}
