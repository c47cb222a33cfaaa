package pipeline_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Ahmed-Sermani/ria/pipeline"
	"github.com/Ahmed-Sermani/ria/pipeline/runners"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(PipelineTestSuite))

func Test(t *testing.T) {
	gc.TestingT(t)
}

type PipelineTestSuite struct{}

func (s *PipelineTestSuite) TestStagesPreserveOrder(c *gc.C) {
	src := &sourceStub{data: []int{1, 2, 3, 4, 5, 6}}
	sink := new(sinkStub)

	double := pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		p.(*intPayload).val *= 2
		return p, nil
	})
	dropMultiplesOfThree := pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		if p.(*intPayload).val%3 == 0 {
			return nil, nil
		}
		return p, nil
	})

	p := pipeline.New(runners.FIFO(double), runners.FIFO(dropMultiplesOfThree))
	c.Assert(p.Process(context.TODO(), src, sink), gc.IsNil)
	c.Assert(sink.data, gc.DeepEquals, []int{2, 4, 8, 10})
	c.Assert(atomic.LoadInt64(&src.processed), gc.Equals, int64(6))
}

func (s *PipelineTestSuite) TestProcessorErrorStopsPipeline(c *gc.C) {
	src := &sourceStub{data: []int{1, 2, 3, 4, 5}}
	sink := new(sinkStub)

	failOnThree := pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		if p.(*intPayload).val == 3 {
			return nil, errors.New("some error")
		}
		return p, nil
	})

	err := pipeline.New(runners.FIFO(failOnThree)).Process(context.TODO(), src, sink)
	c.Assert(err, gc.ErrorMatches, "(?s).*pipeline stage 0: some error.*")
	c.Assert(len(sink.data) <= 2, gc.Equals, true)
}

func (s *PipelineTestSuite) TestSourceErrorIsReported(c *gc.C) {
	src := &sourceStub{data: []int{1, 2}, err: errors.New("broken input")}
	sink := new(sinkStub)

	err := pipeline.New().Process(context.TODO(), src, sink)
	c.Assert(err, gc.ErrorMatches, "(?s).*pipeline source: broken input.*")
}

func (s *PipelineTestSuite) TestSinkErrorIsReported(c *gc.C) {
	src := &sourceStub{data: []int{1}}
	sink := &sinkStub{err: errors.New("sink full")}

	err := pipeline.New().Process(context.TODO(), src, sink)
	c.Assert(err, gc.ErrorMatches, "(?s).*pipeline sink: sink full.*")
}

type intPayload struct {
	val int
	src *sourceStub
}

func (p *intPayload) MarkAsProcessed() { atomic.AddInt64(&p.src.processed, 1) }

type sourceStub struct {
	processed int64

	index int
	data  []int
	err   error
}

func (s *sourceStub) Next(context.Context) bool {
	if s.index >= len(s.data) {
		return false
	}
	s.index++
	return true
}

func (s *sourceStub) Error() error { return s.err }

func (s *sourceStub) Payload() pipeline.Payload {
	return &intPayload{val: s.data[s.index-1], src: s}
}

type sinkStub struct {
	data []int
	err  error
}

func (s *sinkStub) Consume(_ context.Context, p pipeline.Payload) error {
	s.data = append(s.data, p.(*intPayload).val)
	return s.err
}
