package search

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/simdex/simdex/prom"
)

// A Predicate decides whether one candidate stays in the stream. Predicates
// may carry request scoped state and mutate it on accept, so a predicate value
// must not be shared between searches.
type Predicate interface {
	GetName() string
	Accept(c *Candidate) bool
}

// Pipeline combines predicates in order. A candidate passes only if every
// stage accepts it; evaluation stops at the first reject.
type Pipeline struct {
	stages []Predicate
}

// NewPipeline builds a pipeline from the given stages, dropping nil entries.
func NewPipeline(stages ...Predicate) *Pipeline {
	p := &Pipeline{}
	for _, stage := range stages {
		if stage != nil {
			p.stages = append(p.stages, stage)
		}
	}
	return p
}

func (p *Pipeline) Accept(c *Candidate) bool {
	for _, stage := range p.stages {
		timer := prometheus.NewTimer(prom.PipelineDuration.WithLabelValues(stage.GetName()))
		ok := stage.Accept(c)
		timer.ObserveDuration()
		if !ok {
			prom.PipelineRejected.WithLabelValues(stage.GetName()).Inc()
			return false
		}
	}
	return true
}

// Filter wraps a source so only accepted candidates come out of it.
func (p *Pipeline) Filter(src CandidateSource) CandidateSource {
	return &filteredSource{pipeline: p, src: src}
}

type filteredSource struct {
	pipeline *Pipeline
	src      CandidateSource
}

func (f *filteredSource) Next(ctx context.Context) (Candidate, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Candidate{}, false, err
		}
		c, ok, err := f.src.Next(ctx)
		if err != nil || !ok {
			return Candidate{}, false, err
		}
		if f.pipeline.Accept(&c) {
			return c, true, nil
		}
	}
}

// constantPred accepts or rejects everything. Used when a filter has no
// signal to work with and degrades to a policy decision.
type constantPred struct {
	name   string
	accept bool
}

func (p constantPred) GetName() string          { return p.name }
func (p constantPred) Accept(_ *Candidate) bool { return p.accept }
