package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordPred struct {
	name   string
	accept bool
	calls  int
}

func (p *recordPred) GetName() string { return p.name }

func (p *recordPred) Accept(_ *Candidate) bool {
	p.calls++
	return p.accept
}

func TestPipelineShortCircuits(t *testing.T) {
	first := &recordPred{name: "first", accept: false}
	second := &recordPred{name: "second", accept: true}
	p := NewPipeline(first, second)

	c := cand("a", fcWith("x"))
	assert.False(t, p.Accept(&c))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "stages after a reject must not run")
}

func TestPipelineAllAccept(t *testing.T) {
	first := &recordPred{name: "first", accept: true}
	second := &recordPred{name: "second", accept: true}
	p := NewPipeline(first, second)

	c := cand("a", fcWith("x"))
	assert.True(t, p.Accept(&c))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestPipelineDropsNilStages(t *testing.T) {
	pred := &recordPred{name: "only", accept: true}
	p := NewPipeline(nil, pred, nil)

	c := cand("a", fcWith("x"))
	assert.True(t, p.Accept(&c))
	assert.Equal(t, 1, pred.calls)
}

func TestEmptyPipelineAcceptsEverything(t *testing.T) {
	p := NewPipeline()
	c := cand("a", fcWith("x"))
	assert.True(t, p.Accept(&c))
}

func TestFilteredSource(t *testing.T) {
	rejectB := &rejectIDs{ids: map[string]bool{"b": true}}
	src := NewPipeline(rejectB).Filter(SourceFromSlice([]Candidate{
		cand("a", fcWith("x")),
		cand("b", fcWith("x")),
		cand("c", fcWith("x")),
	}))

	out := []string{}
	for {
		c, ok, err := src.Next(context.Background())
		require.Nil(t, err)
		if !ok {
			break
		}
		out = append(out, c.ID)
	}
	assert.Equal(t, []string{"a", "c"}, out)
}

func TestFilteredSourceCancellation(t *testing.T) {
	src := NewPipeline().Filter(SourceFromSlice([]Candidate{cand("a", fcWith("x"))}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := src.Next(ctx)
	assert.False(t, ok)
	assert.NotNil(t, err)
}

type rejectIDs struct {
	ids map[string]bool
}

func (p *rejectIDs) GetName() string          { return "reject_ids" }
func (p *rejectIDs) Accept(c *Candidate) bool { return !p.ids[c.ID] }
