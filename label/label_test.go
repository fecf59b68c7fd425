package label

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	st "github.com/simdex/simdex/settings"
)

func TestMain(m *testing.M) {
	st.ResetSettings()
	os.Exit(m.Run())
}

func TestNewCanonicalOrder(t *testing.T) {
	l := New("zulu", "alpha", "tester", Positive)
	assert.Equal(t, "alpha", l.CID1)
	assert.Equal(t, "zulu", l.CID2)
	assert.NotZero(t, l.Epoch)
	assert.Equal(t, New("alpha", "zulu", "tester", Positive).CID1, l.CID1)
}

func TestOther(t *testing.T) {
	l := New("a", "b", "tester", Positive)
	assert.Equal(t, "b", l.Other("a"))
	assert.Equal(t, "a", l.Other("b"))
}

func TestDirectlyConnected(t *testing.T) {
	s, err := NewMemoryLabelStore()
	require.Nil(t, err)
	ctx := context.Background()

	require.Nil(t, s.Put(ctx, New("a", "b", "tester", Positive)))
	require.Nil(t, s.Put(ctx, New("a", "c", "tester", Negative)))
	require.Nil(t, s.Put(ctx, New("c", "d", "tester", Positive)))

	direct, err := s.DirectlyConnected(ctx, "a")
	require.Nil(t, err)
	assert.Len(t, direct, 2, "labels of both polarities are direct neighbours")

	direct, err = s.DirectlyConnected(ctx, "ghost")
	require.Nil(t, err)
	assert.Empty(t, direct)
}

func TestNewestJudgementWins(t *testing.T) {
	s, err := NewMemoryLabelStore()
	require.Nil(t, err)
	ctx := context.Background()

	require.Nil(t, s.Put(ctx, New("a", "b", "tester", Positive)))
	require.Nil(t, s.Put(ctx, New("a", "b", "tester", Negative)))

	direct, err := s.DirectlyConnected(ctx, "a")
	require.Nil(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, Negative, direct[0].Value)

	// a different annotator's judgement is kept alongside
	require.Nil(t, s.Put(ctx, New("a", "b", "other", Positive)))
	direct, err = s.DirectlyConnected(ctx, "a")
	require.Nil(t, err)
	assert.Len(t, direct, 2)
}

func TestConnectedComponentFollowsPositivesOnly(t *testing.T) {
	s, err := NewMemoryLabelStore()
	require.Nil(t, err)
	ctx := context.Background()

	// a - b - c chained positive, d attached negatively, e - f disjoint
	require.Nil(t, s.Put(ctx, New("a", "b", "tester", Positive)))
	require.Nil(t, s.Put(ctx, New("b", "c", "tester", Positive)))
	require.Nil(t, s.Put(ctx, New("a", "d", "tester", Negative)))
	require.Nil(t, s.Put(ctx, New("e", "f", "tester", Positive)))

	component, err := s.ConnectedComponent(ctx, "a")
	require.Nil(t, err)
	require.Len(t, component, 2)
	for _, l := range component {
		assert.Equal(t, Positive, l.Value)
		assert.NotContains(t, []string{l.CID1, l.CID2}, "d")
		assert.NotContains(t, []string{l.CID1, l.CID2}, "e")
	}

	component, err = s.ConnectedComponent(ctx, "isolated")
	require.Nil(t, err)
	assert.Empty(t, component)
}

func TestSubtopicsTravelWithTheirSide(t *testing.T) {
	l := NewWithSubtopics("zulu", "alpha", "sub-z", "sub-a", "tester", Positive)
	assert.Equal(t, "alpha", l.CID1)
	assert.Equal(t, "sub-a", l.SubtopicFor("alpha"))
	assert.Equal(t, "sub-z", l.SubtopicFor("zulu"))
}

func TestDistinctSubtopicsAreDistinctLabels(t *testing.T) {
	s, err := NewMemoryLabelStore()
	require.Nil(t, err)
	ctx := context.Background()

	require.Nil(t, s.Put(ctx, NewWithSubtopics("a", "b", "s1", "", "tester", Positive)))
	require.Nil(t, s.Put(ctx, NewWithSubtopics("a", "b", "s2", "", "tester", Positive)))

	direct, err := s.DirectlyConnected(ctx, "a")
	require.Nil(t, err)
	assert.Len(t, direct, 2)
}

func TestSelfLabelStoredOnce(t *testing.T) {
	s, err := NewMemoryLabelStore()
	require.Nil(t, err)
	ctx := context.Background()

	require.Nil(t, s.Put(ctx, New("a", "a", "tester", Positive)))
	direct, err := s.DirectlyConnected(ctx, "a")
	require.Nil(t, err)
	assert.Len(t, direct, 1)
}
