package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	c := NewCollection()
	require.NoError(t, c.Register("predictions", true, "Reported predicted values"))
	require.NoError(t, c.Register("values", false, "Internal values seen by the classifier"))
	return c
}

func TestCollection_Errors(t *testing.T) {
	c := newTestCollection(t)

	var dup *errors.DuplicateStateError
	assert.True(t, errors.As(c.Register("values", true, ""), &dup))

	_, err := c.Get("nope")
	var unknown *errors.UnknownStateError
	assert.True(t, errors.As(err, &unknown))
	assert.True(t, errors.As(c.Set("nope", 1), &unknown))
	_, err = c.IsEnabled("nope")
	assert.True(t, errors.As(err, &unknown))

	_, err = c.Get("values")
	var disabled *errors.DisabledStateError
	assert.True(t, errors.As(err, &disabled))

	_, err = c.Get("predictions")
	var noValue *errors.NoValueSetError
	assert.True(t, errors.As(err, &noValue))
}

func TestCollection_SetGet(t *testing.T) {
	c := newTestCollection(t)

	require.NoError(t, c.Set("predictions", []float64{1, 2}))
	v, err := c.Get("predictions")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, v)

	// disabled writes are dropped
	require.NoError(t, c.Set("values", []float64{0.5}))
	assert.False(t, c.HasValue("values"))
	require.NoError(t, c.Enable("values"))
	_, err = c.Get("values")
	var noValue *errors.NoValueSetError
	assert.True(t, errors.As(err, &noValue))

	c.Reset()
	assert.False(t, c.HasValue("predictions"))
	assert.True(t, c.Enabled("predictions"))
}

func TestCollection_EnableDisableAtomic(t *testing.T) {
	c := newTestCollection(t)
	err := c.Enable("values", "missing")
	require.Error(t, err)
	assert.False(t, c.Enabled("values"))

	require.NoError(t, c.Disable("predictions"))
	assert.Empty(t, c.EnabledNames())
	assert.Equal(t, []string{"predictions", "values"}, c.Names())
}

func TestCollection_EnableTemporarily(t *testing.T) {
	c := newTestCollection(t)

	require.NoError(t, c.EnableTemporarily("values", "predictions"))
	assert.True(t, c.Enabled("values"))

	var tse *errors.TemporaryStateError
	assert.True(t, errors.As(c.EnableTemporarily("values"), &tse))

	require.NoError(t, c.ResetEnabledTemporarily())
	assert.False(t, c.Enabled("values"))
	assert.True(t, c.Enabled("predictions"))

	assert.True(t, errors.As(c.ResetEnabledTemporarily(), &tse))
}

func TestCollection_Reregister(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.Set("predictions", []float64{3}))

	c.Reregister("predictions", false, "overridden")
	doc, err := c.Doc("predictions")
	require.NoError(t, err)
	assert.Equal(t, "overridden", doc)
	assert.False(t, c.Enabled("predictions"))

	require.NoError(t, c.Enable("predictions"))
	v, err := c.Get("predictions")
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, v)

	c.Reregister("selected_ids", true, "new")
	assert.True(t, c.Has("selected_ids"))
}

type clonable struct{ n *int }

func (c clonable) CloneState() any {
	n := *c.n
	return clonable{n: &n}
}

func TestCollection_CopyFrom(t *testing.T) {
	src := newTestCollection(t)
	require.NoError(t, src.Enable("values"))
	m := mat.NewDense(1, 2, []float64{1, 2})
	require.NoError(t, src.Set("values", m))
	n := 1
	require.NoError(t, src.Register("custom", true, ""))
	require.NoError(t, src.Set("custom", clonable{n: &n}))

	t.Run("shallow", func(t *testing.T) {
		dst := newTestCollection(t)
		dst.CopyFrom(src, false)
		assert.True(t, dst.Enabled("values"))
		v, err := dst.Get("values")
		require.NoError(t, err)
		assert.Same(t, m, v)
		assert.False(t, dst.Has("custom"))
	})

	t.Run("deep", func(t *testing.T) {
		dst := newTestCollection(t)
		require.NoError(t, dst.Register("custom", false, ""))
		dst.CopyFrom(src, true)

		v, err := dst.Get("values")
		require.NoError(t, err)
		m.Set(0, 0, 42)
		assert.Equal(t, 1.0, v.(*mat.Dense).At(0, 0))

		cv, err := dst.Get("custom")
		require.NoError(t, err)
		n = 5
		assert.Equal(t, 1, *cv.(clonable).n)
	})
}

func TestCollection_String(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.Set("predictions", []float64{1}))
	assert.Equal(t, "2 states: predictions+* values", c.String())
}

func TestDeepCopy(t *testing.T) {
	in := [][]float64{{1, 2}, {3}}
	out := DeepCopy(in).([][]float64)
	in[0][0] = 9
	assert.Equal(t, 1.0, out[0][0])

	counts := map[float64]int{1: 2}
	outCounts := DeepCopy(counts).(map[float64]int)
	counts[1] = 7
	assert.Equal(t, 2, outCounts[1])

	assert.Nil(t, DeepCopy(nil))
	assert.Equal(t, 3, DeepCopy(3))
}

func TestCollection_Clone(t *testing.T) {
	c := newTestCollection(t)
	vals := []float64{1, 2}
	require.NoError(t, c.Set("predictions", vals))
	require.NoError(t, c.EnableTemporarily("values"))

	cl := c.Clone()
	vals[0] = 9
	v, err := cl.Get("predictions")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, v)
	assert.Equal(t, c.Names(), cl.Names())
	assert.True(t, cl.Enabled("values"))

	// the clone has no temporary scope to reset
	var tse *errors.TemporaryStateError
	assert.True(t, errors.As(cl.ResetEnabledTemporarily(), &tse))
	require.NoError(t, c.ResetEnabledTemporarily())
	assert.True(t, cl.Enabled("values"))
}
