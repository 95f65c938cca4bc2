package binding

import (
	"errors"
	"math"
	"testing"

	"github.com/huangsam/motionreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects every index passed to the handler.
type recorder struct {
	calls []int
}

func (r *recorder) handle(index int) {
	r.calls = append(r.calls, index)
}

func translationGroup() schema.SeriesGroup {
	return schema.SeriesGroup{
		Name: schema.TranslationGroup,
		Series: []schema.Series{
			{Name: schema.MotionTX, Values: []float64{0.020, 0.075, 0.045}},
			{Name: schema.MotionTY, Values: []float64{-0.012, -0.012, 0.017}},
			{Name: schema.MotionTZ, Values: []float64{-0.266, -0.126, -0.106}},
		},
	}
}

func TestTranslationScenario(t *testing.T) {
	rec := &recorder{}
	b, err := New(translationGroup(), Interaction{SelectionEnabled: true, OnPointSelected: rec.handle})
	require.NoError(t, err)

	ty, ok := b.SeriesByName(schema.MotionTY)
	require.True(t, ok)
	assert.Equal(t, []float64{-0.012, -0.012, 0.017}, ty.Values)

	require.NoError(t, b.OnSelect(1))
	assert.Equal(t, []int{1}, rec.calls)

	err = b.OnSelect(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrIndexOutOfRange))
	assert.Equal(t, []int{1}, rec.calls, "handler must not run for an out-of-range index")
}

func TestDisplacementLengthMismatch(t *testing.T) {
	group := schema.SeriesGroup{
		Name: schema.DisplacementGroup,
		Series: []schema.Series{
			{Name: schema.FD, Values: []float64{0.462, 0.176, 0.166}},
			{Name: schema.Scrub, Values: []float64{0, 0}},
		},
	}
	_, err := New(group, Interaction{SelectionEnabled: true, OnPointSelected: func(int) {}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrValidation))

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, schema.Scrub, verr.Series)
}

func TestNewValidation(t *testing.T) {
	handler := func(int) {}
	tests := []struct {
		name        string
		group       schema.SeriesGroup
		interaction Interaction
		opts        []Option
		expectError bool
	}{
		{
			name:        "valid translation group",
			group:       translationGroup(),
			interaction: Interaction{SelectionEnabled: true, OnPointSelected: handler},
		},
		{
			name:        "no series",
			group:       schema.SeriesGroup{Name: schema.RotationGroup},
			interaction: Interaction{},
			expectError: true,
		},
		{
			name:        "selection enabled without handler",
			group:       translationGroup(),
			interaction: Interaction{SelectionEnabled: true},
			expectError: true,
		},
		{
			name:        "selection disabled without handler",
			group:       translationGroup(),
			interaction: Interaction{},
		},
		{
			name: "scrub value outside 0/1",
			group: schema.SeriesGroup{Name: schema.DisplacementGroup, Series: []schema.Series{
				{Name: schema.FD, Values: []float64{0.1, 0.6}},
				{Name: schema.Scrub, Values: []float64{0, 0.5}},
			}},
			expectError: true,
		},
		{
			name: "scrub value outside 0/1 with validation off",
			group: schema.SeriesGroup{Name: schema.DisplacementGroup, Series: []schema.Series{
				{Name: schema.FD, Values: []float64{0.1, 0.6}},
				{Name: schema.Scrub, Values: []float64{0, 0.5}},
			}},
			opts: []Option{WithoutFlagValidation()},
		},
		{
			name: "custom flag series",
			group: schema.SeriesGroup{Name: schema.ExtraGroup, Series: []schema.Series{
				{Name: "outlier", Values: []float64{0, 2}},
			}},
			opts:        []Option{WithFlagSeries("outlier")},
			expectError: true,
		},
		{
			name: "negative motion values are fine",
			group: schema.SeriesGroup{Name: schema.RotationGroup, Series: []schema.Series{
				{Name: schema.MotionRX, Values: []float64{-0.340, -0.114}},
			}},
		},
		{
			name: "duplicate names",
			group: schema.SeriesGroup{Name: schema.RotationGroup, Series: []schema.Series{
				{Name: schema.MotionRX, Values: []float64{1}},
				{Name: schema.MotionRX, Values: []float64{2}},
			}},
			expectError: true,
		},
		{
			name: "empty name",
			group: schema.SeriesGroup{Name: schema.RotationGroup, Series: []schema.Series{
				{Name: "", Values: []float64{1}},
			}},
			expectError: true,
		},
		{
			name: "NaN value",
			group: schema.SeriesGroup{Name: schema.RotationGroup, Series: []schema.Series{
				{Name: schema.MotionRX, Values: []float64{math.NaN()}},
			}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.group, tt.interaction, tt.opts...)
			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, schema.ErrValidation))
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			for _, s := range b.Series() {
				assert.Equal(t, b.Len(), s.Len(), "every series must share the group length")
			}
		})
	}
}

func TestOnSelectBounds(t *testing.T) {
	rec := &recorder{}
	b, err := New(translationGroup(), Interaction{SelectionEnabled: true, OnPointSelected: rec.handle})
	require.NoError(t, err)

	for i := range b.Len() {
		rec.calls = nil
		require.NoError(t, b.OnSelect(i))
		assert.Equal(t, []int{i}, rec.calls)
	}

	for _, bad := range []int{-1, b.Len(), b.Len() + 10} {
		rec.calls = nil
		err := b.OnSelect(bad)
		var ierr *schema.IndexOutOfRangeError
		require.True(t, errors.As(err, &ierr), "index %d", bad)
		assert.Equal(t, bad, ierr.Index)
		assert.Equal(t, 3, ierr.Length)
		assert.Empty(t, rec.calls)
	}
}

func TestOnSelectIdempotent(t *testing.T) {
	rec := &recorder{}
	b, err := New(translationGroup(), Interaction{SelectionEnabled: true, OnPointSelected: rec.handle})
	require.NoError(t, err)
	before := b.Series()

	require.NoError(t, b.OnSelect(2))
	require.NoError(t, b.OnSelect(2))

	assert.Equal(t, []int{2, 2}, rec.calls)
	assert.Equal(t, before, b.Series())
}

func TestOnSelectDisabled(t *testing.T) {
	b, err := New(translationGroup(), Interaction{SelectionEnabled: false})
	require.NoError(t, err)
	assert.False(t, b.SelectionEnabled())
	assert.ErrorIs(t, b.OnSelect(0), schema.ErrSelectionDisabled)
}

func TestBindingIsImmutable(t *testing.T) {
	group := translationGroup()
	b, err := New(group, Interaction{})
	require.NoError(t, err)

	// Mutating the caller's slices after construction has no effect.
	group.Series[0].Values[0] = 42
	tx, _ := b.SeriesByName(schema.MotionTX)
	assert.Equal(t, 0.020, tx.Values[0])

	// Mutating a returned copy has no effect either.
	tx.Values[0] = 42
	again, _ := b.SeriesByName(schema.MotionTX)
	assert.Equal(t, 0.020, again.Values[0])
}

func TestSeriesOrderAndLookup(t *testing.T) {
	b, err := New(translationGroup(), Interaction{})
	require.NoError(t, err)

	names := make([]string, 0, 3)
	for _, s := range b.Series() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{schema.MotionTX, schema.MotionTY, schema.MotionTZ}, names)
	assert.Equal(t, schema.TranslationGroup, b.Name())
	assert.Equal(t, schema.TranslationGroup, b.Group().Name)

	_, ok := b.SeriesByName("FD")
	assert.False(t, ok)
}
