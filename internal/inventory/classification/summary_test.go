package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := Summarize(classifiedFixture())

	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, 20150.0, s.TotalValue)
	assert.Equal(t, map[Class]int{ClassA: 1, ClassB: 0, ClassC: 2}, s.ByClass)
	assert.Equal(t, map[Status]int{StatusCritical: 1, StatusLow: 1, StatusGood: 1}, s.ByStatus)

	require.Len(t, s.Categories, 3)
	assert.Equal(t, "Equipment", s.Categories[0].Category)
	assert.Equal(t, 20000.0, s.Categories[0].Value)
	assert.InDelta(t, 99.26, s.Categories[0].Percentage, 0.01)
	assert.Equal(t, "consumables", s.Categories[1].Category)
	assert.Equal(t, "Consumables", s.Categories[2].Category)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Zero(t, s.TotalItems)
	assert.Zero(t, s.TotalValue)
	assert.Equal(t, 0, s.ByClass[ClassA])
	assert.Equal(t, 0, s.ByStatus[StatusGood])
	assert.NotNil(t, s.Categories)
	assert.Empty(t, s.Categories)
}
