package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCumulative(t *testing.T) {
	result := ClassifyCumulative([]Item{
		item("c", 15, 1),
		item("a", 50, 1),
		item("zero", 0, 1),
		item("d", 5, 1),
		item("b", 30, 1),
	})
	require.Len(t, result, 5)

	got := make(map[string]Class)
	order := make([]string, len(result))
	for i, c := range result {
		got[c.ID] = c.Class
		order[i] = c.ID
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "zero"}, order)
	assert.Equal(t, ClassA, got["a"])
	assert.Equal(t, ClassA, got["b"])
	assert.Equal(t, ClassB, got["c"])
	assert.Equal(t, ClassC, got["d"])
	assert.Equal(t, ClassC, got["zero"])
}

func TestClassifyCumulative_DiffersFromPerItem(t *testing.T) {
	items := []Item{item("a", 60, 1), item("b", 25, 1), item("c", 15, 1)}

	perItem := Classify(items)
	cumulative := ClassifyCumulative(items)

	assert.Equal(t, []Class{ClassB, ClassB, ClassC}, classesOf(perItem))
	assert.Equal(t, []Class{ClassA, ClassA, ClassB}, classesOf(cumulative))
}

func classesOf(items []ClassifiedItem) []Class {
	out := make([]Class, len(items))
	for i, c := range items {
		out[i] = c.Class
	}
	return out
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodPerItem, m)

	m, err = ParseMethod("Cumulative")
	require.NoError(t, err)
	assert.Equal(t, MethodCumulative, m)

	_, err = ParseMethod("pareto")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestClassifyWith(t *testing.T) {
	items := []Item{item("a", 1, 1)}

	result, err := ClassifyWith(MethodCumulative, items)
	require.NoError(t, err)
	assert.Equal(t, ClassA, result[0].Class)

	_, err = ClassifyWith(Method("bogus"), items)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
