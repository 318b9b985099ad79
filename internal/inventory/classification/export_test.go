package classification

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	items := Classify([]Item{
		{Name: "Tape", SKU: "TP-1", CurrentStock: 10, UnitCost: 10},
		{Name: "Pallet Jack, manual", SKU: "PJ-1", Category: "Equipment", CurrentStock: 100, UnitCost: 1000},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items))

	want := "Name,SKU,Category,Stock,Unit Cost,Current Value,Percentage,Classification\n" +
		"\"Pallet Jack, manual\",PJ-1,Equipment,100,1000.00,100000.00,99.90%,A\n" +
		"Tape,TP-1,Uncategorized,10,10.00,100.00,0.10%,C\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnlyForEmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Name,SKU,Category,Stock,Unit Cost,Current Value,Percentage,Classification\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_PropagatesWriterErrors(t *testing.T) {
	err := WriteCSV(failingWriter{}, Classify([]Item{{Name: "x", CurrentStock: 1, UnitCost: 1}}))
	assert.Error(t, err)
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "0.00%", FormatPercentage(0))
	assert.Equal(t, "12.35%", FormatPercentage(12.345))
	assert.Equal(t, "100.00%", FormatPercentage(100))
}

func TestWriteCSV_SaturatedValue(t *testing.T) {
	items := Classify([]Item{{Name: "Gold", SKU: "AU-1", CurrentStock: 1e200, UnitCost: 1e200}})

	var buf bytes.Buffer
	require.NotPanics(t, func() {
		require.NoError(t, WriteCSV(&buf, items))
	})
	assert.Contains(t, buf.String(), "100.00%,A")
}
