package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezbooks/ezb/internal/model"
)

func TestSettableFieldsCoverEveryEditableField(t *testing.T) {
	want := map[model.ReceiptField]bool{
		model.FieldDate:      true,
		model.FieldVendorID:  true,
		model.FieldCategory:  true,
		model.FieldAmount:    true,
		model.FieldTaxAmount: true,
		model.FieldCardID:    true,
		model.FieldJobID:     true,
	}

	got := map[model.ReceiptField]bool{}
	for _, f := range settableFields {
		got[f] = true
	}
	assert.Equal(t, want, got)
}

func TestRangeFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	resolve := rangeFlags(cmd)

	require.NoError(t, cmd.Flags().Set("from", "1/5/2024"))
	require.NoError(t, cmd.Flags().Set("to", "2024-01-20"))

	r, err := resolve()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", r.Start)
	assert.Equal(t, "2024-01-20", r.End)
}

func TestRangeFlagsRejectsGarbage(t *testing.T) {
	cmd := &cobra.Command{Use: "probe"}
	resolve := rangeFlags(cmd)

	require.NoError(t, cmd.Flags().Set("from", "not a date"))

	_, err := resolve()
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-10", truncate("exactly-10", 10))
	assert.Equal(t, "longer th…", truncate("longer than that", 10))
}
