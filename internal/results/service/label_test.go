package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-ingest/internal/results/model"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		office     model.OfficeType
		label      string
		wantOffice string
		wantWard   string
	}{
		{model.Mayor, "Ward 05 Totals", "Mayor", "Ward 05"},
		{model.Mayor, "Etobicoke North Totals", "Mayor", "Etobicoke North"},
		{model.Councillor, "City Ward 12 Totals", "Councillor Ward 12", "12"},
		{model.TDSBTrustee, "Trustee Ward 12 Totals", "TDSB Trustee 12", "12"},
		{model.TCDSBTrustee, "TCDSB Ward 3 Totals", "TCDSB Trustee 3", "3"},
	}
	for _, tt := range tests {
		t.Run(string(tt.office)+" "+tt.label, func(t *testing.T) {
			office, ward, err := Label(tt.office, tt.label, "Sheet title")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffice, office)
			assert.Equal(t, tt.wantWard, ward)

			// same inputs, same answer
			office2, ward2, err := Label(tt.office, tt.label, "Sheet title")
			require.NoError(t, err)
			assert.Equal(t, office, office2)
			assert.Equal(t, ward, ward2)
		})
	}
}

func TestLabelErrors(t *testing.T) {
	tests := []struct {
		office model.OfficeType
		label  string
	}{
		{model.Mayor, "Totals"},
		{model.Mayor, ""},
		{model.Councillor, "Ward 12"},
		{model.TDSBTrustee, "12"},
		{model.TCDSBTrustee, "   "},
		{model.OfficeType("Dogcatcher"), "Ward 1 Totals"},
	}
	for _, tt := range tests {
		_, _, err := Label(tt.office, tt.label, "ctx")
		require.ErrorIs(t, err, ErrLabelParse, "%s %q", tt.office, tt.label)
		var le *LabelParseError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, tt.label, le.Label)
		assert.Equal(t, "ctx", le.Context)
	}
}

func TestDropsLabelRow(t *testing.T) {
	assert.True(t, DropsLabelRow(model.Mayor))
	assert.True(t, DropsLabelRow(model.Councillor))
	assert.False(t, DropsLabelRow(model.TDSBTrustee))
	assert.False(t, DropsLabelRow(model.TCDSBTrustee))
}
