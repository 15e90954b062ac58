package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecobazaarx/ecoimpact/internal/cli"
	"github.com/ecobazaarx/ecoimpact/internal/engine"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		in      string
		want    impact.Dimensions
		wantErr bool
	}{
		{in: "30x20x10", want: impact.Dimensions{Length: 30, Width: 20, Height: 10}},
		{in: " 1.5X2x0 ", want: impact.Dimensions{Length: 1.5, Width: 2, Height: 0}},
		{in: "30x20", wantErr: true},
		{in: "30xax10", wantErr: true},
		{in: "30x-1x10", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cli.ParseDimensions(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDraft(t *testing.T) {
	d, err := cli.BuildDraft("Bag", "500g", "12.5", "10x10x10", []string{"Bamboo", "Cotton"})
	require.NoError(t, err)
	assert.Equal(t, "Bag", d.Category)
	require.NotNil(t, d.WeightKg)
	assert.InDelta(t, 0.5, *d.WeightKg, 1e-9)
	require.NotNil(t, d.PriceAmount)
	assert.InDelta(t, 12.5, *d.PriceAmount, 1e-9)
	require.NotNil(t, d.Dimensions)
	assert.Equal(t, []string{"Bamboo", "Cotton"}, d.Materials)

	empty, err := cli.BuildDraft("", "", "", "", nil)
	require.NoError(t, err)
	assert.Nil(t, empty.WeightKg)
	assert.Nil(t, empty.PriceAmount)
	assert.Nil(t, empty.Dimensions)

	negative, err := cli.BuildDraft("Bag", "-1", "", "", nil)
	require.NoError(t, err)
	assert.Nil(t, negative.WeightKg, "negative weight falls back to the estimator default")

	_, err = cli.BuildDraft("Bag", "-1 stone", "", "", nil)
	require.ErrorIs(t, err, impact.ErrInvalidUnit)
	_, err = cli.BuildDraft("Bag", "heavy", "", "", nil)
	require.Error(t, err)
	_, err = cli.BuildDraft("Bag", "", "cheap", "", nil)
	require.Error(t, err)
	_, err = cli.BuildDraft("Bag", "", "", "1x2", nil)
	require.Error(t, err)
}

func TestEstimateCmd_Table(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "estimate", "--category", "Bag", "--weight", "1", "--material", "Bamboo")
	require.NoError(t, err)
	assert.Contains(t, out, "Category:")
	assert.Contains(t, out, "Bag")
	assert.Contains(t, out, "0.8 kg CO2e")
	assert.Contains(t, out, "0.4 kg CO2e")
	assert.Contains(t, out, "1.2 kg CO2e")
	assert.Contains(t, out, "[Low Impact]")
	assert.NotContains(t, out, "How this was calculated")
}

func TestEstimateCmd_JSON(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "estimate", "--category", "Bag", "--weight", "1000g",
		"--material", "Bamboo", "--output", "json")
	require.NoError(t, err)

	var got struct {
		Category  string          `json:"category"`
		Result    impact.Result   `json:"result"`
		Band      string          `json:"band"`
		Breakdown json.RawMessage `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Bag", got.Category)
	assert.InDelta(t, 0.8, got.Result.MaterialCO2, 1e-9)
	assert.InDelta(t, 0.4, got.Result.ShippingCO2, 1e-9)
	assert.InDelta(t, 1.2, got.Result.Footprint, 1e-9)
	assert.Equal(t, "Low Impact", got.Band)
	assert.Empty(t, got.Breakdown, "breakdown is only included with --explain")
}

func TestEstimateCmd_Explain(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "estimate", "--category", "Spaceship", "--weight", "2",
		"--material", "Kryptonite", "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "How this was calculated")
	assert.Contains(t, out, "category not recognised, using Accessories factors")
	assert.Contains(t, out, "unknown materials: Kryptonite")
	assert.Contains(t, out, "estimated from weight")
}

func TestEstimateCmd_NegativeWeightUsesDefault(t *testing.T) {
	setupCLITest(t)

	negative, err := execute(t, "estimate", "--category", "Bag", "--weight=-1", "--material", "Bamboo")
	require.NoError(t, err)
	unset, err := execute(t, "estimate", "--category", "Bag", "--material", "Bamboo")
	require.NoError(t, err)
	assert.Equal(t, unset, negative)
	assert.Contains(t, negative, "1.2 kg CO2e")
}

func TestEstimateCmd_OverflowIsAnError(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "estimate", "--category", "Laptop", "--weight", "1e308",
		"--material", "Aluminum", "--output", "json")
	require.ErrorIs(t, err, impact.ErrCalculationOverflow)
}

func TestEstimateCmd_Errors(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "estimate", "--weight", "lots")
	require.Error(t, err)

	_, err = execute(t, "estimate", "--output", "xml")
	require.ErrorContains(t, err, "unsupported output format")

	_, err = execute(t, "estimate", "--reference", "/does/not/exist.yaml")
	require.ErrorContains(t, err, "reading reference file")
}

const draftsYAML = `drafts:
  - category: Bag
    weight_kg: 1
    materials: [Bamboo]
  - category: Laptop
    weight_kg: 2.5
    price_amount: 900
    dimensions: {length: 35, width: 24, height: 2}
  - category: Nonexistent
`

func TestEstimateBatchCmd_Table(t *testing.T) {
	setupCLITest(t)
	path := writeTestFile(t, "drafts.yaml", draftsYAML)

	out, err := execute(t, "estimate", "batch", "--file", path, "--batch-size", "1", "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "Laptop")
	assert.Contains(t, out, "Accessories")
	assert.Contains(t, out, "3 drafts, total footprint")
}

func TestEstimateBatchCmd_JSONBareList(t *testing.T) {
	setupCLITest(t)
	path := writeTestFile(t, "drafts.json",
		`[{"category":"Bag","weight_kg":1,"materials":["Bamboo"]},{"category":"Cloth"}]`)

	out, err := execute(t, "estimate", "batch", "-f", path, "--output", "json")
	require.NoError(t, err)

	var got []engine.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.InDelta(t, 1.2, got[0].Result.Footprint, 1e-9)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, "Cloth", got[1].Breakdown.Category)
}

func TestEstimateBatchCmd_Errors(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "estimate", "batch")
	require.Error(t, err, "--file is required")

	_, err = execute(t, "estimate", "batch", "--file", writeTestFile(t, "empty.yaml", "drafts: []\n"))
	require.ErrorContains(t, err, "no drafts")

	_, err = execute(t, "estimate", "batch", "--file", writeTestFile(t, "bad.yaml", "drafts: {oops\n"))
	require.ErrorContains(t, err, "parsing drafts file")
}

func TestLoadDrafts(t *testing.T) {
	drafts, err := cli.LoadDrafts(writeTestFile(t, "d.yaml", draftsYAML))
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, "Laptop", drafts[1].Category)
	require.NotNil(t, drafts[1].Dimensions)
	assert.InDelta(t, 35.0, drafts[1].Dimensions.Length, 1e-9)
	assert.Nil(t, drafts[2].WeightKg)

	_, err = cli.LoadDrafts("/does/not/exist.yaml")
	require.Error(t, err)
}
