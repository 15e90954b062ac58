package draft_test

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/draft"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

func fillListing(t *testing.T, s *draft.Session) {
	t.Helper()
	for field, value := range map[draft.Field]string{
		draft.FieldName:          "  Bamboo tote ",
		draft.FieldPrice:         "1299.50",
		draft.FieldStockQuantity: "12",
		draft.FieldImage:         "https://img.example/tote.png",
		draft.FieldDescription:   "Woven bamboo fibre tote",
	} {
		require.NoError(t, s.Set(field, value))
	}
}

func derived(f draft.Form) []draft.Text {
	return []draft.Text{f.MaterialCO2, f.ShippingCO2, f.Footprint, f.EcoScore}
}

func TestAddSession_AutoCalculatesOnChange(t *testing.T) {
	s := draft.NewAddSession(nil, "seller-1")
	assert.True(t, s.AutoCalculate())
	assert.Equal(t, draft.ModeAdd, s.Mode())

	require.NoError(t, s.Set(draft.FieldName, "Tote"))
	assert.Empty(t, s.Form().EcoScore, "name alone does not trigger a calculation")

	require.NoError(t, s.Set(draft.FieldCategory, "Bag"))
	assert.Equal(t, []draft.Text{"0.1", "0.4", "0.5", "3.4"}, derived(s.Form()))

	require.NoError(t, s.Set(draft.FieldWeight, "1"))
	require.NoError(t, s.ToggleMaterial("Bamboo"))
	assert.Equal(t, []draft.Text{"0.8", "0.4", "1.2", "4.3"}, derived(s.Form()))

	require.NoError(t, s.ToggleMaterial("Bamboo"))
	assert.Empty(t, s.Form().Materials)
}

func TestEditSession_StartsManual(t *testing.T) {
	p := &catalog.Product{
		ID:            "01J0000000000000000000000A",
		SellerID:      "seller-1",
		Name:          "Tote",
		Category:      "Bag",
		Price:         decimal.RequireFromString("1299.5"),
		StockQuantity: 4,
		Image:         "img",
		Description:   "desc",
		Status:        catalog.StatusActive,
		WeightKg:      1,
		Materials:     catalog.Materials{"Bamboo"},
		Result:        impact.Result{MaterialCO2: 9, ShippingCO2: 9, Footprint: 18, EcoScore: 2},
	}

	s := draft.NewEditSession(nil, p)
	assert.False(t, s.AutoCalculate())
	assert.Equal(t, draft.ModeEdit, s.Mode())

	f := s.Form()
	assert.Equal(t, draft.Text("1299.5"), f.Price)
	assert.Equal(t, draft.Text("4"), f.StockQuantity)
	assert.Empty(t, f.Dimensions.Length, "unset dimensions stay empty")

	require.NoError(t, s.Set(draft.FieldWeight, "3"))
	assert.Equal(t, []draft.Text{"9", "9", "18", "2"}, derived(s.Form()), "stored values are not overwritten")

	require.NoError(t, s.Set(draft.FieldWeight, "1"))
	require.NoError(t, s.SetAutoCalculate(true))
	assert.Equal(t, []draft.Text{"0.8", "0.4", "1.2", "4.3"}, derived(s.Form()))
}

func TestValidate(t *testing.T) {
	s := draft.NewAddSession(nil, "seller-1")

	err := s.Validate()
	var fe draft.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, draft.FieldErrors{
		draft.FieldName:          draft.MsgNameRequired,
		draft.FieldCategory:      draft.MsgCategoryRequired,
		draft.FieldPrice:         draft.MsgPriceInvalid,
		draft.FieldStockQuantity: draft.MsgStockInvalid,
		draft.FieldImage:         draft.MsgImageRequired,
		draft.FieldDescription:   draft.MsgDescriptionRequired,
		draft.FieldWeight:        draft.MsgWeightRequired,
	}, fe)

	require.NoError(t, s.Set(draft.FieldName, "Tote"))
	assert.NotContains(t, s.Errors(), draft.FieldName, "editing a field clears its error")

	require.NoError(t, s.SetAutoCalculate(false))
	assert.NotContains(t, s.Errors(), draft.FieldWeight)
}

func TestValidate_Values(t *testing.T) {
	tests := []struct {
		name  string
		field draft.Field
		value string
		valid bool
	}{
		{"zero price", draft.FieldPrice, "0", false},
		{"negative price", draft.FieldPrice, "-10", false},
		{"text price", draft.FieldPrice, "cheap", false},
		{"hex float price", draft.FieldPrice, "0x1p4", false},
		{"exponent price", draft.FieldPrice, "1.5e2", true},
		{"positive price", draft.FieldPrice, "0.01", true},
		{"zero stock", draft.FieldStockQuantity, "0", true},
		{"negative stock", draft.FieldStockQuantity, "-1", false},
		{"fractional stock", draft.FieldStockQuantity, "1.5", false},
		{"blank name", draft.FieldName, "   ", false},
		{"unknown status", draft.FieldStatus, "archived", false},
		{"inactive status", draft.FieldStatus, "inactive", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := draft.NewAddSession(nil, "seller-1")
			fillListing(t, s)
			require.NoError(t, s.Set(draft.FieldCategory, "Bag"))
			require.NoError(t, s.Set(draft.FieldWeight, "1"))
			require.NoError(t, s.Set(tt.field, tt.value))

			err := s.Validate()
			if tt.valid {
				require.NoError(t, err)
				return
			}
			var fe draft.FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe, tt.field)
		})
	}
}

func TestSubmit_AddFlow(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	s := draft.NewAddSession(nil, "seller-1")
	fillListing(t, s)
	require.NoError(t, s.Set(draft.FieldCategory, "Bag"))
	require.NoError(t, s.Set(draft.FieldWeight, "1"))
	require.NoError(t, s.ToggleMaterial("Bamboo"))
	require.NoError(t, s.Set(draft.FieldEcoScore, "1.0"), "typed values are replaced on submit")

	p, err := s.Submit(ctx, store)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "seller-1", p.SellerID)
	assert.Equal(t, "Bamboo tote", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1299.5")))
	assert.Equal(t, impact.Result{MaterialCO2: 0.8, ShippingCO2: 0.4, Footprint: 1.2, EcoScore: 4.3}, p.Result)

	stored, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Result, stored.Result)

	assert.True(t, s.Closed())
	_, err = s.Submit(ctx, store)
	require.ErrorIs(t, err, draft.ErrClosed)
	require.ErrorIs(t, s.Set(draft.FieldName, "again"), draft.ErrClosed)
}

func TestSubmit_ManualDefaults(t *testing.T) {
	s := draft.NewAddSession(nil, "seller-1")
	require.NoError(t, s.SetAutoCalculate(false))
	fillListing(t, s)
	require.NoError(t, s.Set(draft.FieldCategory, "Books"))
	require.NoError(t, s.Set(draft.FieldFootprint, "not a number"))

	p, err := s.Product()
	require.NoError(t, err)
	assert.Equal(t, impact.Result{EcoScore: draft.DefaultEcoScore}, p.Result)
	assert.InDelta(t, draft.DefaultWeightKg, p.WeightKg, 1e-9)
	assert.Equal(t, catalog.StatusActive, p.Status)
	assert.False(t, s.Closed(), "Product does not close the session")
}

func TestSubmit_EditFlow(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	add := draft.NewAddSession(nil, "seller-1")
	fillListing(t, add)
	require.NoError(t, add.Set(draft.FieldCategory, "Bag"))
	require.NoError(t, add.Set(draft.FieldWeight, "1"))
	created, err := add.Submit(ctx, store)
	require.NoError(t, err)

	edit := draft.NewEditSession(nil, created)
	require.NoError(t, edit.Set(draft.FieldName, "Renamed tote"))
	updated, err := edit.Submit(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Result, updated.Result, "manual mode keeps stored impact")

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed tote", got.Name)

	all, err := store.List(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSubmit_InvalidDoesNotPersist(t *testing.T) {
	store := catalog.NewMemoryStore()
	s := draft.NewAddSession(nil, "seller-1")

	_, err := s.Submit(context.Background(), store)
	var fe draft.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.False(t, s.Closed())

	all, err := store.List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmit_HexPriceIsAFieldError(t *testing.T) {
	store := catalog.NewMemoryStore()
	s := draft.NewAddSession(nil, "seller-1")
	fillListing(t, s)
	require.NoError(t, s.Set(draft.FieldCategory, "Bag"))
	require.NoError(t, s.Set(draft.FieldWeight, "1"))
	require.NoError(t, s.Set(draft.FieldPrice, "0x1p4"))

	_, err := s.Submit(context.Background(), store)
	var fe draft.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, draft.FieldErrors{draft.FieldPrice: draft.MsgPriceInvalid}, fe)
}

func TestSubmit_OverflowingWeightIsAFieldError(t *testing.T) {
	store := catalog.NewMemoryStore()
	s := draft.NewAddSession(nil, "seller-1")
	fillListing(t, s)
	require.NoError(t, s.Set(draft.FieldCategory, "Laptop"))
	require.NoError(t, s.ToggleMaterial("Aluminum"))
	require.NoError(t, s.Set(draft.FieldWeight, "1e308"))

	_, err := s.Submit(context.Background(), store)
	var fe draft.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, draft.FieldErrors{draft.FieldWeight: draft.MsgImpactOutOfRange}, fe)
	assert.False(t, s.Closed())

	all, err := store.List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.SetAutoCalculate(false))
	require.NoError(t, s.Validate(), "manual entry keeps the typed weight")
}

func TestSubmit_StoreFailure(t *testing.T) {
	p := &catalog.Product{ID: "missing", SellerID: "s", Name: "n", Category: "Bag", Price: decimal.NewFromInt(5), Image: "i", Description: "d"}
	s := draft.NewEditSession(nil, p)

	_, err := s.Submit(context.Background(), catalog.NewMemoryStore())
	require.ErrorIs(t, err, catalog.ErrNotFound)
	assert.False(t, s.Closed())
}

func TestCancel(t *testing.T) {
	s := draft.NewAddSession(nil, "seller-1")
	require.NoError(t, s.Set(draft.FieldName, "Tote"))
	s.Cancel()

	assert.True(t, s.Closed())
	assert.Empty(t, s.Form().Name)
	require.ErrorIs(t, s.ToggleMaterial("Cork"), draft.ErrClosed)
	require.ErrorIs(t, s.Load(draft.EmptyForm()), draft.ErrClosed)
	_, err := s.Recalculate()
	require.ErrorIs(t, err, draft.ErrClosed)
}

func TestSetUnknownField(t *testing.T) {
	s := draft.NewAddSession(nil, "seller-1")
	require.ErrorIs(t, s.Set("colour", "green"), draft.ErrUnknownField)
	require.ErrorIs(t, s.SetDimension("depth", "3"), draft.ErrUnknownField)
}

func TestSetDimension(t *testing.T) {
	s := draft.NewAddSession(nil, "seller-1")
	require.NoError(t, s.Set(draft.FieldCategory, "Accessories"))
	before := s.Form().ShippingCO2

	for axis, v := range map[draft.Axis]string{draft.AxisLength: "100", draft.AxisWidth: "100", draft.AxisHeight: "100"} {
		require.NoError(t, s.SetDimension(axis, v))
	}
	// 1 m3 adds 10 units of shipping volume before the 0.8 multiplier.
	assert.NotEqual(t, before, s.Form().ShippingCO2)
	assert.Equal(t, draft.Text("8.4"), s.Form().ShippingCO2)
}

func TestLoad_AcceptsNumbersInJSON(t *testing.T) {
	var f draft.Form
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Cork board",
		"category": "Home & Garden",
		"price": 1100,
		"stock_quantity": 3,
		"weight": 4.2,
		"status": null,
		"dimensions": {"length": 30, "width": "20", "height": 15},
		"materials": ["Cork", "Wood"]
	}`), &f))
	assert.Equal(t, draft.Text("1100"), f.Price)
	assert.Equal(t, draft.Text("4.2"), f.Weight)
	assert.Equal(t, draft.Text("20"), f.Dimensions.Width)

	s := draft.NewAddSession(nil, "seller-1")
	require.NoError(t, s.Load(f))
	assert.Equal(t, draft.Text(catalog.StatusActive), s.Form().Status)

	want := impact.Estimate(f.Raw().Draft())
	assert.Equal(t, draft.Text(strconv.FormatFloat(want.Footprint, 'f', 1, 64)), s.Form().Footprint)

	require.Error(t, json.Unmarshal([]byte(`{"price": true}`), &f))
}
