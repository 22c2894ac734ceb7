package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrinshop/vitrin/internal/domain"
)

func Test_Product_Normalize_LegacyRecordGetsDefaults(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantQuantity int
		wantInStock  bool
	}{
		{
			name:         "legacy in-stock boolean true",
			raw:          `{"id":"p1","name":"Beans","price":10,"inStock":true}`,
			wantQuantity: domain.DefaultStockQuantity,
			wantInStock:  true,
		},
		{
			name:         "legacy in-stock boolean false",
			raw:          `{"id":"p2","name":"Beans","price":10,"inStock":false}`,
			wantQuantity: 0,
			wantInStock:  false,
		},
		{
			name:         "no stock field at all",
			raw:          `{"id":"p3","name":"Beans","price":10}`,
			wantQuantity: domain.DefaultStockQuantity,
			wantInStock:  true,
		},
		{
			name:         "numeric quantity wins over default",
			raw:          `{"id":"p4","name":"Beans","price":10,"quantity":3}`,
			wantQuantity: 3,
			wantInStock:  true,
		},
		{
			name:         "explicit zero quantity stays out of stock",
			raw:          `{"id":"p5","name":"Beans","price":10,"quantity":0,"inStock":true}`,
			wantQuantity: 0,
			wantInStock:  false,
		},
		{
			name:         "negative quantity clamps to zero",
			raw:          `{"id":"p6","name":"Beans","price":10,"quantity":-4}`,
			wantQuantity: 0,
			wantInStock:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p domain.Product
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &p))
			p.Normalize()

			assert.Equal(t, tt.wantQuantity, p.Quantity)
			assert.Equal(t, tt.wantInStock, p.InStock())
		})
	}
}

func Test_Product_Normalize_MissingCategoriesDefault(t *testing.T) {
	var p domain.Product
	raw := `{"id":"p1","name":"Orphan","price":5}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	p.Normalize()

	assert.Equal(t, domain.DefaultMainCategoryID, p.MainCategoryID)
	assert.Equal(t, domain.DefaultCategoryID, p.CategoryID)
	assert.Equal(t, domain.DefaultSubCategoryID, p.SubCategoryID)
}

func Test_Product_Normalize_KeepsExistingCategories(t *testing.T) {
	var p domain.Product
	raw := `{"id":"p1","name":"Placed","price":5,"mainCategoryId":"mc_grocery","categoryId":"cat_pantry","subCategoryId":"sub_coffee"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	p.Normalize()

	assert.Equal(t, "mc_grocery", p.MainCategoryID)
	assert.Equal(t, "cat_pantry", p.CategoryID)
	assert.Equal(t, "sub_coffee", p.SubCategoryID)
}

func Test_Product_RoundTrip_PreservesUnknownFields(t *testing.T) {
	raw := `{"id":"p1","name":"Beans","price":12.5,"quantity":4,"uiBadge":"new","vendorMeta":{"sku":"X-1"}}`

	var p domain.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	p.Normalize()

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.JSONEq(t, `"new"`, string(decoded["uiBadge"]), "unmodeled scalar field should survive the round trip")
	assert.JSONEq(t, `{"sku":"X-1"}`, string(decoded["vendorMeta"]), "unmodeled object field should survive the round trip")
	assert.JSONEq(t, `"Beans"`, string(decoded["name"]))
}

func Test_Product_RoundTrip_CanonicalFieldWinsOverExtra(t *testing.T) {
	raw := `{"id":"p1","name":"Old Name","price":5}`

	var p domain.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	p.Name = "New Name"

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.JSONEq(t, `"New Name"`, string(decoded["name"]))
}

func Test_Product_EffectivePrice(t *testing.T) {
	onOffer := domain.Product{Price: 20, SalePrice: 15, IsOnOffer: true}
	assert.Equal(t, 15.0, onOffer.EffectivePrice())

	offerWithoutSalePrice := domain.Product{Price: 20, IsOnOffer: true}
	assert.Equal(t, 20.0, offerWithoutSalePrice.EffectivePrice())

	regular := domain.Product{Price: 20, SalePrice: 15}
	assert.Equal(t, 20.0, regular.EffectivePrice())
}

func Test_BrandSlug_NormalizesCaseAndSpace(t *testing.T) {
	assert.Equal(t, domain.BrandSlug("Grove & Field"), domain.BrandSlug("  grove  &  FIELD "))
	assert.NotEqual(t, domain.BrandSlug("Grove & Field"), domain.BrandSlug("Grove"))
}

func Test_FindCategory_WalksTheTree(t *testing.T) {
	tree := domain.DefaultCategories()

	node := domain.FindCategory(tree, "cat_pantry")
	require.NotNil(t, node)
	assert.Equal(t, "cat_pantry", node.ID)

	assert.Nil(t, domain.FindCategory(tree, "cat_nope"))
}
