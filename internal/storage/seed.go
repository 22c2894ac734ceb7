package storage

import (
	"encoding/json"
	"time"

	"github.com/vitrinshop/vitrin/internal/domain"
)

// defaultDataset returns the seed for a collection and its record count.
// Only products ship with content; the other collections start empty.
func defaultDataset(collection string) (any, int) {
	if collection == domain.CollectionProducts {
		products := DefaultProducts()
		return products, len(products)
	}
	return []json.RawMessage{}, 0
}

// DefaultProducts is the fixed dataset a fresh store is seeded with.
func DefaultProducts() []domain.Product {
	seededAt := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	return []domain.Product{
		{
			ID:             "p_espresso_dark",
			Name:           "Dark Roast Espresso Beans",
			Description:    "Full-bodied espresso blend with notes of cocoa and toasted hazelnut.",
			Price:          14.90,
			MainCategoryID: "mc_grocery",
			CategoryID:     "cat_pantry",
			SubCategoryID:  "sub_coffee_tea",
			Brand:          "Morning Range",
			Image:          "products/espresso-dark.jpg",
			Quantity:       42,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_green_tea",
			Name:           "Organic Sencha Green Tea",
			Description:    "Loose-leaf sencha from certified organic farms. Light and grassy.",
			Price:          9.50,
			MainCategoryID: "mc_grocery",
			CategoryID:     "cat_pantry",
			SubCategoryID:  "sub_coffee_tea",
			Brand:          "Leafwork",
			Image:          "products/sencha.jpg",
			Quantity:       25,
			IsEco:          true,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_trail_mix",
			Name:           "Roasted Trail Mix",
			Description:    "Almonds, cashews, cranberries and dark chocolate chunks.",
			Price:          6.40,
			OriginalPrice:  7.90,
			SalePrice:      6.40,
			IsOnOffer:      true,
			MainCategoryID: "mc_grocery",
			CategoryID:     "cat_pantry",
			SubCategoryID:  "sub_snacks",
			Brand:          "Morning Range",
			Image:          "products/trail-mix.jpg",
			Quantity:       60,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_apples_eco",
			Name:           "Eco Apples 1kg",
			Description:    "Crisp seasonal apples grown without synthetic pesticides.",
			Price:          3.95,
			MainCategoryID: "mc_grocery",
			CategoryID:     "cat_fresh",
			SubCategoryID:  "sub_fruit",
			Brand:          "Grove & Field",
			Image:          "products/apples.jpg",
			Quantity:       120,
			IsEco:          true,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_oat_drink",
			Name:           "Barista Oat Drink",
			Description:    "Foamable oat drink for coffee. Chilled distribution.",
			Price:          2.80,
			MainCategoryID: "mc_grocery",
			CategoryID:     "cat_fresh",
			SubCategoryID:  "sub_dairy",
			Brand:          "Leafwork",
			Image:          "products/oat-drink.jpg",
			Quantity:       0,
			IsEco:          true,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_pour_over",
			Name:           "Ceramic Pour-Over Dripper",
			Description:    "Single-cup ceramic dripper, fits standard cone filters.",
			Price:          24.00,
			MainCategoryID: "mc_home",
			CategoryID:     "cat_kitchen",
			SubCategoryID:  "sub_brewing",
			Brand:          "Hearthware",
			Image:          "products/pour-over.jpg",
			Quantity:       18,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_kettle_gooseneck",
			Name:           "Gooseneck Kettle 0.9L",
			Description:    "Stainless pour-control kettle with thermometer lid.",
			Price:          39.00,
			OriginalPrice:  49.00,
			SalePrice:      39.00,
			IsOnOffer:      true,
			MainCategoryID: "mc_home",
			CategoryID:     "cat_kitchen",
			SubCategoryID:  "sub_brewing",
			Brand:          "Hearthware",
			Image:          "products/kettle.jpg",
			Quantity:       9,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_stone_mugs",
			Name:           "Stoneware Mug Set (4)",
			Description:    "Dishwasher-safe stoneware mugs in mixed glazes.",
			Price:          28.50,
			MainCategoryID: "mc_home",
			CategoryID:     "cat_kitchen",
			SubCategoryID:  "sub_tableware",
			Brand:          "Hearthware",
			Image:          "products/mugs.jpg",
			Quantity:       31,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_linen_duvet",
			Name:           "Washed Linen Duvet Cover",
			Description:    "Stonewashed linen, 140x200cm, breathable year-round.",
			Price:          89.00,
			MainCategoryID: "mc_home",
			CategoryID:     "cat_textiles",
			SubCategoryID:  "sub_bedding",
			Brand:          "Grove & Field",
			Image:          "products/duvet.jpg",
			Quantity:       12,
			IsEco:          true,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
		{
			ID:             "p_waffle_towels",
			Name:           "Waffle Weave Towel Pair",
			Description:    "Quick-drying cotton waffle towels, sand colorway.",
			Price:          19.90,
			MainCategoryID: "mc_home",
			CategoryID:     "cat_textiles",
			SubCategoryID:  "sub_towels",
			Brand:          "Grove & Field",
			Image:          "products/towels.jpg",
			Quantity:       44,
			CreatedAt:      seededAt,
			UpdatedAt:      seededAt,
		},
	}
}
