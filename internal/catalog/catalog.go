// Package catalog holds the static category table used by the product form and the
// selection helpers that sit on top of it.
package catalog

import "github.com/bloomhouse/admin-console/internal/domain"

// Category is a node of the lookup table
type Category struct {
	Slug  string
	Label string
	Subs  []Category
}

// Group is a top-level section of the lookup table
type Group struct {
	Slug       string
	Label      string
	Categories []Category
}

// Option is one selectable entry of the flattened table
type Option struct {
	Value string
	Label string
	Group string
}

// Table is the product category lookup
var Table = []Group{
	{
		Slug:  "flowers",
		Label: "Flowers",
		Categories: []Category{
			{Slug: "roses", Label: "Roses", Subs: []Category{
				{Slug: "red", Label: "Red Roses"},
				{Slug: "white", Label: "White Roses"},
				{Slug: "mixed", Label: "Mixed Roses"},
			}},
			{Slug: "lilies", Label: "Lilies"},
			{Slug: "orchids", Label: "Orchids"},
			{Slug: "seasonal", Label: "Seasonal Flowers"},
		},
	},
	{
		Slug:  "arrangements",
		Label: "Arrangements",
		Categories: []Category{
			{Slug: "bouquets", Label: "Bouquets", Subs: []Category{
				{Slug: "hand-tied", Label: "Hand-tied Bouquets"},
				{Slug: "premium", Label: "Premium Bouquets"},
			}},
			{Slug: "baskets", Label: "Flower Baskets"},
			{Slug: "boxes", Label: "Flower Boxes"},
			{Slug: "table-centrepieces", Label: "Table Centrepieces"},
		},
	},
	{
		Slug:  "occasions",
		Label: "Occasions",
		Categories: []Category{
			{Slug: "birthday", Label: "Birthday"},
			{Slug: "anniversary", Label: "Anniversary"},
			{Slug: "wedding", Label: "Wedding", Subs: []Category{
				{Slug: "bridal", Label: "Bridal Bouquets"},
				{Slug: "decor", Label: "Wedding Decor"},
			}},
			{Slug: "sympathy", Label: "Sympathy"},
		},
	},
	{
		Slug:  "plants",
		Label: "Plants",
		Categories: []Category{
			{Slug: "indoor", Label: "Indoor Plants"},
			{Slug: "succulents", Label: "Succulents"},
		},
	},
	{
		Slug:  "school",
		Label: "Flower School",
		Categories: []Category{
			{Slug: "kits", Label: "Workshop Kits"},
			{Slug: "tools", Label: "Floristry Tools"},
			{Slug: "gift-cards", Label: "Class Gift Cards"},
		},
	},
}

// Flatten returns every category and sub-category of Table in table order.
// Values are "group/category" or "group/category/sub".
func Flatten() []Option {
	return FlattenGroups(Table)
}

// FlattenGroups flattens an arbitrary table
func FlattenGroups(groups []Group) []Option {
	var out []Option
	for _, g := range groups {
		for _, c := range g.Categories {
			value := g.Slug + "/" + c.Slug
			out = append(out, Option{Value: value, Label: c.Label, Group: g.Label})
			for _, s := range c.Subs {
				out = append(out, Option{Value: value + "/" + s.Slug, Label: s.Label, Group: g.Label})
			}
		}
	}
	return out
}

// Options returns the flattened table in the API representation
func Options() []domain.CategoryOption {
	flat := Flatten()
	out := make([]domain.CategoryOption, 0, len(flat))
	for _, o := range flat {
		out = append(out, domain.CategoryOption{Value: o.Value, Label: o.Label, Group: o.Group})
	}
	return out
}

// Label returns the display label for a value, or the value itself when unknown
func Label(value string) string {
	for _, o := range Flatten() {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
