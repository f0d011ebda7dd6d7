package catalog_test

import (
	"testing"

	"github.com/bloomhouse/admin-console/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenGroups(t *testing.T) {
	groups := []catalog.Group{
		{Slug: "a", Label: "Group A", Categories: []catalog.Category{
			{Slug: "one", Label: "One", Subs: []catalog.Category{{Slug: "x", Label: "One X"}}},
			{Slug: "two", Label: "Two"},
		}},
		{Slug: "b", Label: "Group B", Categories: []catalog.Category{{Slug: "three", Label: "Three"}}},
	}

	got := catalog.FlattenGroups(groups)

	assert.Equal(t, []catalog.Option{
		{Value: "a/one", Label: "One", Group: "Group A"},
		{Value: "a/one/x", Label: "One X", Group: "Group A"},
		{Value: "a/two", Label: "Two", Group: "Group A"},
		{Value: "b/three", Label: "Three", Group: "Group B"},
	}, got)
}

func TestFlatten_TableValuesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, o := range catalog.Flatten() {
		assert.False(t, seen[o.Value], "duplicate value %s", o.Value)
		seen[o.Value] = true
	}
	assert.Len(t, catalog.Options(), len(seen))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Red Roses", catalog.Label("flowers/roses/red"))
	assert.Equal(t, "unknown/value", catalog.Label("unknown/value"))
}

func TestSelection(t *testing.T) {
	s := catalog.NewSelection("flowers/roses", " ", "flowers/lilies", "flowers/roses")
	assert.Equal(t, []string{"flowers/roses", "flowers/lilies"}, s.Values())

	assert.True(t, s.Toggle("plants/indoor"))
	assert.False(t, s.Toggle("flowers/roses"))
	assert.Equal(t, []string{"flowers/lilies", "plants/indoor"}, s.Values())

	s.Remove("not-selected")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("plants/indoor"))

	values := s.Values()
	values[0] = "mutated"
	assert.True(t, s.Contains("flowers/lilies"))
}

func TestSelection_Validate(t *testing.T) {
	require.NoError(t, catalog.NewSelection("flowers/roses/red", "school/kits").Validate(catalog.Flatten()))

	err := catalog.NewSelection("flowers/roses", "flowers/cacti").Validate(catalog.Flatten())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flowers/cacti")
}
