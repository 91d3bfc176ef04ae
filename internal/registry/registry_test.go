package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/stylecfg/internal/theme"
)

func TestNew_CopiesSeeds(t *testing.T) {
	utilities := []Utility{{Name: "block", Declarations: Declarations{"display": "block"}, Source: "core"}}
	variants := []Variant{{Name: "hover", Selector: "&:hover", Source: "core"}}

	r := New(nil, variants, utilities)
	utilities[0].Declarations["display"] = "flex"

	u, ok := r.Utility("block")
	require.True(t, ok)
	assert.Equal(t, "block", u.Declarations["display"])
	assert.Equal(t, "core", u.Source)
	assert.True(t, r.HasVariant("hover"))
	assert.NotNil(t, r.Theme())
}

func TestAddUtility(t *testing.T) {
	r := New(theme.Tree{}, nil, nil)
	r.SetOwner("p1")

	require.NoError(t, r.AddUtility(Utility{Name: "prose", Declarations: Declarations{"color": "gray"}}))
	u, ok := r.Utility("prose")
	require.True(t, ok)
	assert.Equal(t, LayerUtilities, u.Layer)
	assert.Equal(t, "p1", u.Source)

	require.ErrorIs(t, r.AddUtility(Utility{}), ErrEmptyName)
	require.ErrorIs(t, r.AddUtility(Utility{Name: "x", Layer: "bogus"}), ErrUnknownLayer)
}

func TestAddUtility_ReplacesInPlace(t *testing.T) {
	r := New(theme.Tree{}, nil, nil)
	require.NoError(t, r.AddUtility(Utility{Name: "a"}))
	require.NoError(t, r.AddUtility(Utility{Name: "b"}))

	r.SetOwner("later")
	require.NoError(t, r.AddUtility(Utility{Name: "a", Declarations: Declarations{"x": "1"}}))

	got := r.Utilities()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "later", got[0].Source)
	assert.Equal(t, "1", got[0].Declarations["x"])
	assert.Equal(t, "b", got[1].Name)
}

func TestAddUtilities_SortedByName(t *testing.T) {
	r := New(theme.Tree{}, nil, nil)
	require.NoError(t, r.AddUtilities(LayerComponents, map[string]Declarations{
		"card":  {"display": "flex"},
		"alert": {"display": "grid"},
		"btn":   {"display": "inline-flex"},
	}))

	got := r.Utilities()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"alert", "btn", "card"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.Equal(t, LayerComponents, got[0].Layer)
}

func TestAddVariant(t *testing.T) {
	r := New(theme.Tree{}, []Variant{{Name: "hover", Selector: "&:hover"}}, nil)
	r.SetOwner("typography")

	require.NoError(t, r.AddVariant("prose-a", "& :is(a)"))
	require.NoError(t, r.AddVariant("hover", "&:hover:not(:disabled)"))
	require.ErrorIs(t, r.AddVariant("", "&"), ErrEmptyName)

	got := r.Variants()
	require.Len(t, got, 2)
	assert.Equal(t, "hover", got[0].Name)
	assert.Equal(t, "&:hover:not(:disabled)", got[0].Selector)
	assert.Equal(t, "prose-a", got[1].Name)
}

func TestExtend(t *testing.T) {
	r := New(theme.Tree{"colors": map[string]any{"red": "#f00"}}, nil, nil)

	require.NoError(t, r.Extend("colors", map[string]any{"primary": "#570df8", "red": "#e00"}))
	require.NoError(t, r.Extend("zIndex", map[string]any{"modal": "50"}))

	v, _ := r.Lookup("colors", "red")
	assert.Equal(t, "#e00", v)
	v, _ = r.Lookup("colors", "primary")
	assert.Equal(t, "#570df8", v)
	v, _ = r.Lookup("zIndex", "modal")
	assert.Equal(t, "50", v)

	r.Theme()["flat"] = "leaf"
	require.ErrorIs(t, r.Extend("flat", map[string]any{"a": "b"}), theme.ErrNotMapping)
}

func TestFill(t *testing.T) {
	r := New(theme.Tree{"typography": map[string]any{"DEFAULT": map[string]any{"color": "red"}}}, nil, nil)
	require.NoError(t, r.Fill("typography", map[string]any{
		"DEFAULT": map[string]any{"color": "gray", "maxWidth": "65ch"},
	}))

	v, _ := r.Lookup("typography", "DEFAULT", "color")
	assert.Equal(t, "red", v)
	v, _ = r.Lookup("typography", "DEFAULT", "maxWidth")
	assert.Equal(t, "65ch", v)
}

func TestSet(t *testing.T) {
	r := New(theme.Tree{}, nil, nil)
	require.NoError(t, r.Set([]string{"daisyui", "themes"}, []string{"light"}))
	v, ok := r.Lookup("daisyui", "themes")
	require.True(t, ok)
	assert.Equal(t, []any{"light"}, v)
}

func TestLayerOrder(t *testing.T) {
	assert.Less(t, LayerBase.Order(), LayerComponents.Order())
	assert.Less(t, LayerComponents.Order(), LayerUtilities.Order())
	assert.False(t, Layer("x").Valid())
}
