package catalog

import (
	"testing"

	pkgerrors "github.com/angelmondragon/foodcart-engine/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(id string, qty int) Item {
	return Item{
		ID:                id,
		Name:              "Item " + id,
		Price:             decimal.RequireFromString("8.99"),
		AvailableQuantity: qty,
		ServerAvailable:   true,
	}
}

func TestItemIsAvailable(t *testing.T) {
	t.Parallel()

	item := testItem("1", 2)
	assert.True(t, item.IsAvailable())

	item.AvailableQuantity = 0
	assert.False(t, item.IsAvailable(), "zero stock is unavailable")

	item.AvailableQuantity = 5
	item.ServerAvailable = false
	assert.False(t, item.IsAvailable(), "server flag gates availability")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(testItem("1", 0)))

	bad := Item{Price: decimal.NewFromInt(-1), AvailableQuantity: -2}
	err := Validate(bad)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 4)
}

func TestCatalogCRUD(t *testing.T) {
	t.Parallel()

	c := New(testItem("a", 1), testItem("b", 2), Item{ID: "bad"})
	assert.Equal(t, 2, c.Len(), "invalid items are skipped")

	_, err := c.Get("missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	updated := testItem("a", 9)
	updated.Name = "Renamed"
	require.NoError(t, c.Upsert(updated))
	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Renamed", list[0].Name, "upsert keeps position")

	require.NoError(t, c.Upsert(testItem("c", 3)))
	require.NoError(t, c.Remove("b"))
	assert.False(t, c.Has("b"))
	assert.Equal(t, []string{"a", "c"}, ids(c.List()))
	assert.True(t, pkgerrors.IsCode(c.Remove("b"), pkgerrors.CodeNotFound))
}

func TestCatalogAdjust(t *testing.T) {
	t.Parallel()

	c := New(testItem("a", 1))
	assert.True(t, c.Adjust("a", -1))
	assert.False(t, c.Adjust("a", -1), "cannot go negative")
	assert.True(t, c.Adjust("a", 3))
	item, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 3, item.AvailableQuantity)
	assert.False(t, c.Adjust("zzz", 1))
}

func TestReplaceAllReconcilesHeldItems(t *testing.T) {
	t.Parallel()

	c := New(testItem("kept", 4), testItem("held-gone", 0), testItem("gone", 5), testItem("shrunk", 1))

	held := map[string]int{"kept": 2, "held-gone": 3, "shrunk": 4}
	remoteShrunk := testItem("shrunk", 2)
	report := c.ReplaceAll([]Item{
		testItem("kept", 10),
		testItem("fresh", 7),
		remoteShrunk,
		{ID: "invalid"},
	}, held)

	assert.Equal(t, []string{"fresh"}, report.Added)
	assert.ElementsMatch(t, []string{"kept", "shrunk"}, report.Updated)
	assert.Equal(t, []string{"gone"}, report.Removed)
	assert.Equal(t, []string{"held-gone"}, report.Retained)
	assert.Equal(t, []string{"invalid"}, report.Invalid)

	kept, err := c.Get("kept")
	require.NoError(t, err)
	assert.Equal(t, 8, kept.AvailableQuantity, "remote stock minus local hold")

	shrunk, err := c.Get("shrunk")
	require.NoError(t, err)
	assert.Equal(t, 0, shrunk.AvailableQuantity, "clamped at zero")

	retained, err := c.Get("held-gone")
	require.NoError(t, err)
	assert.False(t, retained.ServerAvailable)
	assert.False(t, retained.IsAvailable())

	assert.False(t, c.Has("gone"))
}

func TestReplaceAllDuplicateIDsFirstWins(t *testing.T) {
	t.Parallel()

	c := New()
	first := testItem("dup", 1)
	second := testItem("dup", 9)
	report := c.ReplaceAll([]Item{first, second}, nil)
	assert.Equal(t, []string{"dup"}, report.Added)
	assert.Equal(t, []string{"dup"}, report.Invalid)
	item, err := c.Get("dup")
	require.NoError(t, err)
	assert.Equal(t, 1, item.AvailableQuantity)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	c := New(testItem("a", 1))
	clone := c.Clone()
	require.True(t, clone.Adjust("a", 5))
	original, _ := c.Get("a")
	assert.Equal(t, 1, original.AvailableQuantity)
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}
