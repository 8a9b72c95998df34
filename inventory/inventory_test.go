package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/efmig/parse"
)

func mig(key, name string, pending bool) parse.Migration {
	return parse.Migration{ID: key + "_" + name, Key: key, Name: name, Pending: pending}
}

func ids(ms []parse.Migration) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func sample() *Inventory {
	// deliberately out of order
	return New([]parse.Migration{
		mig("20240103000000", "C", true),
		mig("20240101000000", "A", false),
		mig("20240102000000", "B", true),
	})
}

func TestOrdering(t *testing.T) {
	inv := sample()

	assert.Equal(t, []string{"20240101000000_A", "20240102000000_B", "20240103000000_C"}, ids(inv.Ascending()))
	assert.Equal(t, []string{"20240103000000_C", "20240102000000_B", "20240101000000_A"}, ids(inv.Descending()))
}

func TestOrderingHoldsForEveryPair(t *testing.T) {
	inv := sample()
	asc := inv.Ascending()
	desc := inv.Descending()

	pos := func(list []parse.Migration, id string) int {
		for i, m := range list {
			if m.ID == id {
				return i
			}
		}
		return -1
	}

	for _, a := range asc {
		for _, b := range asc {
			if a.Key < b.Key {
				assert.Less(t, pos(asc, a.ID), pos(asc, b.ID))
				assert.Greater(t, pos(desc, a.ID), pos(desc, b.ID))
			}
		}
	}
}

func TestNewCopiesInput(t *testing.T) {
	records := []parse.Migration{mig("20240101000000", "A", false)}
	inv := New(records)
	records[0].Name = "mutated"

	got := inv.Ascending()
	got[0].Name = "also mutated"

	m, ok := inv.Find("20240101000000_A")
	require.True(t, ok)
	assert.Equal(t, "A", m.Name)
}

func TestNewerThan(t *testing.T) {
	inv := sample()

	tests := []struct {
		key  string
		want []string
	}{
		{"20240101000000", []string{"20240102000000_B", "20240103000000_C"}},
		{"20240102000000", []string{"20240103000000_C"}},
		{"20240103000000", nil},
		{"20231231000000", []string{"20240101000000_A", "20240102000000_B", "20240103000000_C"}},
		{"20240101500000", []string{"20240102000000_B", "20240103000000_C"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := inv.NewerThan(tt.key)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ids(got))
			for _, m := range got {
				assert.Greater(t, m.Key, tt.key)
			}
		})
	}
}

func TestFindAndResolve(t *testing.T) {
	inv := sample()

	_, ok := inv.Find("20240102000000_b")
	assert.False(t, ok, "Find is exact")

	m, ok := inv.Resolve("20240102000000_b")
	require.True(t, ok)
	assert.Equal(t, "20240102000000_B", m.ID)

	m, ok = inv.Resolve("  20240103000000_c (Pending) ")
	require.True(t, ok)
	assert.Equal(t, "20240103000000_C", m.ID)

	_, ok = inv.Resolve("20240104000000_D")
	assert.False(t, ok)

	_, ok = inv.Resolve("   ")
	assert.False(t, ok)
}

func TestLatestAndClassification(t *testing.T) {
	inv := sample()

	latest, ok := inv.Latest()
	require.True(t, ok)
	assert.Equal(t, "20240103000000_C", latest.ID)

	assert.Equal(t, []string{"20240102000000_B", "20240103000000_C"}, ids(inv.Pending()))
	assert.Equal(t, []string{"20240101000000_A"}, ids(inv.Applied()))
}

func TestEmpty(t *testing.T) {
	for _, inv := range []*Inventory{nil, New(nil), FromListing([]string{"No migrations were found."}, nil)} {
		assert.True(t, inv.Empty())
		assert.Equal(t, 0, inv.Len())
		assert.Empty(t, inv.Ascending())
		assert.Empty(t, inv.Descending())
		assert.Empty(t, inv.NewerThan("0"))
		_, ok := inv.Latest()
		assert.False(t, ok)
		_, ok = inv.Find("x")
		assert.False(t, ok)
	}
}

func TestFromListing(t *testing.T) {
	inv := FromListing([]string{
		"20240102120000_AddOrders (Pending)",
		"20240101120000_AddUsers",
	}, nil)

	require.Equal(t, 2, inv.Len())
	first := inv.Ascending()[0]
	assert.Equal(t, "AddUsers", first.Name)
	assert.False(t, first.Pending)
}
