// Package inventory holds an ordered, read-only snapshot of the migrations the
// tool reported in one listing.
//
// An Inventory is never patched. Every operation that needs current state lists
// the migrations again and builds a new snapshot.
package inventory

import (
	"sort"
	"strings"

	"github.com/teranos/efmig/parse"
)

// Inventory is a snapshot of migration records ordered by temporal key.
type Inventory struct {
	// ascending by Key, then ID
	records []parse.Migration
}

// New builds a snapshot from records. The input slice is copied.
func New(records []parse.Migration) *Inventory {
	sorted := make([]parse.Migration, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return &Inventory{records: sorted}
}

func less(a, b parse.Migration) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.ID < b.ID
}

// FromListing parses listing data lines and builds a snapshot.
func FromListing(lines []string, resolve parse.Resolver) *Inventory {
	return New(parse.ParseListing(lines, resolve))
}

// Len returns the number of migrations.
func (inv *Inventory) Len() int {
	if inv == nil {
		return 0
	}
	return len(inv.records)
}

// Empty reports whether the snapshot holds no migrations.
func (inv *Inventory) Empty() bool {
	return inv.Len() == 0
}

// Ascending returns the migrations oldest first.
func (inv *Inventory) Ascending() []parse.Migration {
	if inv.Empty() {
		return nil
	}
	out := make([]parse.Migration, len(inv.records))
	copy(out, inv.records)
	return out
}

// Descending returns the migrations newest first.
func (inv *Inventory) Descending() []parse.Migration {
	out := inv.Ascending()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Find returns the migration whose identifier equals id exactly.
func (inv *Inventory) Find(id string) (parse.Migration, bool) {
	if inv == nil {
		return parse.Migration{}, false
	}
	for _, m := range inv.records {
		if m.ID == id {
			return m, true
		}
	}
	return parse.Migration{}, false
}

// Resolve looks up a user-supplied target. The comparison ignores case and a
// trailing annotation such as "(Pending)", so a line copied from the listing
// resolves too.
func (inv *Inventory) Resolve(target string) (parse.Migration, bool) {
	if inv == nil {
		return parse.Migration{}, false
	}
	id, _ := parse.StripAnnotation(target)
	if id == "" {
		return parse.Migration{}, false
	}
	if m, ok := inv.Find(id); ok {
		return m, true
	}
	for _, m := range inv.records {
		if strings.EqualFold(m.ID, id) {
			return m, true
		}
	}
	return parse.Migration{}, false
}

// NewerThan returns the migrations with a key strictly greater than key, oldest first.
func (inv *Inventory) NewerThan(key string) []parse.Migration {
	if inv.Empty() {
		return nil
	}
	i := sort.Search(len(inv.records), func(i int) bool {
		return inv.records[i].Key > key
	})
	if i == len(inv.records) {
		return nil
	}
	out := make([]parse.Migration, len(inv.records)-i)
	copy(out, inv.records[i:])
	return out
}

// Latest returns the migration with the greatest key.
func (inv *Inventory) Latest() (parse.Migration, bool) {
	if inv.Empty() {
		return parse.Migration{}, false
	}
	return inv.records[len(inv.records)-1], true
}

// Pending returns the migrations not yet applied, oldest first.
func (inv *Inventory) Pending() []parse.Migration {
	return inv.filter(func(m parse.Migration) bool { return m.Pending })
}

// Applied returns the migrations already applied, oldest first.
func (inv *Inventory) Applied() []parse.Migration {
	return inv.filter(func(m parse.Migration) bool { return !m.Pending })
}

func (inv *Inventory) filter(keep func(parse.Migration) bool) []parse.Migration {
	if inv.Empty() {
		return nil
	}
	var out []parse.Migration
	for _, m := range inv.records {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
