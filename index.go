package json

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// indexThreshold is the minimum member count before an object bothers
// building a sorted hash index; below it a linear scan is just as fast and
// avoids the allocation, matching spec.md §3 ("a single linear scan by
// default, and a pre-built sorted-by-hash index for repeated lookups").
const indexThreshold = 8

type indexEntry struct {
	hash  uint64
	value *Value
}

// keyIndex is an object's sorted-by-hash lookup structure: spec.md §3
// "Object index". conflicted records whether two members share a hash, in
// which case a hit requires a linear fan-out to confirm the full key bytes.
type keyIndex struct {
	entries    []indexEntry
	conflicted bool
}

func buildKeyIndex(children []*Value) *keyIndex {
	idx := &keyIndex{entries: make([]indexEntry, len(children))}
	for i, c := range children {
		idx.entries[i] = indexEntry{hash: xxhash.Sum64String(c.KeyName()), value: c}
	}
	sort.SliceStable(idx.entries, func(i, j int) bool { return idx.entries[i].hash < idx.entries[j].hash })
	for i := 1; i < len(idx.entries); i++ {
		if idx.entries[i].hash == idx.entries[i-1].hash {
			idx.conflicted = true
			break
		}
	}
	return idx
}

// lookupKey implements index_lookup from spec.md §8 property 8: binary
// search by hash, then (if hashes can collide in this object) a linear
// fan-out from the hit position to confirm the full key. Returns nil if v
// is not an object or k is absent.
func (v *Value) lookupKey(k string) *Value {
	if v.Type() != KindObject {
		return nil
	}
	if len(v.children) < indexThreshold {
		return linearLookupKey(v.children, k)
	}
	if v.index == nil {
		v.index = buildKeyIndex(v.children)
	}
	idx := v.index
	h := xxhash.Sum64String(k)
	entries := idx.entries
	i := sort.Search(len(entries), func(i int) bool { return entries[i].hash >= h })
	if i >= len(entries) || entries[i].hash != h {
		return nil
	}
	if !idx.conflicted {
		if entries[i].value.KeyName() == k {
			return entries[i].value
		}
		return nil
	}
	// Conflicted: fan out across every entry sharing this hash. Later
	// members shadow earlier ones with the same key, matching
	// linearLookupKey's last-write-wins semantics.
	var found *Value
	for j := i; j < len(entries) && entries[j].hash == h; j++ {
		if entries[j].value.KeyName() == k {
			found = entries[j].value
		}
	}
	return found
}

// linearLookupKey scans in source order; a later member with the same key
// shadows an earlier one, matching how most JSON implementations resolve
// duplicate keys.
func linearLookupKey(children []*Value, k string) *Value {
	var found *Value
	for _, c := range children {
		if c.KeyName() == k {
			found = c
		}
	}
	return found
}
