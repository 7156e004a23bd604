package tablesync

import (
	"maps"
	"niopendata/lib/htmltable"
	"niopendata/lib/tree"
	"slices"
	"strings"
)

// FieldSep joins the labels of a nested field into a Diff key.
const FieldSep = "/"

type Change struct {
	Old string
	New string
}

// Diff maps a flattened field path to its change. An empty Diff means both
// records hold the same values.
type Diff map[string]Change

// Fields returns the changed fields in lexical order.
func (d Diff) Fields() []string {
	return slices.Sorted(maps.Keys(d))
}

func flatten(record tree.Branch) map[string]string {
	out := map[string]string{}
	for key, values := range tree.FlattenDict(record, FieldSep) {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = htmltable.Stringify(v)
		}
		out[key] = strings.Join(parts, ", ")
	}
	return out
}

// DiffRecords compares two records field by field. A field present on only
// one side is reported with an empty string on the other.
func DiffRecords(existing, intended tree.Branch) Diff {
	before := flatten(existing)
	after := flatten(intended)

	diff := Diff{}
	for key, o := range before {
		n, ok := after[key]
		if !ok || n != o {
			diff[key] = Change{Old: o, New: n}
		}
	}
	for key, n := range after {
		if _, ok := before[key]; !ok {
			diff[key] = Change{New: n}
		}
	}
	return diff
}
