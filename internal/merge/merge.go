// Package merge reconciles two linker databases, typically the live
// tree and a user-supplied import.
package merge

import "arclinker/pkg/models"

// Databases combines current and incoming into a new root. Precedence
// runs by series id: a series present in both keeps its position in
// current but takes the incoming name and the incoming arc list
// wholesale, so arcs that exist only in the current copy of that
// series are dropped. Incoming series with unknown ids are appended
// in order, and current-only series survive untouched.
//
// Neither input is mutated; callers are expected to surface the
// series-level replacement to the user before anything is published.
func Databases(current, incoming *models.Root) *models.Root {
	out := current.Clone()

	for _, in := range incoming.Series {
		existing := out.FindSeries(in.ID)
		if existing == nil {
			out.Series = append(out.Series, in.Clone())
			continue
		}
		replacement := in.Clone()
		existing.Name = replacement.Name
		existing.Arcs = replacement.Arcs
	}

	return out
}
