package search

import "github.com/briankim1512/SlideSearch/internal/slide"

// Reconcile merges a fresh result page with the previous one. Selected
// records from prev that are missing from next are kept in front, in their
// previous relative order, followed by next in the order it was returned.
// Records present in both lists always take the data from next.
func Reconcile(next, prev []slide.Record, sel *Selection) []slide.Record {
	present := make(map[slide.ID]struct{}, len(next))
	for _, r := range next {
		present[r.ID] = struct{}{}
	}

	var kept []slide.Record
	for _, r := range prev {
		if !sel.Contains(r.ID) {
			continue
		}
		if _, ok := present[r.ID]; ok {
			continue
		}
		kept = append(kept, r)
		// a record can only be kept once even if prev repeats it
		present[r.ID] = struct{}{}
	}

	out := make([]slide.Record, 0, len(kept)+len(next))
	out = append(out, kept...)
	return append(out, next...)
}

// KeepSelected narrows the current list to the selected records. It is used
// when the query is cleared: nothing is fetched and only checked rows stay.
func KeepSelected(current []slide.Record, sel *Selection) []slide.Record {
	if sel.Len() == 0 {
		return nil
	}
	var out []slide.Record
	for _, r := range current {
		if sel.Contains(r.ID) {
			out = append(out, r)
		}
	}
	return out
}
