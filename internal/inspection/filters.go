package inspection

import (
	"sort"
	"strings"
)

// FilterByStatus keeps inspections with exactly the given status. An empty
// status keeps everything.
func FilterByStatus(list []Inspection, status Status) []Inspection {
	if status == "" {
		return list
	}
	out := make([]Inspection, 0, len(list))
	for _, insp := range list {
		if insp.Status == status {
			out = append(out, insp)
		}
	}
	return out
}

// FilterByGrid keeps inspections filled against the given grid.
func FilterByGrid(list []Inspection, gridID string) []Inspection {
	if gridID == "" {
		return list
	}
	out := make([]Inspection, 0, len(list))
	for _, insp := range list {
		if insp.GridID == gridID {
			out = append(out, insp)
		}
	}
	return out
}

// FilterByEstablishment keeps inspections whose establishment name contains
// the query, case-insensitively.
func FilterByEstablishment(list []Inspection, query string) []Inspection {
	if query == "" {
		return list
	}
	needle := strings.ToLower(query)
	out := make([]Inspection, 0, len(list))
	for _, insp := range list {
		if strings.Contains(strings.ToLower(insp.Establishment), needle) {
			out = append(out, insp)
		}
	}
	return out
}

// sortKey orders by the declared inspection date, falling back to the
// creation timestamp when no date was entered.
func sortKey(insp Inspection) string {
	if insp.DateInspection != "" {
		return insp.DateInspection
	}
	return insp.CreatedAt
}

// SortByDate orders inspections by inspection date, newest first when desc.
// The sort is stable so equal dates keep their input order.
func SortByDate(list []Inspection, desc bool) []Inspection {
	out := append([]Inspection(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return sortKey(out[i]) > sortKey(out[j])
		}
		return sortKey(out[i]) < sortKey(out[j])
	})
	return out
}

var statusRank = map[Status]int{
	StatusDraft:      0,
	StatusInProgress: 1,
	StatusCompleted:  2,
	StatusValidated:  3,
	StatusArchived:   4,
}

// SortByStatus orders inspections by lifecycle rank, draft first.
func SortByStatus(list []Inspection) []Inspection {
	out := append([]Inspection(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return statusRank[out[i].Status] < statusRank[out[j].Status]
	})
	return out
}
