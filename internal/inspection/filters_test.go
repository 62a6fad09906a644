package inspection

import "testing"

func sample() []Inspection {
	return []Inspection{
		{ID: "a", GridID: "officine", Status: StatusValidated, Establishment: "Pharmacie Centrale", DateInspection: "2025-01-15"},
		{ID: "b", GridID: "grossiste", Status: StatusDraft, Establishment: "Laborex Sénégal", CreatedAt: "2025-02-01 08:00:00"},
		{ID: "c", GridID: "officine", Status: StatusInProgress, Establishment: "Pharmacie du Port", DateInspection: "2025-03-02"},
	}
}

func idsOf(list []Inspection) []string {
	out := make([]string, len(list))
	for i, insp := range list {
		out[i] = insp.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterByStatus(t *testing.T) {
	got := FilterByStatus(sample(), StatusDraft)
	if !equalIDs(idsOf(got), "b") {
		t.Fatalf("got %v", idsOf(got))
	}
	if got := FilterByStatus(sample(), ""); len(got) != 3 {
		t.Fatalf("empty status filtered: %v", idsOf(got))
	}
}

func TestFilterByGrid(t *testing.T) {
	got := FilterByGrid(sample(), "officine")
	if !equalIDs(idsOf(got), "a", "c") {
		t.Fatalf("got %v", idsOf(got))
	}
}

func TestFilterByEstablishmentIsCaseInsensitive(t *testing.T) {
	got := FilterByEstablishment(sample(), "pharmacie")
	if !equalIDs(idsOf(got), "a", "c") {
		t.Fatalf("got %v", idsOf(got))
	}
	got = FilterByEstablishment(sample(), "LABOREX")
	if !equalIDs(idsOf(got), "b") {
		t.Fatalf("got %v", idsOf(got))
	}
}

func TestSortByDateFallsBackToCreatedAt(t *testing.T) {
	asc := SortByDate(sample(), false)
	if !equalIDs(idsOf(asc), "a", "b", "c") {
		t.Fatalf("asc = %v", idsOf(asc))
	}
	desc := SortByDate(sample(), true)
	if !equalIDs(idsOf(desc), "c", "b", "a") {
		t.Fatalf("desc = %v", idsOf(desc))
	}
}

func TestSortByStatusRanksLifecycle(t *testing.T) {
	got := SortByStatus(sample())
	if !equalIDs(idsOf(got), "b", "c", "a") {
		t.Fatalf("got %v", idsOf(got))
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusInProgress, true},
		{StatusDraft, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusCompleted, StatusValidated, true},
		{StatusCompleted, StatusArchived, true},
		{StatusValidated, StatusArchived, true},
		{StatusValidated, StatusCompleted, false},
		{StatusArchived, StatusDraft, false},
		{StatusArchived, StatusArchived, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
