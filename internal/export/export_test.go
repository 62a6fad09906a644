package export

import (
	"encoding/json"
	"strings"
	"testing"

	"officine.sn/internal/inspection"
)

func boolPtr(b bool) *bool { return &b }

func sampleInspection() inspection.Inspection {
	return inspection.Inspection{
		ID:             "insp-1",
		GridID:         "officine",
		Status:         inspection.StatusCompleted,
		DateInspection: "2024-01-15",
		Establishment:  "Pharmacie Centrale",
		Inspectors:     []string{"Amadou Diop", "Fatou Ndiaye"},
		CreatedAt:      "2024-01-15 09:00:00",
		Progress:       inspection.Progress{Total: 100, Answered: 80, Conforme: 60, NonConforme: 20},
	}
}

func TestCSVEmptyInput(t *testing.T) {
	if got := CSV(nil, nil); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
	if got := CSV([]inspection.Inspection{}, nil); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestCSVSingleInspection(t *testing.T) {
	got := CSV([]inspection.Inspection{sampleInspection()}, map[string]string{"officine": "Inspection Officine"})

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d: %q", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "Établissement,Grille,") {
		t.Fatalf("header = %q", lines[0])
	}
	for _, token := range []string{"Pharmacie Centrale", "Inspection Officine", "2024-01-15", "Terminée", "75%"} {
		if !strings.Contains(got, token) {
			t.Errorf("missing %q in %q", token, got)
		}
	}
	// Joined inspector list contains a comma, so it gets quoted.
	if !strings.Contains(got, `"Amadou Diop, Fatou Ndiaye"`) {
		t.Errorf("inspectors not quoted: %q", got)
	}
}

func TestCSVEscapesQuotes(t *testing.T) {
	insp := sampleInspection()
	insp.Establishment = `Pharmacy "ABC" & Co`
	got := CSV([]inspection.Inspection{insp}, nil)
	if !strings.Contains(got, `"Pharmacy ""ABC"" & Co"`) {
		t.Fatalf("quote escaping missing: %q", got)
	}
}

func TestCSVFallsBackToGridID(t *testing.T) {
	got := CSV([]inspection.Inspection{sampleInspection()}, nil)
	if !strings.Contains(got, ",officine,") {
		t.Fatalf("grid id fallback missing: %q", got)
	}
}

func TestJSONEmptyInput(t *testing.T) {
	if got := JSON(nil, nil); got != "[]" {
		t.Fatalf("got %q, want []", got)
	}
}

func TestJSONCarriesProgressAndResponses(t *testing.T) {
	insp := sampleInspection()
	responses := map[string][]inspection.Response{
		"insp-1": {{CriterionID: 1, Conforme: boolPtr(true), Observation: "ok"}},
	}
	got := JSON([]inspection.Inspection{insp}, responses)

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, got)
	}
	if len(decoded) != 1 {
		t.Fatalf("items = %d", len(decoded))
	}
	progress, ok := decoded[0]["progress"].(map[string]any)
	if !ok {
		t.Fatalf("no progress object: %v", decoded[0])
	}
	if progress["compliance_rate"].(float64) != 75 || progress["completion_rate"].(float64) != 80 {
		t.Fatalf("rates = %v", progress)
	}
	if rs, ok := decoded[0]["responses"].([]any); !ok || len(rs) != 1 {
		t.Fatalf("responses = %v", decoded[0]["responses"])
	}
	if !strings.HasPrefix(got, "[\n  {") {
		t.Fatalf("not pretty-printed: %q", got[:20])
	}
}

func TestJSONUsesEmptyArrayForMissingResponses(t *testing.T) {
	got := JSON([]inspection.Inspection{sampleInspection()}, nil)
	if !strings.Contains(got, `"responses": []`) {
		t.Fatalf("missing responses default: %s", got)
	}
}

func TestReportNilInspection(t *testing.T) {
	if got := Report(nil, nil); got != "{}" {
		t.Fatalf("got %q, want {}", got)
	}
}

func TestReportStructure(t *testing.T) {
	insp := sampleInspection()
	got := Report(&insp, []inspection.Response{
		{CriterionID: 1, Conforme: boolPtr(false), Observation: "registre absent"},
	})

	var decoded map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"inspection", "summary", "responses"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing %q section", key)
		}
	}
	summary := decoded["summary"].(map[string]any)
	if summary["pending"].(float64) != 20 || summary["compliance_rate"].(float64) != 75 {
		t.Fatalf("summary = %v", summary)
	}
	meta := decoded["inspection"].(map[string]any)
	if meta["id"] != "insp-1" || meta["establishment"] != "Pharmacie Centrale" {
		t.Fatalf("meta = %v", meta)
	}
}
