// Package export serializes inspections to CSV and JSON documents. Like the
// kpi package it is pure: no store access, and the output for a given input
// never changes, so documents are golden-file testable.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"officine.sn/internal/inspection"
	"officine.sn/internal/kpi"
)

// csvHeaders is the fixed French column set of the CSV document.
var csvHeaders = []string{
	"Établissement",
	"Grille",
	"Inspecteur(s)",
	"Date",
	"Statut",
	"Total critères",
	"Réponses",
	"Conforme",
	"Non-conforme",
	"% Conformité",
}

// escapeCSV wraps a field in double quotes when it contains a comma, quote
// or newline, doubling internal quotes. Fields that need no escaping are
// passed through bare.
func escapeCSV(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// CSV renders one row per inspection under the fixed header. Grid ids are
// replaced by display names from gridNames when known. Zero inspections
// yield an empty string, not a header-only document.
func CSV(inspections []inspection.Inspection, gridNames map[string]string) string {
	if len(inspections) == 0 {
		return ""
	}

	lines := make([]string, 0, len(inspections)+1)
	lines = append(lines, strings.Join(csvHeaders, ","))
	for _, insp := range inspections {
		gridName := insp.GridID
		if name, ok := gridNames[insp.GridID]; ok {
			gridName = name
		}
		stats := kpi.InspectionStats(&insp)
		row := []string{
			escapeCSV(insp.Establishment),
			escapeCSV(gridName),
			escapeCSV(strings.Join(insp.Inspectors, ", ")),
			insp.DateInspection,
			kpi.StatusLabel(insp.Status),
			fmt.Sprintf("%d", insp.Progress.Total),
			fmt.Sprintf("%d", insp.Progress.Answered),
			fmt.Sprintf("%d", insp.Progress.Conforme),
			fmt.Sprintf("%d", insp.Progress.NonConforme),
			fmt.Sprintf("%d%%", stats.ComplianceRate),
		}
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

// progressOut is the enriched progress block of the JSON documents.
type progressOut struct {
	TotalCriteria  int `json:"total_criteria"`
	Answered       int `json:"answered"`
	Conforme       int `json:"conforme"`
	NonConforme    int `json:"non_conforme"`
	CompletionRate int `json:"completion_rate"`
	ComplianceRate int `json:"compliance_rate"`
}

func progressFor(insp inspection.Inspection) progressOut {
	stats := kpi.InspectionStats(&insp)
	return progressOut{
		TotalCriteria:  stats.TotalCriteria,
		Answered:       stats.Answered,
		Conforme:       stats.Conforme,
		NonConforme:    stats.NonConforme,
		CompletionRate: stats.CompletionRate,
		ComplianceRate: stats.ComplianceRate,
	}
}

// listItem is one element of the JSON list export.
type listItem struct {
	ID              string                `json:"id"`
	Establishment   string                `json:"establishment"`
	GridID          string                `json:"grid_id"`
	InspectionType  string                `json:"inspection_type"`
	DateInspection  string                `json:"date_inspection"`
	Status          inspection.Status     `json:"status"`
	Inspectors      []string              `json:"inspectors"`
	CreatedBy       string                `json:"created_by"`
	CreatedByName   string                `json:"created_by_name"`
	CreatedAt       string                `json:"created_at"`
	ValidatedBy     string                `json:"validated_by"`
	ValidatedByName string                `json:"validated_by_name"`
	ValidatedAt     string                `json:"validated_at"`
	Progress        progressOut           `json:"progress"`
	Responses       []inspection.Response `json:"responses"`
}

func toListItem(insp inspection.Inspection, responses []inspection.Response) listItem {
	if responses == nil {
		responses = []inspection.Response{}
	}
	if insp.Inspectors == nil {
		insp.Inspectors = []string{}
	}
	return listItem{
		ID:              insp.ID,
		Establishment:   insp.Establishment,
		GridID:          insp.GridID,
		InspectionType:  insp.InspectionType,
		DateInspection:  insp.DateInspection,
		Status:          insp.Status,
		Inspectors:      insp.Inspectors,
		CreatedBy:       insp.CreatedBy,
		CreatedByName:   insp.CreatedByName,
		CreatedAt:       insp.CreatedAt,
		ValidatedBy:     insp.ValidatedBy,
		ValidatedByName: insp.ValidatedByName,
		ValidatedAt:     insp.ValidatedAt,
		Progress:        progressFor(insp),
		Responses:       responses,
	}
}

// JSON renders every inspection with its response set as a pretty-printed
// array. Zero inspections yield the literal "[]".
func JSON(inspections []inspection.Inspection, responses map[string][]inspection.Response) string {
	if len(inspections) == 0 {
		return "[]"
	}
	items := make([]listItem, 0, len(inspections))
	for _, insp := range inspections {
		items = append(items, toListItem(insp, responses[insp.ID]))
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

// reportMeta is the metadata block of a single-inspection report.
type reportMeta struct {
	ID              string            `json:"id"`
	Establishment   string            `json:"establishment"`
	GridID          string            `json:"grid_id"`
	InspectionType  string            `json:"inspection_type"`
	DateInspection  string            `json:"date_inspection"`
	Status          inspection.Status `json:"status"`
	Inspectors      []string          `json:"inspectors"`
	CreatedBy       string            `json:"created_by"`
	CreatedByName   string            `json:"created_by_name"`
	CreatedAt       string            `json:"created_at"`
	ValidatedBy     string            `json:"validated_by"`
	ValidatedByName string            `json:"validated_by_name"`
	ValidatedAt     string            `json:"validated_at"`
}

type reportSummary struct {
	TotalCriteria  int `json:"total_criteria"`
	Answered       int `json:"answered"`
	Pending        int `json:"pending"`
	Conforme       int `json:"conforme"`
	NonConforme    int `json:"non_conforme"`
	CompletionRate int `json:"completion_rate"`
	ComplianceRate int `json:"compliance_rate"`
}

type report struct {
	Inspection reportMeta            `json:"inspection"`
	Summary    reportSummary         `json:"summary"`
	Responses  []inspection.Response `json:"responses"`
}

// Report renders one inspection with summary figures and its full response
// set, pretty-printed. A nil inspection yields the literal "{}".
func Report(insp *inspection.Inspection, responses []inspection.Response) string {
	if insp == nil {
		return "{}"
	}
	if responses == nil {
		responses = []inspection.Response{}
	}
	inspectors := insp.Inspectors
	if inspectors == nil {
		inspectors = []string{}
	}
	stats := kpi.InspectionStats(insp)
	doc := report{
		Inspection: reportMeta{
			ID:              insp.ID,
			Establishment:   insp.Establishment,
			GridID:          insp.GridID,
			InspectionType:  insp.InspectionType,
			DateInspection:  insp.DateInspection,
			Status:          insp.Status,
			Inspectors:      inspectors,
			CreatedBy:       insp.CreatedBy,
			CreatedByName:   insp.CreatedByName,
			CreatedAt:       insp.CreatedAt,
			ValidatedBy:     insp.ValidatedBy,
			ValidatedByName: insp.ValidatedByName,
			ValidatedAt:     insp.ValidatedAt,
		},
		Summary: reportSummary{
			TotalCriteria:  stats.TotalCriteria,
			Answered:       stats.Answered,
			Pending:        stats.Pending,
			Conforme:       stats.Conforme,
			NonConforme:    stats.NonConforme,
			CompletionRate: stats.CompletionRate,
			ComplianceRate: stats.ComplianceRate,
		},
		Responses: responses,
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
