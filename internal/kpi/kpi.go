// Package kpi derives compliance and completion figures from inspection
// data. Every function is pure and total: no store access, no errors.
package kpi

import (
	"math"
	"sort"

	"officine.sn/internal/inspection"
)

// round converts a percentage to the nearest integer, halves away from zero.
func round(x float64) int {
	return int(math.Round(x))
}

// ComplianceRate is the percentage of answered responses marked compliant.
// Unanswered responses are excluded from the denominator. Returns 0 when
// nothing is answered.
func ComplianceRate(responses []inspection.Response) int {
	answered, conforme := 0, 0
	for _, r := range responses {
		if r.Conforme == nil {
			continue
		}
		answered++
		if *r.Conforme {
			conforme++
		}
	}
	if answered == 0 {
		return 0
	}
	return round(float64(conforme) / float64(answered) * 100)
}

// Stats is the derived figure set for a single inspection.
type Stats struct {
	TotalCriteria  int `json:"total_criteria"`
	Answered       int `json:"answered"`
	Pending        int `json:"pending"`
	Conforme       int `json:"conforme"`
	NonConforme    int `json:"non_conforme"`
	CompletionRate int `json:"completion_rate"`
	ComplianceRate int `json:"compliance_rate"`
}

// rateFromProgress is ComplianceRate computed from the stored snapshot
// instead of the raw response set.
func rateFromProgress(p inspection.Progress) int {
	if p.Answered == 0 {
		return 0
	}
	return round(float64(p.Conforme) / float64(p.Answered) * 100)
}

// InspectionStats derives the figure set from an inspection's progress
// snapshot. Returns nil for a nil inspection.
func InspectionStats(insp *inspection.Inspection) *Stats {
	if insp == nil {
		return nil
	}
	p := insp.Progress
	s := &Stats{
		TotalCriteria:  p.Total,
		Answered:       p.Answered,
		Pending:        p.Total - p.Answered,
		Conforme:       p.Conforme,
		NonConforme:    p.NonConforme,
		ComplianceRate: rateFromProgress(p),
	}
	if p.Total > 0 {
		s.CompletionRate = round(float64(p.Answered) / float64(p.Total) * 100)
	}
	return s
}

// Summary aggregates figures across a set of inspections.
type Summary struct {
	TotalInspections      int                       `json:"total_inspections"`
	ByStatus              map[inspection.Status]int `json:"by_status"`
	TotalCriteria         int                       `json:"total_criteria"`
	TotalConforme         int                       `json:"total_conforme"`
	TotalNonConforme      int                       `json:"total_non_conforme"`
	AverageComplianceRate int                       `json:"average_compliance_rate"`
}

// Aggregate tallies a summary over the given inspections. The average
// compliance rate is the unweighted mean of each inspection's own rate,
// not a global conforme/answered ratio; inspections with nothing answered
// contribute a zero rate.
func Aggregate(inspections []inspection.Inspection) Summary {
	sum := Summary{ByStatus: map[inspection.Status]int{}}
	if len(inspections) == 0 {
		return sum
	}
	rateSum := 0
	for _, insp := range inspections {
		sum.TotalInspections++
		sum.ByStatus[insp.Status]++
		sum.TotalCriteria += insp.Progress.Total
		sum.TotalConforme += insp.Progress.Conforme
		sum.TotalNonConforme += insp.Progress.NonConforme
		rateSum += rateFromProgress(insp.Progress)
	}
	sum.AverageComplianceRate = round(float64(rateSum) / float64(sum.TotalInspections))
	return sum
}

// TrendPoint is the per-day aggregate of the trend series.
type TrendPoint struct {
	Date             string `json:"date"`
	ComplianceRate   int    `json:"compliance_rate"`
	TotalInspections int    `json:"total_inspections"`
}

// trendDate picks the declared inspection date, or the creation timestamp
// when no date was entered.
func trendDate(insp inspection.Inspection) string {
	if insp.DateInspection != "" {
		return insp.DateInspection
	}
	return insp.CreatedAt
}

// Trend groups inspections by day and returns one aggregate point per day,
// ordered by date ascending. Days are ISO dates so lexicographic order is
// chronological.
func Trend(inspections []inspection.Inspection) []TrendPoint {
	byDate := map[string][]inspection.Inspection{}
	for _, insp := range inspections {
		d := trendDate(insp)
		if d == "" {
			continue
		}
		byDate[d] = append(byDate[d], insp)
	}

	points := make([]TrendPoint, 0, len(byDate))
	for d, group := range byDate {
		agg := Aggregate(group)
		points = append(points, TrendPoint{
			Date:             d,
			ComplianceRate:   agg.AverageComplianceRate,
			TotalInspections: len(group),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

var statusLabels = map[inspection.Status]string{
	inspection.StatusDraft:      "Brouillon",
	inspection.StatusInProgress: "En cours",
	inspection.StatusCompleted:  "Terminée",
	inspection.StatusValidated:  "Validée",
	inspection.StatusArchived:   "Archivée",
}

var statusColors = map[inspection.Status]string{
	inspection.StatusDraft:      "#A0A0A0",
	inspection.StatusInProgress: "#FF9500",
	inspection.StatusCompleted:  "#34C759",
	inspection.StatusValidated:  "#007AFF",
	inspection.StatusArchived:   "#8E8E93",
}

// StatusLabel returns the French display label of a status, or the raw
// status string for unknown values.
func StatusLabel(s inspection.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// StatusColor returns the display color of a status, defaulting to black.
func StatusColor(s inspection.Status) string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return "#000000"
}
