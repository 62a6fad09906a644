// Package validation holds the field validators guarding user input before
// it reaches the command layer. Results carry French error messages intended
// for direct display; validators that normalize input return the cleaned
// value.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"officine.sn/internal/auth"
	"officine.sn/internal/inspection"
)

// Result is the outcome of a single-field validator. Value holds the
// normalized input when Valid.
type Result struct {
	Valid bool   `json:"valid"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

func ok(value string) Result { return Result{Valid: true, Value: value} }
func fail(msg string) Result { return Result{Valid: false, Error: msg} }

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Username trims and checks a login name: 3 to 50 characters from the
// restricted set.
func Username(username string) Result {
	if username == "" {
		return fail("Nom d'utilisateur requis")
	}
	trimmed := strings.TrimSpace(username)
	if utf8.RuneCountInString(trimmed) < 3 {
		return fail("Nom d'utilisateur minimum 3 caractères")
	}
	if utf8.RuneCountInString(trimmed) > 50 {
		return fail("Nom d'utilisateur maximum 50 caractères")
	}
	if !usernamePattern.MatchString(trimmed) {
		return fail("Caractères non autorisés")
	}
	return ok(trimmed)
}

// Password checks length bounds only; passwords are never trimmed.
func Password(password string) Result {
	if password == "" {
		return fail("Mot de passe requis")
	}
	if utf8.RuneCountInString(password) < 6 {
		return fail("Mot de passe minimum 6 caractères")
	}
	if utf8.RuneCountInString(password) > 100 {
		return fail("Mot de passe trop long")
	}
	return ok(password)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email checks the rough shape of an address, nothing more.
func Email(email string) Result {
	if email == "" {
		return fail("Email requis")
	}
	if !emailPattern.MatchString(email) {
		return fail("Email invalide")
	}
	return ok(email)
}

// UserRole checks membership in the known role set.
func UserRole(role string) Result {
	if !auth.Role(role).Valid() {
		return fail("Rôle invalide")
	}
	return ok(role)
}

// InspectionStatus checks membership in the known status set.
func InspectionStatus(status string) Result {
	if !inspection.Status(status).Valid() {
		return fail("Statut invalide")
	}
	return ok(status)
}

// Establishment trims and checks the establishment name: 2 to 200 characters.
func Establishment(establishment string) Result {
	if establishment == "" {
		return fail("Établissement requis")
	}
	trimmed := strings.TrimSpace(establishment)
	if utf8.RuneCountInString(trimmed) < 2 {
		return fail("Établissement minimum 2 caractères")
	}
	if utf8.RuneCountInString(trimmed) > 200 {
		return fail("Établissement trop long")
	}
	return ok(trimmed)
}

// dateLayouts are the accepted date shapes, checked in order.
var dateLayouts = []string{"2006-01-02", auth.TimeLayout, time.RFC3339}

// DateInspection checks that the date parses under one of the accepted
// layouts. The original string is kept as the value.
func DateInspection(date string) Result {
	if date == "" {
		return fail("Date inspection requise")
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, date); err == nil {
			return ok(date)
		}
	}
	return fail("Date invalide")
}

// inspectionTypes is the closed set of inspection kinds.
var inspectionTypes = map[string]struct{}{
	"initiale":  {},
	"suivi":     {},
	"plainte":   {},
	"régulière": {},
}

// InspectionType checks membership in the known type set.
func InspectionType(kind string) Result {
	if _, found := inspectionTypes[kind]; !found {
		return fail("Type d'inspection invalide")
	}
	return ok(kind)
}

// CriterionResponse checks a single response payload. Conforme is tri-state
// and needs no check in itself; only the observation is bounded.
func CriterionResponse(criterionID int, observation string) Result {
	if criterionID <= 0 {
		return fail("Criterion ID invalide")
	}
	if utf8.RuneCountInString(observation) > 1000 {
		return fail("Observation trop longue")
	}
	return Result{Valid: true}
}

// CreateResult is the outcome of a multi-field validator. Errors lists every
// failed field message rather than stopping at the first.
type CreateResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// InspectionCreate checks a whole creation request and collects every field
// error.
func InspectionCreate(req inspection.CreateRequest) CreateResult {
	var errs []string

	if req.GridID == "" {
		errs = append(errs, "Grille requise")
	}
	if r := Establishment(req.Establishment); !r.Valid {
		errs = append(errs, r.Error)
	}
	if r := DateInspection(req.DateInspection); !r.Valid {
		errs = append(errs, r.Error)
	}
	if r := InspectionType(req.InspectionType); !r.Valid {
		errs = append(errs, r.Error)
	}
	if len(req.Inspectors) == 0 {
		errs = append(errs, "Au moins un inspecteur requis")
	}

	if len(errs) > 0 {
		return CreateResult{Valid: false, Errors: errs}
	}
	return CreateResult{Valid: true}
}
