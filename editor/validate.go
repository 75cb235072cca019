package editor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/lookup"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a local validation failure; it never reaches the
// network.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

const maxNarrationLen = 200

var (
	narrationPattern = regexp.MustCompile(`^[A-Za-z0-9\s.,!?-]*$`)
	maxValue         = decimal.NewFromInt(1_000_000)
)

// Validate runs the field-level checks for the current form. The derived
// field (points for accruals, amount for redemptions) must itself be present
// and positive: a form whose derived field failed to compute because rates
// are not loaded is invalid.
func (e *Editor) Validate() ValidationErrors {
	var errs ValidationErrors

	if !lookup.ValidLoyaltyNumber(e.form.loyaltyNumber) {
		errs = append(errs, FieldError{Field: "loyaltyNumber", Message: "must be 3-20 alphanumeric characters"})
	}

	switch e.form.kind {
	case models.KindAccrual:
		errs = append(errs, checkEntered("amount", e.form.amount, e.form.amountOK, false)...)
		errs = append(errs, checkDerived("points", e.form.pts, e.form.ptsOK, true)...)
	case models.KindRedemption:
		errs = append(errs, checkEntered("points", e.form.pts, e.form.ptsOK, true)...)
		errs = append(errs, checkDerived("amount", e.form.amount, e.form.amountOK, false)...)
	default:
		errs = append(errs, FieldError{Field: "kind", Message: "unknown entry kind"})
	}

	if e.form.date.IsZero() {
		errs = append(errs, FieldError{Field: "date", Message: "required"})
	}

	narration := strings.TrimSpace(e.form.narration)
	if len(narration) > maxNarrationLen {
		errs = append(errs, FieldError{Field: "narration", Message: "must be at most 200 characters"})
	} else if !narrationPattern.MatchString(narration) {
		errs = append(errs, FieldError{Field: "narration", Message: "may only contain letters, digits, whitespace and .,!?-"})
	}

	return errs
}

// checkEntered validates the field the user typed.
func checkEntered(field string, v decimal.Decimal, ok, integral bool) ValidationErrors {
	if !ok {
		return ValidationErrors{{Field: field, Message: "must be a positive number"}}
	}
	var errs ValidationErrors
	if v.Sign() <= 0 {
		errs = append(errs, FieldError{Field: field, Message: "must be greater than zero"})
	}
	if v.GreaterThan(maxValue) {
		errs = append(errs, FieldError{Field: field, Message: "exceeds the 1,000,000 limit"})
	}
	if integral && !v.IsInteger() {
		errs = append(errs, FieldError{Field: field, Message: "must be a whole number"})
	}
	return errs
}

// checkDerived validates the computed counterpart.
func checkDerived(field string, v decimal.Decimal, ok, integral bool) ValidationErrors {
	if !ok {
		return ValidationErrors{{Field: field, Message: "cannot be computed until rates are loaded"}}
	}
	var errs ValidationErrors
	if v.Sign() <= 0 {
		errs = append(errs, FieldError{Field: field, Message: "computed value must be positive"})
	}
	if v.GreaterThan(maxValue) {
		errs = append(errs, FieldError{Field: field, Message: "exceeds the 1,000,000 limit"})
	}
	if integral && !v.IsInteger() {
		errs = append(errs, FieldError{Field: field, Message: "must convert to a whole number of points"})
	}
	return errs
}
