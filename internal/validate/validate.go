// Package validate checks raw product form values and reports field-scoped,
// human-readable error messages. Every function is pure and total: garbage
// input resolves to a validation error, never a panic.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field names used as keys in Errors.
const (
	FieldName     = "name"
	FieldQuantity = "quantity"
	FieldPrice    = "price"
)

// Product field limits.
const (
	NameMinLength    = 2
	NameMaxLength    = 100
	MaxQuantity      = 1_000_000
	MaxPrice         = 10_000_000
	MaxPriceDecimals = 2
)

// Error kinds. A FieldError unwraps to exactly one of these.
var (
	ErrRequired      = errors.New("required")
	ErrTooShort      = errors.New("too short")
	ErrTooLong       = errors.New("too long")
	ErrInvalidNumber = errors.New("invalid number")
	ErrNotWhole      = errors.New("must be whole number")
	ErrNegative      = errors.New("cannot be negative")
	ErrTooLarge      = errors.New("too large")
	ErrTooPrecise    = errors.New("too many decimal places")
)

// FieldError reports why a single field failed.
type FieldError struct {
	Field string
	Err   error
}

var fieldLabels = map[string]string{
	FieldName:     "Product name",
	FieldQuantity: "Quantity",
	FieldPrice:    "Price",
}

func (e *FieldError) Error() string {
	label, ok := fieldLabels[e.Field]
	if !ok {
		label = e.Field
	}
	return label + " " + phrase(e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func phrase(kind error) string {
	switch kind {
	case ErrRequired:
		return "is required"
	case ErrTooShort:
		return fmt.Sprintf("must be at least %d characters", NameMinLength)
	case ErrTooLong:
		return fmt.Sprintf("must be at most %d characters", NameMaxLength)
	case ErrInvalidNumber:
		return "must be a valid number"
	case ErrNotWhole:
		return "must be a whole number"
	case ErrNegative:
		return "cannot be negative"
	case ErrTooLarge:
		return "is too large"
	case ErrTooPrecise:
		return fmt.Sprintf("can have at most %d decimal places", MaxPriceDecimals)
	default:
		return kind.Error()
	}
}

// Errors maps a field name to its error message. Fields that passed are
// absent.
type Errors map[string]string

// Fields returns the failed field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// HasErrors reports whether errs holds at least one failed field.
func HasErrors(errs Errors) bool {
	return len(errs) > 0
}

// ValidateName checks a product name. The minimum length applies to the
// trimmed name; the maximum applies to the raw name. Lengths count code
// points.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &FieldError{Field: FieldName, Err: ErrRequired}
	}
	if utf8.RuneCountInString(trimmed) < NameMinLength {
		return &FieldError{Field: FieldName, Err: ErrTooShort}
	}
	if utf8.RuneCountInString(name) > NameMaxLength {
		return &FieldError{Field: FieldName, Err: ErrTooLong}
	}
	return nil
}

// ValidateQuantity checks a quantity given as text or a number.
func ValidateQuantity(v any) error {
	_, err := ParseQuantity(v)
	return err
}

// ValidatePrice checks a price given as text or a number.
func ValidatePrice(v any) error {
	_, err := ParsePrice(v)
	return err
}

// ValidateProduct runs every field check independently and collects the
// failures.
func ValidateProduct(name string, quantity, price any) Errors {
	errs := Errors{}
	if err := ValidateName(name); err != nil {
		errs[FieldName] = err.Error()
	}
	if err := ValidateQuantity(quantity); err != nil {
		errs[FieldQuantity] = err.Error()
	}
	if err := ValidatePrice(price); err != nil {
		errs[FieldPrice] = err.Error()
	}
	return errs
}
