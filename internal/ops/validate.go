package ops

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Fields holds validated item fields ready for the ItemStore.
type Fields struct {
	Name     string
	Price    float64
	Quantity int
}

// Validate checks raw user input for a new or edited item.
// Fields are checked in the order name, price, quantity and the first
// failure is returned as a *ValidationError.
func Validate(name, price, quantity string) (Fields, error) {
	var f Fields
	var err error

	if f.Name, err = ValidateName(name); err != nil {
		return Fields{}, err
	}
	if f.Price, err = ParsePrice(price); err != nil {
		return Fields{}, err
	}
	if f.Quantity, err = ParseQuantity(quantity); err != nil {
		return Fields{}, err
	}
	return f, nil
}

// ValidateAll is like Validate but reports every failing field.
// The returned error is an errors.Join of *ValidationError values in field order.
func ValidateAll(name, price, quantity string) (Fields, error) {
	var f Fields
	var errs []error
	var err error

	if f.Name, err = ValidateName(name); err != nil {
		errs = append(errs, err)
	}
	if f.Price, err = ParsePrice(price); err != nil {
		errs = append(errs, err)
	}
	if f.Quantity, err = ParseQuantity(quantity); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Fields{}, errors.Join(errs...)
	}
	return f, nil
}

// ValidateName returns the trimmed name, or an EmptyName error if nothing is left.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{
			Kind:    KindEmptyName,
			Field:   "name",
			Value:   name,
			Message: "name must not be empty",
		}
	}
	return trimmed, nil
}

// ParsePrice parses a unit price.
// A single comma is accepted as the decimal separator when no dot is present.
func ParsePrice(s string) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}

	p, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, &ValidationError{
			Kind:    KindInvalidPrice,
			Field:   "price",
			Value:   raw,
			Message: "price must be a number",
		}
	}
	if p <= 0 {
		return 0, &ValidationError{
			Kind:    KindInvalidPrice,
			Field:   "price",
			Value:   raw,
			Message: "price must be greater than zero",
		}
	}
	return p, nil
}

// ParseQuantity parses a quantity, which must be a whole number of at least 1.
func ParseQuantity(s string) (int, error) {
	raw := s
	q, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{
			Kind:    KindInvalidQuantity,
			Field:   "quantity",
			Value:   raw,
			Message: "quantity must be a whole number",
		}
	}
	if q <= 0 {
		return 0, &ValidationError{
			Kind:    KindInvalidQuantity,
			Field:   "quantity",
			Value:   raw,
			Message: "quantity must be at least 1",
		}
	}
	return q, nil
}

// CheckFields enforces the item invariants on already-typed values.
// It applies the same order and error kinds as Validate.
func CheckFields(name string, price float64, quantity int) error {
	if _, err := ValidateName(name); err != nil {
		return err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return &ValidationError{
			Kind:    KindInvalidPrice,
			Field:   "price",
			Value:   strconv.FormatFloat(price, 'g', -1, 64),
			Message: "price must be a number",
		}
	}
	if price <= 0 {
		return &ValidationError{
			Kind:    KindInvalidPrice,
			Field:   "price",
			Value:   strconv.FormatFloat(price, 'g', -1, 64),
			Message: "price must be greater than zero",
		}
	}
	if quantity < 1 {
		return &ValidationError{
			Kind:    KindInvalidQuantity,
			Field:   "quantity",
			Value:   strconv.Itoa(quantity),
			Message: "quantity must be at least 1",
		}
	}
	return nil
}
