package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)

	// Chart request errors
	ErrEmptyData              = errors.New("data is missing or empty")
	ErrMissingParameter       = errors.New("missing required parameter")
	ErrUnknownColumn          = errors.New("unknown column")
	ErrUnsupportedChartKind   = errors.New("unsupported chart kind")
	ErrUnsupportedAggregation = errors.New("unsupported aggregation function")
	ErrNonNumericColumn       = errors.New("column is not numeric")
	ErrPivot                  = errors.New("pivot table failed")

	// Statistics errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// UnknownColumnError names a column that is absent from a table's schema.
type UnknownColumnError struct {
	Column    string
	Available []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("column %q not found in data. Available columns: %s",
		e.Column, strings.Join(e.Available, ", "))
}

func (e *UnknownColumnError) Is(target error) bool {
	return target == ErrUnknownColumn
}

// PivotError wraps whatever stopped a pivot table from being built.
type PivotError struct {
	Cause error
}

func (e *PivotError) Error() string {
	return fmt.Sprintf("failed to build pivot table: %v", e.Cause)
}

func (e *PivotError) Unwrap() error {
	return e.Cause
}

func (e *PivotError) Is(target error) bool {
	return target == ErrPivot
}

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewUnknownColumnError(column string, available []string) error {
	return &UnknownColumnError{Column: column, Available: available}
}

func NewMissingParameterError(message string) error {
	return fmt.Errorf("%w: %s", ErrMissingParameter, message)
}

func NewUnsupportedChartKindError(kind string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedChartKind, kind)
}

func NewUnsupportedAggregationError(fn string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedAggregation, fn)
}

func NewNonNumericColumnError(column string, fn string) error {
	return fmt.Errorf("%w: cannot apply %s to %q", ErrNonNumericColumn, fn, column)
}

func NewInsufficientDataError(subject string) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, subject)
}

func NewPivotError(cause error) error {
	return &PivotError{Cause: cause}
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRequestError reports whether err was caused by a chart request that does
// not fit the table, as opposed to a failure in the data itself.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrMissingParameter) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrUnsupportedChartKind) ||
		errors.Is(err, ErrUnsupportedAggregation)
}
