package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrInventory = errors.New("seat inventory violation")
)

type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError collects every user-correctable problem of a request in
// the order they were found.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// OrNil returns nil when nothing was collected, so callers can return it
// directly as an error.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

const (
	LegDepart = "depart"
	LegReturn = "return"
)

// InventoryError means a seat change would push a flight outside
// [0, max_seats], or a selected flight has no seats left.
type InventoryError struct {
	Leg       string
	FlightID  uint
	Available int
	Delta     int
}

func (e *InventoryError) Error() string {
	if e.Delta == 0 {
		return e.Message()
	}
	return fmt.Sprintf("adjusting flight %d by %d seats would leave %d outside capacity", e.FlightID, e.Delta, e.Available+e.Delta)
}

// Message is the user-facing wording.
func (e *InventoryError) Message() string {
	switch e.Leg {
	case LegReturn:
		return "Selected return flight is full."
	case LegDepart:
		return "Selected outbound flight is full."
	}
	return fmt.Sprintf("Flight %d does not have enough seats.", e.FlightID)
}

func (e *InventoryError) Unwrap() error {
	return ErrInventory
}

type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
