package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error taxonomy surfaced to the interactive caller. Operations wrap these
// with fmt.Errorf("%w: ...") so callers match with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrDuplicateIdentity   = errors.New("username already exists")
	ErrAuthFailed          = errors.New("invalid username or password")
	ErrNotFound            = errors.New("record not found")
	ErrInsufficientData    = errors.New("not enough data")
	ErrAdvisoryUnavailable = errors.New("advisory service unavailable")
)

var (
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	ErrInvalidDate   = fmt.Errorf("%w: date must be a valid YYYY-MM-DD date", ErrInvalidInput)
	ErrEmptyCategory = fmt.Errorf("%w: category cannot be empty", ErrInvalidInput)
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date with day precision. The time component is
	// always midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// User is a registered identity with its monthly budget.
	User struct {
		ID        int64
		Username  string
		Budget    Money
		CreatedAt time.Time
	}

	Expense struct {
		ID          int64
		Date        Date
		Category    string
		Amount      Money
		Description string
	}

	Income struct {
		ID          int64
		Date        Date
		Amount      Money
		Description string
	}
)

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date in local time. Only the
// year/month/day are kept, so a ledger written at 23:00 local never lands
// on the next UTC day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthKey returns the year-month bucket the date falls into, e.g. "2025-03".
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Amount.Validate()
}

func (i Income) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	return i.Amount.Validate()
}
