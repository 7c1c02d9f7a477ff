package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/thesavant42/quakewatch/internal/models"
)

// Settings bounds
const (
	MinMagnitudeLow  = 1
	MinMagnitudeHigh = 10
	LimitLow         = 1
	LimitHigh        = 99
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	// Remove null bytes and other control characters (except whitespace)
	result := strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1 // Remove the character
		}
		return r
	}, s)
	return result
}

// ValidateMinMagnitude accepts a number between 1 and 10 inclusive
func ValidateMinMagnitude(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(sanitizeInput(s)), 64)
	if err != nil {
		return errors.New("minimum magnitude must be a number")
	}
	if v < MinMagnitudeLow || v > MinMagnitudeHigh {
		return fmt.Errorf("minimum magnitude must be between %d and %d", MinMagnitudeLow, MinMagnitudeHigh)
	}
	return nil
}

// ValidateLimit accepts a whole number between 1 and 99 inclusive
func ValidateLimit(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(sanitizeInput(s)))
	if err != nil {
		return errors.New("limit must be a whole number")
	}
	if v < LimitLow || v > LimitHigh {
		return fmt.Errorf("limit must be between %d and %d", LimitLow, LimitHigh)
	}
	return nil
}

// NormalizeFilter trims and sanitizes the free-text filter fields
func NormalizeFilter(f models.Filter) models.Filter {
	f.MinMagnitude = strings.TrimSpace(sanitizeInput(f.MinMagnitude))
	f.Limit = strings.TrimSpace(sanitizeInput(f.Limit))
	return f
}

// NewSettingsForm builds the preferences form bound to f
func NewSettingsForm(f *models.Filter) *huh.Form {
	order := string(f.OrderBy)
	if order != string(models.SortByMagnitude) {
		order = string(models.SortByTime)
	}
	f.OrderBy = models.SortOrder(order)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.SortOrder]().
				Title("Order By").
				Description("How the list is sorted").
				Options(
					huh.NewOption("Most recent first", models.SortByTime),
					huh.NewOption("Largest first", models.SortByMagnitude),
				).
				Value(&f.OrderBy),
			huh.NewInput().
				Title("Minimum Magnitude").
				Description(fmt.Sprintf("Between %d and %d", MinMagnitudeLow, MinMagnitudeHigh)).
				Placeholder("6").
				Value(&f.MinMagnitude).
				Validate(ValidateMinMagnitude),
			huh.NewInput().
				Title("Number of Earthquakes").
				Description(fmt.Sprintf("Between %d and %d", LimitLow, LimitHigh)).
				Placeholder("10").
				Value(&f.Limit).
				Validate(ValidateLimit),
		),
	).WithTheme(NewAppTheme())
}

// RunSettingsForm shows the preferences form seeded with current.
// The bool is false when the user aborted; current is returned unchanged.
func RunSettingsForm(current models.Filter) (models.Filter, bool, error) {
	edited := current
	if err := NewSettingsForm(&edited).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return current, false, nil
		}
		return current, false, fmt.Errorf("settings form: %w", err)
	}
	return NormalizeFilter(edited), true, nil
}
