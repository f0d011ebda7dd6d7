package catalog

import (
	"fmt"
	"strings"
)

// Selection is an ordered set of selected category values
type Selection struct {
	values []string
}

// NewSelection builds a selection from values, dropping blanks and duplicates
func NewSelection(values ...string) *Selection {
	s := &Selection{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add appends value when it is not already selected
func (s *Selection) Add(value string) {
	value = strings.TrimSpace(value)
	if value == "" || s.Contains(value) {
		return
	}
	s.values = append(s.values, value)
}

// Remove drops value from the selection
func (s *Selection) Remove(value string) {
	for i, v := range s.values {
		if v == value {
			s.values = append(s.values[:i], s.values[i+1:]...)
			return
		}
	}
}

// Toggle selects value when absent and deselects it when present. It reports whether
// value is selected afterwards.
func (s *Selection) Toggle(value string) bool {
	if s.Contains(value) {
		s.Remove(value)
		return false
	}
	s.Add(value)
	return s.Contains(value)
}

// Contains reports whether value is selected
func (s *Selection) Contains(value string) bool {
	for _, v := range s.values {
		if v == value {
			return true
		}
	}
	return false
}

// Values returns a copy of the selected values in selection order
func (s *Selection) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of selected values
func (s *Selection) Len() int {
	return len(s.values)
}

// Validate checks every selected value against options
func (s *Selection) Validate(options []Option) error {
	known := make(map[string]struct{}, len(options))
	for _, o := range options {
		known[o.Value] = struct{}{}
	}

	var unknown []string
	for _, v := range s.values {
		if _, ok := known[v]; !ok {
			unknown = append(unknown, v)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown categories: %s", strings.Join(unknown, ", "))
	}
	return nil
}
