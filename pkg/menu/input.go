package menu

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ask prints a prompt and returns the trimmed answer
func (m *Menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)

	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// askFloat reads a finite number
func (m *Menu) askFloat(prompt string) (float64, error) {
	answer, err := m.ask(prompt)
	if err != nil {
		return 0, err
	}
	return ParseNumber(answer)
}

// askPositive reads a finite number greater than zero
func (m *Menu) askPositive(prompt string) (float64, error) {
	v, err := m.askFloat(prompt)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %v must be greater than zero", ErrInvalidInput, v)
	}
	return v, nil
}

// askFloatDefault reads a finite number, returning def for an empty answer
func (m *Menu) askFloatDefault(prompt string, def float64) (float64, error) {
	answer, err := m.ask(prompt)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return def, nil
	}
	return ParseNumber(answer)
}

// askInt reads a whole number
func (m *Menu) askInt(prompt string) (int, error) {
	answer, err := m.ask(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, answer)
	}
	return n, nil
}

// askYes reads a y/yes answer
func (m *Menu) askYes(prompt string) (bool, error) {
	answer, err := m.ask(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ParseNumber parses a finite floating point number
func ParseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, s)
	}
	return v, nil
}
