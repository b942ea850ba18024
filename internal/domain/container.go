package domain

import (
	"fmt"
	"strings"
)

// Container is one of the three Colombian waste bins.
type Container int

const (
	Recyclable Container = iota + 1
	NonRecyclable
	Organic
)

// Containers lists every bin in display order.
var Containers = []Container{Recyclable, NonRecyclable, Organic}

// Option returns the bare color word shown on the quiz buttons.
func (c Container) Option() string {
	switch c {
	case Recyclable:
		return "Blanco"
	case NonRecyclable:
		return "Negro"
	case Organic:
		return "Verde"
	default:
		return ""
	}
}

// Label returns the canonical label, color plus a parenthetical qualifier.
func (c Container) Label() string {
	switch c {
	case Recyclable:
		return "Blanco (Aprovechables)"
	case NonRecyclable:
		return "Negro (No Aprovechables)"
	case Organic:
		return "Verde (Orgánicos)"
	default:
		return ""
	}
}

func (c Container) String() string { return c.Label() }

// Options returns the bare labels accepted as quiz answers.
func Options() []string {
	out := make([]string, 0, len(Containers))
	for _, c := range Containers {
		out = append(out, c.Option())
	}
	return out
}

// IsOption reports whether label is one of the quiz answer buttons.
func IsOption(label string) bool {
	for _, c := range Containers {
		if c.Option() == label {
			return true
		}
	}
	return false
}

// ParseContainer accepts a canonical label, a bare color word or any text
// starting with a color word ("Blanco", "blanco (aprovechables)", "VERDE").
func ParseContainer(s string) (Container, error) {
	norm := foldAccents(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Containers {
		if strings.HasPrefix(norm, strings.ToLower(c.Option())) {
			return c, nil
		}
	}
	// Models sometimes answer with the category instead of the color.
	switch {
	case strings.Contains(norm, "no aprovechable"):
		return NonRecyclable, nil
	case strings.Contains(norm, "aprovechable"):
		return Recyclable, nil
	case strings.Contains(norm, "organico"):
		return Organic, nil
	}
	return 0, fmt.Errorf("unknown container %q", s)
}

func foldAccents(s string) string {
	return strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u").Replace(s)
}
