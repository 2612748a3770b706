package slidescene

import (
	"fmt"
	"strings"
)

// Validate checks the scene for structural issues and returns an error
// describing all problems found, or nil if the scene is valid.
func (s *Scene) Validate() error {
	var errs []string

	if s.Root == nil {
		errs = append(errs, "scene root is nil")
	}
	if s.Viewport.W <= 0 {
		errs = append(errs, "viewport width must be positive")
	}
	if s.Viewport.H <= 0 {
		errs = append(errs, "viewport height must be positive")
	}
	if s.Logical.W < 0 || s.Logical.H < 0 {
		errs = append(errs, "logical bounds must not be negative")
	}

	if s.Root != nil {
		for i, child := range s.Root.Children {
			prefix := fmt.Sprintf("element %d", i+1)
			errs = append(errs, validateElement(child, prefix)...)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateElement(el *Element, prefix string) []string {
	var errs []string
	if el == nil {
		return append(errs, prefix+": element is nil")
	}
	if el.Rect.W < 0 {
		errs = append(errs, prefix+": width is negative")
	}
	if el.Rect.H < 0 {
		errs = append(errs, prefix+": height is negative")
	}
	if el.Local != nil && (el.Local.W < 0 || el.Local.H < 0) {
		errs = append(errs, prefix+": local bounds are negative")
	}

	switch el.Kind {
	case KindLine:
		if el.X1 == nil || el.Y1 == nil || el.X2 == nil || el.Y2 == nil {
			errs = append(errs, prefix+": line is missing endpoints")
		}
	case KindImage:
		if el.Href == "" {
			errs = append(errs, prefix+": image has no href")
		}
	case KindGroup, KindText:
		// groups nest freely and text elements may hold spans
	default:
		if len(el.Children) > 0 {
			errs = append(errs, prefix+": non-group element has children")
		}
	}

	for i, child := range el.Children {
		childPrefix := fmt.Sprintf("%s: child %d", prefix, i+1)
		errs = append(errs, validateElement(child, childPrefix)...)
	}
	return errs
}
