package shape

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout wraps every error returned by Validate.
var ErrInvalidLayout = errors.New("invalid layout")

// Validate checks a shape list against the layout invariants: globally unique
// ids (shapes, rows and seats share one namespace), rows owned by their
// polygon, seats naming exactly one row of their area, and closed polygons
// with at least three points. It returns one error per violation.
func Validate(shapes []Shape) []error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidLayout}, args...)...))
	}

	seen := make(map[string]string)
	claim := func(id, what string) {
		if id == "" {
			fail("%s has an empty id", what)
			return
		}
		if prev, ok := seen[id]; ok {
			fail("duplicate id %q (%s and %s)", id, prev, what)
			return
		}
		seen[id] = what
	}

	for _, s := range shapes {
		id := ID(s)
		claim(id, string(s.Kind()))

		p, ok := s.(*Polygon)
		if !ok {
			continue
		}
		if p.Closed && len(p.Points) < 3 {
			fail("polygon %q is closed with %d points", id, len(p.Points))
		}
		if p.Area == nil {
			continue
		}

		names := make(map[string]int, len(p.Rows))
		for _, r := range p.Rows {
			names[r.Name]++
		}
		for _, r := range p.Rows {
			claim(r.ID, "row in "+id)
			if r.Area != id {
				fail("row %q references area %q, owned by %q", r.ID, r.Area, id)
			}
			for _, seat := range r.Seats {
				claim(seat.ID, "seat in "+id)
				if n := names[seat.Row]; n != 1 {
					fail("seat %q names row %q, which matches %d rows in %q", seat.ID, seat.Row, n, id)
				}
			}
		}
	}
	return errs
}
