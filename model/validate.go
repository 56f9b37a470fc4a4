package model

import (
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/xerrors"
)

// ErrValidation is wrapped by every client-side validation failure
var ErrValidation = xerrors.New("validation failed")

func invalid(format string, args ...interface{}) error {
	return xerrors.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func inRange(name string, v, min, max int) error {
	if v < min || v > max {
		return invalid("%s must be between %d and %d: %d", name, min, max, v)
	}
	return nil
}

// Validate checks the ranges the entry form allows
func (h Hole) Validate() error {
	checks := []error{
		inRange("score", h.Score, 1, 10),
		inRange("putts", h.Putts, 1, 10),
		inRange("within100Yards", h.Within100Yards, 1, 10),
		inRange("ob", h.OB, 0, 5),
		inRange("bunker", h.Bunker, 0, 5),
		inRange("penalty", h.Penalty, 0, 5),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	for i, s := range h.Shots {
		if !ValidClub(s.Club) {
			return invalid("shot%d: unknown club %q", i+1, s.Club)
		}
		if !s.Used() {
			continue
		}
		if !ValidDirectionStart(s.DirectionStart) {
			return invalid("shot%d: unknown start direction %q", i+1, s.DirectionStart)
		}
		if !ValidDirectionCurve(s.DirectionCurve) {
			return invalid("shot%d: unknown curve %q", i+1, s.DirectionCurve)
		}
		if !ValidResult(s.Result) {
			return invalid("shot%d: unknown result %q", i+1, s.Result)
		}
	}

	return nil
}

// Validate checks the round setup fields and that all 18 holes are present
func (r *Round) Validate() error {
	if _, err := time.Parse(dateLayout, r.Date); err != nil {
		return invalid("date must be YYYY-MM-DD: %q", r.Date)
	}
	if n := utf8.RuneCountInString(r.Memo); n > MemoMaxLength {
		return invalid("memo must be at most %d characters: %d", MemoMaxLength, n)
	}
	if !ValidStartHole(r.FrontStartHole) {
		return invalid("unknown front start hole %q", r.FrontStartHole)
	}
	if !ValidStartHole(r.BackStartHole) {
		return invalid("unknown back start hole %q", r.BackStartHole)
	}
	if len(r.Holes) != HoleCount {
		return invalid("round must have %d holes: %d", HoleCount, len(r.Holes))
	}
	for i := 1; i <= HoleCount; i++ {
		if _, ok := r.Holes[i]; !ok {
			return invalid("hole %d is missing", i)
		}
	}
	return nil
}
