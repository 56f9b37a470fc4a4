package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"
)

func TestDefaultHole(t *testing.T) {
	h := DefaultHole()

	if h.Score != 4 || h.Putts != 2 || h.Within100Yards != 2 {
		t.Fatalf("unexpected counts: %+v", h)
	}

	clubs := []Club{Club1W, Club7I, ClubNone, ClubNone}
	for i, s := range h.Shots {
		if s.Club != clubs[i] {
			t.Fatalf("unexpected club for shot%d: %s (expected: %s)", i+1, s.Club, clubs[i])
		}
		if s.Result != ResultGood {
			t.Fatalf("unexpected result for shot%d: %s", i+1, s.Result)
		}
		if s.OB || s.Penalty {
			t.Fatalf("shot%d must not be flagged", i+1)
		}
	}

	if got := len(h.UsedShots()); got != 2 {
		t.Fatalf("unexpected used shots: %d (expected: %d)", got, 2)
	}

	if err := h.Validate(); err != nil {
		t.Fatalf("default hole must be valid: %+v", err)
	}
}

func TestNewRound(t *testing.T) {
	now := time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC)
	r := NewRoundAt(now)

	if r.ID == "" {
		t.Fatal("id must be assigned")
	}
	if r.Date != "2024-05-03" {
		t.Fatalf("unexpected date: %s", r.Date)
	}
	if !r.InProgress {
		t.Fatal("new round must be in progress")
	}
	if r.FrontStartHole != StartHole1 || r.BackStartHole != StartHole10 {
		t.Fatalf("unexpected start holes: %s/%s", r.FrontStartHole, r.BackStartHole)
	}

	if len(r.Holes) != HoleCount {
		t.Fatalf("unexpected hole count: %d", len(r.Holes))
	}
	for i := 1; i <= HoleCount; i++ {
		h, ok := r.Holes[i]
		if !ok {
			t.Fatalf("hole %d is missing", i)
		}
		if diff := cmp.Diff(DefaultHole(), h); diff != "" {
			t.Fatalf("hole %d differs from default (-want +got):\n%s", i, diff)
		}
	}

	if err := r.Validate(); err != nil {
		t.Fatalf("new round must be valid: %+v", err)
	}

	if other := NewRoundAt(now); other.ID == r.ID {
		t.Fatalf("ids must be unique: %s", r.ID)
	}
}

func TestMergeHole(t *testing.T) {
	h := DefaultHole()
	h.Shots[2].Club = ClubPW
	h.Bunker = 1

	t.Run("OnlyScore", func(tr *testing.T) {
		got := MergeHole(h, HoleEdit{Score: Int(5)})

		want := h
		want.Score = 5
		if diff := cmp.Diff(want, got); diff != "" {
			tr.Fatalf("unexpected merge (-want +got):\n%s", diff)
		}
	})

	t.Run("ShotField", func(tr *testing.T) {
		curve := CurveRight
		edits := HoleEdit{}
		edits.Shots[0].DirectionCurve = &curve
		edits.Shots[0].OB = Bool(true)

		got := MergeHole(h, edits)

		want := h
		want.Shots[0].DirectionCurve = CurveRight
		want.Shots[0].OB = true
		if diff := cmp.Diff(want, got); diff != "" {
			tr.Fatalf("unexpected merge (-want +got):\n%s", diff)
		}
	})

	t.Run("ZeroValues", func(tr *testing.T) {
		got := MergeHole(h, HoleEdit{Bunker: Int(0), Completed: Bool(false)})

		if got.Bunker != 0 {
			tr.Fatalf("unexpected bunker: %d (expected: %d)", got.Bunker, 0)
		}
	})
}

func TestApproach(t *testing.T) {
	h := DefaultHole()
	h.Within100Yards = 4
	h.Putts = 2
	if got := h.Approach(); got != 2 {
		t.Fatalf("unexpected approach: %d (expected: %d)", got, 2)
	}

	h.Within100Yards = 1
	h.Putts = 3
	if got := h.Approach(); got != -2 {
		t.Fatalf("approach must not be clamped: %d (expected: %d)", got, -2)
	}
}

func TestRoundAggregates(t *testing.T) {
	r := NewRoundAt(time.Now())

	if got := r.TotalScore(); got != 4*HoleCount {
		t.Fatalf("unexpected total: %d (expected: %d)", got, 4*HoleCount)
	}

	for i := 1; i <= 3; i++ {
		h := r.Hole(i)
		h.Score = 5
		h.Completed = true
		r.SetHole(i, h)
	}

	if got := r.TotalScore(); got != 4*HoleCount+3 {
		t.Fatalf("unexpected total: %d", got)
	}
	if got := r.CompletedHoles(); got != 3 {
		t.Fatalf("unexpected completed: %d (expected: %d)", got, 3)
	}
	if got := r.FirstIncompleteHole(); got != 4 {
		t.Fatalf("unexpected first incomplete: %d (expected: %d)", got, 4)
	}

	for i := 1; i <= HoleCount; i++ {
		h := r.Hole(i)
		h.Completed = true
		r.SetHole(i, h)
	}
	if got := r.FirstIncompleteHole(); got != 1 {
		t.Fatalf("unexpected first incomplete: %d (expected: %d)", got, 1)
	}
}

func TestCourseNameFor(t *testing.T) {
	r := NewRoundAt(time.Now())
	r.FrontCourseName = "OUT"
	r.BackCourseName = "IN"

	if got := r.CourseNameFor(9); got != "OUT" {
		t.Fatalf("unexpected course: %s", got)
	}
	if got := r.CourseNameFor(10); got != "IN" {
		t.Fatalf("unexpected course: %s", got)
	}
}

func TestClone(t *testing.T) {
	r := NewRoundAt(time.Now())
	c := r.Clone()

	h := c.Hole(1)
	h.Score = 9
	c.SetHole(1, h)

	if r.Hole(1).Score != 4 {
		t.Fatal("clone must not share holes")
	}
}

func TestValidate(t *testing.T) {
	t.Run("Memo", func(tr *testing.T) {
		r := NewRoundAt(time.Now())
		r.Memo = string(make([]rune, MemoMaxLength))
		if err := r.Validate(); err != nil {
			tr.Fatalf("memo of %d characters must be valid: %+v", MemoMaxLength, err)
		}

		r.Memo += "あ"
		if err := r.Validate(); !xerrors.Is(err, ErrValidation) {
			tr.Fatalf("unexpected error: %+v", err)
		}
	})

	t.Run("MissingHole", func(tr *testing.T) {
		r := NewRoundAt(time.Now())
		delete(r.Holes, 18)
		if err := r.Validate(); !xerrors.Is(err, ErrValidation) {
			tr.Fatalf("unexpected error: %+v", err)
		}
	})

	t.Run("HoleRange", func(tr *testing.T) {
		h := DefaultHole()
		h.Score = 11
		if err := h.Validate(); !xerrors.Is(err, ErrValidation) {
			tr.Fatalf("unexpected error: %+v", err)
		}

		h = DefaultHole()
		h.OB = 6
		if err := h.Validate(); !xerrors.Is(err, ErrValidation) {
			tr.Fatalf("unexpected error: %+v", err)
		}
	})

	t.Run("UnusedShotIgnored", func(tr *testing.T) {
		h := DefaultHole()
		h.Shots[3].DirectionStart = "???"
		if err := h.Validate(); err != nil {
			tr.Fatalf("unused slot must be ignored: %+v", err)
		}

		h.Shots[3].Club = ClubSW
		if err := h.Validate(); !xerrors.Is(err, ErrValidation) {
			tr.Fatalf("unexpected error: %+v", err)
		}
	})
}
