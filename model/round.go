package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	// HoleCount is the number of holes in a round
	HoleCount = 18
	// MemoMaxLength is the maximum memo length in characters
	MemoMaxLength = 300

	dateLayout = "2006-01-02"
)

// Round is one 18-hole outing
type Round struct {
	ID              string       `json:"id"`
	Date            string       `json:"date"`
	CourseName      string       `json:"courseName"`
	Memo            string       `json:"memo"`
	FrontCourseName string       `json:"frontCourseName"`
	FrontStartHole  StartHole    `json:"frontStartHole"`
	BackCourseName  string       `json:"backCourseName"`
	BackStartHole   StartHole    `json:"backStartHole"`
	Holes           map[int]Hole `json:"holes"`
	InProgress      bool         `json:"inProgress"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// NewRound returns a fresh in-progress round dated today
func NewRound() *Round {
	return NewRoundAt(time.Now())
}

// NewRoundAt returns a fresh in-progress round created at t
func NewRoundAt(t time.Time) *Round {
	holes := make(map[int]Hole, HoleCount)
	for i := 1; i <= HoleCount; i++ {
		holes[i] = DefaultHole()
	}

	return &Round{
		ID:             newID(t),
		Date:           t.Format(dateLayout),
		FrontStartHole: StartHole1,
		BackStartHole:  StartHole10,
		Holes:          holes,
		InProgress:     true,
		UpdatedAt:      t,
	}
}

// newID returns a time-ordered identifier
func newID(t time.Time) string {
	id, err := uuid.NewV7()
	if err != nil {
		// 乱数源が使えない場合のみ
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(t.Format(time.RFC3339Nano))).String()
	}
	return id.String()
}

// FormatDate formats t the way Round.Date is stored
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Hole returns the hole numbered n, or the default hole if the round lacks it
func (r *Round) Hole(n int) Hole {
	if h, ok := r.Holes[n]; ok {
		return h
	}
	return DefaultHole()
}

// SetHole replaces hole n
func (r *Round) SetHole(n int, h Hole) {
	if r.Holes == nil {
		r.Holes = make(map[int]Hole, HoleCount)
	}
	r.Holes[n] = h
}

// TotalScore sums Score over all holes, including the placeholder score of unplayed holes
func (r *Round) TotalScore() int {
	total := 0
	for _, h := range r.Holes {
		total += h.Score
	}
	return total
}

// CompletedHoles counts the holes the user has saved
func (r *Round) CompletedHoles() int {
	n := 0
	for _, h := range r.Holes {
		if h.Completed {
			n++
		}
	}
	return n
}

// FirstIncompleteHole returns the lowest hole number not yet saved, or 1 if all are saved
func (r *Round) FirstIncompleteHole() int {
	for i := 1; i <= HoleCount; i++ {
		if h, ok := r.Holes[i]; ok && !h.Completed {
			return i
		}
	}
	return 1
}

// CourseNameFor returns the nine's course name for hole n
func (r *Round) CourseNameFor(n int) string {
	if n <= 9 {
		return r.FrontCourseName
	}
	return r.BackCourseName
}

// Clone returns a deep copy of r
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	c := *r
	c.Holes = make(map[int]Hole, len(r.Holes))
	for k, v := range r.Holes {
		c.Holes[k] = v
	}
	return &c
}
