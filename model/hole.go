package model

// NumShots is the number of shot slots recorded per hole
const NumShots = 4

// Shot is the detail of one shot on a hole
type Shot struct {
	Club           Club           `json:"club"`
	DirectionStart DirectionStart `json:"directionStart"`
	DirectionCurve DirectionCurve `json:"directionCurve"`
	Result         Result         `json:"result"`
	OB             bool           `json:"ob"`
	Penalty        bool           `json:"penalty"`
}

// Used reports whether the slot holds a real shot.
// Direction, result and flags of an unused slot carry no meaning.
func (s Shot) Used() bool {
	return s.Club != ClubNone && s.Club != ""
}

// Hole is the record of one hole in a round
type Hole struct {
	Score          int            `json:"score"`
	Putts          int            `json:"putts"`
	Within100Yards int            `json:"within100Yards"`
	Shots          [NumShots]Shot `json:"shots"`
	OB             int            `json:"ob"`
	Bunker         int            `json:"bunker"`
	Penalty        int            `json:"penalty"`
	Completed      bool           `json:"completed"`
}

// DefaultHole returns the baseline values a hole starts with
func DefaultHole() Hole {
	h := Hole{
		Score:          4,
		Putts:          2,
		Within100Yards: 2,
	}
	for i := range h.Shots {
		h.Shots[i] = Shot{
			Club:           ClubNone,
			DirectionStart: StartStraight,
			DirectionCurve: CurveStraight,
			Result:         ResultGood,
		}
	}
	h.Shots[0].Club = Club1W
	h.Shots[1].Club = Club7I

	return h
}

// Approach returns shots hit from within 100 yards excluding putts.
// The value is not clamped and may be negative.
func (h Hole) Approach() int {
	return h.Within100Yards - h.Putts
}

// UsedShots returns the shots whose slot is in use
func (h Hole) UsedShots() []Shot {
	res := make([]Shot, 0, NumShots)
	for _, s := range h.Shots {
		if s.Used() {
			res = append(res, s)
		}
	}
	return res
}

// ShotEdit is a partial Shot. Nil fields keep the existing value.
type ShotEdit struct {
	Club           *Club           `json:"club,omitempty"`
	DirectionStart *DirectionStart `json:"directionStart,omitempty"`
	DirectionCurve *DirectionCurve `json:"directionCurve,omitempty"`
	Result         *Result         `json:"result,omitempty"`
	OB             *bool           `json:"ob,omitempty"`
	Penalty        *bool           `json:"penalty,omitempty"`
}

// HoleEdit is a partial Hole. Nil fields keep the existing value.
type HoleEdit struct {
	Score          *int               `json:"score,omitempty"`
	Putts          *int               `json:"putts,omitempty"`
	Within100Yards *int               `json:"within100Yards,omitempty"`
	Shots          [NumShots]ShotEdit `json:"shots"`
	OB             *int               `json:"ob,omitempty"`
	Bunker         *int               `json:"bunker,omitempty"`
	Penalty        *int               `json:"penalty,omitempty"`
	Completed      *bool              `json:"completed,omitempty"`
}

func mergeShot(s Shot, e ShotEdit) Shot {
	if e.Club != nil {
		s.Club = *e.Club
	}
	if e.DirectionStart != nil {
		s.DirectionStart = *e.DirectionStart
	}
	if e.DirectionCurve != nil {
		s.DirectionCurve = *e.DirectionCurve
	}
	if e.Result != nil {
		s.Result = *e.Result
	}
	if e.OB != nil {
		s.OB = *e.OB
	}
	if e.Penalty != nil {
		s.Penalty = *e.Penalty
	}
	return s
}

// MergeHole applies edits on top of existing. Fields not present in edits keep their prior value.
func MergeHole(existing Hole, edits HoleEdit) Hole {
	h := existing

	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&h.Score, edits.Score)
	setInt(&h.Putts, edits.Putts)
	setInt(&h.Within100Yards, edits.Within100Yards)
	setInt(&h.OB, edits.OB)
	setInt(&h.Bunker, edits.Bunker)
	setInt(&h.Penalty, edits.Penalty)

	if edits.Completed != nil {
		h.Completed = *edits.Completed
	}

	for i := range h.Shots {
		h.Shots[i] = mergeShot(h.Shots[i], edits.Shots[i])
	}

	return h
}

// Int returns a pointer to v for building edits
func Int(v int) *int { return &v }

// Bool returns a pointer to v for building edits
func Bool(v bool) *bool { return &v }
