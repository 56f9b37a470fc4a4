package repository

import (
	"strconv"
	"time"

	"github.com/go-generalize/golf-score-memo/model"
	"golang.org/x/xerrors"
)

// Document is the field map written to a round document with merge semantics
type Document = map[string]interface{}

// Firestore 上のフィールド名は Web 版と揃えている
const (
	fieldUpdatedAt = "updatedAt"
	fieldHoles     = "holes"
)

type roundDocument struct {
	ID              string                   `firestore:"-"`
	Date            string                   `firestore:"date"`
	CourseName      string                   `firestore:"courseName"`
	Memo            string                   `firestore:"memo"`
	FrontCourseName string                   `firestore:"frontCourseName"`
	FrontStartHole  string                   `firestore:"frontStartHole"`
	BackCourseName  string                   `firestore:"backCourseName"`
	BackStartHole   string                   `firestore:"backStartHole"`
	Holes           map[string]*holeDocument `firestore:"holes"`
	InProgress      bool                     `firestore:"inProgress"`
	UpdatedAt       time.Time                `firestore:"updatedAt"`
}

type holeDocument struct {
	Score               int    `firestore:"score"`
	Putts               int    `firestore:"putts"`
	Shot1Club           string `firestore:"shot1Club"`
	Shot1DirectionStart string `firestore:"shot1DirectionStart"`
	Shot1DirectionCurve string `firestore:"shot1DirectionCurve"`
	Shot1Result         string `firestore:"shot1Result"`
	Shot1OB             bool   `firestore:"shot1OB"`
	Shot1Penalty        bool   `firestore:"shot1Penalty"`
	Shot2Club           string `firestore:"shot2Club"`
	Shot2DirectionStart string `firestore:"shot2DirectionStart"`
	Shot2DirectionCurve string `firestore:"shot2DirectionCurve"`
	Shot2Result         string `firestore:"shot2Result"`
	Shot2OB             bool   `firestore:"shot2OB"`
	Shot2Penalty        bool   `firestore:"shot2Penalty"`
	Shot3Club           string `firestore:"shot3Club"`
	Shot3DirectionStart string `firestore:"shot3DirectionStart"`
	Shot3DirectionCurve string `firestore:"shot3DirectionCurve"`
	Shot3Result         string `firestore:"shot3Result"`
	Shot3OB             bool   `firestore:"shot3OB"`
	Shot3Penalty        bool   `firestore:"shot3Penalty"`
	Shot4Club           string `firestore:"shot4Club"`
	Shot4DirectionStart string `firestore:"shot4DirectionStart"`
	Shot4DirectionCurve string `firestore:"shot4DirectionCurve"`
	Shot4Result         string `firestore:"shot4Result"`
	Shot4OB             bool   `firestore:"shot4OB"`
	Shot4Penalty        bool   `firestore:"shot4Penalty"`
	Within100Yards      int    `firestore:"within100Yards"`
	OB                  int    `firestore:"ob"`
	Bunker              int    `firestore:"bunker"`
	Penalty             int    `firestore:"penalty"`
	Completed           bool   `firestore:"completed"`
}

// shots returns pointers to the flat shot fields, slot by slot
func (d *holeDocument) shots() [model.NumShots]shotFields {
	return [model.NumShots]shotFields{
		{&d.Shot1Club, &d.Shot1DirectionStart, &d.Shot1DirectionCurve, &d.Shot1Result, &d.Shot1OB, &d.Shot1Penalty},
		{&d.Shot2Club, &d.Shot2DirectionStart, &d.Shot2DirectionCurve, &d.Shot2Result, &d.Shot2OB, &d.Shot2Penalty},
		{&d.Shot3Club, &d.Shot3DirectionStart, &d.Shot3DirectionCurve, &d.Shot3Result, &d.Shot3OB, &d.Shot3Penalty},
		{&d.Shot4Club, &d.Shot4DirectionStart, &d.Shot4DirectionCurve, &d.Shot4Result, &d.Shot4OB, &d.Shot4Penalty},
	}
}

type shotFields struct {
	club, start, curve, result *string
	ob, penalty                *bool
}

func newHoleDocument(h model.Hole) *holeDocument {
	d := &holeDocument{
		Score:          h.Score,
		Putts:          h.Putts,
		Within100Yards: h.Within100Yards,
		OB:             h.OB,
		Bunker:         h.Bunker,
		Penalty:        h.Penalty,
		Completed:      h.Completed,
	}

	for i, f := range d.shots() {
		s := h.Shots[i]
		*f.club = string(s.Club)
		*f.start = string(s.DirectionStart)
		*f.curve = string(s.DirectionCurve)
		*f.result = string(s.Result)
		*f.ob = s.OB
		*f.penalty = s.Penalty
	}

	return d
}

func (d *holeDocument) hole() model.Hole {
	h := model.Hole{
		Score:          d.Score,
		Putts:          d.Putts,
		Within100Yards: d.Within100Yards,
		OB:             d.OB,
		Bunker:         d.Bunker,
		Penalty:        d.Penalty,
		Completed:      d.Completed,
	}

	for i, f := range d.shots() {
		h.Shots[i] = model.Shot{
			Club:           model.Club(*f.club),
			DirectionStart: model.DirectionStart(*f.start),
			DirectionCurve: model.DirectionCurve(*f.curve),
			Result:         model.Result(*f.result),
			OB:             *f.ob,
			Penalty:        *f.penalty,
		}
	}

	return h
}

func newRoundDocument(r *model.Round) *roundDocument {
	d := &roundDocument{
		ID:              r.ID,
		Date:            r.Date,
		CourseName:      r.CourseName,
		Memo:            r.Memo,
		FrontCourseName: r.FrontCourseName,
		FrontStartHole:  string(r.FrontStartHole),
		BackCourseName:  r.BackCourseName,
		BackStartHole:   string(r.BackStartHole),
		Holes:           make(map[string]*holeDocument, len(r.Holes)),
		InProgress:      r.InProgress,
		UpdatedAt:       r.UpdatedAt,
	}

	for n, h := range r.Holes {
		d.Holes[strconv.Itoa(n)] = newHoleDocument(h)
	}

	return d
}

func (d *roundDocument) round() (*model.Round, error) {
	r := &model.Round{
		ID:              d.ID,
		Date:            d.Date,
		CourseName:      d.CourseName,
		Memo:            d.Memo,
		FrontCourseName: d.FrontCourseName,
		FrontStartHole:  model.StartHole(d.FrontStartHole),
		BackCourseName:  d.BackCourseName,
		BackStartHole:   model.StartHole(d.BackStartHole),
		Holes:           make(map[int]model.Hole, model.HoleCount),
		InProgress:      d.InProgress,
		UpdatedAt:       d.UpdatedAt,
	}

	for k, h := range d.Holes {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 || n > model.HoleCount {
			return nil, xerrors.Errorf("invalid hole key %q in round %s", k, d.ID)
		}
		if h == nil {
			continue
		}
		r.Holes[n] = h.hole()
	}

	// 欠けたホールは既定値で補う
	for i := 1; i <= model.HoleCount; i++ {
		if _, ok := r.Holes[i]; !ok {
			r.Holes[i] = model.DefaultHole()
		}
	}

	return r, nil
}

// EncodeRound returns the full document for r. The id is the document key and is not part of the fields.
func EncodeRound(r *model.Round) Document {
	return buildDocument(newRoundDocument(r))
}

// decodeRound converts a stored field map back into a Round
func decodeRound(id string, doc Document) (*model.Round, error) {
	d := new(roundDocument)
	if err := decodeDocument(doc, d); err != nil {
		return nil, xerrors.Errorf("failed to decode round %s: %w", id, err)
	}
	d.ID = id

	return d.round()
}
