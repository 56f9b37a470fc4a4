package model

import "github.com/go-utils/cont"

// Club is a club identifier as shown to the user
type Club string

// クラブ
const (
	Club1W   Club = "1W"
	Club3W   Club = "3W"
	Club5W   Club = "5W"
	Club7W   Club = "7W"
	Club2UT  Club = "2UT"
	Club3UT  Club = "3UT"
	Club4UT  Club = "4UT"
	Club5UT  Club = "5UT"
	Club3I   Club = "3I"
	Club4I   Club = "4I"
	Club5I   Club = "5I"
	Club6I   Club = "6I"
	Club7I   Club = "7I"
	Club8I   Club = "8I"
	Club9I   Club = "9I"
	ClubPW   Club = "PW"
	ClubAW   Club = "AW"
	ClubSW   Club = "SW"
	ClubLW   Club = "LW"
	ClubPT   Club = "PT"
	ClubNone Club = "なし"
)

// Clubs lists every selectable club in display order
var Clubs = []Club{
	Club1W, Club3W, Club5W, Club7W,
	Club2UT, Club3UT, Club4UT, Club5UT,
	Club3I, Club4I, Club5I, Club6I, Club7I, Club8I, Club9I,
	ClubPW, ClubAW, ClubSW, ClubLW, ClubPT,
	ClubNone,
}

// DirectionStart is the launch direction of a shot
type DirectionStart string

// 出だし
const (
	StartLeft45   DirectionStart = "左45°"
	StartLeft15   DirectionStart = "左15°"
	StartStraight DirectionStart = "真っ直ぐ"
	StartRight15  DirectionStart = "右15°"
	StartRight45  DirectionStart = "右45°"
	StartTopped   DirectionStart = "ちょろ"
	StartBalloon  DirectionStart = "てんぷら"
)

// DirectionStarts lists every launch direction in display order
var DirectionStarts = []DirectionStart{
	StartLeft45, StartLeft15, StartStraight, StartRight15, StartRight45,
	StartTopped, StartBalloon,
}

var startAngles = map[DirectionStart]float64{
	StartLeft45:   -45,
	StartLeft15:   -15,
	StartStraight: 0,
	StartRight15:  15,
	StartRight45:  45,
}

// IsMishit reports whether the start label is a topped or ballooned shot
func (d DirectionStart) IsMishit() bool {
	return d == StartTopped || d == StartBalloon
}

// Angle returns the launch angle in degrees. Unknown labels are treated as straight.
func (d DirectionStart) Angle() float64 {
	return startAngles[d]
}

// Side returns -1 for left, 1 for right and 0 otherwise
func (d DirectionStart) Side() int {
	switch a := d.Angle(); {
	case a < 0:
		return -1
	case a > 0:
		return 1
	}
	return 0
}

// DirectionCurve is the lateral curve of a shot
type DirectionCurve string

// 曲がり
const (
	CurveLeft     DirectionCurve = "左"
	CurveStraight DirectionCurve = "真っ直ぐ"
	CurveRight    DirectionCurve = "右"
)

// DirectionCurves lists every curve in display order
var DirectionCurves = []DirectionCurve{CurveLeft, CurveStraight, CurveRight}

// Side returns -1 for left, 1 for right and 0 otherwise
func (c DirectionCurve) Side() int {
	switch c {
	case CurveLeft:
		return -1
	case CurveRight:
		return 1
	}
	return 0
}

// Result is the quality grade of a shot
type Result string

// 結果
const (
	ResultExcellent Result = "◎"
	ResultGood      Result = "○"
	ResultFair      Result = "△"
	ResultPoor      Result = "×"
)

// Results lists every grade from best to worst
var Results = []Result{ResultExcellent, ResultGood, ResultFair, ResultPoor}

// StartHole is the physical hole numbering a nine starts at
type StartHole string

const (
	StartHole1  StartHole = "1番"
	StartHole10 StartHole = "10番"
)

// StartHoles lists both numberings
var StartHoles = []StartHole{StartHole1, StartHole10}

// ValidClub reports whether c is a known club
func ValidClub(c Club) bool {
	return cont.Contains(Clubs, c)
}

// ValidDirectionStart reports whether d is a known start label
func ValidDirectionStart(d DirectionStart) bool {
	return cont.Contains(DirectionStarts, d)
}

// ValidDirectionCurve reports whether c is a known curve label
func ValidDirectionCurve(c DirectionCurve) bool {
	return cont.Contains(DirectionCurves, c)
}

// ValidResult reports whether r is a known grade
func ValidResult(r Result) bool {
	return cont.Contains(Results, r)
}

// ValidStartHole reports whether s is a known numbering
func ValidStartHole(s StartHole) bool {
	return cont.Contains(StartHoles, s)
}
