package cqv

import (
	"github.com/intersect/anzard/pkg/survey"
)

// 36 completed weeks of corrected gestation, in days.
const correctedGestationDays = 36 * 7

const (
	maxCoolingHours     = 120
	minLength           = 20
	maxLength           = 65
	maxPretermLength    = 45
	prematureGestWeeks  = 32
	prematureWeightGram = 1500
)

// Answer code "-1" means yes on the neonatal forms.
var yes = survey.Number(-1)

func neonatalCheckers() map[Kind]Checker {
	return map[Kind]Checker{
		KindO2A:         checkO2A,
		KindO2ANew:      checkO2ANew,
		KindHomeO2:      homeOxygen(false),
		KindHomeO2New:   homeOxygen(true),
		KindROPVEGF1:    checkROPVEGF1,
		KindROPVEGF2:    checkROPVEGF2,
		KindROPPrem:     checkROPPrem,
		KindROPPremType: checkROPPremType,
		KindCoolHours:   checkCoolHours,
		KindHeight:      checkHeight,
		KindLength:      checkLength,
	}
}

// Premature reports whether the baby is premature: gestation under 32 weeks
// or birth weight under 1500g. known is false when neither answer settles it.
func Premature(resp *survey.Response) (premature, known bool) {
	gest, gestOK := numberFor(resp, "Gest")
	wght, wghtOK := numberFor(resp, "Wght")
	switch {
	case gestOK && gest < prematureGestWeeks:
		return true, true
	case wghtOK && wght < prematureWeightGram:
		return true, true
	case wghtOK:
		return false, true
	default:
		return false, false
	}
}

func knownNotPremature(resp *survey.Response) bool {
	p, known := Premature(resp)
	return known && !p
}

// Gest weeks + gest days + days from DOB to the latest oxygen/CPAP/high-flow
// cease date must exceed 36 weeks. Related ids are
// [Gest, Gestdays, DOB, LastO2, CeaseCPAPDate, CeaseHiFloDate].
func checkO2A(in Input) bool {
	ids := in.Rule.RelatedQuestionIDs
	vals := make([]survey.Value, len(ids))
	present := make([]bool, len(ids))
	for i, id := range ids {
		vals[i], present[i] = in.AnswerTo(id).Comparable()
	}
	return correctedGestationExceeded(vals, present)
}

// As special_o2_a, looked up by code, and only when O2_36wk_ is yes.
func checkO2ANew(in Input) bool {
	requireQuestion(in, "O2_36wk_")
	if a, ok := in.Answer.Comparable(); !ok || !a.Equal(yes) {
		return true
	}
	codes := []string{"Gest", "Gestdays", "DOB", "LastO2", "CeaseCPAPDate", "CeaseHiFloDate"}
	vals := make([]survey.Value, len(codes))
	present := make([]bool, len(codes))
	for i, code := range codes {
		vals[i], present[i] = in.Comparable(code)
	}
	return correctedGestationExceeded(vals, present)
}

func correctedGestationExceeded(vals []survey.Value, present []bool) bool {
	if len(vals) < 6 || !present[0] || !present[1] || !present[2] {
		return true
	}
	gest, gestDays, dob := vals[0], vals[1], vals[2]
	if !gest.IsNumber() || !gestDays.IsNumber() {
		return true
	}

	var latest survey.Value
	for i := 3; i < 6; i++ {
		if !present[i] || !vals[i].IsDate() {
			continue
		}
		if latest.IsZero() || vals[i].Time().After(latest.Time()) {
			latest = vals[i]
		}
	}
	if latest.IsZero() {
		return true
	}
	elapsed, ok := survey.DaysBetween(dob, latest)
	if !ok {
		return true
	}
	return gest.Num()*7+gestDays.Num()+float64(elapsed) > correctedGestationDays
}

// homeOxygen: babies sent home on oxygen must have been discharged after 36
// weeks corrected gestation. When strict, a missing discharge date fails.
func homeOxygen(strict bool) Checker {
	return func(in Input) bool {
		requireQuestion(in, "HmeO2")
		if a, ok := in.Answer.Comparable(); !ok || !a.Equal(yes) {
			return true
		}
		gest, ok1 := number(in, "Gest")
		gestDays, ok2 := number(in, "Gestdays")
		dob, ok3 := in.Comparable("DOB")
		if !ok1 || !ok2 || !ok3 {
			return true
		}
		disc, ok := in.Comparable("DateDisc")
		if !ok {
			return !strict
		}
		elapsed, ok := survey.DaysBetween(dob, disc)
		if !ok {
			return !strict
		}
		return gest*7+gestDays+float64(elapsed) > correctedGestationDays
	}
}

// If VEGF treatment was given to a premature baby, ROP must be stage 1 to 4.
func checkROPVEGF1(in Input) bool {
	requireQuestion(in, "ROP_VEGF")
	if a, ok := in.Answer.Comparable(); !ok || !a.Equal(yes) {
		return true
	}
	if p, known := Premature(in.Response); !known || !p {
		return true
	}
	return ropStaged(in)
}

// VEGF treatment is only recorded for premature babies.
func checkROPVEGF2(in Input) bool {
	requireQuestion(in, "ROP_VEGF")
	if a, ok := in.Answer.Comparable(); !ok || !a.Equal(yes) {
		return true
	}
	return !knownNotPremature(in.Response)
}

// A staged ROP is only recorded for premature babies.
func checkROPPrem(in Input) bool {
	requireQuestion(in, "ROP")
	if !ropStaged(in) {
		return true
	}
	return !knownNotPremature(in.Response)
}

// ROPtype needs a staged ROP on a premature baby.
func checkROPPremType(in Input) bool {
	requireQuestion(in, "ROPtype")
	if !in.Answer.IsWellFormed() {
		return true
	}
	return ropStaged(in) && !knownNotPremature(in.Response)
}

func ropStaged(in Input) bool {
	rop, ok := number(in, "ROP")
	return ok && rop >= 1 && rop <= 4
}

// Therapeutic cooling lasts no more than 120 hours.
func checkCoolHours(in Input) bool {
	requireQuestion(in, "StartCoolDate")
	parts := make([]survey.Value, 4)
	for i, code := range []string{"StartCoolDate", "StartCoolTime", "CeaseCoolDate", "CeaseCoolTime"} {
		v, ok := in.Comparable(code)
		if !ok {
			return true
		}
		parts[i] = v
	}
	start, ok1 := survey.DateTime(parts[0], parts[1])
	end, ok2 := survey.DateTime(parts[2], parts[3])
	if !ok1 || !ok2 {
		return true
	}
	hours, _ := survey.HoursBetween(start, end)
	return hours <= maxCoolingHours
}

// Height cannot be less than length at birth.
func checkHeight(in Input) bool {
	requireQuestion(in, "Hght")
	height, ok1 := number(in, "Hght")
	length, ok2 := number(in, "Length")
	if !ok1 || !ok2 {
		return true
	}
	return height >= length
}

// Birth length is 20 to 65cm, and at most 45cm before 32 weeks.
func checkLength(in Input) bool {
	requireQuestion(in, "Length")
	length, ok := number(in, "Length")
	if !ok {
		return true
	}
	if length < minLength || length > maxLength {
		return false
	}
	if gest, ok := number(in, "Gest"); ok && gest < prematureGestWeeks {
		return length <= maxPretermLength
	}
	return true
}

func numberFor(resp *survey.Response, code string) (float64, bool) {
	if resp == nil {
		return 0, false
	}
	v, ok := resp.ComparableForCode(code)
	if !ok || !v.IsNumber() {
		return 0, false
	}
	return v.Num(), true
}
