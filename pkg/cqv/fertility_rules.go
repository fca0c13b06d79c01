package cqv

import (
	"fmt"
	"strings"

	"github.com/intersect/anzard/pkg/survey"
)

// Gestation beyond which a delivery count must be recorded, in days (20 weeks).
const deliveryGestationDays = 140

func fertilityCheckers() map[Kind]Checker {
	return map[Kind]Checker{
		KindDOB:               checkDOB,
		KindComp1:             checkComp1,
		KindComp2:             checkComp2,
		KindComp3:             checkComp3,
		KindMotherAge:         checkMotherAge,
		KindMotherAgeDisposal: checkMotherAgeDisposal,
		KindClinicalPregnancy: checkClinicalPregnancy,
		KindGestIUIDate:       gestationImpliesDelivery("IUI_DATE"),
		KindGestETDate:        gestationImpliesDelivery("ET_DATE"),
		KindThawDonor:         checkThawDonor,
		KindSurrogacy:         checkSurrogacy,
		KindETDate:            checkETDate,
		KindStimFirst:         checkStimFirst,
	}
}

// Date of birth must fall in the year of registration.
func checkDOB(in Input) bool {
	dob, ok := in.Answer.Date()
	if !ok || in.Response == nil {
		return true
	}
	return dob.Year() == in.Response.YearOfRegistration
}

// n_v_egth + n_s_egth + n_eggs + n_recvd >= n_donate + n_ivf + n_icsi + n_egfz_s + n_egfz_v
func checkComp1(in Input) bool {
	requireQuestion(in, "N_V_EGTH")
	available := sumOrZero(in, "N_V_EGTH", "N_S_EGTH", "N_EGGS", "N_RECVD")
	used := sumOrZero(in, "N_DONATE", "N_IVF", "N_ICSI", "N_EGFZ_S", "N_EGFZ_V")
	return available >= used
}

// n_fert <= n_ivf + n_icsi
func checkComp2(in Input) bool {
	requireQuestion(in, "N_FERT")
	fert, ok := in.Comparable("N_FERT")
	if !ok || !fert.IsNumber() {
		return true
	}
	return fert.Num() <= sumOrZero(in, "N_IVF", "N_ICSI")
}

// n_s_clth + n_v_clth + n_s_blth + n_v_blth + n_fert >=
// n_bl_et + n_cl_et + n_clfz_s + n_clfz_v + n_blfz_s + n_blfz_v
func checkComp3(in Input) bool {
	requireQuestion(in, "N_S_CLTH")
	available := sumOrZero(in, "N_S_CLTH", "N_V_CLTH", "N_S_BLTH", "N_V_BLTH", "N_FERT")
	used := sumOrZero(in, "N_BL_ET", "N_CL_ET", "N_CLFZ_S", "N_CLFZ_V", "N_BLFZ_S", "N_BLFZ_V")
	return available >= used
}

// If n_embdisp == 0, the female patient is 18 to 55 at cycle start.
func checkMotherAge(in Input) bool {
	requireQuestion(in, "N_EMBDISP")
	if n, ok := in.Comparable("N_EMBDISP"); !ok || !n.IsNumber() || n.Num() != 0 {
		return true
	}
	return ageWithin(in, 18, 55)
}

// If n_embdisp > 0, the female patient is 18 to 70 at cycle start.
func checkMotherAgeDisposal(in Input) bool {
	requireQuestion(in, "N_EMBDISP")
	if n, ok := in.Comparable("N_EMBDISP"); !ok || !n.IsNumber() || n.Num() <= 0 {
		return true
	}
	return ageWithin(in, 18, 70)
}

// A clinical pregnancy (y or u) needs a transfer (n_bl_et > 0 or n_cl_et > 0)
// or an insemination date.
func checkClinicalPregnancy(in Input) bool {
	requireQuestion(in, "PR_CLIN")
	pr, _ := in.Comparable("PR_CLIN")
	if !isText(pr, "y") && !isText(pr, "u") {
		return true
	}
	if positive(in, "N_BL_ET") || positive(in, "N_CL_ET") {
		return true
	}
	_, ok := in.Comparable("IUI_DATE")
	return ok
}

// gestationImpliesDelivery: if pr_end_dt - start is over 20 weeks, n_deliv
// must be present.
func gestationImpliesDelivery(startCode string) Checker {
	return func(in Input) bool {
		requireQuestion(in, "N_DELIV")
		end, ok1 := in.Comparable("PR_END_DT")
		start, ok2 := in.Comparable(startCode)
		if !ok1 || !ok2 {
			return true
		}
		days, ok := survey.DaysBetween(start, end)
		if !ok || days <= deliveryGestationDays {
			return true
		}
		_, present := in.Comparable("N_DELIV")
		return present
	}
}

// If any embryos were thawed and a donor age is recorded, thaw_don is required.
func checkThawDonor(in Input) bool {
	requireQuestion(in, "THAW_DON")
	if _, ok := in.Comparable("DON_AGE"); !ok {
		return true
	}
	if sumOrZero(in, "N_S_CLTH", "N_V_CLTH", "N_S_BLTH", "N_V_BLTH") <= 0 {
		return true
	}
	_, ok := in.Comparable("THAW_DON")
	return ok
}

// A surrogacy cycle with thawed embryos requires the donor age.
func checkSurrogacy(in Input) bool {
	requireQuestion(in, "DON_AGE")
	surr, _ := in.Comparable("SURR")
	if !isText(surr, "y") {
		return true
	}
	if sumOrZero(in, "N_S_CLTH", "N_V_CLTH", "N_S_BLTH", "N_V_BLTH") <= 0 {
		return true
	}
	_, ok := in.Comparable("DON_AGE")
	return ok
}

// A transfer date needs n_cl_et >= 0 or n_bl_et >= 0.
func checkETDate(in Input) bool {
	requireQuestion(in, "ET_DATE")
	if _, ok := in.Comparable("ET_DATE"); !ok {
		return false
	}
	return nonNegative(in, "N_CL_ET") || nonNegative(in, "N_BL_ET")
}

// A first stimulated cycle needs an oocyte pick-up or a cancellation date.
func checkStimFirst(in Input) bool {
	requireQuestion(in, "STIM_1ST")
	stim, _ := in.Comparable("STIM_1ST")
	if !isText(stim, "y") {
		return true
	}
	_, opu := in.Comparable("OPU_DATE")
	_, can := in.Comparable("CAN_DATE")
	return opu || can
}

func ageWithin(in Input, min, max int) bool {
	cycle, ok1 := in.Comparable("CYC_DATE")
	dob, ok2 := in.Comparable("FDOB")
	if !ok1 || !ok2 {
		return true
	}
	age, ok := survey.AgeInCompletedYears(dob, cycle)
	if !ok {
		return true
	}
	return age >= min && age <= max
}

// requireQuestion panics when a special checker runs against a question it
// was not written for. Load-time validation should make this unreachable.
func requireQuestion(in Input, code string) {
	if !strings.EqualFold(in.Answer.Code(), code) {
		panic(fmt.Errorf("%w: %s can only be used on question %s, got %q",
			ErrWrongQuestionCode, in.Rule.Kind, code, in.Answer.Code()))
	}
}

// sumOrZero adds numeric answers, counting absent or malformed ones as zero.
func sumOrZero(in Input, codes ...string) float64 {
	var total float64
	for _, code := range codes {
		if v, ok := in.Comparable(code); ok && v.IsNumber() {
			total += v.Num()
		}
	}
	return total
}

func number(in Input, code string) (float64, bool) {
	return numberFor(in.Response, code)
}

func positive(in Input, code string) bool {
	n, ok := number(in, code)
	return ok && n > 0
}

func nonNegative(in Input, code string) bool {
	n, ok := number(in, code)
	return ok && n >= 0
}

func isText(v survey.Value, s string) bool {
	return v.Kind() == survey.KindText && strings.EqualFold(v.Str(), s)
}
