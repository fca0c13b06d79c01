package cqv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intersect/anzard/pkg/cqv"
)

var fertilityQuestions = []string{
	"FDOB:Date", "CYC_DATE:Date", "OPU_DATE:Date", "CAN_DATE:Date", "ET_DATE:Date",
	"IUI_DATE:Date", "PR_END_DT:Date",
	"N_V_EGTH:Integer", "N_S_EGTH:Integer", "N_EGGS:Integer", "N_RECVD:Integer",
	"N_DONATE:Integer", "N_IVF:Integer", "N_ICSI:Integer", "N_EGFZ_S:Integer", "N_EGFZ_V:Integer",
	"N_FERT:Integer", "N_S_CLTH:Integer", "N_V_CLTH:Integer", "N_S_BLTH:Integer", "N_V_BLTH:Integer",
	"N_BL_ET:Integer", "N_CL_ET:Integer", "N_CLFZ_S:Integer", "N_CLFZ_V:Integer",
	"N_BLFZ_S:Integer", "N_BLFZ_V:Integer", "N_EMBDISP:Integer", "N_DELIV:Integer",
	"DON_AGE:Integer", "THAW_DON:Choice:y,n",
	"PR_CLIN:Choice:y,n,u", "SURR:Choice:y,n", "STIM_1ST:Choice:y,n",
}

func fertilityFixture(t *testing.T, kind cqv.Kind, target string) *fixture {
	t.Helper()
	f := newFixture(t, cqv.NewRegistry(cqv.WithFertilityRules()), fertilityQuestions...)
	f.add(&cqv.Rule{Kind: kind, QuestionID: f.id(target), ErrorMessage: errMsg, Primary: true})
	return f
}

func TestSpecialDOB(t *testing.T) {
	f := fertilityFixture(t, cqv.KindDOB, "FDOB")

	f.set(map[string]string{"FDOB": "2012-06-30"})
	assert.Empty(t, f.check("FDOB"))

	f.set(map[string]string{"FDOB": "2011-12-31"})
	assert.Equal(t, []string{errMsg}, f.check("FDOB"))
}

func TestSpecialComp1(t *testing.T) {
	f := fertilityFixture(t, cqv.KindComp1, "N_V_EGTH")

	f.set(map[string]string{"N_EGGS": "2", "N_IVF": "3"})
	assert.Equal(t, []string{errMsg}, f.check("N_V_EGTH"), "runs with the target blank")

	f.set(map[string]string{"N_V_EGTH": "1"})
	assert.Empty(t, f.check("N_V_EGTH"))

	f.set(map[string]string{"N_ICSI": "1", "N_EGFZ_V": "abc"})
	assert.Equal(t, []string{errMsg}, f.check("N_V_EGTH"))
}

func TestSpecialComp2(t *testing.T) {
	f := fertilityFixture(t, cqv.KindComp2, "N_FERT")

	f.set(map[string]string{"N_FERT": "4", "N_IVF": "2", "N_ICSI": "2"})
	assert.Empty(t, f.check("N_FERT"))

	f.set(map[string]string{"N_ICSI": ""})
	assert.Equal(t, []string{errMsg}, f.check("N_FERT"))
}

func TestSpecialComp3(t *testing.T) {
	f := fertilityFixture(t, cqv.KindComp3, "N_S_CLTH")

	f.set(map[string]string{"N_FERT": "3", "N_BL_ET": "1", "N_CLFZ_S": "2"})
	assert.Empty(t, f.check("N_S_CLTH"))

	f.set(map[string]string{"N_BLFZ_V": "1"})
	assert.Equal(t, []string{errMsg}, f.check("N_S_CLTH"))
}

func TestSpecialMotherAge(t *testing.T) {
	tests := []struct {
		name     string
		kind     cqv.Kind
		disp     string
		fdob     string
		wantFail bool
	}{
		{"no disposal within range", cqv.KindMotherAge, "0", "1980-01-01", false},
		{"no disposal too old", cqv.KindMotherAge, "0", "1950-01-01", true},
		{"no disposal turns 18 tomorrow", cqv.KindMotherAge, "0", "1994-01-02", true},
		{"no disposal exactly 18", cqv.KindMotherAge, "0", "1994-01-01", false},
		{"disposal ignored by mtage", cqv.KindMotherAge, "2", "1900-01-01", false},
		{"disposal within range", cqv.KindMotherAgeDisposal, "1", "1950-01-01", false},
		{"disposal too old", cqv.KindMotherAgeDisposal, "1", "1930-01-01", true},
		{"no disposal ignored by mtagedisp", cqv.KindMotherAgeDisposal, "0", "1900-01-01", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fertilityFixture(t, tt.kind, "N_EMBDISP")
			f.set(map[string]string{"N_EMBDISP": tt.disp, "CYC_DATE": "2012-01-01", "FDOB": tt.fdob})
			if tt.wantFail {
				assert.Equal(t, []string{errMsg}, f.check("N_EMBDISP"))
			} else {
				assert.Empty(t, f.check("N_EMBDISP"))
			}
		})
	}
}

func TestSpecialClinicalPregnancy(t *testing.T) {
	f := fertilityFixture(t, cqv.KindClinicalPregnancy, "PR_CLIN")

	f.set(map[string]string{"PR_CLIN": "n"})
	assert.Empty(t, f.check("PR_CLIN"))

	f.set(map[string]string{"PR_CLIN": "y"})
	assert.Equal(t, []string{errMsg}, f.check("PR_CLIN"))

	f.set(map[string]string{"N_CL_ET": "0", "N_BL_ET": "1"})
	assert.Empty(t, f.check("PR_CLIN"))

	f.set(map[string]string{"PR_CLIN": "u", "N_BL_ET": "0", "IUI_DATE": "2012-03-01"})
	assert.Empty(t, f.check("PR_CLIN"))
}

func TestSpecialGestation(t *testing.T) {
	for kind, start := range map[cqv.Kind]string{cqv.KindGestETDate: "ET_DATE", cqv.KindGestIUIDate: "IUI_DATE"} {
		t.Run(string(kind), func(t *testing.T) {
			f := fertilityFixture(t, kind, "N_DELIV")

			f.set(map[string]string{start: "2012-01-01", "PR_END_DT": "2012-05-20"})
			assert.Empty(t, f.check("N_DELIV"), "140 days is not over 20 weeks")

			f.set(map[string]string{"PR_END_DT": "2012-06-01"})
			assert.Equal(t, []string{errMsg}, f.check("N_DELIV"))

			f.set(map[string]string{"N_DELIV": "1"})
			assert.Empty(t, f.check("N_DELIV"))
		})
	}
}

func TestSpecialThawDonorAndSurrogacy(t *testing.T) {
	t.Run("thaw_don", func(t *testing.T) {
		f := fertilityFixture(t, cqv.KindThawDonor, "THAW_DON")
		f.set(map[string]string{"N_V_CLTH": "2"})
		assert.Empty(t, f.check("THAW_DON"), "no donor age")

		f.set(map[string]string{"DON_AGE": "30"})
		assert.Equal(t, []string{errMsg}, f.check("THAW_DON"))

		f.set(map[string]string{"THAW_DON": "y"})
		assert.Empty(t, f.check("THAW_DON"))
	})

	t.Run("surr", func(t *testing.T) {
		f := fertilityFixture(t, cqv.KindSurrogacy, "DON_AGE")
		f.set(map[string]string{"SURR": "n", "N_S_BLTH": "1"})
		assert.Empty(t, f.check("DON_AGE"))

		f.set(map[string]string{"SURR": "y"})
		assert.Equal(t, []string{errMsg}, f.check("DON_AGE"))

		f.set(map[string]string{"DON_AGE": "35"})
		assert.Empty(t, f.check("DON_AGE"))
	})
}

func TestSpecialETDateAndStimFirst(t *testing.T) {
	t.Run("et_date", func(t *testing.T) {
		f := fertilityFixture(t, cqv.KindETDate, "ET_DATE")
		f.set(map[string]string{"ET_DATE": "2012-01-01"})
		assert.Equal(t, []string{errMsg}, f.check("ET_DATE"))

		f.set(map[string]string{"N_CL_ET": "0"})
		assert.Empty(t, f.check("ET_DATE"))
	})

	t.Run("stim_1st", func(t *testing.T) {
		f := fertilityFixture(t, cqv.KindStimFirst, "STIM_1ST")
		f.set(map[string]string{"STIM_1ST": "y"})
		assert.Equal(t, []string{errMsg}, f.check("STIM_1ST"))

		f.set(map[string]string{"CAN_DATE": "2012-02-02"})
		assert.Empty(t, f.check("STIM_1ST"))
	})
}

func TestSpecialRuleOnWrongQuestion(t *testing.T) {
	f := newFixture(t, cqv.NewRegistry(cqv.WithFertilityRules()), fertilityQuestions...)

	_, err := f.repo.Add(&cqv.Rule{Kind: cqv.KindComp2, QuestionID: f.id("N_IVF"), ErrorMessage: errMsg, Primary: true})
	assert.ErrorIs(t, err, cqv.ErrWrongQuestionCode)

	// a rule that bypassed the store still fails loudly
	rule := &cqv.Rule{Kind: cqv.KindComp2, QuestionID: f.id("N_IVF"), ErrorMessage: errMsg, Primary: true}
	f.set(map[string]string{"N_IVF": "1"})
	err = recoverError(t, func() { f.ev.CheckOne(rule, f.resp.AnswerToCode("N_IVF"), false) })
	assert.ErrorIs(t, err, cqv.ErrWrongQuestionCode)
}
