package cqv

import (
	"fmt"
	"slices"
	"strings"

	"github.com/intersect/anzard/pkg/survey"
)

// Kind names a rule checker. The set of kinds is closed: ParseKind rejects
// anything not declared here.
type Kind string

// Generic rule kinds.
const (
	KindComparison               Kind = "comparison"
	KindDateImpliesConstant      Kind = "date_implies_constant"
	KindConstImpliesConst        Kind = "const_implies_const"
	KindConstImpliesSet          Kind = "const_implies_set"
	KindSetImpliesConst          Kind = "set_implies_const"
	KindSetImpliesSet            Kind = "set_implies_set"
	KindBlankUnlessConst         Kind = "blank_unless_const"
	KindBlankUnlessSet           Kind = "blank_unless_set"
	KindBlankUnlessDaysConst     Kind = "blank_unless_days_const"
	KindBlankIfConst             Kind = "blank_if_const"
	KindPresentIfConst           Kind = "present_if_const"
	KindMultiRuleAnyPass         Kind = "multi_rule_any_pass"
	KindMultiRuleIfThen          Kind = "multi_rule_if_then"
	KindMultiHoursDateToDate     Kind = "multi_hours_date_to_date"
	KindMultiCompareDatetimeQuad Kind = "multi_compare_datetime_quad"
	KindPresentImpliesPresent    Kind = "present_implies_present"
	KindConstImpliesPresent      Kind = "const_implies_present"
	KindSetImpliesPresent        Kind = "set_implies_present"
	KindConstImpliesOneOfConst   Kind = "const_implies_one_of_const"
	KindSelfComparison           Kind = "self_comparison"
	KindDualComparison           Kind = "special_dual_comparison"
)

// Fertility (ANZARD) special rule kinds.
const (
	KindDOB               Kind = "special_dob"
	KindComp1             Kind = "special_rule_comp1"
	KindComp2             Kind = "special_rule_comp2"
	KindComp3             Kind = "special_rule_comp3"
	KindMotherAge         Kind = "special_rule_mtage"
	KindMotherAgeDisposal Kind = "special_rule_mtagedisp"
	KindClinicalPregnancy Kind = "special_rule_pr_clin"
	KindGestIUIDate       Kind = "special_rule_gest_iui_date"
	KindGestETDate        Kind = "special_rule_gest_et_date"
	KindThawDonor         Kind = "special_rule_thaw_don"
	KindSurrogacy         Kind = "special_rule_surr"
	KindETDate            Kind = "special_rule_et_date"
	KindStimFirst         Kind = "special_rule_stim_1st"
)

// Neonatal (ANZNN) special rule kinds.
const (
	KindO2A         Kind = "special_o2_a"
	KindO2ANew      Kind = "special_o2_a_new"
	KindHomeO2      Kind = "special_hmeo2"
	KindHomeO2New   Kind = "special_hmeo2_new"
	KindROPVEGF1    Kind = "special_rop_prem_rop_vegf_1"
	KindROPVEGF2    Kind = "special_rop_prem_rop_vegf_2"
	KindROPPrem     Kind = "special_rop_prem_rop"
	KindROPPremType Kind = "special_rop_prem_rop_type"
	KindCoolHours   Kind = "special_cool_hours"
	KindHeight      Kind = "special_height"
	KindLength      Kind = "special_length"
)

// relatedShape says which one of the three related fields a kind uses.
type relatedShape uint8

const (
	relatedNone relatedShape = iota
	relatedQuestion
	relatedQuestionList
	relatedRuleList
)

func (s relatedShape) String() string {
	switch s {
	case relatedQuestion:
		return "related question"
	case relatedQuestionList:
		return "related question list"
	case relatedRuleList:
		return "related rule list"
	default:
		return "no related"
	}
}

// kindSpec is the static description of a rule kind used for load-time
// validation and by the evaluator's skip policy.
type kindSpec struct {
	related relatedShape
	// relatedCount is the exact list length required; 0 means "at least one".
	relatedCount int

	operator        bool
	condOperator    bool
	set             bool
	condSet         bool
	numericConstant bool

	// appliesWhenAnswerAbsent: run even if the target answer is absent or malformed.
	appliesWhenAnswerAbsent bool
	// appliesWhenRelatedAbsent: run even if the related answer is absent or malformed.
	appliesWhenRelatedAbsent bool

	// questionCode pins a special rule to the question it hard-codes.
	questionCode string
	// questionType, when set, is the only target question type accepted.
	questionType survey.QuestionType
}

var kindSpecs = map[Kind]kindSpec{
	KindComparison:               {related: relatedQuestion, operator: true, numericConstant: true},
	KindDateImpliesConstant:      {related: relatedQuestion, operator: true},
	KindConstImpliesConst:        {related: relatedQuestion, operator: true, condOperator: true},
	KindConstImpliesSet:          {related: relatedQuestion, condOperator: true, set: true},
	KindSetImpliesConst:          {related: relatedQuestion, condSet: true, operator: true},
	KindSetImpliesSet:            {related: relatedQuestion, condSet: true, set: true},
	KindBlankUnlessConst:         {related: relatedQuestion, condOperator: true},
	KindBlankUnlessSet:           {related: relatedQuestion, condSet: true},
	KindBlankUnlessDaysConst:     {related: relatedQuestionList, relatedCount: 2, condOperator: true},
	KindBlankIfConst:             {related: relatedQuestion, condOperator: true},
	KindPresentIfConst:           {related: relatedQuestion, condOperator: true, appliesWhenAnswerAbsent: true},
	KindMultiRuleAnyPass:         {related: relatedRuleList},
	KindMultiRuleIfThen:          {related: relatedRuleList, relatedCount: 2},
	KindMultiHoursDateToDate:     {related: relatedQuestionList, relatedCount: 4, operator: true, numericConstant: true},
	KindMultiCompareDatetimeQuad: {related: relatedQuestionList, relatedCount: 4, operator: true, numericConstant: true},
	KindPresentImpliesPresent:    {related: relatedQuestion, appliesWhenRelatedAbsent: true},
	KindConstImpliesPresent:      {related: relatedQuestion, operator: true, appliesWhenRelatedAbsent: true},
	KindSetImpliesPresent:        {related: relatedQuestion, set: true, appliesWhenRelatedAbsent: true},
	KindConstImpliesOneOfConst:   {related: relatedQuestionList, operator: true, condOperator: true},
	KindSelfComparison:           {operator: true},
	KindDualComparison: {
		related: relatedQuestion, operator: true, condOperator: true,
		appliesWhenAnswerAbsent: true, appliesWhenRelatedAbsent: true,
	},

	KindDOB:               {questionType: survey.TypeDate},
	KindComp1:             {questionCode: "N_V_EGTH", appliesWhenAnswerAbsent: true},
	KindComp2:             {questionCode: "N_FERT"},
	KindComp3:             {questionCode: "N_S_CLTH", appliesWhenAnswerAbsent: true},
	KindMotherAge:         {questionCode: "N_EMBDISP"},
	KindMotherAgeDisposal: {questionCode: "N_EMBDISP"},
	KindClinicalPregnancy: {questionCode: "PR_CLIN"},
	KindGestIUIDate:       {questionCode: "N_DELIV", appliesWhenAnswerAbsent: true},
	KindGestETDate:        {questionCode: "N_DELIV", appliesWhenAnswerAbsent: true},
	KindThawDonor:         {questionCode: "THAW_DON", appliesWhenAnswerAbsent: true},
	KindSurrogacy:         {questionCode: "DON_AGE", appliesWhenAnswerAbsent: true},
	KindETDate:            {questionCode: "ET_DATE"},
	KindStimFirst:         {questionCode: "STIM_1ST"},

	KindO2A:         {related: relatedQuestionList, relatedCount: 6},
	KindO2ANew:      {questionCode: "O2_36wk_"},
	KindHomeO2:      {questionCode: "HmeO2"},
	KindHomeO2New:   {questionCode: "HmeO2"},
	KindROPVEGF1:    {questionCode: "ROP_VEGF"},
	KindROPVEGF2:    {questionCode: "ROP_VEGF"},
	KindROPPrem:     {questionCode: "ROP"},
	KindROPPremType: {questionCode: "ROPtype"},
	KindCoolHours:   {questionCode: "StartCoolDate"},
	KindHeight:      {questionCode: "Hght"},
	KindLength:      {questionCode: "Length"},
}

// ParseKind resolves a rule kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if _, ok := kindSpecs[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
	return k, nil
}

// Kinds returns every declared rule kind, sorted.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindSpecs))
	for k := range kindSpecs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (k Kind) String() string { return string(k) }

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	_, ok := kindSpecs[k]
	return ok
}

// AppliesWhenAnswerAbsent reports whether rules of this kind run against an
// absent or malformed target answer.
func (k Kind) AppliesWhenAnswerAbsent() bool {
	return kindSpecs[k].appliesWhenAnswerAbsent
}

// AppliesWhenRelatedAbsent reports whether rules of this kind run when the
// related answer is absent or malformed.
func (k Kind) AppliesWhenRelatedAbsent() bool {
	return kindSpecs[k].appliesWhenRelatedAbsent
}

// RequiredQuestionCode is the question code a special rule is pinned to, if any.
func (k Kind) RequiredQuestionCode() (string, bool) {
	code := kindSpecs[k].questionCode
	return code, code != ""
}

// RequiredQuestionCodes is the assertion table of special kinds pinned to a
// question code.
func RequiredQuestionCodes() map[Kind]string {
	out := make(map[Kind]string)
	for k, spec := range kindSpecs {
		if spec.questionCode != "" {
			out[k] = spec.questionCode
		}
	}
	return out
}
