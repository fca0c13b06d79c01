// Package survey models the registry's question catalog and the answers a
// single submission (a Response) carries for it.
//
// Every answer is in exactly one of three states:
//
//   - absent: the question was never answered (or was cleared)
//   - malformed: raw input is present but could not be parsed for the
//     question type
//   - well-formed: raw input parsed into a typed, comparable Value
//
// The rule engine relies on the distinction between absent and malformed, so
// accessors never coalesce the two.
//
// # Values
//
// Value is a small tagged union over numbers, text, calendar dates, times of
// day and combined date-times. Values only compare with values of the same
// kind; Compare reports ok=false otherwise. AddOffset shifts numbers by n,
// dates by n days and date-times by n hours.
//
// # Lookups
//
// Response lookups (AnswerTo, AnswerToCode, ComparableForCode) read the
// in-memory answer set only. Answers built during a batch import are visible
// before anything is persisted.
//
// # Usage
//
//	s := survey.New(1, "ANZARD")
//	_ = s.AddQuestion(&survey.Question{ID: 1, Code: "N_FERT", Type: survey.TypeInteger})
//	r := survey.NewResponse(s, "cycle-42", 2024)
//	_ = r.SetAnswer("n_fert", "3")
//	v, ok := r.ComparableForCode("N_FERT") // Number(3), true
package survey
