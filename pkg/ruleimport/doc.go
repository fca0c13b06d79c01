// Package ruleimport loads survey catalogs and rule definitions from files.
//
// Catalogs are YAML documents of sections and questions (see ReadCatalog).
// Rules come from a CSV sheet with one rule per row, addressing questions by
// code and other rules by label:
//
//	rule_label,rule,question_code,related_question_code,operator,constant,error_message,primary,fatal
//	et_after_opu,comparison,ET_DATE,OPU_DATE,>=,,ET_DATE must follow OPU_DATE,y,n
//
// Only rule and question_code are required columns. Blank primary means yes,
// blank fatal means no. Sets are written as "[1, 2, 3]" or `["y", "n"]`.
//
// An import either yields a fully validated repository or nothing: every row
// problem is reported, prefixed with its line number, in one joined error.
package ruleimport
