package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups the non-nil errors under "errors", or returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error records err under "error". Nil yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// SurveyID records the survey under "survey_id".
func SurveyID(id int64) slog.Attr {
	return slog.Int64("survey_id", id)
}

// ResponseID records the response under "response_id". Nil yields an empty Attr.
func ResponseID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("response_id", id)
}

// RecordKey records the submitting clinic's record key under "record_key".
func RecordKey(key string) slog.Attr {
	return slog.String("record_key", key)
}

// BatchID records the batch under "batch_id". Nil yields an empty Attr.
func BatchID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("batch_id", id)
}

// RuleKind records a rule kind under "rule".
func RuleKind(kind string) slog.Attr {
	return slog.String("rule", kind)
}

// RuleID records a rule id under "rule_id".
func RuleID(id int64) slog.Attr {
	return slog.Int64("rule_id", id)
}

// QuestionCode records a question code under "question".
func QuestionCode(code string) slog.Attr {
	return slog.String("question", code)
}

// Count records a counter under key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Status records an outcome under "status".
func Status(s string) slog.Attr {
	return slog.String("status", s)
}

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
