package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersect/anzard/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("rule", logger.RuleKind("comparison"), logger.RuleID(7))
	require.Equal(t, "rule", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "rule", g[0].Key)
	assert.Equal(t, "rule_id", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.SurveyID(3), "survey_id", int64(3)},
		{logger.ResponseID("r-1"), "response_id", "r-1"},
		{logger.RecordKey("B42"), "record_key", "B42"},
		{logger.BatchID("b-1"), "batch_id", "b-1"},
		{logger.RuleKind("special_dob"), "rule", "special_dob"},
		{logger.QuestionCode("N_FERT"), "question", "N_FERT"},
		{logger.Status("needs_review"), "status", "needs_review"},
		{logger.Count("records", 4), "records", int64(4)},
		{logger.Duration(time.Second), "duration", time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.ResponseID(nil).Equal(slog.Attr{}))
	assert.True(t, logger.BatchID(nil).Equal(slog.Attr{}))
}
