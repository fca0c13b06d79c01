package rulestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intersect/anzard/pkg/cqv"
	"github.com/intersect/anzard/pkg/survey"
)

// DB is the part of *pgxpool.Pool the store needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store persists rule sets per survey.
type Store struct {
	db DB
}

// New creates a store on top of a pool or any compatible DB.
func New(db DB) *Store {
	if db == nil {
		panic("rulestore: nil DB")
	}
	return &Store{db: db}
}

const (
	deleteRulesSQL = `DELETE FROM cqv_rules WHERE survey_id = $1`

	insertRuleSQL = `INSERT INTO cqv_rules (
		survey_id, id, label, kind, question_code, related_question_code,
		related_question_codes, related_rule_ids, operator, constant,
		conditional_operator, conditional_constant, set_operator, set_values,
		conditional_set_operator, conditional_set_values, error_message, is_primary, is_fatal
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	selectRulesSQL = `SELECT
		id, label, kind, question_code, related_question_code,
		related_question_codes, related_rule_ids, operator, constant,
		conditional_operator, conditional_constant, set_operator, set_values,
		conditional_set_operator, conditional_set_values, error_message, is_primary, is_fatal
	FROM cqv_rules WHERE survey_id = $1 ORDER BY id`
)

// Save replaces the stored rule set of the repository's survey in one
// transaction.
func (s *Store) Save(ctx context.Context, repo *cqv.Repository) error {
	catalog := repo.Catalog()
	if catalog == nil {
		return fmt.Errorf("%w: repository has no catalog", ErrSaveRules)
	}

	batch := &pgx.Batch{}
	batch.Queue(deleteRulesSQL, catalog.ID)
	for _, rule := range repo.All() {
		rec, err := encodeRule(rule, catalog)
		if err != nil {
			return errors.Join(ErrSaveRules, err)
		}
		batch.Queue(insertRuleSQL,
			catalog.ID, rec.ID, rec.Label, rec.Kind, rec.QuestionCode, rec.RelatedQuestionCode,
			rec.RelatedQuestionCodes, rec.RelatedRuleIDs, rec.Operator, rec.Constant,
			rec.ConditionalOperator, rec.ConditionalConstant, rec.SetOperator, rec.Set,
			rec.ConditionalSetOperator, rec.ConditionalSet, rec.ErrorMessage, rec.Primary, rec.Fatal,
		)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Join(ErrSaveRules, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Join(ErrSaveRules, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrSaveRules, err)
	}
	return nil
}

// Load rebuilds the validated repository stored for catalog.ID. A survey
// with no stored rules yields ErrRuleSetNotFound.
func (s *Store) Load(ctx context.Context, catalog *survey.Survey) (*cqv.Repository, error) {
	rows, err := s.db.Query(ctx, selectRulesSQL, catalog.ID)
	if err != nil {
		return nil, errors.Join(ErrLoadRules, err)
	}
	recs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (record, error) {
		var r record
		err := row.Scan(
			&r.ID, &r.Label, &r.Kind, &r.QuestionCode, &r.RelatedQuestionCode,
			&r.RelatedQuestionCodes, &r.RelatedRuleIDs, &r.Operator, &r.Constant,
			&r.ConditionalOperator, &r.ConditionalConstant, &r.SetOperator, &r.Set,
			&r.ConditionalSetOperator, &r.ConditionalSet, &r.ErrorMessage, &r.Primary, &r.Fatal,
		)
		return r, err
	})
	if err != nil {
		return nil, errors.Join(ErrLoadRules, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: survey %d", ErrRuleSetNotFound, catalog.ID)
	}
	return buildRepository(recs, catalog)
}

func buildRepository(recs []record, catalog *survey.Survey) (*cqv.Repository, error) {
	repo := cqv.NewRepository(catalog)
	for _, rec := range recs {
		rule, err := decodeRule(rec, catalog)
		if err != nil {
			return nil, errors.Join(ErrLoadRules, err)
		}
		if _, err := repo.Add(rule); err != nil {
			return nil, errors.Join(ErrLoadRules, err)
		}
	}
	if err := repo.Validate(); err != nil {
		return nil, errors.Join(ErrLoadRules, err)
	}
	return repo, nil
}
