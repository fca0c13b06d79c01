//go:build integration

package rulestore_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/intersect/anzard/pkg/logger"
	"github.com/intersect/anzard/pkg/ruleimport"
	"github.com/intersect/anzard/pkg/rulestore"
)

const catalogYAML = `
id: 5
name: store test
sections:
  - name: Cycle
    questions:
      - {code: OPU_DATE, type: Date}
      - {code: ET_DATE, type: Date}
      - {code: PR_CLIN, type: Choice, options: [y, n, u]}
      - {code: N_BL_ET, type: Integer}
`

const rulesCSV = `rule_label,rule,question_code,related_question_code,operator,set_operator,set,error_message,fatal
et_after_opu,comparison,ET_DATE,OPU_DATE,>=,,,ET_DATE before OPU_DATE,y
clin,set_implies_present,PR_CLIN,N_BL_ET,,included,"[""y"", ""u""]",N_BL_ET required,n
`

func startPostgres(t *testing.T) rulestore.Config {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("anzard"),
		tcpostgres.WithUsername("anzard"),
		tcpostgres.WithPassword("anzard"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return rulestore.Config{
		ConnectionString:  dsn,
		MaxOpenConns:      4,
		MaxIdleConns:      1,
		HealthCheckPeriod: time.Minute,
		MaxConnIdleTime:   time.Minute,
		MaxConnLifetime:   time.Hour,
		RetryAttempts:     3,
		RetryInterval:     time.Second,
		MigrationsTable:   "anzard_schema_migrations",
		CacheSize:         4,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := startPostgres(t)

	pool, err := rulestore.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, rulestore.Healthcheck(pool)(ctx))
	require.NoError(t, rulestore.Migrate(ctx, pool, cfg, logger.Discard()))
	// migrations are idempotent
	require.NoError(t, rulestore.Migrate(ctx, pool, cfg, logger.Discard()))

	catalog, err := ruleimport.ReadCatalog(strings.NewReader(catalogYAML))
	require.NoError(t, err)
	repo, err := ruleimport.ReadRules(strings.NewReader(rulesCSV), catalog)
	require.NoError(t, err)

	store := rulestore.New(pool)

	_, err = store.Load(ctx, catalog)
	assert.ErrorIs(t, err, rulestore.ErrRuleSetNotFound)

	require.NoError(t, store.Save(ctx, repo))
	// saving again replaces rather than duplicates
	require.NoError(t, store.Save(ctx, repo))

	loaded, err := store.Load(ctx, catalog)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	cmp, ok := loaded.RuleWithLabel("et_after_opu")
	require.True(t, ok)
	assert.True(t, cmp.Fatal)
	assert.True(t, cmp.Primary)

	clin, ok := loaded.RuleWithLabel("clin")
	require.True(t, ok)
	require.Len(t, clin.Set, 2)
	assert.Equal(t, "u", clin.Set[1].String())

	cached := rulestore.NewCached(store, cfg.CacheSize)
	a, err := cached.Load(ctx, catalog)
	require.NoError(t, err)
	b, err := cached.Load(ctx, catalog)
	require.NoError(t, err)
	assert.Same(t, a, b)
}
