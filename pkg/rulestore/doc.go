// Package rulestore keeps survey rule sets in PostgreSQL.
//
// Connect opens a pgx pool with retries and Migrate applies the embedded
// goose migrations. A Store saves a whole cqv.Repository per survey and
// loads it back as a validated repository; questions are stored by code and
// value sets as JSON arrays. Cached puts an LRU in front of any Source so
// that repeated validations of the same survey skip the database:
//
//	pool, err := rulestore.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//	if err := rulestore.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//	rules := rulestore.NewCached(rulestore.New(pool), cfg.CacheSize)
//	repo, err := rules.Load(ctx, catalog)
//
// Saving through Cached invalidates the cached entry of that survey.
package rulestore
