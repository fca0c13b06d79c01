// Package batch validates uploaded CSV files of survey records.
//
// A Batch starts In Progress and moves exactly once to Failed, Needs Review
// or Processed Successfully. File problems (not CSV, no key column, no data
// rows) fail it straight away. Otherwise every record is validated
// concurrently through a validation.Session: a record without a key or with
// a fatal warning fails the batch, any other warning sends it to review.
//
//	proc := batch.NewProcessor(catalog, session, batch.WithYearOfRegistration(2024))
//	b := batch.New("cycles.csv")
//	if err := proc.Process(ctx, b, file); err != nil {
//		return err
//	}
//	fmt.Println(b.Status(), b.Message)
//
// WriteSummaryReport and WriteDetailReport render the outcome as CSV.
package batch
