// Package reportstore stores batch validation reports on the local disk or
// in S3.
//
// Storage is a small key/value file interface with LocalStorage and
// S3Storage implementations; NewStorage picks one from Config. A Publisher
// renders the summary and detail CSV reports of a processed batch and
// stores them as <batch id>/summary.csv and <batch id>/detail.csv.
package reportstore
