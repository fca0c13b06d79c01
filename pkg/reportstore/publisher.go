package reportstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/intersect/anzard/pkg/batch"
	"github.com/intersect/anzard/pkg/logger"
)

const (
	summaryName = "summary.csv"
	detailName  = "detail.csv"
	contentType = "text/csv; charset=utf-8"
)

// Reports locates the stored reports of one batch.
type Reports struct {
	SummaryPath string
	DetailPath  string
	SummaryURL  string
	DetailURL   string
}

// Publisher renders batch reports and stores them under the batch id.
type Publisher struct {
	storage Storage
	log     *slog.Logger
}

// NewPublisher creates a publisher. A nil logger discards.
func NewPublisher(storage Storage, log *slog.Logger) *Publisher {
	if log == nil {
		log = logger.Discard()
	}
	return &Publisher{storage: storage, log: log}
}

// Publish stores the summary and detail reports of b. Batches rejected
// before validation have no reports and yield ErrNoReports.
func (p *Publisher) Publish(ctx context.Context, b *batch.Batch) (Reports, error) {
	if !b.HasReports() {
		return Reports{}, ErrNoReports
	}

	dir := b.ID.String()
	var reports Reports

	var buf bytes.Buffer
	if err := batch.WriteSummaryReport(&buf, b); err != nil {
		return Reports{}, fmt.Errorf("render summary report: %w", err)
	}
	obj, err := p.storage.Put(ctx, joinKey(dir, summaryName), &buf, contentType)
	if err != nil {
		return Reports{}, err
	}
	reports.SummaryPath, reports.SummaryURL = obj.Path, p.storage.URL(obj.Path)

	buf.Reset()
	if err := batch.WriteDetailReport(&buf, b); err != nil {
		return Reports{}, fmt.Errorf("render detail report: %w", err)
	}
	obj, err = p.storage.Put(ctx, joinKey(dir, detailName), &buf, contentType)
	if err != nil {
		return Reports{}, err
	}
	reports.DetailPath, reports.DetailURL = obj.Path, p.storage.URL(obj.Path)

	p.log.InfoContext(logger.WithBatchID(ctx, b.ID), "batch reports stored",
		slog.String("summary", reports.SummaryURL),
		slog.String("detail", reports.DetailURL),
	)
	return reports, nil
}
