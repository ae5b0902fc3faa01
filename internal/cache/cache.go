package cache

import (
	"context"
	"time"

	"partsledger/backend/internal/domain"
)

// ReportCache caches computed partner profit reports. Reports walk every
// sale invoice, so hot dashboards keep a short-lived copy here.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.PartnerReport, bool, error)
	Set(ctx context.Context, key string, value *domain.PartnerReport, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.PartnerReport, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.PartnerReport, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
