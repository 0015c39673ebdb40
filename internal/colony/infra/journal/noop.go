package journal

import (
	"context"

	"SpaceColony/internal/colony/entity"
)

// NoopJournal 未配置 journal 时使用。
type NoopJournal struct{}

func NewNoopJournal() *NoopJournal { return &NoopJournal{} }

func (NoopJournal) Append(_ context.Context, _ entity.SimID, _ []entity.Event) error { return nil }

func (NoopJournal) Recent(_ context.Context, _ entity.SimID, _ int) ([]entity.Event, error) {
	return nil, nil
}

func (NoopJournal) Close() error { return nil }
