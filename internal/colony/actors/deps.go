package actors

import (
	"time"

	"SpaceColony/internal/colony/app/port"
	"SpaceColony/internal/colony/clock"
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/infra/journal"
	"SpaceColony/modules/kit/logx"
)

const (
	defaultTickEvery  = 250 * time.Millisecond
	defaultFlushEvery = 3000 * time.Millisecond
	recentRingSize    = 200
)

// Deps 每个模拟 actor 共用的依赖。
type Deps struct {
	Repo       port.SimulationRepository
	Journal    port.EventJournal
	Rules      entity.Rules
	Clock      clock.Clock
	IDGen      func() int64
	Logger     logx.Logger
	TickEvery  time.Duration
	FlushEvery time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Journal == nil {
		d.Journal = journal.NewNoopJournal()
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.TickEvery <= 0 {
		d.TickEvery = defaultTickEvery
	}
	if d.FlushEvery <= 0 {
		d.FlushEvery = defaultFlushEvery
	}
	return d
}
