package entity

import (
	"fmt"

	"SpaceColony/internal/colony/entity/domain"
)

// TimerRecord 定时器下一次到期的绝对时间。
type TimerRecord struct {
	Name      string `json:"name"`
	NextDueMs int64  `json:"next_due_ms"`
}

// SimulationPersistSnapshot 按实体类型拆成平铺记录，时间全部是绝对毫秒时间戳。
type SimulationPersistSnapshot struct {
	Version   uint64
	SimID     SimID
	NowMs     int64
	ShipSeq   int64
	Timers    []TimerRecord
	Locations []domain.LocationState
	Ships     []domain.Ship
	Raiders   []domain.Raider
	Stations  []domain.Station
	Credits   domain.CreditsAccount
}

// BuildPersistSnapshot 只有脏数据时才生成。
func (s *Simulation) BuildPersistSnapshot(version uint64) (*SimulationPersistSnapshot, bool) {
	if s == nil || !s.Dirty() {
		return nil, false
	}
	return s.Export(version), true
}

// Export 无论是否脏都导出一份完整拷贝（归档用）。
func (s *Simulation) Export(version uint64) *SimulationPersistSnapshot {
	snap := &SimulationPersistSnapshot{
		Version:   version,
		SimID:     s.id,
		NowMs:     s.nowMs,
		ShipSeq:   s.seq,
		Locations: s.res.Snapshot(),
		Ships:     s.fleet.Snapshot(),
		Stations:  s.stationList(),
		Credits:   s.credits.Account(),
	}
	for t := timer(0); t < timerCount; t++ {
		snap.Timers = append(snap.Timers, TimerRecord{Name: t.String(), NextDueMs: s.nextDue[t]})
	}
	for _, r := range s.raiders {
		snap.Raiders = append(snap.Raiders, *r)
	}
	return snap
}

// Hydrate 从快照完整恢复。缺失的定时器从 NowMs 重新起算。
func Hydrate(rules Rules, snap *SimulationPersistSnapshot, opts ...Option) (*Simulation, error) {
	if snap == nil {
		return nil, fmt.Errorf("hydrate: nil snapshot")
	}
	rules = rules.normalize()
	s := newEmpty(snap.SimID, rules, opts...)
	s.nowMs = snap.NowMs
	s.seq = snap.ShipSeq

	for t := timer(0); t < timerCount; t++ {
		s.nextDue[t] = snap.NowMs + s.interval(t).Milliseconds()
	}
	for _, rec := range snap.Timers {
		t, ok := timerByName(rec.Name)
		if !ok {
			return nil, fmt.Errorf("hydrate: unknown timer %q", rec.Name)
		}
		s.nextDue[t] = rec.NextDueMs
	}

	s.res = NewResourceLedger(nil)
	s.res.restore(snap.Locations)

	s.credits = NewCreditsLedger(0, rules.Economy.InvestmentRatePerHour, snap.NowMs)
	s.credits.restore(snap.Credits)

	for i := range snap.Ships {
		sh := snap.Ships[i].Clone()
		if !sh.Type.Valid() {
			return nil, fmt.Errorf("hydrate: ship %d has invalid type", sh.ID)
		}
		if sh.State == domain.Traveling && sh.Travel == nil {
			return nil, fmt.Errorf("hydrate: ship %d traveling without order", sh.ID)
		}
		s.fleet.Add(sh)
	}

	for _, st := range snap.Stations {
		if !st.Location.StationAllowed() {
			return nil, fmt.Errorf("hydrate: station at %s not allowed", st.Location)
		}
		cp := st
		s.stations[st.Location] = &cp
	}

	for _, rec := range snap.Raiders {
		r := s.raider(rec.ID)
		if r == nil {
			return nil, fmt.Errorf("hydrate: unknown raider %d", rec.ID)
		}
		*r = rec
	}
	return s, nil
}

func timerByName(name string) (timer, bool) {
	for t := timer(0); t < timerCount; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return timerCount, false
}
