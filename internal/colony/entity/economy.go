package entity

import (
	"SpaceColony/internal/colony/entity/domain"
)

// ResourceLedger 各地点库存、产量与人口。
type ResourceLedger struct {
	locs map[domain.Location]*domain.LocationState
}

func NewResourceLedger(initial map[domain.Location]InitialLocation) *ResourceLedger {
	l := &ResourceLedger{locs: make(map[domain.Location]*domain.LocationState, len(domain.Locations))}
	for _, loc := range domain.Locations {
		st := &domain.LocationState{Location: loc}
		if init, ok := initial[loc]; ok {
			st.Colonized = init.Colonized
			st.Stock = init.Stock
			st.Rates = init.Rates
			st.Population = max(init.Population, 0)
		}
		l.locs[loc] = st
	}
	// 母星永远已殖民
	l.locs[domain.Home].Colonized = true
	return l
}

func (l *ResourceLedger) get(loc domain.Location) *domain.LocationState {
	return l.locs[loc]
}

// Tick 对每个已殖民地点推进 dt 秒。
func (l *ResourceLedger) Tick(dt, growthPerSecond float64) {
	for _, loc := range domain.Locations {
		st := l.locs[loc]
		if !st.Colonized {
			continue
		}
		for _, r := range domain.Resources {
			st.Stock.Add(r, st.Rates.Get(r)*dt/3600)
		}
		st.Population += st.Population * growthPerSecond * sign(st.Rates.Food) * dt
		if st.Population < 0 {
			st.Population = 0
		}
	}
}

// Spend 原子地检查并扣减，库存不足返回 false 且不做任何修改。
func (l *ResourceLedger) Spend(loc domain.Location, r domain.Resource, amount float64) bool {
	st := l.get(loc)
	if st == nil || !domain.ValidAmount(amount) {
		return false
	}
	have := st.Stock.Get(r)
	if have < amount {
		return false
	}
	st.Stock.Set(r, have-amount)
	return true
}

// SpendAll 多项资源一起扣，任何一项不足都不扣。
func (l *ResourceLedger) SpendAll(loc domain.Location, cost map[domain.Resource]float64) bool {
	st := l.get(loc)
	if st == nil {
		return false
	}
	for r, amount := range cost {
		if !domain.ValidAmount(amount) || st.Stock.Get(r) < amount {
			return false
		}
	}
	for r, amount := range cost {
		st.Stock.Set(r, st.Stock.Get(r)-amount)
	}
	return true
}

func (l *ResourceLedger) Credit(loc domain.Location, r domain.Resource, amount float64) {
	if st := l.get(loc); st != nil && amount > 0 {
		st.Stock.Add(r, amount)
	}
}

// CreditCargo 把船舱货物入库。
func (l *ResourceLedger) CreditCargo(loc domain.Location, c domain.Cargo) {
	l.Credit(loc, domain.Food, c.Food)
	l.Credit(loc, domain.Fuel, c.Fuel)
	l.Credit(loc, domain.Metal, c.Metal)
}

// SpendCargo 从库存里扣出一船货。
func (l *ResourceLedger) SpendCargo(loc domain.Location, c domain.Cargo) bool {
	return l.SpendAll(loc, map[domain.Resource]float64{
		domain.Food:  c.Food,
		domain.Fuel:  c.Fuel,
		domain.Metal: c.Metal,
	})
}

// AdjustPopulation 直接加减人口，结果不小于 0。
func (l *ResourceLedger) AdjustPopulation(loc domain.Location, delta float64) {
	st := l.get(loc)
	if st == nil {
		return
	}
	st.Population += delta
	if st.Population < 0 {
		st.Population = 0
	}
}

// Colonize 幂等，返回之前是否已殖民。
func (l *ResourceLedger) Colonize(loc domain.Location) bool {
	st := l.get(loc)
	if st == nil {
		return false
	}
	was := st.Colonized
	st.Colonized = true
	return was
}

func (l *ResourceLedger) SetRates(loc domain.Location, rates domain.Rates) bool {
	st := l.get(loc)
	if st == nil {
		return false
	}
	st.Rates = rates
	return true
}

func (l *ResourceLedger) Population(loc domain.Location) float64 {
	if st := l.get(loc); st != nil {
		return st.Population
	}
	return 0
}

func (l *ResourceLedger) Colonized(loc domain.Location) bool {
	st := l.get(loc)
	return st != nil && st.Colonized
}

func (l *ResourceLedger) Stock(loc domain.Location) domain.ResourceStock {
	if st := l.get(loc); st != nil {
		return st.Stock
	}
	return domain.ResourceStock{}
}

// Snapshot 按固定地点顺序返回拷贝。
func (l *ResourceLedger) Snapshot() []domain.LocationState {
	out := make([]domain.LocationState, 0, len(domain.Locations))
	for _, loc := range domain.Locations {
		out = append(out, *l.locs[loc])
	}
	return out
}

func (l *ResourceLedger) restore(states []domain.LocationState) {
	for _, st := range states {
		if !st.Location.Valid() {
			continue
		}
		cp := st
		if cp.Population < 0 {
			cp.Population = 0
		}
		l.locs[st.Location] = &cp
	}
	l.locs[domain.Home].Colonized = true
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
