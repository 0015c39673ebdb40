package entity

import (
	"SpaceColony/internal/colony/entity/domain"
)

func (s *Simulation) raider(id domain.RaiderID) *domain.Raider {
	for _, r := range s.raiders {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// visible 航线两端都有空间站且未被摧毁。
func (s *Simulation) visible(r *domain.Raider) bool {
	if r.Destroyed {
		return false
	}
	a, b := r.Route.Endpoints()
	_, okA := s.stations[a]
	_, okB := s.stations[b]
	return okA && okB
}

func (s *Simulation) visibleSet() map[domain.RaiderID]bool {
	out := make(map[domain.RaiderID]bool, len(s.raiders))
	for _, r := range s.raiders {
		out[r.ID] = s.visible(r)
	}
	return out
}

// nearest 按平方距离取最近的可见海盗；距离相等时保留列表里靠前的那个。
func (s *Simulation) nearest(from domain.Vec3) *domain.Raider {
	var best *domain.Raider
	bestD := 0.0
	for _, r := range s.raiders {
		if !s.visible(r) {
			continue
		}
		d := domain.DistanceSq(from, r.Position)
		if best == nil || d < bestD {
			best, bestD = r, d
		}
	}
	return best
}

// huntStep 自动索敌，每 0.5 秒一次。
func (s *Simulation) huntStep() {
	cr := s.rules.Combat
	s.fleet.Each(func(f *domain.Ship) bool {
		if f.Type != domain.FrigateShip {
			return true
		}
		switch f.Combat.Kind {
		case domain.CombatPatrolling:
			target := s.nearest(f.Position)
			if target == nil {
				f.Combat = domain.CombatState{Kind: domain.CombatReturning}
				s.emit(Event{Kind: EventFrigateReturning, ShipID: f.ID})
				return true
			}
			f.Combat = domain.CombatState{Kind: domain.CombatAttacking, Target: target.ID}
			s.emit(Event{Kind: EventFrigateTargeted, ShipID: f.ID, RaiderID: target.ID})

		case domain.CombatAttacking:
			target := s.raider(f.Combat.Target)
			if target == nil || !s.visible(target) {
				f.Combat = domain.CombatState{Kind: domain.CombatPatrolling}
				return true
			}
			if domain.Distance(f.Position, target.Position) > cr.FireRange {
				return true
			}
			if f.LastFiredMs != 0 && s.nowMs-f.LastFiredMs < cr.FireCooldown.Milliseconds() {
				return true
			}
			f.LastFiredMs = s.nowMs
			s.emit(Event{Kind: EventFrigateFired, ShipID: f.ID, RaiderID: target.ID})

		case domain.CombatReturning:
			if f.HomePosition == nil || domain.Distance(f.Position, *f.HomePosition) < cr.HomeRadius {
				f.Combat = domain.CombatState{Kind: domain.CombatIdle}
				f.HomePosition = nil
				s.emit(Event{Kind: EventFrigateIdle, ShipID: f.ID})
			}
		}
		return true
	})
}

// ReportHit 物理层的命中回报。命中数到上限时摧毁，追击它的护卫舰回到巡逻。
func (s *Simulation) ReportHit(id domain.RaiderID) error {
	r := s.raider(id)
	if r == nil {
		return reject(ReasonRaiderNotFound)
	}
	if !s.visible(r) {
		return reject(ReasonRaiderNotVisible)
	}
	r.HitCount++
	s.emit(Event{Kind: EventRaiderHit, RaiderID: id})
	if r.HitCount >= s.rules.Combat.HitsToDestroy {
		r.Destroyed = true
		s.emit(Event{Kind: EventRaiderDestroyed, RaiderID: id})
		s.fleet.Each(func(f *domain.Ship) bool {
			if f.Combat.Kind == domain.CombatAttacking && f.Combat.Target == id {
				f.Combat = domain.CombatState{Kind: domain.CombatPatrolling}
			}
			return true
		})
	}
	s.touch()
	return nil
}

// ReportRaiderPosition 每帧上报，已摧毁的也接受（只是不再参与索敌）。
func (s *Simulation) ReportRaiderPosition(id domain.RaiderID, pos domain.Vec3) error {
	if !pos.Valid() {
		return reject(ReasonInvalidAmount)
	}
	r := s.raider(id)
	if r == nil {
		return reject(ReasonRaiderNotFound)
	}
	r.Position = pos
	s.touch()
	return nil
}

// ReportShipPosition 护卫舰的追踪位置，用于索敌和回港判定。
func (s *Simulation) ReportShipPosition(id domain.ShipID, pos domain.Vec3) error {
	if !pos.Valid() {
		return reject(ReasonInvalidAmount)
	}
	ship, ok := s.fleet.Get(id)
	if !ok {
		return reject(ReasonShipNotFound)
	}
	ship.Position = pos
	s.touch()
	return nil
}
