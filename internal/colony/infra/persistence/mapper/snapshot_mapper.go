package mapper

import (
	"fmt"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
	"SpaceColony/internal/colony/infra/persistence/model"
)

// SnapshotToRecords 快照拆成平铺记录。
func SnapshotToRecords(s *entity.SimulationPersistSnapshot) *model.Records {
	id := string(s.SimID)
	out := &model.Records{
		Sim: model.SimRecord{
			SimID:          id,
			Version:        s.Version,
			NowMs:          s.NowMs,
			ShipSeq:        s.ShipSeq,
			Balance:        s.Credits.Balance,
			Invested:       s.Credits.Invested,
			InvestedAnchor: s.Credits.InvestedAnchor,
			AnchorMs:       s.Credits.AnchorMs,
		},
	}
	for _, t := range s.Timers {
		out.Timers = append(out.Timers, model.TimerRecord{SimID: id, Name: t.Name, NextDueMs: t.NextDueMs})
	}
	for _, l := range s.Locations {
		out.Locations = append(out.Locations, model.LocationRecord{
			SimID:      id,
			Location:   l.Location.Key(),
			Colonized:  l.Colonized,
			Population: l.Population,
			Food:       l.Stock.Food,
			Fuel:       l.Stock.Fuel,
			Metal:      l.Stock.Metal,
			Power:      l.Stock.Power,
			RateFood:   l.Rates.Food,
			RateFuel:   l.Rates.Fuel,
			RateMetal:  l.Rates.Metal,
			RatePower:  l.Rates.Power,
		})
	}
	for i := range s.Ships {
		out.Ships = append(out.Ships, shipToRecord(id, &s.Ships[i]))
	}
	for _, r := range s.Raiders {
		out.Raiders = append(out.Raiders, model.RaiderRecord{
			SimID:     id,
			RaiderID:  int(r.ID),
			Route:     r.Route.String(),
			HitCount:  r.HitCount,
			Destroyed: r.Destroyed,
			PosX:      r.Position.X,
			PosY:      r.Position.Y,
			PosZ:      r.Position.Z,
		})
	}
	for _, st := range s.Stations {
		out.Stations = append(out.Stations, model.StationRecord{SimID: id, Location: st.Location.Key(), DeployedAtMs: st.DeployedAtMs})
	}
	return out
}

func shipToRecord(simID string, sh *domain.Ship) model.ShipRecord {
	m := model.ShipRecord{
		SimID:        simID,
		ShipID:       int64(sh.ID),
		Type:         sh.Type.String(),
		State:        sh.State.String(),
		Location:     sh.Location.Key(),
		DestLocation: sh.Destination.Location.Key(),
		DestOp:       sh.Destination.Op.String(),
		CargoFood:    sh.Cargo.Food,
		CargoFuel:    sh.Cargo.Fuel,
		CargoMetal:   sh.Cargo.Metal,
		Fuel:         sh.Fuel,
		People:       sh.People,
		CombatKind:   sh.Combat.Kind.String(),
		CombatTarget: int(sh.Combat.Target),
		PosX:         sh.Position.X,
		PosY:         sh.Position.Y,
		PosZ:         sh.Position.Z,
		LastFiredMs:  sh.LastFiredMs,
	}
	if t := sh.Travel; t != nil {
		m.Traveling = true
		m.TravelOrigin = t.Origin.Key()
		m.TravelDestLoc = t.Destination.Location.Key()
		m.TravelDestOp = t.Destination.Op.String()
		m.DepartureMs = t.DepartureMs
		m.TotalTravelTime = t.TotalTravelTime
	}
	if h := sh.HomePosition; h != nil {
		m.HasHome = true
		m.HomeX, m.HomeY, m.HomeZ = h.X, h.Y, h.Z
	}
	return m
}

// RecordsToSnapshot 平铺记录还原成快照，枚举值不认识时报错。
func RecordsToSnapshot(r *model.Records) (*entity.SimulationPersistSnapshot, error) {
	if r == nil {
		return nil, fmt.Errorf("records is nil")
	}
	s := &entity.SimulationPersistSnapshot{
		Version: r.Sim.Version,
		SimID:   entity.SimID(r.Sim.SimID),
		NowMs:   r.Sim.NowMs,
		ShipSeq: r.Sim.ShipSeq,
		Credits: domain.CreditsAccount{
			Balance:        r.Sim.Balance,
			Invested:       r.Sim.Invested,
			InvestedAnchor: r.Sim.InvestedAnchor,
			AnchorMs:       r.Sim.AnchorMs,
		},
	}
	for _, t := range r.Timers {
		s.Timers = append(s.Timers, entity.TimerRecord{Name: t.Name, NextDueMs: t.NextDueMs})
	}
	for _, l := range r.Locations {
		loc, err := domain.ParseLocation(l.Location)
		if err != nil {
			return nil, err
		}
		s.Locations = append(s.Locations, domain.LocationState{
			Location:   loc,
			Colonized:  l.Colonized,
			Population: l.Population,
			Stock:      domain.ResourceStock{Food: l.Food, Fuel: l.Fuel, Metal: l.Metal, Power: l.Power},
			Rates:      domain.Rates{Food: l.RateFood, Fuel: l.RateFuel, Metal: l.RateMetal, Power: l.RatePower},
		})
	}
	for i := range r.Ships {
		sh, err := recordToShip(&r.Ships[i])
		if err != nil {
			return nil, err
		}
		s.Ships = append(s.Ships, sh)
	}
	for _, rr := range r.Raiders {
		route, err := domain.ParseRoute(rr.Route)
		if err != nil {
			return nil, err
		}
		s.Raiders = append(s.Raiders, domain.Raider{
			ID:        domain.RaiderID(rr.RaiderID),
			Route:     route,
			HitCount:  rr.HitCount,
			Destroyed: rr.Destroyed,
			Position:  domain.Vec3{X: rr.PosX, Y: rr.PosY, Z: rr.PosZ},
		})
	}
	for _, st := range r.Stations {
		loc, err := domain.ParseLocation(st.Location)
		if err != nil {
			return nil, err
		}
		s.Stations = append(s.Stations, domain.Station{Location: loc, DeployedAtMs: st.DeployedAtMs})
	}
	return s, nil
}

func recordToShip(m *model.ShipRecord) (domain.Ship, error) {
	var (
		sh  = domain.Ship{ID: domain.ShipID(m.ShipID), Fuel: m.Fuel, People: m.People, LastFiredMs: m.LastFiredMs}
		err error
	)
	if sh.Type, err = domain.ParseShipType(m.Type); err != nil {
		return sh, err
	}
	if sh.State, err = domain.ParseShipState(m.State); err != nil {
		return sh, err
	}
	if sh.Location, err = domain.ParseLocationKey(m.Location); err != nil {
		return sh, err
	}
	if sh.Destination, err = parseDestination(m.DestLocation, m.DestOp); err != nil {
		return sh, err
	}
	if sh.Combat.Kind, err = domain.ParseCombatKind(m.CombatKind); err != nil {
		return sh, err
	}
	sh.Combat.Target = domain.RaiderID(m.CombatTarget)
	sh.Cargo = domain.Cargo{Food: m.CargoFood, Fuel: m.CargoFuel, Metal: m.CargoMetal}
	sh.Position = domain.Vec3{X: m.PosX, Y: m.PosY, Z: m.PosZ}

	if m.Traveling {
		origin, err := domain.ParseLocationKey(m.TravelOrigin)
		if err != nil {
			return sh, err
		}
		dest, err := parseDestination(m.TravelDestLoc, m.TravelDestOp)
		if err != nil {
			return sh, err
		}
		sh.Travel = &domain.TravelOrder{
			Origin:          origin,
			Destination:     dest,
			DepartureMs:     m.DepartureMs,
			TotalTravelTime: m.TotalTravelTime,
		}
	}
	if m.HasHome {
		sh.HomePosition = &domain.Vec3{X: m.HomeX, Y: m.HomeY, Z: m.HomeZ}
	}
	return sh, nil
}

func parseDestination(loc, op string) (domain.Destination, error) {
	l, err := domain.ParseLocationKey(loc)
	if err != nil {
		return domain.Destination{}, err
	}
	o, err := domain.ParseOperation(op)
	if err != nil {
		return domain.Destination{}, err
	}
	return domain.Destination{Location: l, Op: o}, nil
}
