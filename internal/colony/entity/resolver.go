package entity

import (
	"SpaceColony/internal/colony/entity/domain"
)

// SetDestination 只能给停靠中的船设置。
func (s *Simulation) SetDestination(id domain.ShipID, dest domain.Destination) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if !dest.IsSet() {
		return reject(ReasonDestinationUnset)
	}
	if dest.IsOperation() && dest.Location != domain.LocationNone {
		return reject(ReasonDestinationInvalid)
	}
	ship.Destination = dest
	s.emit(Event{Kind: EventDestinationSet, ShipID: id, Location: ship.Location, Detail: dest.String()})
	s.touch()
	return nil
}

// Launch Docked -> Preparing -> Traveling。守卫全部通过才会改状态。
func (s *Simulation) Launch(id domain.ShipID) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	dest := ship.Destination
	if !dest.IsSet() {
		return reject(ReasonDestinationUnset)
	}
	if !dest.IsOperation() && dest.Location == ship.Location {
		return reject(ReasonDestinationSame)
	}
	if ship.Type == domain.FrigateShip && ship.Combat.Kind != domain.CombatIdle {
		return reject(ReasonFrigateBusy)
	}
	table := s.rules.Travel
	if ship.Fuel < table.FuelRequired(ship.Location, dest) {
		return reject(ReasonInsufficientFuel)
	}

	origin := ship.Location
	ship.State = domain.Preparing
	s.emit(Event{Kind: EventShipPreparing, ShipID: id, Location: origin})

	ship.Travel = &domain.TravelOrder{
		Origin:          origin,
		Destination:     dest,
		DepartureMs:     s.nowMs,
		TotalTravelTime: table.TravelTime(origin, dest),
	}
	ship.State = domain.Traveling
	ship.Location = domain.LocationNone
	s.emit(Event{Kind: EventShipLaunched, ShipID: id, Location: origin, Detail: dest.String()})
	s.touch()
	return nil
}

func (s *Simulation) scanArrivals() {
	var due []*domain.Ship
	s.fleet.Each(func(sh *domain.Ship) bool {
		if sh.State == domain.Traveling && sh.Travel != nil && sh.Travel.Due(s.nowMs) {
			due = append(due, sh)
		}
		return true
	})
	for _, sh := range due {
		s.arrive(sh)
	}
}

// arrive 到达：解析目的地，燃料清零，offload 时货物入库。
func (s *Simulation) arrive(ship *domain.Ship) {
	order := ship.Travel
	at := Resolve(order.Origin, order.Destination)

	ship.State = domain.Docked
	ship.Location = at
	ship.Fuel = 0
	ship.Travel = nil
	ship.Position = s.rules.Travel.Coord(at)
	s.emit(Event{Kind: EventShipArrived, ShipID: ship.ID, Location: at, Detail: order.Destination.String()})

	if order.Destination.Op == domain.OpOffload && !ship.Cargo.IsZero() {
		s.res.CreditCargo(at, ship.Cargo)
		ship.Cargo = domain.Cargo{}
		s.emit(Event{Kind: EventCargoOffloaded, ShipID: ship.ID, Location: at})
	}
	s.touch()
}

// Colonize 消耗殖民船：人口和货物并入当地，当地标记为已殖民（幂等）。
func (s *Simulation) Colonize(id domain.ShipID) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if ship.Type != domain.ColonyShip {
		return reject(ReasonWrongShipType)
	}
	if ship.Destination.Op != domain.OpColonize {
		return reject(ReasonNotColonizeOrder)
	}
	loc := ship.Location
	s.res.AdjustPopulation(loc, float64(ship.People))
	s.res.CreditCargo(loc, ship.Cargo)
	was := s.res.Colonize(loc)
	s.fleet.Remove(id)

	detail := "new"
	if was {
		detail = "reinforced"
	}
	s.emit(Event{Kind: EventLocationColonized, ShipID: id, Location: loc, Detail: detail})
	s.touch()
	return nil
}

// DeployStation 消耗空间站船。StagingPoint 不允许，每地最多一个。
func (s *Simulation) DeployStation(id domain.ShipID) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if ship.Type != domain.StationShip {
		return reject(ReasonWrongShipType)
	}
	loc := ship.Location
	if !loc.StationAllowed() {
		return reject(ReasonLocationDisallowed)
	}
	if _, ok := s.stations[loc]; ok {
		return reject(ReasonStationExists)
	}

	before := s.visibleSet()
	s.stations[loc] = &domain.Station{Location: loc, DeployedAtMs: s.nowMs}
	s.fleet.Remove(id)
	s.emit(Event{Kind: EventStationDeployed, ShipID: id, Location: loc})
	for _, r := range s.raiders {
		if !before[r.ID] && s.visible(r) {
			s.emit(Event{Kind: EventRaiderAppeared, RaiderID: r.ID, Detail: r.Route.String()})
		}
	}
	s.touch()
	return nil
}

// DeployFrigate 护卫舰转入巡逻，记录出发点；船不消耗。
func (s *Simulation) DeployFrigate(id domain.ShipID) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if ship.Type != domain.FrigateShip {
		return reject(ReasonWrongShipType)
	}
	if ship.Combat.Kind != domain.CombatIdle {
		return reject(ReasonFrigateBusy)
	}
	home := ship.Position
	ship.HomePosition = &home
	ship.Combat = domain.CombatState{Kind: domain.CombatPatrolling}
	s.emit(Event{Kind: EventFrigateDeployed, ShipID: id, Location: ship.Location})
	s.touch()
	return nil
}
