package entity

import (
	"SpaceColony/internal/colony/entity/domain"
)

// BuildShip 在已殖民地点造船：金属、能源、信用点一起扣，任何一项不够都不扣。
func (s *Simulation) BuildShip(t domain.ShipType, loc domain.Location) (domain.ShipID, error) {
	if !t.Valid() {
		return 0, reject(ReasonInvalidShipType)
	}
	if !loc.Valid() {
		return 0, reject(ReasonInvalidLocation)
	}
	if !s.res.Colonized(loc) {
		return 0, reject(ReasonNotColonized)
	}
	cost := s.rules.ShipCosts[t]
	if s.credits.Balance() < cost.Credits {
		return 0, reject(ReasonInsufficientCredits)
	}
	if !s.res.SpendAll(loc, map[domain.Resource]float64{domain.Metal: cost.Metal, domain.Power: cost.Power}) {
		return 0, reject(ReasonInsufficientStock)
	}
	s.credits.Spend(cost.Credits)

	id := s.nextShipID()
	s.fleet.Add(&domain.Ship{
		ID:       id,
		Type:     t,
		State:    domain.Docked,
		Location: loc,
		Position: s.rules.Travel.Coord(loc),
	})
	s.emit(Event{Kind: EventShipBuilt, ShipID: id, Location: loc, Detail: t.String()})
	s.touch()
	return id, nil
}

// AddShip 直接登记一艘停靠的空船（初始舰队、测试）。
func (s *Simulation) AddShip(t domain.ShipType, loc domain.Location) domain.ShipID {
	id := s.nextShipID()
	s.fleet.Add(&domain.Ship{ID: id, Type: t, State: domain.Docked, Location: loc, Position: s.rules.Travel.Coord(loc)})
	s.touch()
	return id
}

func (s *Simulation) nextShipID() domain.ShipID {
	if s.idGen != nil {
		return domain.ShipID(s.idGen())
	}
	s.seq++
	return domain.ShipID(s.seq)
}

// LoadFuel 从当地库存加燃料，燃料和货物共享容量。
func (s *Simulation) LoadFuel(id domain.ShipID, amount float64) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if !domain.ValidAmount(amount) || amount == 0 {
		return reject(ReasonInvalidAmount)
	}
	if !ship.Fits(amount) {
		return reject(ReasonCapacityExceeded)
	}
	if !s.res.Spend(ship.Location, domain.Fuel, amount) {
		return reject(ReasonInsufficientStock)
	}
	ship.Fuel += amount
	s.touch()
	return nil
}

func (s *Simulation) LoadCargo(id domain.ShipID, c domain.Cargo) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if !c.Valid() || c.IsZero() {
		return reject(ReasonInvalidAmount)
	}
	if !ship.Fits(c.Sum()) {
		return reject(ReasonCapacityExceeded)
	}
	if !s.res.SpendCargo(ship.Location, c) {
		return reject(ReasonInsufficientStock)
	}
	ship.Cargo = ship.Cargo.Plus(c)
	s.touch()
	return nil
}

func (s *Simulation) UnloadCargo(id domain.ShipID, c domain.Cargo) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if !c.Valid() || c.IsZero() || !ship.Cargo.Covers(c) {
		return reject(ReasonInvalidAmount)
	}
	ship.Cargo = ship.Cargo.Minus(c)
	s.res.CreditCargo(ship.Location, c)
	s.touch()
	return nil
}

// LoadPeople 只有殖民船能载人，上限 MaxPeople，当地人口必须够。
func (s *Simulation) LoadPeople(id domain.ShipID, n int) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if ship.Type != domain.ColonyShip {
		return reject(ReasonWrongShipType)
	}
	if n <= 0 {
		return reject(ReasonInvalidAmount)
	}
	if ship.People+n > domain.MaxPeople {
		return reject(ReasonPeopleLimit)
	}
	if s.res.Population(ship.Location) < float64(n) {
		return reject(ReasonInsufficientPeople)
	}
	s.res.AdjustPopulation(ship.Location, -float64(n))
	ship.People += n
	s.touch()
	return nil
}

func (s *Simulation) UnloadPeople(id domain.ShipID, n int) error {
	ship, err := s.fleet.docked(id)
	if err != nil {
		return err
	}
	if ship.Type != domain.ColonyShip {
		return reject(ReasonWrongShipType)
	}
	if n <= 0 || n > ship.People {
		return reject(ReasonInvalidAmount)
	}
	ship.People -= n
	s.res.AdjustPopulation(ship.Location, float64(n))
	s.touch()
	return nil
}
