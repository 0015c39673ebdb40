package entity

import (
	"time"

	"SpaceColony/internal/colony/entity/domain"
)

// Timers 各子系统固定步长
type Timers struct {
	Resource   time.Duration
	Credits    time.Duration
	Investment time.Duration
	Arrival    time.Duration
	Combat     time.Duration
}

type EconomyRules struct {
	GrowthPerSecond        float64 // 人口每秒增长/衰减系数，1/360000 ≈ 每小时 1%
	IncomePerCapitaPerHour float64
	TradeBonusPerHour      float64
	StationsForTrade       int
	FleetUpkeepPerHour     float64 // 固定值，负数
	InvestmentRatePerHour  float64
}

type CombatRules struct {
	FireCooldown  time.Duration
	FireRange     float64
	HomeRadius    float64
	HitsToDestroy int
}

type ShipCost struct {
	Metal   float64
	Power   float64
	Credits float64
}

type InitialLocation struct {
	Colonized  bool
	Population float64
	Stock      domain.ResourceStock
	Rates      domain.Rates
}

type Rules struct {
	Timers         Timers
	Economy        EconomyRules
	Combat         CombatRules
	Travel         *TravelTable
	ShipCosts      map[domain.ShipType]ShipCost
	Initial        map[domain.Location]InitialLocation
	InitialBalance float64
	EventBuffer    int
}

func DefaultRules() Rules {
	return Rules{
		Timers: Timers{
			Resource:   time.Second,
			Credits:    time.Second,
			Investment: time.Second,
			Arrival:    time.Second,
			Combat:     500 * time.Millisecond,
		},
		Economy: EconomyRules{
			GrowthPerSecond:        1.0 / 360000,
			IncomePerCapitaPerHour: 0.05,
			TradeBonusPerHour:      10,
			StationsForTrade:       3,
			FleetUpkeepPerHour:     -1,
			InvestmentRatePerHour:  0.005,
		},
		Combat: CombatRules{
			FireCooldown:  2 * time.Second,
			FireRange:     1,
			HomeRadius:    0.5,
			HitsToDestroy: 3,
		},
		Travel: DefaultTravelTable(),
		ShipCosts: map[domain.ShipType]ShipCost{
			domain.ColonyShip:  {Metal: 20, Power: 10, Credits: 50},
			domain.CargoShip:   {Metal: 15, Power: 5, Credits: 30},
			domain.StationShip: {Metal: 40, Power: 20, Credits: 100},
			domain.FrigateShip: {Metal: 30, Power: 15, Credits: 80},
		},
		Initial: map[domain.Location]InitialLocation{
			domain.Home: {
				Colonized:  true,
				Population: 100,
				Stock:      domain.ResourceStock{Food: 50, Fuel: 80, Metal: 100, Power: 50},
				Rates:      domain.Rates{Food: 5, Fuel: 4, Metal: 3, Power: 2},
			},
		},
		InitialBalance: 100,
		EventBuffer:    256,
	}
}

// normalize 补齐缺失项，避免零值步长导致死循环。
func (r Rules) normalize() Rules {
	def := DefaultRules()
	if r.Timers.Resource <= 0 {
		r.Timers.Resource = def.Timers.Resource
	}
	if r.Timers.Credits <= 0 {
		r.Timers.Credits = def.Timers.Credits
	}
	if r.Timers.Investment <= 0 {
		r.Timers.Investment = def.Timers.Investment
	}
	if r.Timers.Arrival <= 0 {
		r.Timers.Arrival = def.Timers.Arrival
	}
	if r.Timers.Combat <= 0 {
		r.Timers.Combat = def.Timers.Combat
	}
	if r.Combat.HitsToDestroy <= 0 {
		r.Combat.HitsToDestroy = def.Combat.HitsToDestroy
	}
	if r.Travel == nil {
		r.Travel = def.Travel
	}
	if r.ShipCosts == nil {
		r.ShipCosts = def.ShipCosts
	}
	if r.Initial == nil {
		r.Initial = def.Initial
	}
	if r.EventBuffer <= 0 {
		r.EventBuffer = def.EventBuffer
	}
	return r
}
