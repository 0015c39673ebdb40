package colony

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
	"SpaceColony/internal/shared/config"
)

const DefaultPath = "configs/gameconfig/colony.json"

type timersMs struct {
	Resource   int64 `json:"resource"`
	Credits    int64 `json:"credits"`
	Investment int64 `json:"investment"`
	Arrival    int64 `json:"arrival"`
	Combat     int64 `json:"combat"`
}

type economy struct {
	GrowthPerSecond        float64 `json:"growth_per_second"`
	IncomePerCapitaPerHour float64 `json:"income_per_capita_per_hour"`
	TradeBonusPerHour      float64 `json:"trade_bonus_per_hour"`
	StationsForTrade       int     `json:"stations_for_trade"`
	FleetUpkeepPerHour     float64 `json:"fleet_upkeep_per_hour"`
	InvestmentRatePerHour  float64 `json:"investment_rate_per_hour"`
}

type combat struct {
	FireCooldownMs int64   `json:"fire_cooldown_ms"`
	FireRange      float64 `json:"fire_range"`
	HomeRadius     float64 `json:"home_radius"`
	HitsToDestroy  int     `json:"hits_to_destroy"`
}

type route struct {
	From    string  `json:"from"`
	To      string  `json:"to"` // 地点或动作标签
	Seconds float64 `json:"seconds"`
}

type fuelCost struct {
	A    string  `json:"a"`
	B    string  `json:"b"`
	Fuel float64 `json:"fuel"`
}

type travel struct {
	Speed  float64               `json:"speed"`
	Coords map[string][3]float64 `json:"coords"`
	Times  []route               `json:"times"`
	Fuel   []fuelCost            `json:"fuel"`
}

type shipCost struct {
	Metal   float64 `json:"metal"`
	Power   float64 `json:"power"`
	Credits float64 `json:"credits"`
}

type initial struct {
	Colonized  bool                 `json:"colonized"`
	Population float64              `json:"population"`
	Stock      domain.ResourceStock `json:"stock"`
	Rates      domain.Rates         `json:"rates"`
}

// File colony.json 的结构。缺省的段落沿用内置默认值。
type File struct {
	Timers         *timersMs           `json:"timers_ms"`
	Economy        *economy            `json:"economy"`
	Combat         *combat             `json:"combat"`
	Travel         *travel             `json:"travel"`
	ShipCosts      map[string]shipCost `json:"ship_costs"`
	Initial        map[string]initial  `json:"initial"`
	InitialBalance *float64            `json:"initial_balance"`
	EventBuffer    int                 `json:"event_buffer"`
}

// Load 读取并转换成模拟规则；path 为空时向上查找默认位置，找不到就用内置默认值。
func Load(path string) (entity.Rules, error) {
	if path == "" {
		p, ok := config.FindUpward(DefaultPath)
		if !ok {
			return entity.DefaultRules(), nil
		}
		path = p
	} else if p, ok := config.FindUpward(path); ok {
		// 相对路径按当前目录向上找，和 conf.yml 的定位方式一致
		path = p
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return entity.Rules{}, fmt.Errorf("load colony config failed: read %q: %w", path, err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return entity.Rules{}, fmt.Errorf("load colony config failed: unmarshal %q: %w", path, err)
	}
	rules, err := f.Rules()
	if err != nil {
		return entity.Rules{}, fmt.Errorf("load colony config failed: %q: %w", path, err)
	}
	return rules, nil
}

func ms(v int64, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return time.Duration(v) * time.Millisecond
}

func (f *File) Rules() (entity.Rules, error) {
	r := entity.DefaultRules()

	if t := f.Timers; t != nil {
		r.Timers = entity.Timers{
			Resource:   ms(t.Resource, r.Timers.Resource),
			Credits:    ms(t.Credits, r.Timers.Credits),
			Investment: ms(t.Investment, r.Timers.Investment),
			Arrival:    ms(t.Arrival, r.Timers.Arrival),
			Combat:     ms(t.Combat, r.Timers.Combat),
		}
	}
	if e := f.Economy; e != nil {
		r.Economy = entity.EconomyRules(*e)
	}
	if c := f.Combat; c != nil {
		r.Combat = entity.CombatRules{
			FireCooldown:  ms(c.FireCooldownMs, r.Combat.FireCooldown),
			FireRange:     c.FireRange,
			HomeRadius:    c.HomeRadius,
			HitsToDestroy: c.HitsToDestroy,
		}
	}
	if f.Travel != nil {
		t, err := f.Travel.table()
		if err != nil {
			return entity.Rules{}, err
		}
		r.Travel = t
	}
	if len(f.ShipCosts) > 0 {
		r.ShipCosts = make(map[domain.ShipType]entity.ShipCost, len(f.ShipCosts))
		for name, c := range f.ShipCosts {
			st, err := domain.ParseShipType(name)
			if err != nil {
				return entity.Rules{}, err
			}
			r.ShipCosts[st] = entity.ShipCost(c)
		}
	}
	if len(f.Initial) > 0 {
		r.Initial = make(map[domain.Location]entity.InitialLocation, len(f.Initial))
		for name, in := range f.Initial {
			loc, err := domain.ParseLocation(name)
			if err != nil {
				return entity.Rules{}, err
			}
			r.Initial[loc] = entity.InitialLocation(in)
		}
	}
	if f.InitialBalance != nil {
		r.InitialBalance = *f.InitialBalance
	}
	if f.EventBuffer > 0 {
		r.EventBuffer = f.EventBuffer
	}
	return r, nil
}

func (t *travel) table() (*entity.TravelTable, error) {
	coords := make(map[domain.Location]domain.Vec3, len(t.Coords))
	for name, c := range t.Coords {
		loc, err := domain.ParseLocation(name)
		if err != nil {
			return nil, err
		}
		coords[loc] = domain.Vec3{X: c[0], Y: c[1], Z: c[2]}
	}
	tbl := entity.NewTravelTable(t.Speed, coords)
	for _, rt := range t.Times {
		from, err := domain.ParseLocation(rt.From)
		if err != nil {
			return nil, err
		}
		to, err := domain.ParseDestination(rt.To)
		if err != nil {
			return nil, err
		}
		if !to.IsSet() {
			return nil, fmt.Errorf("travel time from %q: empty destination", rt.From)
		}
		tbl.SetTravelTime(from, to, rt.Seconds)
	}
	for _, fc := range t.Fuel {
		a, err := domain.ParseLocation(fc.A)
		if err != nil {
			return nil, err
		}
		b, err := domain.ParseLocation(fc.B)
		if err != nil {
			return nil, err
		}
		tbl.SetFuel(a, b, fc.Fuel)
	}
	return tbl, nil
}
