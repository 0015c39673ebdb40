package entity

import (
	"math"

	"SpaceColony/internal/colony/entity/domain"
)

type routeKey struct {
	from domain.Location
	to   domain.Destination
}

type pairKey struct {
	a, b domain.Location
}

func newPairKey(a, b domain.Location) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// TravelTable 静态航程表。
// 航行时间：查表，查不到按参考坐标距离 / 速度取整兜底；
// 燃料：只查 4 个真实地点之间的表，查不到就是 0（没有距离兜底，动作目的地也是 0）。
type TravelTable struct {
	speed  float64
	coords map[domain.Location]domain.Vec3
	times  map[routeKey]float64
	fuel   map[pairKey]float64
}

func NewTravelTable(speed float64, coords map[domain.Location]domain.Vec3) *TravelTable {
	if speed <= 0 {
		speed = 1
	}
	c := make(map[domain.Location]domain.Vec3, len(coords))
	for k, v := range coords {
		c[k] = v
	}
	return &TravelTable{
		speed:  speed,
		coords: c,
		times:  make(map[routeKey]float64),
		fuel:   make(map[pairKey]float64),
	}
}

// SetTravelTime 地点之间双向生效；动作目的地只登记 from -> op。
func (t *TravelTable) SetTravelTime(from domain.Location, to domain.Destination, seconds float64) {
	t.times[routeKey{from: from, to: to}] = seconds
	if !to.IsOperation() && to.Location.Valid() {
		t.times[routeKey{from: to.Location, to: domain.ToLocation(from)}] = seconds
	}
}

func (t *TravelTable) SetFuel(a, b domain.Location, fuel float64) {
	t.fuel[newPairKey(a, b)] = fuel
}

func (t *TravelTable) Coord(l domain.Location) domain.Vec3 {
	return t.coords[l]
}

func (t *TravelTable) Speed() float64 {
	return t.speed
}

// TravelTime 单位秒
func (t *TravelTable) TravelTime(origin domain.Location, dest domain.Destination) float64 {
	if v, ok := t.times[routeKey{from: origin, to: dest}]; ok {
		return v
	}
	target := Resolve(origin, dest)
	d := domain.Distance(t.coords[origin], t.coords[target])
	return math.Round(d / t.speed)
}

func (t *TravelTable) FuelRequired(origin domain.Location, dest domain.Destination) float64 {
	if dest.IsOperation() || !dest.Location.Valid() {
		return 0
	}
	return t.fuel[newPairKey(origin, dest.Location)]
}

// Resolve 把目的地解析成具体地点。动作标签沿贸易链取下一站：
// Home/StagingPoint -> Moon，Moon -> SecondaryPlanet；SecondaryPlanet 无下一站，默认 Moon。
func Resolve(origin domain.Location, dest domain.Destination) domain.Location {
	if !dest.IsOperation() {
		return dest.Location
	}
	switch origin {
	case domain.Moon:
		return domain.SecondaryPlanet
	default:
		return domain.Moon
	}
}

// DefaultTravelTable 内置航程表，gameconfig 缺省时使用。
func DefaultTravelTable() *TravelTable {
	t := NewTravelTable(2, map[domain.Location]domain.Vec3{
		domain.Home:            {X: 0, Y: 0, Z: 0},
		domain.Moon:            {X: 30, Y: 0, Z: 0},
		domain.SecondaryPlanet: {X: 120, Y: 0, Z: 0},
		domain.StagingPoint:    {X: 0, Y: 15, Z: 0},
	})

	loc := domain.ToLocation
	t.SetTravelTime(domain.Home, loc(domain.Moon), 20)
	t.SetTravelTime(domain.Home, loc(domain.StagingPoint), 10)
	t.SetTravelTime(domain.Home, loc(domain.SecondaryPlanet), 80)
	t.SetTravelTime(domain.Moon, loc(domain.StagingPoint), 15)
	t.SetTravelTime(domain.Moon, loc(domain.SecondaryPlanet), 60)

	for _, op := range domain.Operations {
		t.SetTravelTime(domain.Home, domain.ToOperation(op), 20)
		t.SetTravelTime(domain.Moon, domain.ToOperation(op), 60)
		t.SetTravelTime(domain.StagingPoint, domain.ToOperation(op), 15)
	}

	t.SetFuel(domain.Home, domain.Moon, 7)
	t.SetFuel(domain.Home, domain.StagingPoint, 3)
	t.SetFuel(domain.Home, domain.SecondaryPlanet, 14)
	t.SetFuel(domain.Moon, domain.StagingPoint, 5)
	t.SetFuel(domain.Moon, domain.SecondaryPlanet, 10)
	return t
}
