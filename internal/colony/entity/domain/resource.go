package domain

import (
	"fmt"
	"math"
)

// Resource 资源种类
type Resource int8

const (
	ResourceNone Resource = iota
	Food
	Fuel
	Metal
	Power
)

var Resources = [...]Resource{Food, Fuel, Metal, Power}

func (r Resource) String() string {
	switch r {
	case Food:
		return "food"
	case Fuel:
		return "fuel"
	case Metal:
		return "metal"
	case Power:
		return "power"
	default:
		return "none"
	}
}

func ParseResource(s string) (Resource, error) {
	for _, r := range Resources {
		if r.String() == s {
			return r, nil
		}
	}
	return ResourceNone, fmt.Errorf("unknown resource %q", s)
}

// ResourceStock 每个地点的库存，全部非负。
type ResourceStock struct {
	Food  float64 `json:"food" bson:"food"`
	Fuel  float64 `json:"fuel" bson:"fuel"`
	Metal float64 `json:"metal" bson:"metal"`
	Power float64 `json:"power" bson:"power"`
}

func (s *ResourceStock) Get(r Resource) float64 {
	switch r {
	case Food:
		return s.Food
	case Fuel:
		return s.Fuel
	case Metal:
		return s.Metal
	case Power:
		return s.Power
	default:
		return 0
	}
}

func (s *ResourceStock) Set(r Resource, v float64) {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	switch r {
	case Food:
		s.Food = v
	case Fuel:
		s.Fuel = v
	case Metal:
		s.Metal = v
	case Power:
		s.Power = v
	}
}

func (s *ResourceStock) Add(r Resource, delta float64) {
	s.Set(r, s.Get(r)+delta)
}

// Finite NaN、±Inf 都不算合法数量。
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidAmount 有限且非负。
func ValidAmount(v float64) bool {
	return Finite(v) && v >= 0
}

// Rates 每小时产量，可以为负（由外部建筑登记表给出）。
type Rates struct {
	Food  float64 `json:"food" bson:"food"`
	Fuel  float64 `json:"fuel" bson:"fuel"`
	Metal float64 `json:"metal" bson:"metal"`
	Power float64 `json:"power" bson:"power"`
}

// Valid 产量可以为负，但必须是有限值。
func (r Rates) Valid() bool {
	return Finite(r.Food) && Finite(r.Fuel) && Finite(r.Metal) && Finite(r.Power)
}

func (r Rates) Get(res Resource) float64 {
	switch res {
	case Food:
		return r.Food
	case Fuel:
		return r.Fuel
	case Metal:
		return r.Metal
	case Power:
		return r.Power
	default:
		return 0
	}
}

// Cargo 船舱货物（不含 power）。
type Cargo struct {
	Food  float64 `json:"food" bson:"food"`
	Fuel  float64 `json:"fuel" bson:"fuel"`
	Metal float64 `json:"metal" bson:"metal"`
}

func (c Cargo) Sum() float64 {
	return c.Food + c.Fuel + c.Metal
}

func (c Cargo) Valid() bool {
	return ValidAmount(c.Food) && ValidAmount(c.Fuel) && ValidAmount(c.Metal)
}

func (c Cargo) IsZero() bool {
	return c.Food == 0 && c.Fuel == 0 && c.Metal == 0
}

func (c Cargo) Plus(o Cargo) Cargo {
	return Cargo{Food: c.Food + o.Food, Fuel: c.Fuel + o.Fuel, Metal: c.Metal + o.Metal}
}

func (c Cargo) Minus(o Cargo) Cargo {
	return Cargo{Food: c.Food - o.Food, Fuel: c.Fuel - o.Fuel, Metal: c.Metal - o.Metal}
}

// Covers 判断 c 每一项都不少于 o。
func (c Cargo) Covers(o Cargo) bool {
	return c.Food >= o.Food && c.Fuel >= o.Fuel && c.Metal >= o.Metal
}
