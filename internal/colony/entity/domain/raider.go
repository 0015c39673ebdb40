package domain

import "fmt"

type RaiderID int

// Route 海盗出没的贸易航线
type Route int8

const (
	RouteNone Route = iota
	RouteHomeMoon
	RouteMoonSecondary
)

func (r Route) Endpoints() (Location, Location) {
	switch r {
	case RouteHomeMoon:
		return Home, Moon
	case RouteMoonSecondary:
		return Moon, SecondaryPlanet
	default:
		return LocationNone, LocationNone
	}
}

func (r Route) String() string {
	switch r {
	case RouteHomeMoon:
		return "home_moon"
	case RouteMoonSecondary:
		return "moon_secondary_planet"
	default:
		return "none"
	}
}

func ParseRoute(s string) (Route, error) {
	for _, r := range [...]Route{RouteHomeMoon, RouteMoonSecondary} {
		if r.String() == s {
			return r, nil
		}
	}
	return RouteNone, fmt.Errorf("unknown route %q", s)
}

// Raider 被摧毁后永不刷新。
type Raider struct {
	ID        RaiderID `json:"id"`
	Route     Route    `json:"route"`
	HitCount  int      `json:"hit_count"`
	Destroyed bool     `json:"destroyed"`
	Position  Vec3     `json:"position"`
}

// Station 每个地点最多一个。
type Station struct {
	Location     Location `json:"location"`
	DeployedAtMs int64    `json:"deployed_at_ms"`
}

// CreditsAccount 余额与投资额。InvestedAnchor 是最近一次存取时的本金，
// 当前投资额 = InvestedAnchor * (1+r)^(now-AnchorMs)。
type CreditsAccount struct {
	Balance        float64 `json:"balance"`
	Invested       float64 `json:"invested"`
	InvestedAnchor float64 `json:"invested_anchor"`
	AnchorMs       int64   `json:"anchor_ms"`
}

// LocationState 单个地点的经济状态
type LocationState struct {
	Location   Location      `json:"location"`
	Colonized  bool          `json:"colonized"`
	Stock      ResourceStock `json:"stock"`
	Rates      Rates         `json:"rates"`
	Population float64       `json:"population"`
}
