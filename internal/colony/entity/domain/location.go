package domain

import (
	"fmt"
	"math"
)

// Location 是可殖民/可停靠的四个地点。
type Location int8

const (
	LocationNone Location = iota
	Home
	Moon
	SecondaryPlanet
	StagingPoint
)

// Locations 固定遍历顺序，tick、快照、持久化都按这个顺序。
var Locations = [...]Location{Home, Moon, SecondaryPlanet, StagingPoint}

func (l Location) Valid() bool {
	return l >= Home && l <= StagingPoint
}

func (l Location) String() string {
	switch l {
	case Home:
		return "home"
	case Moon:
		return "moon"
	case SecondaryPlanet:
		return "secondary_planet"
	case StagingPoint:
		return "staging_point"
	default:
		return "none"
	}
}

// StationAllowed 空间站只能部署在 Home/Moon/SecondaryPlanet。
func (l Location) StationAllowed() bool {
	return l == Home || l == Moon || l == SecondaryPlanet
}

// Key 持久化用，LocationNone 记为空串。
func (l Location) Key() string {
	if !l.Valid() {
		return ""
	}
	return l.String()
}

// ParseLocationKey 是 Key 的逆操作。
func ParseLocationKey(s string) (Location, error) {
	if s == "" {
		return LocationNone, nil
	}
	return ParseLocation(s)
}

func ParseLocation(s string) (Location, error) {
	for _, l := range Locations {
		if l.String() == s {
			return l, nil
		}
	}
	return LocationNone, fmt.Errorf("unknown location %q", s)
}

// Vec3 是物理/表现层上报的坐标，核心只用它算距离。
type Vec3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

func (v Vec3) Valid() bool {
	return Finite(v.X) && Finite(v.Y) && Finite(v.Z)
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// DistanceSq 比较远近时用，省一次开方。
func DistanceSq(a, b Vec3) float64 {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

func Midpoint(a, b Vec3) Vec3 {
	return Vec3{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}
