package entity

import (
	"testing"

	"SpaceColony/internal/colony/entity/domain"
)

func TestTravelTable_查表_对称_未登记按距离兜底(t *testing.T) {
	tt := DefaultTravelTable()
	loc := domain.ToLocation

	if got := tt.TravelTime(domain.Home, loc(domain.Moon)); got != 20 {
		t.Fatalf("home->moon=%v", got)
	}
	if got := tt.TravelTime(domain.Moon, loc(domain.Home)); got != 20 {
		t.Fatalf("moon->home=%v", got)
	}
	// (0,15,0) -> (120,0,0)，距离约 120.93，速度 2
	if got := tt.TravelTime(domain.StagingPoint, loc(domain.SecondaryPlanet)); got != 60 {
		t.Fatalf("staging->secondary=%v want 60", got)
	}
	// 次级行星的动作目的地没有登记，按默认 Moon 距离 90/2
	if got := tt.TravelTime(domain.SecondaryPlanet, domain.ToOperation(domain.OpLand)); got != 45 {
		t.Fatalf("secondary->land=%v want 45", got)
	}
}

func TestTravelTable_燃料没有兜底_未登记和动作目的地都是0(t *testing.T) {
	tt := DefaultTravelTable()
	if got := tt.FuelRequired(domain.Moon, domain.ToLocation(domain.Home)); got != 7 {
		t.Fatalf("moon->home fuel=%v", got)
	}
	if got := tt.FuelRequired(domain.StagingPoint, domain.ToLocation(domain.SecondaryPlanet)); got != 0 {
		t.Fatalf("未登记航线燃料应为 0，got=%v", got)
	}
	if got := tt.FuelRequired(domain.Home, domain.ToOperation(domain.OpColonize)); got != 0 {
		t.Fatalf("动作目的地燃料应为 0，got=%v", got)
	}
}

func TestResolve_动作目的地沿贸易链(t *testing.T) {
	op := domain.ToOperation(domain.OpOffload)
	cases := map[domain.Location]domain.Location{
		domain.Home:            domain.Moon,
		domain.StagingPoint:    domain.Moon,
		domain.Moon:            domain.SecondaryPlanet,
		domain.SecondaryPlanet: domain.Moon,
	}
	for from, want := range cases {
		if got := Resolve(from, op); got != want {
			t.Fatalf("Resolve(%s)=%s want %s", from, got, want)
		}
	}
	if got := Resolve(domain.Home, domain.ToLocation(domain.StagingPoint)); got != domain.StagingPoint {
		t.Fatalf("地点目的地应原样返回，got=%s", got)
	}
}
