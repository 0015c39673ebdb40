package colony

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
)

func TestLoad_仓库内配置与内置默认值一致(t *testing.T) {
	path := filepath.Join("..", "..", "..", "..", DefaultPath)
	rules, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := entity.DefaultRules()
	if rules.Timers != def.Timers {
		t.Fatalf("timers=%+v", rules.Timers)
	}
	if rules.Combat != def.Combat {
		t.Fatalf("combat=%+v", rules.Combat)
	}
	if rules.ShipCosts[domain.StationShip] != def.ShipCosts[domain.StationShip] {
		t.Fatalf("station cost=%+v", rules.ShipCosts[domain.StationShip])
	}
	for _, from := range domain.Locations {
		for _, to := range domain.Locations {
			if from == to {
				continue
			}
			dest := domain.ToLocation(to)
			if got, want := rules.Travel.TravelTime(from, dest), def.Travel.TravelTime(from, dest); got != want {
				t.Fatalf("%v->%v time=%v want=%v", from, to, got, want)
			}
			if got, want := rules.Travel.FuelRequired(from, dest), def.Travel.FuelRequired(from, dest); got != want {
				t.Fatalf("%v->%v fuel=%v want=%v", from, to, got, want)
			}
		}
	}
	if got := rules.Travel.TravelTime(domain.Moon, domain.ToOperation(domain.OpColonize)); got != 60 {
		t.Fatalf("moon->colonize=%v", got)
	}
}

func TestLoad_部分覆盖其余沿用默认(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colony.json")
	body := `{"combat":{"fire_cooldown_ms":1500,"fire_range":2,"home_radius":1,"hits_to_destroy":5},"initial_balance":0}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rules, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rules.Combat.FireCooldown != 1500*time.Millisecond || rules.Combat.HitsToDestroy != 5 {
		t.Fatalf("combat=%+v", rules.Combat)
	}
	if rules.InitialBalance != 0 {
		t.Fatalf("显式 0 余额应生效, got=%v", rules.InitialBalance)
	}
	if rules.Economy != entity.DefaultRules().Economy {
		t.Fatalf("economy 应保持默认")
	}
}

func TestLoad_未知地点报错(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colony.json")
	body := `{"initial":{"mars":{"colonized":true}}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("期望报错")
	}
}
