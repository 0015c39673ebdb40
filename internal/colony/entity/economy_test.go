package entity

import (
	"testing"

	"SpaceColony/internal/colony/entity/domain"
)

func TestResourceLedger_Spend_原子检查扣减(t *testing.T) {
	l := NewResourceLedger(DefaultRules().Initial)
	if l.Spend(domain.Home, domain.Fuel, 1000) {
		t.Fatalf("库存不足应返回 false")
	}
	if got := l.Stock(domain.Home).Fuel; got != 80 {
		t.Fatalf("fuel=%v want 80", got)
	}
	if l.Spend(domain.Home, domain.Fuel, -1) {
		t.Fatalf("负数不允许")
	}
	if !l.SpendAll(domain.Home, map[domain.Resource]float64{domain.Metal: 100, domain.Power: 50}) {
		t.Fatalf("刚好够应成功")
	}
	if l.SpendAll(domain.Home, map[domain.Resource]float64{domain.Food: 1, domain.Metal: 1}) {
		t.Fatalf("metal 已经为 0，应整体失败")
	}
	if got := l.Stock(domain.Home).Food; got != 50 {
		t.Fatalf("整体失败时不应扣 food，got=%v", got)
	}
}

func TestResourceLedger_未殖民地点不产出_负产量不低于0(t *testing.T) {
	l := NewResourceLedger(map[domain.Location]InitialLocation{
		domain.Home: {Stock: domain.ResourceStock{Power: 0.001}, Rates: domain.Rates{Power: -3600}},
		domain.Moon: {Rates: domain.Rates{Food: 3600}, Population: 10},
	})
	if !l.Colonized(domain.Home) {
		t.Fatalf("母星永远已殖民")
	}
	l.Tick(1, 1.0/360000)
	if got := l.Stock(domain.Home).Power; got != 0 {
		t.Fatalf("power=%v want 0", got)
	}
	if got := l.Stock(domain.Moon).Food; got != 0 {
		t.Fatalf("未殖民地点不应产出，food=%v", got)
	}
	if was := l.Colonize(domain.Moon); was {
		t.Fatalf("第一次殖民 was 应为 false")
	}
	if was := l.Colonize(domain.Moon); !was {
		t.Fatalf("第二次殖民 was 应为 true")
	}
	l.Tick(1, 1.0/360000)
	if got := l.Stock(domain.Moon).Food; got != 1 {
		t.Fatalf("food=%v want 1", got)
	}
}
