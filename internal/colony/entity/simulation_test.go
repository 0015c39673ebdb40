package entity

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"SpaceColony/internal/colony/entity/domain"
	"SpaceColony/modules/kit/errx"
)

const hourMs = int64(3600 * 1000)

func newTestSim(t *testing.T) *Simulation {
	t.Helper()
	return NewSimulation("sim-test", DefaultRules(), 0)
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("期望成功，got=%v", err)
	}
}

func mustReject(t *testing.T, err error, want Reason) {
	t.Helper()
	if err == nil {
		t.Fatalf("期望被拒绝(%s)，实际成功", want)
	}
	if !errx.IsRejected(err) {
		t.Fatalf("期望守卫拒绝，got=%v", err)
	}
	if got := errx.ReasonOf(err); got != string(want) {
		t.Fatalf("reason=%q want=%q", got, want)
	}
}

func TestLaunch_殖民船母星到月球_20秒后停靠且燃料清零(t *testing.T) {
	s := newTestSim(t)
	home, _ := s.Location(domain.Home)
	if home.Population != 100 || home.Stock.Fuel != 80 {
		t.Fatalf("初始状态不对: %+v", home)
	}

	id := s.AddShip(domain.ColonyShip, domain.Home)
	mustOK(t, s.SetDestination(id, domain.ToLocation(domain.Moon)))
	mustOK(t, s.LoadFuel(id, 7))
	mustOK(t, s.Launch(id))

	ship, _ := s.Ship(id)
	if ship.State != domain.Traveling || ship.Travel == nil || ship.Travel.TotalTravelTime != 20 {
		t.Fatalf("起飞后状态不对: %+v", ship)
	}

	s.Advance(19_000)
	if ship, _ = s.Ship(id); ship.State != domain.Traveling {
		t.Fatalf("19 秒时不应到达: %+v", ship)
	}

	s.Advance(20_000)
	ship, _ = s.Ship(id)
	if ship.State != domain.Docked || ship.Location != domain.Moon {
		t.Fatalf("期望停靠月球，got state=%s loc=%s", ship.State, ship.Location)
	}
	if ship.Fuel != 0 || ship.Travel != nil {
		t.Fatalf("到达后燃料/航行单应清空: %+v", ship)
	}
}

func TestLaunch_守卫失败不改状态(t *testing.T) {
	s := newTestSim(t)
	id := s.AddShip(domain.ColonyShip, domain.Home)

	mustReject(t, s.Launch(id), ReasonDestinationUnset)

	mustOK(t, s.SetDestination(id, domain.ToLocation(domain.Home)))
	mustReject(t, s.Launch(id), ReasonDestinationSame)

	mustOK(t, s.SetDestination(id, domain.ToLocation(domain.Moon)))
	mustOK(t, s.LoadFuel(id, 6))
	mustReject(t, s.Launch(id), ReasonInsufficientFuel)

	ship, _ := s.Ship(id)
	if ship.State != domain.Docked || ship.Location != domain.Home || ship.Fuel != 6 {
		t.Fatalf("被拒绝后状态被修改: %+v", ship)
	}
	mustReject(t, s.Launch(999), ReasonShipNotFound)
}

func TestLaunch_动作目的地沿贸易链解析_无需燃料(t *testing.T) {
	s := newTestSim(t)
	id := s.AddShip(domain.CargoShip, domain.Home)
	mustOK(t, s.LoadCargo(id, domain.Cargo{Metal: 10}))
	mustOK(t, s.SetDestination(id, domain.ToOperation(domain.OpOffload)))
	mustOK(t, s.Launch(id))

	s.Advance(20_000)
	ship, _ := s.Ship(id)
	if ship.Location != domain.Moon || !ship.Cargo.IsZero() {
		t.Fatalf("offload 应到月球并清空货舱: %+v", ship)
	}
	moon, _ := s.Location(domain.Moon)
	if moon.Stock.Metal != 10 {
		t.Fatalf("月球应收到 10 金属，got=%v", moon.Stock.Metal)
	}
}

func TestSpendResource_库存不足返回拒绝且库存不变(t *testing.T) {
	s := newTestSim(t)
	mustReject(t, s.SpendResource(domain.Home, domain.Fuel, 1000), ReasonInsufficientStock)
	home, _ := s.Location(domain.Home)
	if home.Stock.Fuel != 80 {
		t.Fatalf("fuel=%v want 80", home.Stock.Fuel)
	}
	mustOK(t, s.SpendResource(domain.Home, domain.Fuel, 80))
	if home, _ = s.Location(domain.Home); home.Stock.Fuel != 0 {
		t.Fatalf("fuel=%v want 0", home.Stock.Fuel)
	}
}

func TestPopulation_食物正增长一小时约增长百分之一(t *testing.T) {
	s := newTestSim(t)
	s.Advance(hourMs)
	home, _ := s.Location(domain.Home)
	want := 100 * math.Pow(1+1.0/360000, 3600)
	if !approx(home.Population, want, 1e-6) {
		t.Fatalf("population=%v want≈%v", home.Population, want)
	}
	if !approx(home.Population, 101.0, 0.01) {
		t.Fatalf("population=%v want≈101.0", home.Population)
	}
}

func TestPopulation_任意tick序列都不为负(t *testing.T) {
	s := newTestSim(t)
	mustOK(t, s.SetProductionRates(domain.Home, domain.Rates{Food: -50}))
	now := int64(0)
	for i := 0; i < 50; i++ {
		now += int64(i*7919) % hourMs
		s.Advance(now)
		if i%10 == 0 {
			s.res.AdjustPopulation(domain.Home, -1e9)
		}
		if i%13 == 0 {
			mustOK(t, s.SetProductionRates(domain.Home, domain.Rates{Food: float64(i%3 - 1)}))
		}
		for _, st := range s.View().Locations {
			if st.Population < 0 {
				t.Fatalf("population<0 at %s: %v", st.Location, st.Population)
			}
		}
	}
}

func TestInvestment_存入一小时后按复利增长(t *testing.T) {
	rules := DefaultRules()
	rules.InitialBalance = 2000
	s := NewSimulation("sim-e", rules, 0)

	mustOK(t, s.Deposit(1000))
	s.Advance(hourMs)

	want := 1000 * math.Pow(1+0.005/3600, 3600)
	if got := s.Credits().Invested; !approx(got, want, 1e-6) || !approx(got, 1005.0, 0.05) {
		t.Fatalf("invested=%v want≈%v", got, want)
	}
	mustReject(t, s.Withdraw(2000), ReasonInsufficientInvest)
	mustOK(t, s.Withdraw(500))
	if got := s.Credits().Invested; !approx(got, want-500, 1e-6) {
		t.Fatalf("取出后 invested=%v want≈%v", got, want-500)
	}
}

func TestCredits_维护费可以让余额为负(t *testing.T) {
	rules := DefaultRules()
	rules.InitialBalance = 0
	rules.Initial = map[domain.Location]InitialLocation{domain.Home: {Colonized: true}}
	s := NewSimulation("sim-c", rules, 0)
	s.Advance(hourMs)
	if got := s.Credits().Balance; !approx(got, -1, 1e-9) {
		t.Fatalf("balance=%v want -1", got)
	}
	mustReject(t, s.SpendCredits(1), ReasonInsufficientCredits)
}

func TestCapacity_超容量被拒绝而不是截断(t *testing.T) {
	s := newTestSim(t)
	id := s.AddShip(domain.ColonyShip, domain.Home)
	mustOK(t, s.LoadFuel(id, 7))
	mustReject(t, s.LoadCargo(id, domain.Cargo{Food: 6}), ReasonCapacityExceeded)
	mustOK(t, s.LoadCargo(id, domain.Cargo{Food: 5}))
	mustReject(t, s.LoadFuel(id, 0.5), ReasonCapacityExceeded)

	ship, _ := s.Ship(id)
	if ship.Load() != 12 {
		t.Fatalf("load=%v want 12", ship.Load())
	}
	home, _ := s.Location(domain.Home)
	if home.Stock.Food != 45 || home.Stock.Fuel != 73 {
		t.Fatalf("库存扣减不对: %+v", home.Stock)
	}

	station := s.AddShip(domain.StationShip, domain.Home)
	mustReject(t, s.LoadFuel(station, 1), ReasonCapacityExceeded)

	for _, sh := range s.View().Ships {
		if sh.Load() > sh.Type.Capacity() {
			t.Fatalf("ship %d 超容量: %v > %v", sh.ID, sh.Load(), sh.Type.Capacity())
		}
	}
}

func TestPeople_只有殖民船能载人且不超过上限(t *testing.T) {
	s := newTestSim(t)
	cargo := s.AddShip(domain.CargoShip, domain.Home)
	mustReject(t, s.LoadPeople(cargo, 1), ReasonWrongShipType)

	id := s.AddShip(domain.ColonyShip, domain.Home)
	mustOK(t, s.LoadPeople(id, 50))
	mustReject(t, s.LoadPeople(id, 1), ReasonPeopleLimit)
	mustOK(t, s.UnloadPeople(id, 20))

	home, _ := s.Location(domain.Home)
	if home.Population != 70 {
		t.Fatalf("population=%v want 70", home.Population)
	}
	ship, _ := s.Ship(id)
	if ship.People != 30 {
		t.Fatalf("people=%d want 30", ship.People)
	}
}

func sendColonist(t *testing.T, s *Simulation, people int, food float64) domain.ShipID {
	t.Helper()
	id := s.AddShip(domain.ColonyShip, domain.Home)
	mustOK(t, s.LoadPeople(id, people))
	if food > 0 {
		mustOK(t, s.LoadCargo(id, domain.Cargo{Food: food}))
	}
	mustOK(t, s.SetDestination(id, domain.ToOperation(domain.OpColonize)))
	mustOK(t, s.Launch(id))
	return id
}

func TestColonize_重复殖民仍然加人口和货物_殖民标记不变(t *testing.T) {
	s := newTestSim(t)
	first := sendColonist(t, s, 10, 4)
	second := sendColonist(t, s, 5, 2)

	s.Advance(20_000)
	mustOK(t, s.Colonize(first))
	moon, _ := s.Location(domain.Moon)
	if !moon.Colonized || moon.Population != 10 || moon.Stock.Food != 4 {
		t.Fatalf("第一次殖民后: %+v", moon)
	}

	mustOK(t, s.Colonize(second))
	moon, _ = s.Location(domain.Moon)
	if !moon.Colonized || moon.Population != 15 || moon.Stock.Food != 6 {
		t.Fatalf("第二次殖民后: %+v", moon)
	}
	if _, ok := s.Ship(first); ok {
		t.Fatalf("殖民船应被消耗")
	}
	mustReject(t, s.Colonize(second), ReasonShipNotFound)
}

func TestColonize_非殖民指令或非殖民船被拒绝(t *testing.T) {
	s := newTestSim(t)
	id := s.AddShip(domain.ColonyShip, domain.Home)
	mustReject(t, s.Colonize(id), ReasonNotColonizeOrder)
	cargo := s.AddShip(domain.CargoShip, domain.Home)
	mustReject(t, s.Colonize(cargo), ReasonWrongShipType)
}

func TestDeployStation_重复和中转点被拒绝(t *testing.T) {
	s := newTestSim(t)
	a := s.AddShip(domain.StationShip, domain.Home)
	b := s.AddShip(domain.StationShip, domain.Home)
	c := s.AddShip(domain.StationShip, domain.StagingPoint)

	mustOK(t, s.DeployStation(a))
	mustReject(t, s.DeployStation(b), ReasonStationExists)
	mustReject(t, s.DeployStation(c), ReasonLocationDisallowed)
	if !s.HasStation(domain.Home) || s.HasStation(domain.StagingPoint) {
		t.Fatalf("空间站登记不对: %+v", s.View().Stations)
	}
	if _, ok := s.Ship(b); !ok {
		t.Fatalf("被拒绝的船不应被消耗")
	}
}

func TestCredits_三个空间站才有贸易加成(t *testing.T) {
	s := newTestSim(t)
	base := s.NetCreditsPerHour()
	if !approx(base, 100*0.05-1, 1e-9) {
		t.Fatalf("net=%v", base)
	}
	for _, loc := range []domain.Location{domain.Home, domain.Moon, domain.SecondaryPlanet} {
		mustOK(t, s.DeployStation(s.AddShip(domain.StationShip, loc)))
	}
	if got := s.NetCreditsPerHour(); !approx(got, base+10, 1e-9) {
		t.Fatalf("net=%v want %v", got, base+10)
	}
}

func deployRoute(t *testing.T, s *Simulation, locs ...domain.Location) {
	t.Helper()
	for _, loc := range locs {
		mustOK(t, s.DeployStation(s.AddShip(domain.StationShip, loc)))
	}
}

func TestCombat_三次命中摧毁海盗_护卫舰回到巡逻(t *testing.T) {
	s := newTestSim(t)
	deployRoute(t, s, domain.Home, domain.Moon)
	f := s.AddShip(domain.FrigateShip, domain.Home)
	mustOK(t, s.DeployFrigate(f))

	s.Advance(500)
	ship, _ := s.Ship(f)
	if ship.Combat.Kind != domain.CombatAttacking || ship.Combat.Target != 1 {
		t.Fatalf("期望追击 raider 1: %+v", ship.Combat)
	}

	mustReject(t, s.ReportHit(2), ReasonRaiderNotVisible)
	for i := 0; i < 3; i++ {
		mustOK(t, s.ReportHit(1))
	}
	r, _ := s.Raider(1)
	if !r.Destroyed || r.HitCount != 3 {
		t.Fatalf("raider 应被摧毁: %+v", r)
	}
	ship, _ = s.Ship(f)
	if ship.Combat.Kind != domain.CombatPatrolling {
		t.Fatalf("期望回到巡逻: %+v", ship.Combat)
	}
	mustReject(t, s.ReportHit(1), ReasonRaiderNotVisible)

	// 没有可打的目标：返航，再到家后空闲
	s.Advance(1000)
	if ship, _ = s.Ship(f); ship.Combat.Kind != domain.CombatReturning {
		t.Fatalf("期望返航: %+v", ship.Combat)
	}
	s.Advance(1500)
	if ship, _ = s.Ship(f); ship.Combat.Kind != domain.CombatIdle || ship.HomePosition != nil {
		t.Fatalf("期望空闲并清除 home: %+v", ship)
	}
}

func TestCombat_最近目标优先_距离相等按列表顺序(t *testing.T) {
	s := newTestSim(t)
	deployRoute(t, s, domain.Home, domain.Moon, domain.SecondaryPlanet)
	mustOK(t, s.ReportRaiderPosition(1, domain.Vec3{X: -10}))
	mustOK(t, s.ReportRaiderPosition(2, domain.Vec3{X: 10}))

	f := s.AddShip(domain.FrigateShip, domain.Home)
	mustOK(t, s.DeployFrigate(f))
	s.Advance(500)
	if ship, _ := s.Ship(f); ship.Combat.Target != 1 {
		t.Fatalf("距离相等应选 raider 1，got=%d", ship.Combat.Target)
	}

	mustOK(t, s.ReportRaiderPosition(2, domain.Vec3{X: 5}))
	for i := 0; i < 3; i++ {
		mustOK(t, s.ReportHit(1))
	}
	s.Advance(1000)
	if ship, _ := s.Ship(f); ship.Combat.Target != 2 {
		t.Fatalf("应重新锁定 raider 2，got=%+v", ship.Combat)
	}
}

func TestCombat_射程内才开火_冷却两秒(t *testing.T) {
	s := newTestSim(t)
	deployRoute(t, s, domain.Home, domain.Moon)
	f := s.AddShip(domain.FrigateShip, domain.Home)
	mustOK(t, s.DeployFrigate(f))
	s.Advance(500)
	s.DrainEvents()

	countFired := func() int {
		n := 0
		for _, e := range s.DrainEvents() {
			if e.Kind == EventFrigateFired {
				n++
			}
		}
		return n
	}

	s.Advance(1000)
	if n := countFired(); n != 0 {
		t.Fatalf("射程外不应开火，fired=%d", n)
	}

	r, _ := s.Raider(1)
	mustOK(t, s.ReportShipPosition(f, r.Position))
	s.Advance(1500)
	if n := countFired(); n != 1 {
		t.Fatalf("进入射程应开火一次，fired=%d", n)
	}
	s.Advance(3000)
	if n := countFired(); n != 0 {
		t.Fatalf("冷却中不应开火，fired=%d", n)
	}
	s.Advance(3500)
	if n := countFired(); n != 1 {
		t.Fatalf("冷却结束应再次开火，fired=%d", n)
	}
}

func TestRaider_两端都有空间站才可见(t *testing.T) {
	s := newTestSim(t)
	deployRoute(t, s, domain.Moon)
	for _, rv := range s.View().Raiders {
		if rv.Visible {
			t.Fatalf("只有一端空间站时不应可见: %+v", rv)
		}
	}
	deployRoute(t, s, domain.SecondaryPlanet)
	appeared := 0
	for _, e := range s.DrainEvents() {
		if e.Kind == EventRaiderAppeared && e.RaiderID == 2 {
			appeared++
		}
	}
	if appeared != 1 {
		t.Fatalf("raider 2 应出现一次，got=%d", appeared)
	}
}

func TestBuildShip_资源和信用点要么全扣要么不扣(t *testing.T) {
	s := newTestSim(t)
	mustOK(t, s.SpendResource(domain.Home, domain.Power, 45))
	_, err := s.BuildShip(domain.StationShip, domain.Home)
	mustReject(t, err, ReasonInsufficientStock)
	home, _ := s.Location(domain.Home)
	if home.Stock.Metal != 100 || s.Credits().Balance != 100 {
		t.Fatalf("失败后不应扣款: stock=%+v credits=%+v", home.Stock, s.Credits())
	}
	_, err = s.BuildShip(domain.ColonyShip, domain.Moon)
	mustReject(t, err, ReasonNotColonized)

	id, err := s.BuildShip(domain.CargoShip, domain.Home)
	mustOK(t, err)
	ship, ok := s.Ship(id)
	if !ok || ship.State != domain.Docked || ship.Location != domain.Home || ship.Load() != 0 {
		t.Fatalf("新船状态不对: %+v", ship)
	}
	home, _ = s.Location(domain.Home)
	if home.Stock.Metal != 85 || home.Stock.Power != 0 || s.Credits().Balance != 70 {
		t.Fatalf("扣款不对: stock=%+v credits=%+v", home.Stock, s.Credits())
	}

	_, err = s.BuildShip(domain.FrigateShip, domain.Home)
	mustReject(t, err, ReasonInsufficientCredits)
}

func TestAdvance_结果与调用频率无关(t *testing.T) {
	a := newTestSim(t)
	b := newTestSim(t)
	for _, s := range []*Simulation{a, b} {
		id := s.AddShip(domain.CargoShip, domain.Home)
		mustOK(t, s.LoadFuel(id, 3))
		mustOK(t, s.SetDestination(id, domain.ToLocation(domain.StagingPoint)))
		mustOK(t, s.Launch(id))
	}
	a.Advance(10 * 60 * 1000)
	for now := int64(0); now <= 10*60*1000; now += 137 {
		b.Advance(now)
	}
	b.Advance(10 * 60 * 1000)
	if !reflect.DeepEqual(a.View(), b.View()) {
		t.Fatalf("一次推进与多次推进结果不同\na=%+v\nb=%+v", a.View(), b.View())
	}
}

func TestSnapshot_序列化恢复后继续推进结果一致(t *testing.T) {
	rules := DefaultRules()
	rules.InitialBalance = 500
	live := NewSimulation("sim-rt", rules, 1_700_000_000_000)
	start := live.NowMs()

	deployRoute(t, live, domain.Home, domain.Moon)
	f := live.AddShip(domain.FrigateShip, domain.Home)
	mustOK(t, live.DeployFrigate(f))
	colonist := sendColonist(t, live, 8, 2)
	mustOK(t, live.Deposit(300))
	live.Advance(start + 12_345)

	raw, err := json.Marshal(live.Export(1))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap SimulationPersistSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	restored, err := Hydrate(rules, &snap)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	end := start + 2*hourMs
	live.Advance(end)
	restored.Advance(end)

	lv, rv := live.View(), restored.View()
	if !reflect.DeepEqual(lv, rv) {
		t.Fatalf("恢复后推进结果不同\nlive=%+v\nrestored=%+v", lv, rv)
	}
	if ship, _ := restored.Ship(colonist); ship.State != domain.Docked || ship.Location != domain.Moon {
		t.Fatalf("恢复后殖民船应已到达: %+v", ship)
	}
	if !approx(rv.Credits.Invested, lv.Credits.Invested, 1e-9) {
		t.Fatalf("invested 不一致")
	}
}

func TestHydrate_非法快照返回错误(t *testing.T) {
	rules := DefaultRules()
	if _, err := Hydrate(rules, nil); err == nil {
		t.Fatalf("nil 快照应报错")
	}
	snap := NewSimulation("x", rules, 0).Export(1)
	snap.Timers = append(snap.Timers, TimerRecord{Name: "bogus"})
	if _, err := Hydrate(rules, snap); err == nil {
		t.Fatalf("未知定时器应报错")
	}
}

func TestCommands_非有限数量一律拒绝且状态不变(t *testing.T) {
	s := newTestSim(t)
	cargo := s.AddShip(domain.CargoShip, domain.Home)
	colony := s.AddShip(domain.ColonyShip, domain.Home)
	mustOK(t, s.LoadCargo(cargo, domain.Cargo{Food: 5}))
	mustOK(t, s.Deposit(10))
	before := s.View()

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		mustReject(t, s.SpendCredits(bad), ReasonInvalidAmount)
		mustReject(t, s.SpendResource(domain.Home, domain.Fuel, bad), ReasonInvalidAmount)
		mustReject(t, s.Deposit(bad), ReasonInvalidAmount)
		mustReject(t, s.Withdraw(bad), ReasonInvalidAmount)
		mustReject(t, s.LoadFuel(colony, bad), ReasonInvalidAmount)
		mustReject(t, s.LoadCargo(cargo, domain.Cargo{Metal: bad}), ReasonInvalidAmount)
		mustReject(t, s.UnloadCargo(cargo, domain.Cargo{Food: bad}), ReasonInvalidAmount)
		mustReject(t, s.SetProductionRates(domain.Home, domain.Rates{Food: 1, Power: bad}), ReasonInvalidAmount)
		mustReject(t, s.ReportRaiderPosition(1, domain.Vec3{X: bad}), ReasonInvalidAmount)
		mustReject(t, s.ReportShipPosition(cargo, domain.Vec3{Z: bad}), ReasonInvalidAmount)
	}

	if after := s.View(); !reflect.DeepEqual(before, after) {
		t.Fatalf("拒绝后状态被修改:\nbefore=%+v\nafter=%+v", before, after)
	}
}

func TestSetProductionRates_负产量仍然允许(t *testing.T) {
	s := newTestSim(t)
	mustOK(t, s.SetProductionRates(domain.Home, domain.Rates{Food: -2, Fuel: 1}))
	home, _ := s.Location(domain.Home)
	if home.Rates.Food != -2 {
		t.Fatalf("rates=%+v", home.Rates)
	}
}
