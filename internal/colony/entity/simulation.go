package entity

import (
	"time"

	"SpaceColony/internal/colony/entity/domain"
)

// timer 独立定时器，同一时刻到期时按这个顺序执行。
type timer int

const (
	timerResource timer = iota
	timerCredits
	timerInvestment
	timerArrival
	timerCombat
	timerCount
)

func (t timer) String() string {
	switch t {
	case timerResource:
		return "resource"
	case timerCredits:
		return "credits"
	case timerInvestment:
		return "investment"
	case timerArrival:
		return "arrival"
	case timerCombat:
		return "combat"
	default:
		return "unknown"
	}
}

// SimID 模拟实例 ID，一个玩家一个。
type SimID string

// Simulation 一个玩家的完整模拟状态，所有修改都要经过它。
// 非并发安全：由上层 actor 串行调用。
type Simulation struct {
	id    SimID
	rules Rules

	nowMs   int64
	nextDue [timerCount]int64

	res      *ResourceLedger
	credits  *CreditsLedger
	fleet    *FleetRegistry
	raiders  []*domain.Raider
	stations map[domain.Location]*domain.Station

	seq   int64
	idGen func() int64

	events outbox
	dirty  bool
}

type Option func(*Simulation)

// WithIDGen 注入船只 ID 生成器（线上用雪花 ID），缺省为自增。
func WithIDGen(gen func() int64) Option {
	return func(s *Simulation) {
		s.idGen = gen
	}
}

func NewSimulation(id SimID, rules Rules, nowMs int64, opts ...Option) *Simulation {
	rules = rules.normalize()
	s := newEmpty(id, rules, opts...)
	s.nowMs = nowMs
	for t := timer(0); t < timerCount; t++ {
		s.nextDue[t] = nowMs + s.interval(t).Milliseconds()
	}
	s.res = NewResourceLedger(rules.Initial)
	s.credits = NewCreditsLedger(rules.InitialBalance, rules.Economy.InvestmentRatePerHour, nowMs)
	s.dirty = true
	return s
}

func newEmpty(id SimID, rules Rules, opts ...Option) *Simulation {
	s := &Simulation{
		id:       id,
		rules:    rules,
		fleet:    NewFleetRegistry(),
		stations: make(map[domain.Location]*domain.Station, 3),
		raiders: []*domain.Raider{
			{ID: 1, Route: domain.RouteHomeMoon},
			{ID: 2, Route: domain.RouteMoonSecondary},
		},
		events: outbox{limit: rules.EventBuffer},
	}
	// 海盗初始在航线中点，之后由物理层上报
	for _, r := range s.raiders {
		a, b := r.Route.Endpoints()
		r.Position = domain.Midpoint(rules.Travel.Coord(a), rules.Travel.Coord(b))
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Simulation) interval(t timer) time.Duration {
	switch t {
	case timerResource:
		return s.rules.Timers.Resource
	case timerCredits:
		return s.rules.Timers.Credits
	case timerInvestment:
		return s.rules.Timers.Investment
	case timerArrival:
		return s.rules.Timers.Arrival
	default:
		return s.rules.Timers.Combat
	}
}

func (s *Simulation) ID() SimID {
	return s.id
}

func (s *Simulation) Rules() Rules {
	return s.rules
}

func (s *Simulation) NowMs() int64 {
	return s.nowMs
}

// Advance 把模拟推进到 nowMs：所有到期的定时器按到期时间依次执行（同一时刻按固定顺序），
// 每步使用自己的固定 Δt，中间漏掉的步全部补上。返回执行的步数。
func (s *Simulation) Advance(nowMs int64) int {
	steps := 0
	for {
		next, due := timerCount, int64(0)
		for t := timer(0); t < timerCount; t++ {
			if s.nextDue[t] > nowMs {
				continue
			}
			if next == timerCount || s.nextDue[t] < due {
				next, due = t, s.nextDue[t]
			}
		}
		if next == timerCount {
			break
		}
		s.nowMs = due
		s.step(next)
		s.nextDue[next] = due + s.interval(next).Milliseconds()
		steps++
	}
	if nowMs > s.nowMs {
		s.nowMs = nowMs
	}
	if steps > 0 {
		s.dirty = true
	}
	return steps
}

func (s *Simulation) step(t timer) {
	dt := s.interval(t).Seconds()
	switch t {
	case timerResource:
		s.res.Tick(dt, s.rules.Economy.GrowthPerSecond)
	case timerCredits:
		s.credits.Tick(dt, s.NetCreditsPerHour())
	case timerInvestment:
		s.credits.Compound(s.nowMs)
	case timerArrival:
		s.scanArrivals()
	case timerCombat:
		s.huntStep()
	}
}

// NetCreditsPerHour 母星人口收入 + 贸易加成（空间站 ≥ 3）+ 舰队维护费。
func (s *Simulation) NetCreditsPerHour() float64 {
	eco := s.rules.Economy
	rate := s.res.Population(domain.Home)*eco.IncomePerCapitaPerHour + eco.FleetUpkeepPerHour
	if len(s.stations) >= eco.StationsForTrade {
		rate += eco.TradeBonusPerHour
	}
	return rate
}

func (s *Simulation) emit(e Event) {
	e.AtMs = s.nowMs
	s.events.push(e)
}

func (s *Simulation) DrainEvents() []Event {
	return s.events.drain()
}

func (s *Simulation) Dirty() bool {
	return s.dirty
}

func (s *Simulation) ClearDirty() {
	s.dirty = false
}

func (s *Simulation) touch() {
	s.dirty = true
}

// ---- 经济指令 ----

func (s *Simulation) SpendResource(loc domain.Location, r domain.Resource, amount float64) error {
	if !loc.Valid() {
		return reject(ReasonInvalidLocation)
	}
	if !domain.ValidAmount(amount) || r == domain.ResourceNone {
		return reject(ReasonInvalidAmount)
	}
	if !s.res.Spend(loc, r, amount) {
		return reject(ReasonInsufficientStock)
	}
	s.touch()
	return nil
}

func (s *Simulation) SpendCredits(amount float64) error {
	if !domain.ValidAmount(amount) {
		return reject(ReasonInvalidAmount)
	}
	if !s.credits.Spend(amount) {
		return reject(ReasonInsufficientCredits)
	}
	s.touch()
	return nil
}

func (s *Simulation) Deposit(amount float64) error {
	if !domain.ValidAmount(amount) || amount == 0 {
		return reject(ReasonInvalidAmount)
	}
	if !s.credits.Deposit(amount, s.nowMs) {
		return reject(ReasonInsufficientCredits)
	}
	s.touch()
	return nil
}

func (s *Simulation) Withdraw(amount float64) error {
	if !domain.ValidAmount(amount) || amount == 0 {
		return reject(ReasonInvalidAmount)
	}
	if !s.credits.Withdraw(amount, s.nowMs) {
		return reject(ReasonInsufficientInvest)
	}
	s.touch()
	return nil
}

// SetProductionRates 建筑层变化后替换某地产量。
func (s *Simulation) SetProductionRates(loc domain.Location, rates domain.Rates) error {
	if !rates.Valid() {
		return reject(ReasonInvalidAmount)
	}
	if !s.res.SetRates(loc, rates) {
		return reject(ReasonInvalidLocation)
	}
	s.touch()
	return nil
}

// ---- 只读视图 ----

type RaiderView struct {
	domain.Raider
	Visible bool `json:"visible"`
}

// View 对外只读快照，全部是拷贝。
type View struct {
	SimID             SimID                  `json:"sim_id"`
	NowMs             int64                  `json:"now_ms"`
	Locations         []domain.LocationState `json:"locations"`
	Credits           domain.CreditsAccount  `json:"credits"`
	NetCreditsPerHour float64                `json:"net_credits_per_hour"`
	Ships             []domain.Ship          `json:"ships"`
	Raiders           []RaiderView           `json:"raiders"`
	Stations          []domain.Station       `json:"stations"`
}

func (s *Simulation) View() View {
	v := View{
		SimID:             s.id,
		NowMs:             s.nowMs,
		Locations:         s.res.Snapshot(),
		Credits:           s.credits.Account(),
		NetCreditsPerHour: s.NetCreditsPerHour(),
		Ships:             s.fleet.Snapshot(),
		Stations:          s.stationList(),
	}
	v.Credits.Invested = s.credits.investedAt(s.nowMs)
	for _, r := range s.raiders {
		v.Raiders = append(v.Raiders, RaiderView{Raider: *r, Visible: s.visible(r)})
	}
	return v
}

func (s *Simulation) Ship(id domain.ShipID) (domain.Ship, bool) {
	sh, ok := s.fleet.Get(id)
	if !ok {
		return domain.Ship{}, false
	}
	return *sh.Clone(), true
}

func (s *Simulation) Location(loc domain.Location) (domain.LocationState, bool) {
	st := s.res.get(loc)
	if st == nil {
		return domain.LocationState{}, false
	}
	return *st, true
}

func (s *Simulation) Credits() domain.CreditsAccount {
	acc := s.credits.Account()
	acc.Invested = s.credits.investedAt(s.nowMs)
	return acc
}

func (s *Simulation) Raider(id domain.RaiderID) (domain.Raider, bool) {
	if r := s.raider(id); r != nil {
		return *r, true
	}
	return domain.Raider{}, false
}

func (s *Simulation) HasStation(loc domain.Location) bool {
	_, ok := s.stations[loc]
	return ok
}

func (s *Simulation) stationList() []domain.Station {
	out := make([]domain.Station, 0, len(s.stations))
	for _, loc := range domain.Locations {
		if st, ok := s.stations[loc]; ok {
			out = append(out, *st)
		}
	}
	return out
}
