package messages

import (
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
)

// ColonyMessage 发给 colony manager 的消息，按 SimID 路由到对应的模拟 actor。
type ColonyMessage interface {
	SimID() string
	TraceID() string
}

type ColonyBaseMessage struct {
	SimId   string
	TraceId string
}

func (m ColonyBaseMessage) SimID() string {
	return m.SimId
}

func (m ColonyBaseMessage) TraceID() string {
	return m.TraceId
}

// ---- 指令 ----

type BuildShip struct {
	ColonyBaseMessage
	Type     domain.ShipType
	Location domain.Location
}

type SetDestination struct {
	ColonyBaseMessage
	ShipId      domain.ShipID
	Destination domain.Destination
}

type Launch struct {
	ColonyBaseMessage
	ShipId domain.ShipID
}

type Colonize struct {
	ColonyBaseMessage
	ShipId domain.ShipID
}

type DeployStation struct {
	ColonyBaseMessage
	ShipId domain.ShipID
}

type DeployFrigate struct {
	ColonyBaseMessage
	ShipId domain.ShipID
}

type LoadFuel struct {
	ColonyBaseMessage
	ShipId domain.ShipID
	Amount float64
}

type LoadCargo struct {
	ColonyBaseMessage
	ShipId domain.ShipID
	Cargo  domain.Cargo
}

type UnloadCargo struct {
	ColonyBaseMessage
	ShipId domain.ShipID
	Cargo  domain.Cargo
}

type LoadPeople struct {
	ColonyBaseMessage
	ShipId domain.ShipID
	Count  int
}

type UnloadPeople struct {
	ColonyBaseMessage
	ShipId domain.ShipID
	Count  int
}

type SpendResource struct {
	ColonyBaseMessage
	Location domain.Location
	Resource domain.Resource
	Amount   float64
}

type SpendCredits struct {
	ColonyBaseMessage
	Amount float64
}

type Deposit struct {
	ColonyBaseMessage
	Amount float64
}

type Withdraw struct {
	ColonyBaseMessage
	Amount float64
}

type SetProductionRates struct {
	ColonyBaseMessage
	Location domain.Location
	Rates    domain.Rates
}

// ---- 物理层上报 ----

type ReportRaiderPosition struct {
	ColonyBaseMessage
	RaiderId domain.RaiderID
	Position domain.Vec3
}

type ReportHit struct {
	ColonyBaseMessage
	RaiderId domain.RaiderID
}

type ReportShipPosition struct {
	ColonyBaseMessage
	ShipId   domain.ShipID
	Position domain.Vec3
}

// ---- 查询 ----

type GetView struct {
	ColonyBaseMessage
}

type RecentEvents struct {
	ColonyBaseMessage
	Limit int
}

// Export 导出完整快照（归档用），不影响脏标记。
type Export struct {
	ColonyBaseMessage
}

// ---- 订阅 ----

// EventSink 接收模拟事件推送，实现方不能阻塞。
type EventSink interface {
	PushEvents(simID string, events []entity.Event)
}

type Subscribe struct {
	ColonyBaseMessage
	Key  string
	Sink EventSink
}

type Unsubscribe struct {
	ColonyBaseMessage
	Key string
}

// ---- 回复 ----

// CommandReply 位置上报只回执，View 为 nil。
type CommandReply struct {
	Err    error
	ShipId domain.ShipID
	View   *entity.View
}

type ViewReply struct {
	View entity.View
}

type EventsReply struct {
	Events []entity.Event
	Err    error
}

type ExportReply struct {
	Snapshot *entity.SimulationPersistSnapshot
}

type FailReply struct {
	Err error
}

// ---- manager 自身 ----

// ListSims 在线的模拟实例，manager 直接回复。
type ListSims struct{}

type ListSimsReply struct {
	SimIDs []string
}
