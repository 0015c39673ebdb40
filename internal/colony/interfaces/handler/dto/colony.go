package dto

import (
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
	"SpaceColony/internal/shared/actor/messages"
)

// Command 客户端指令的请求体，绑定后转成发给模拟 actor 的消息。
type Command interface {
	Message(base messages.ColonyBaseMessage) messages.ColonyMessage
}

// Commands 指令名到请求体的工厂，HTTP 路径和 ws 路由共用同一套名字。
var Commands = map[string]func() Command{
	"buildShip":            func() Command { return &BuildShipReq{} },
	"setDestination":       func() Command { return &SetDestinationReq{} },
	"launch":               func() Command { return &ShipReq{kind: shipLaunch} },
	"colonize":             func() Command { return &ShipReq{kind: shipColonize} },
	"deployStation":        func() Command { return &ShipReq{kind: shipDeployStation} },
	"deployFrigate":        func() Command { return &ShipReq{kind: shipDeployFrigate} },
	"loadFuel":             func() Command { return &LoadFuelReq{} },
	"loadCargo":            func() Command { return &CargoReq{} },
	"unloadCargo":          func() Command { return &CargoReq{unload: true} },
	"loadPeople":           func() Command { return &PeopleReq{} },
	"unloadPeople":         func() Command { return &PeopleReq{unload: true} },
	"spendResource":        func() Command { return &SpendResourceReq{} },
	"spendCredits":         func() Command { return &AmountReq{kind: amountSpend} },
	"deposit":              func() Command { return &AmountReq{kind: amountDeposit} },
	"withdraw":             func() Command { return &AmountReq{kind: amountWithdraw} },
	"setProductionRates":   func() Command { return &ProductionRatesReq{} },
	"reportRaiderPosition": func() Command { return &RaiderPositionReq{} },
	"reportHit":            func() Command { return &HitReq{} },
	"reportShipPosition":   func() Command { return &ShipPositionReq{} },
}

type BuildShipReq struct {
	Type     domain.ShipType `json:"type"`
	Location domain.Location `json:"location"`
}

func (r *BuildShipReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	return &messages.BuildShip{ColonyBaseMessage: b, Type: r.Type, Location: r.Location}
}

type SetDestinationReq struct {
	ShipId      domain.ShipID      `json:"ship_id"`
	Destination domain.Destination `json:"destination"`
}

func (r *SetDestinationReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	return &messages.SetDestination{ColonyBaseMessage: b, ShipId: r.ShipId, Destination: r.Destination}
}

type shipKind int8

const (
	shipLaunch shipKind = iota
	shipColonize
	shipDeployStation
	shipDeployFrigate
)

// ShipReq 只带船 ID 的指令。
type ShipReq struct {
	ShipId domain.ShipID `json:"ship_id"`
	kind   shipKind
}

func (r *ShipReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	switch r.kind {
	case shipColonize:
		return &messages.Colonize{ColonyBaseMessage: b, ShipId: r.ShipId}
	case shipDeployStation:
		return &messages.DeployStation{ColonyBaseMessage: b, ShipId: r.ShipId}
	case shipDeployFrigate:
		return &messages.DeployFrigate{ColonyBaseMessage: b, ShipId: r.ShipId}
	default:
		return &messages.Launch{ColonyBaseMessage: b, ShipId: r.ShipId}
	}
}

type LoadFuelReq struct {
	ShipId domain.ShipID `json:"ship_id"`
	Amount float64       `json:"amount"`
}

func (r *LoadFuelReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	return &messages.LoadFuel{ColonyBaseMessage: b, ShipId: r.ShipId, Amount: r.Amount}
}

type CargoReq struct {
	ShipId domain.ShipID `json:"ship_id"`
	Cargo  domain.Cargo  `json:"cargo"`
	unload bool
}

func (r *CargoReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	if r.unload {
		return &messages.UnloadCargo{ColonyBaseMessage: b, ShipId: r.ShipId, Cargo: r.Cargo}
	}
	return &messages.LoadCargo{ColonyBaseMessage: b, ShipId: r.ShipId, Cargo: r.Cargo}
}

type PeopleReq struct {
	ShipId domain.ShipID `json:"ship_id"`
	Count  int           `json:"count"`
	unload bool
}

func (r *PeopleReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	if r.unload {
		return &messages.UnloadPeople{ColonyBaseMessage: b, ShipId: r.ShipId, Count: r.Count}
	}
	return &messages.LoadPeople{ColonyBaseMessage: b, ShipId: r.ShipId, Count: r.Count}
}

type SpendResourceReq struct {
	Location domain.Location `json:"location"`
	Resource domain.Resource `json:"resource"`
	Amount   float64         `json:"amount"`
}

func (r *SpendResourceReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	return &messages.SpendResource{ColonyBaseMessage: b, Location: r.Location, Resource: r.Resource, Amount: r.Amount}
}

type amountKind int8

const (
	amountSpend amountKind = iota
	amountDeposit
	amountWithdraw
)

// AmountReq 信用点相关的指令。
type AmountReq struct {
	Amount float64 `json:"amount"`
	kind   amountKind
}

func (r *AmountReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	switch r.kind {
	case amountDeposit:
		return &messages.Deposit{ColonyBaseMessage: b, Amount: r.Amount}
	case amountWithdraw:
		return &messages.Withdraw{ColonyBaseMessage: b, Amount: r.Amount}
	default:
		return &messages.SpendCredits{ColonyBaseMessage: b, Amount: r.Amount}
	}
}

type ProductionRatesReq struct {
	Location domain.Location `json:"location"`
	Rates    domain.Rates    `json:"rates"`
}

func (r *ProductionRatesReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	return &messages.SetProductionRates{ColonyBaseMessage: b, Location: r.Location, Rates: r.Rates}
}

type RaiderPositionReq struct {
	RaiderId domain.RaiderID `json:"raider_id"`
	Position domain.Vec3     `json:"position"`
}

func (r *RaiderPositionReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	return &messages.ReportRaiderPosition{ColonyBaseMessage: b, RaiderId: r.RaiderId, Position: r.Position}
}

type HitReq struct {
	RaiderId domain.RaiderID `json:"raider_id"`
}

func (r *HitReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	return &messages.ReportHit{ColonyBaseMessage: b, RaiderId: r.RaiderId}
}

type ShipPositionReq struct {
	ShipId   domain.ShipID `json:"ship_id"`
	Position domain.Vec3   `json:"position"`
}

func (r *ShipPositionReq) Message(b messages.ColonyBaseMessage) messages.ColonyMessage {
	return &messages.ReportShipPosition{ColonyBaseMessage: b, ShipId: r.ShipId, Position: r.Position}
}

// CommandResp 指令成功后的返回。
type CommandResp struct {
	ShipId domain.ShipID `json:"ship_id,omitempty"`
	View   *entity.View  `json:"view,omitempty"`
}

type EventsResp struct {
	Events []entity.Event `json:"events"`
}

type TokenReq struct {
	SimId string `json:"sim_id"`
}

type TokenResp struct {
	Token string `json:"token"`
}

// AuthReq ws 鉴权：开启鉴权时带 token，否则直接带 sim_id。
type AuthReq struct {
	Token string `json:"token"`
	SimId string `json:"sim_id"`
}

type EventsReq struct {
	Limit int `json:"limit"`
}
