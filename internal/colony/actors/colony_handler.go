package actors

import (
	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/colony/entity/domain"
	"SpaceColony/internal/shared/actor/messages"
	"SpaceColony/modules/kit/logx"
)

type ColonyHandler struct{}

// 全局实例
var CH = &ColonyHandler{}

// exec 指令统一流程：先推进到当前时间，再执行，最后派发事件并回复最新视图。
func (h *ColonyHandler) exec(
	ctx actor.Context,
	p *ColonyActor,
	msg messages.ColonyMessage,
	action string,
	fn func(s *entity.Simulation) (domain.ShipID, error),
) {
	p.advance()
	id, err := fn(p.entity)
	p.publish()

	var fields []zap.Field
	if id != 0 {
		fields = append(fields, zap.Int64("ship_id", int64(id)))
	}
	logx.ReportCommandWithLoggerContext(p.msgContext(msg), p.log, action, err, fields...)

	view := p.entity.View()
	ctx.Respond(&messages.CommandReply{Err: err, ShipId: id, View: &view})
}

// feed 每帧的位置上报：不推进时钟，不记日志，只回执。
func (h *ColonyHandler) feed(ctx actor.Context, p *ColonyActor, id domain.ShipID, fn func(s *entity.Simulation) error) {
	ctx.Respond(&messages.CommandReply{Err: fn(p.entity), ShipId: id})
}

func (h *ColonyHandler) HandleBuildShip(ctx actor.Context, p *ColonyActor, req *messages.BuildShip) {
	h.exec(ctx, p, req, "colony.buildShip", func(s *entity.Simulation) (domain.ShipID, error) {
		return s.BuildShip(req.Type, req.Location)
	})
}

func (h *ColonyHandler) HandleSetDestination(ctx actor.Context, p *ColonyActor, req *messages.SetDestination) {
	h.exec(ctx, p, req, "colony.setDestination", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.SetDestination(req.ShipId, req.Destination)
	})
}

func (h *ColonyHandler) HandleLaunch(ctx actor.Context, p *ColonyActor, req *messages.Launch) {
	h.exec(ctx, p, req, "colony.launch", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.Launch(req.ShipId)
	})
}

func (h *ColonyHandler) HandleColonize(ctx actor.Context, p *ColonyActor, req *messages.Colonize) {
	h.exec(ctx, p, req, "colony.colonize", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.Colonize(req.ShipId)
	})
}

func (h *ColonyHandler) HandleDeployStation(ctx actor.Context, p *ColonyActor, req *messages.DeployStation) {
	h.exec(ctx, p, req, "colony.deployStation", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.DeployStation(req.ShipId)
	})
}

func (h *ColonyHandler) HandleDeployFrigate(ctx actor.Context, p *ColonyActor, req *messages.DeployFrigate) {
	h.exec(ctx, p, req, "colony.deployFrigate", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.DeployFrigate(req.ShipId)
	})
}

func (h *ColonyHandler) HandleLoadFuel(ctx actor.Context, p *ColonyActor, req *messages.LoadFuel) {
	h.exec(ctx, p, req, "colony.loadFuel", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.LoadFuel(req.ShipId, req.Amount)
	})
}

func (h *ColonyHandler) HandleLoadCargo(ctx actor.Context, p *ColonyActor, req *messages.LoadCargo) {
	h.exec(ctx, p, req, "colony.loadCargo", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.LoadCargo(req.ShipId, req.Cargo)
	})
}

func (h *ColonyHandler) HandleUnloadCargo(ctx actor.Context, p *ColonyActor, req *messages.UnloadCargo) {
	h.exec(ctx, p, req, "colony.unloadCargo", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.UnloadCargo(req.ShipId, req.Cargo)
	})
}

func (h *ColonyHandler) HandleLoadPeople(ctx actor.Context, p *ColonyActor, req *messages.LoadPeople) {
	h.exec(ctx, p, req, "colony.loadPeople", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.LoadPeople(req.ShipId, req.Count)
	})
}

func (h *ColonyHandler) HandleUnloadPeople(ctx actor.Context, p *ColonyActor, req *messages.UnloadPeople) {
	h.exec(ctx, p, req, "colony.unloadPeople", func(s *entity.Simulation) (domain.ShipID, error) {
		return req.ShipId, s.UnloadPeople(req.ShipId, req.Count)
	})
}

func (h *ColonyHandler) HandleSpendResource(ctx actor.Context, p *ColonyActor, req *messages.SpendResource) {
	h.exec(ctx, p, req, "colony.spendResource", func(s *entity.Simulation) (domain.ShipID, error) {
		return 0, s.SpendResource(req.Location, req.Resource, req.Amount)
	})
}

func (h *ColonyHandler) HandleSpendCredits(ctx actor.Context, p *ColonyActor, req *messages.SpendCredits) {
	h.exec(ctx, p, req, "colony.spendCredits", func(s *entity.Simulation) (domain.ShipID, error) {
		return 0, s.SpendCredits(req.Amount)
	})
}

func (h *ColonyHandler) HandleDeposit(ctx actor.Context, p *ColonyActor, req *messages.Deposit) {
	h.exec(ctx, p, req, "colony.deposit", func(s *entity.Simulation) (domain.ShipID, error) {
		return 0, s.Deposit(req.Amount)
	})
}

func (h *ColonyHandler) HandleWithdraw(ctx actor.Context, p *ColonyActor, req *messages.Withdraw) {
	h.exec(ctx, p, req, "colony.withdraw", func(s *entity.Simulation) (domain.ShipID, error) {
		return 0, s.Withdraw(req.Amount)
	})
}

func (h *ColonyHandler) HandleSetProductionRates(ctx actor.Context, p *ColonyActor, req *messages.SetProductionRates) {
	h.exec(ctx, p, req, "colony.setProductionRates", func(s *entity.Simulation) (domain.ShipID, error) {
		return 0, s.SetProductionRates(req.Location, req.Rates)
	})
}

func (h *ColonyHandler) HandleReportRaiderPosition(ctx actor.Context, p *ColonyActor, req *messages.ReportRaiderPosition) {
	h.feed(ctx, p, 0, func(s *entity.Simulation) error {
		return s.ReportRaiderPosition(req.RaiderId, req.Position)
	})
}

func (h *ColonyHandler) HandleReportHit(ctx actor.Context, p *ColonyActor, req *messages.ReportHit) {
	h.exec(ctx, p, req, "colony.reportHit", func(s *entity.Simulation) (domain.ShipID, error) {
		return 0, s.ReportHit(req.RaiderId)
	})
}

func (h *ColonyHandler) HandleReportShipPosition(ctx actor.Context, p *ColonyActor, req *messages.ReportShipPosition) {
	h.feed(ctx, p, req.ShipId, func(s *entity.Simulation) error {
		return s.ReportShipPosition(req.ShipId, req.Position)
	})
}

func (h *ColonyHandler) HandleGetView(ctx actor.Context, p *ColonyActor, req *messages.GetView) {
	p.advance()
	ctx.Respond(&messages.ViewReply{View: p.entity.View()})
}

func (h *ColonyHandler) HandleRecentEvents(ctx actor.Context, p *ColonyActor, req *messages.RecentEvents) {
	p.advance()
	ctx.Respond(&messages.EventsReply{Events: p.recentEvents(req.Limit)})
}

func (h *ColonyHandler) HandleExport(ctx actor.Context, p *ColonyActor, req *messages.Export) {
	p.advance()
	ctx.Respond(&messages.ExportReply{Snapshot: p.entity.Export(p.dc.Version())})
}

func (h *ColonyHandler) HandleSubscribe(ctx actor.Context, p *ColonyActor, req *messages.Subscribe) {
	if req.Key == "" || req.Sink == nil {
		ctx.Respond(&messages.FailReply{Err: errReqParam("subscribe key/sink required")})
		return
	}
	p.subs[req.Key] = req.Sink
	p.log.Debug("colony subscribed", zap.String("key", req.Key), zap.Int("subs", len(p.subs)))
	ctx.Respond(&messages.ViewReply{View: p.entity.View()})
}

func (h *ColonyHandler) HandleUnsubscribe(ctx actor.Context, p *ColonyActor, req *messages.Unsubscribe) {
	delete(p.subs, req.Key)
	ctx.Respond(&messages.ViewReply{View: p.entity.View()})
}
