package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"SpaceColony/internal/colony/dc"
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/shared/actor/messages"
	"SpaceColony/modules/kit/errx"
	"SpaceColony/modules/kit/logx"
	"SpaceColony/modules/kit/tracex"
)

type SimID = entity.SimID

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// ColonyActor 一个模拟实例的唯一写入者：tick、指令、物理上报都在这里串行执行。
type ColonyActor struct {
	state      State
	simID      SimID
	deps       Deps
	dc         *dc.ColonyDC
	entity     *entity.Simulation
	dispatcher *Dispatcher
	log        logx.Logger

	subs   map[string]messages.EventSink
	recent []entity.Event

	loopStop chan struct{}
}

type simTick struct{}

func (simTick) NotInfluenceReceiveTimeout() {}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewColonyActor(simID SimID, deps Deps) *ColonyActor {
	deps = deps.withDefaults()
	l := deps.Logger.With(zap.String("sim_id", string(simID)))

	var simOpts []entity.Option
	if deps.IDGen != nil {
		simOpts = append(simOpts, entity.WithIDGen(deps.IDGen))
	}
	return &ColonyActor{
		state: None,
		simID: simID,
		deps:  deps,
		dc: dc.NewColonyDC(deps.Repo, deps.Rules,
			dc.WithFlushEvery(deps.FlushEvery),
			dc.WithLogger(l),
			dc.WithSimOptions(simOpts...),
		),
		dispatcher: NewDispatcher(),
		log:        l,
		subs:       make(map[string]messages.EventSink),
	}
}

func (p *ColonyActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopLoops()
		if p.state == Online {
			p.advance()
		}
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			p.log.Error("colony dc close failed", zap.Error(err))
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopLoops()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopLoops()
		p.state = Init
		return
	case simTick:
		if p.state != Online {
			return
		}
		p.advance()
		return
	case flushTick:
		if p.state != Online {
			return
		}
		if err := p.dc.Flush(context.Background()); err != nil {
			p.log.Error("colony periodic flush failed", zap.Error(err))
		}
		return
	case messages.ColonyMessage:
		if msg == nil {
			ctx.Respond(&messages.FailReply{Err: errx.ErrReqParamERR})
			return
		}
		if p.state != Online {
			ctx.Respond(&messages.FailReply{Err: errx.ErrUnavailable.WithData("sim_id", string(p.simID))})
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *ColonyActor) init(ctx actor.Context) {
	nowMs := p.deps.Clock.NowMs()
	e, err := p.dc.Load(context.Background(), p.simID, nowMs)
	if err != nil {
		p.log.Error("colony load failed", zap.Error(err))
		p.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	p.entity = e
	p.state = Online

	// 离线期间的进度一次补齐
	steps := e.Advance(nowMs)
	p.publish()
	p.log.Info("colony online", zap.Int64("now_ms", e.NowMs()), zap.Int("catch_up_steps", steps))
	p.startLoops(ctx)
}

func (p *ColonyActor) SimID() SimID {
	return p.simID
}

func (p *ColonyActor) Entity() *entity.Simulation {
	return p.entity
}

func (p *ColonyActor) DC() *dc.ColonyDC {
	return p.dc
}

// advance 推进到当前时钟并派发产生的事件。
func (p *ColonyActor) advance() {
	p.entity.Advance(p.deps.Clock.NowMs())
	p.publish()
}

func (p *ColonyActor) publish() {
	events := p.entity.DrainEvents()
	if len(events) == 0 {
		return
	}

	p.recent = append(p.recent, events...)
	if over := len(p.recent) - recentRingSize; over > 0 {
		p.recent = append(p.recent[:0:0], p.recent[over:]...)
	}

	jctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := p.deps.Journal.Append(jctx, p.simID, events); err != nil {
		p.log.Error("colony journal append failed", zap.Int("events", len(events)), zap.Error(err))
	}

	for _, sink := range p.subs {
		sink.PushEvents(string(p.simID), events)
	}
}

// recentEvents 优先读 journal（跨重启），不可用时退回内存环。
func (p *ColonyActor) recentEvents(limit int) []entity.Event {
	if limit <= 0 || limit > recentRingSize {
		limit = recentRingSize
	}
	qctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	events, err := p.deps.Journal.Recent(qctx, p.simID, limit)
	if err != nil {
		p.log.Warn("colony journal read failed", zap.Error(err))
	}
	if err == nil && len(events) > 0 {
		return events
	}
	start := len(p.recent) - limit
	if start < 0 {
		start = 0
	}
	out := make([]entity.Event, len(p.recent)-start)
	copy(out, p.recent[start:])
	return out
}

// msgContext 把消息里的 trace 带回 context，日志用。
func (p *ColonyActor) msgContext(msg messages.ColonyMessage) context.Context {
	ctx := tracex.WithSimID(context.Background(), string(p.simID))
	if tid := msg.TraceID(); tid != "" {
		ctx = tracex.WithTraceID(ctx, tid)
	}
	return ctx
}

func (p *ColonyActor) startLoops(ctx actor.Context) {
	if p.loopStop != nil {
		return
	}
	p.loopStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, tickEvery, flushEvery time.Duration) {
		tick := time.NewTicker(tickEvery)
		defer tick.Stop()
		flush := time.NewTicker(flushEvery)
		defer flush.Stop()
		for {
			select {
			case <-tick.C:
				root.Send(self, simTick{})
			case <-flush.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(p.loopStop, p.deps.TickEvery, p.dc.FlushEvery())
}

func (p *ColonyActor) stopLoops() {
	if p.loopStop == nil {
		return
	}
	close(p.loopStop)
	p.loopStop = nil
}
