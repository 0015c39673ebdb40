package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"SpaceColony/internal/shared/actor/messages"
	"SpaceColony/modules/kit/errx"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, CH.HandleBuildShip)
	register(d, CH.HandleSetDestination)
	register(d, CH.HandleLaunch)
	register(d, CH.HandleColonize)
	register(d, CH.HandleDeployStation)
	register(d, CH.HandleDeployFrigate)
	register(d, CH.HandleLoadFuel)
	register(d, CH.HandleLoadCargo)
	register(d, CH.HandleUnloadCargo)
	register(d, CH.HandleLoadPeople)
	register(d, CH.HandleUnloadPeople)
	register(d, CH.HandleSpendResource)
	register(d, CH.HandleSpendCredits)
	register(d, CH.HandleDeposit)
	register(d, CH.HandleWithdraw)
	register(d, CH.HandleSetProductionRates)

	register(d, CH.HandleReportRaiderPosition)
	register(d, CH.HandleReportHit)
	register(d, CH.HandleReportShipPosition)

	register(d, CH.HandleGetView)
	register(d, CH.HandleRecentEvents)
	register(d, CH.HandleExport)
	register(d, CH.HandleSubscribe)
	register(d, CH.HandleUnsubscribe)
}

// register 要求 Req 是消息指针类型。
func register[Req messages.ColonyMessage](
	d *Dispatcher,
	fn func(ctx actor.Context, p *ColonyActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}
	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *ColonyActor, req messages.ColonyMessage) {
	if req == nil {
		ctx.Respond(&messages.FailReply{Err: errx.ErrReqParamERR})
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(&messages.FailReply{Err: errx.ErrReqParamERR.WithData("message", bodyType.String())})
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
