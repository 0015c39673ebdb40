package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"SpaceColony/internal/colony/actors"
	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/shared/actor/messages"
	"SpaceColony/modules/kit/errx"
	"SpaceColony/modules/kit/tracex"
)

const defaultAskTimeout = 3 * time.Second

// Runtime 对外的同步调用门面：所有请求经 manager 路由到对应的模拟 actor。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown 先停 manager（子 actor 会各自 flush），再关 actor system。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// Base 构造消息头，trace 从 ctx 透传。
func Base(ctx context.Context, simID string) messages.ColonyBaseMessage {
	tid, _ := tracex.TraceIDFrom(ctx)
	return messages.ColonyBaseMessage{SimId: simID, TraceId: tid}
}

// Command 发送指令。守卫拒绝时 reply 与 err 同时返回，reply 里带最新视图（位置上报除外）。
func (r *Runtime) Command(ctx context.Context, msg messages.ColonyMessage) (*messages.CommandReply, error) {
	res, err := r.ask(ctx, msg)
	if err != nil {
		return nil, err
	}
	switch v := res.(type) {
	case *messages.CommandReply:
		return v, v.Err
	case *messages.FailReply:
		return nil, v.Err
	default:
		return nil, unexpected(res)
	}
}

func (r *Runtime) View(ctx context.Context, simID string) (entity.View, error) {
	res, err := r.ask(ctx, &messages.GetView{ColonyBaseMessage: Base(ctx, simID)})
	if err != nil {
		return entity.View{}, err
	}
	switch v := res.(type) {
	case *messages.ViewReply:
		return v.View, nil
	case *messages.FailReply:
		return entity.View{}, v.Err
	default:
		return entity.View{}, unexpected(res)
	}
}

func (r *Runtime) RecentEvents(ctx context.Context, simID string, limit int) ([]entity.Event, error) {
	res, err := r.ask(ctx, &messages.RecentEvents{ColonyBaseMessage: Base(ctx, simID), Limit: limit})
	if err != nil {
		return nil, err
	}
	switch v := res.(type) {
	case *messages.EventsReply:
		return v.Events, v.Err
	case *messages.FailReply:
		return nil, v.Err
	default:
		return nil, unexpected(res)
	}
}

func (r *Runtime) Export(ctx context.Context, simID string) (*entity.SimulationPersistSnapshot, error) {
	res, err := r.ask(ctx, &messages.Export{ColonyBaseMessage: Base(ctx, simID)})
	if err != nil {
		return nil, err
	}
	switch v := res.(type) {
	case *messages.ExportReply:
		return v.Snapshot, nil
	case *messages.FailReply:
		return nil, v.Err
	default:
		return nil, unexpected(res)
	}
}

func (r *Runtime) Subscribe(ctx context.Context, simID, key string, sink messages.EventSink) (entity.View, error) {
	return r.subscription(ctx, &messages.Subscribe{ColonyBaseMessage: Base(ctx, simID), Key: key, Sink: sink})
}

func (r *Runtime) Unsubscribe(ctx context.Context, simID, key string) error {
	_, err := r.subscription(ctx, &messages.Unsubscribe{ColonyBaseMessage: Base(ctx, simID), Key: key})
	return err
}

func (r *Runtime) subscription(ctx context.Context, msg messages.ColonyMessage) (entity.View, error) {
	res, err := r.ask(ctx, msg)
	if err != nil {
		return entity.View{}, err
	}
	switch v := res.(type) {
	case *messages.ViewReply:
		return v.View, nil
	case *messages.FailReply:
		return entity.View{}, v.Err
	default:
		return entity.View{}, unexpected(res)
	}
}

// ActiveSims 当前在线的模拟实例。
func (r *Runtime) ActiveSims(ctx context.Context) ([]string, error) {
	res, err := r.request(r.manager, &messages.ListSims{}, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	v, ok := res.(*messages.ListSimsReply)
	if !ok {
		return nil, unexpected(res)
	}
	return v.SimIDs, nil
}

func (r *Runtime) ask(ctx context.Context, msg messages.ColonyMessage) (any, error) {
	if msg == nil || msg.SimID() == "" {
		return nil, errx.ErrReqParamERR.WithData("detail", "sim_id required")
	}
	return r.request(r.manager, msg, r.timeoutFromContext(ctx))
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, errx.ErrUnavailable.WithData("detail", "actor runtime 未初始化")
	}
	if pid == nil {
		return nil, errx.ErrUnavailable.WithData("detail", "actor pid 为空")
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrTimeout) {
			return nil, errx.ErrTimeout.WithCause(err)
		}
		return nil, errx.ErrUnavailable.WithCause(err)
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func unexpected(res any) error {
	return errx.ErrInternal.WithData("detail", "unexpected actor reply").WithData("reply", res)
}
