package actors

import (
	"sort"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"SpaceColony/internal/shared/actor/messages"
	"SpaceColony/modules/kit/errx"
)

// ManagerActor 按 SimID 懒创建模拟 actor 并转发消息。
type ManagerActor struct {
	deps     Deps
	colonies map[SimID]*actor.PID
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		deps:     deps.withDefaults(),
		colonies: make(map[SimID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case *messages.ListSims:
		ids := make([]string, 0, len(m.colonies))
		for id := range m.colonies {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)
		ctx.Respond(&messages.ListSimsReply{SimIDs: ids})
	case messages.ColonyMessage:
		if msg.SimID() == "" {
			ctx.Respond(&messages.FailReply{Err: errx.ErrReqParamERR.WithData("detail", "sim_id required")})
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, SimID(msg.SimID())))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, simID SimID) *actor.PID {
	if pid, ok := m.colonies[simID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewColonyActor(simID, m.deps)
	})
	pid := ctx.Spawn(props)
	m.colonies[simID] = pid
	return pid
}

// forget 子 actor 退出（加载失败或被停掉）后移除，下次请求重新拉起。
func (m *ManagerActor) forget(who *actor.PID) {
	if who == nil {
		return
	}
	for id, pid := range m.colonies {
		if pid != nil && pid.Id == who.Id {
			delete(m.colonies, id)
			m.deps.Logger.Info("colony actor terminated", zap.String("sim_id", string(id)))
			return
		}
	}
}
