package handler

import (
	"context"

	"SpaceColony/internal/colony/entity"
	"SpaceColony/internal/shared/actor/messages"
	"SpaceColony/internal/shared/session"
	"SpaceColony/modules/kit/logx"
)

// ColonyService 接口层需要的运行时能力，由 colony actor.Runtime 实现。
type ColonyService interface {
	Command(ctx context.Context, msg messages.ColonyMessage) (*messages.CommandReply, error)
	View(ctx context.Context, simID string) (entity.View, error)
	RecentEvents(ctx context.Context, simID string, limit int) ([]entity.Event, error)
	Subscribe(ctx context.Context, simID, key string, sink messages.EventSink) (entity.View, error)
	Unsubscribe(ctx context.Context, simID, key string) error
}

// SubscribeKey ws 会话管理器在每个模拟上只订阅一次。
const SubscribeKey = "ws"

type Options struct {
	NeedAuth bool
	IsDev    bool
}

type Colony struct {
	Service ColonyService
	Session *session.SessMgr
	Opts    Options
	Log     logx.Logger
}

func NewColony(svc ColonyService, opts Options, log logx.Logger) *Colony {
	if log == nil {
		log = logx.Nop()
	}
	c := &Colony{
		Service: svc,
		Opts:    opts,
		Log:     log,
	}
	c.Session = session.NewSessMgr(c.unsubscribe)
	return c
}

// unsubscribe 模拟的最后一个 ws 观察者离开后退订。
func (c *Colony) unsubscribe(simID string) {
	ctx := context.Background()
	if err := c.Service.Unsubscribe(ctx, simID, SubscribeKey); err != nil {
		logx.ReportCommandWithLoggerContext(ctx, c.Log, "colony.unsubscribe", err)
	}
}
