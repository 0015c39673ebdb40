package ws

import (
	"context"

	"SpaceColony/internal/colony/actor"
	"SpaceColony/internal/colony/interfaces/handler"
	"SpaceColony/internal/colony/interfaces/handler/dto"
	"SpaceColony/internal/shared/security"
	"SpaceColony/internal/shared/transport"
	"SpaceColony/internal/shared/transport/ws"
)

// ConnKeySim 连接上绑定的模拟 ID
const ConnKeySim = "sim_id"

type WsHandler struct {
	colony *handler.Colony
}

func NewWsHandler(c *handler.Colony) *WsHandler {
	return &WsHandler{colony: c}
}

// RegisterRoutes 先 colony.auth 绑定模拟，之后的指令都作用在绑定的模拟上。
func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	g := r.Group("colony")
	g.Handle("auth", h.auth)
	g.Handle("view", h.view)
	g.Handle("events", h.events)
	for name := range dto.Commands {
		g.Handle(name, h.command(name))
	}
}

func (h *WsHandler) auth(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req dto.AuthReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	simID := req.SimId
	if h.colony.Opts.NeedAuth {
		_, claims, err := security.ParseToken(req.Token)
		if err != nil {
			h.fail(wsResp, transport.Unauthorized, "token 无效")
			return
		}
		simID = claims.SimID
	}
	if simID == "" {
		h.fail(wsResp, transport.InvalidParam, "sim_id 为空")
		return
	}

	first := h.colony.Session.Bind(simID, wsReq.Conn)
	wsReq.Conn.SetProperty(ConnKeySim, simID)
	if !first {
		h.view(ctx, wsReq, wsResp)
		return
	}

	view, err := h.colony.Service.Subscribe(ctx, simID, handler.SubscribeKey, h.colony.Session)
	if err != nil {
		h.colony.Session.UnbindConn(wsReq.Conn)
		wsReq.Conn.RemoveProperty(ConnKeySim)
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, view)
}

func (h *WsHandler) view(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	simID, ok := h.simOf(wsReq, wsResp)
	if !ok {
		return
	}
	view, err := h.colony.Service.View(ctx, simID)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, view)
}

func (h *WsHandler) events(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	simID, ok := h.simOf(wsReq, wsResp)
	if !ok {
		return
	}
	var req dto.EventsReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.Limit < 0 {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	events, err := h.colony.Service.RecentEvents(ctx, simID, req.Limit)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, dto.EventsResp{Events: events})
}

func (h *WsHandler) command(name string) ws.HandlerFunc {
	factory := dto.Commands[name]
	return func(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
		simID, ok := h.simOf(wsReq, wsResp)
		if !ok {
			return
		}
		req := factory()
		if err := ws.BindJSON(wsReq, req); err != nil {
			h.fail(wsResp, transport.InvalidParam, "参数有误")
			return
		}
		reply, err := h.colony.Service.Command(ctx, req.Message(actor.Base(ctx, simID)))
		if err != nil {
			h.error(ctx, wsResp, err)
			return
		}
		h.ok(wsResp, dto.CommandResp{ShipId: reply.ShipId, View: reply.View})
	}
}

// simOf 没有 colony.auth 过的连接不能发指令。
func (h *WsHandler) simOf(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (string, bool) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return "", false
	}
	simID, ok := h.colony.Session.GetSim(wsReq.Conn)
	if !ok {
		h.fail(wsResp, transport.SessionInvalid, "session 无效")
		return "", false
	}
	return simID, true
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(resp, code, msg)
}
