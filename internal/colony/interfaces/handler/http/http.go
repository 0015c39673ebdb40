package http

import (
	"context"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"SpaceColony/internal/colony/actor"
	"SpaceColony/internal/colony/interfaces/handler"
	"SpaceColony/internal/colony/interfaces/handler/dto"
	"SpaceColony/internal/shared/security"
	"SpaceColony/internal/shared/transport"
)

type HttpHandler struct {
	colony *handler.Colony
}

func NewHttpHandler(c *handler.Colony) *HttpHandler {
	return &HttpHandler{colony: c}
}

// RegisterRoutes
//
//	POST /token                              开发环境签发 token
//	GET  /colonies/:sim/view                 当前快照
//	GET  /colonies/:sim/events?limit=        最近事件
//	POST /colonies/:sim/commands/:name       指令和物理层上报
func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	if h.colony.Opts.IsDev {
		group.POST("/token", h.Token)
	}
	colonyGroup := group.Group("/colonies/:sim", h.auth)
	colonyGroup.GET("/view", h.View)
	colonyGroup.GET("/events", h.Events)
	colonyGroup.POST("/commands/:name", h.Command)
}

// auth 开启鉴权时 token 里的 sim_id 必须和路径一致。
func (h *HttpHandler) auth(c *gin.Context) {
	if !h.colony.Opts.NeedAuth {
		c.Next()
		return
	}
	raw := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if raw == "" {
		h.fail(c, transport.Unauthorized, "缺少 token")
		c.Abort()
		return
	}
	_, claims, err := security.ParseToken(raw)
	if err != nil || claims.SimID != c.Param("sim") {
		h.fail(c, transport.Unauthorized, "token 无效")
		c.Abort()
		return
	}
	c.Next()
}

func (h *HttpHandler) Token(c *gin.Context) {
	var req dto.TokenReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SimId == "" {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	token, err := security.Award(req.SimId)
	if err != nil {
		h.fail(c, transport.SystemError, "签发 token 失败")
		return
	}
	h.ok(c, dto.TokenResp{Token: token})
}

func (h *HttpHandler) View(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := h.colony.Service.View(ctx, c.Param("sim"))
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, view)
}

func (h *HttpHandler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.fail(c, transport.InvalidParam, "limit 有误")
			return
		}
		limit = n
	}
	events, err := h.colony.Service.RecentEvents(ctx, c.Param("sim"), limit)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.EventsResp{Events: events})
}

func (h *HttpHandler) Command(c *gin.Context) {
	ctx := c.Request.Context()

	factory, ok := dto.Commands[c.Param("name")]
	if !ok {
		h.fail(c, transport.InvalidParam, "指令不存在")
		return
	}
	req := factory()
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	reply, err := h.colony.Service.Command(ctx, req.Message(actor.Base(ctx, c.Param("sim"))))
	if err != nil {
		if reply == nil {
			h.error(ctx, c, err)
			return
		}
		// 守卫拒绝也带上最新视图，前端不用再查一次
		code, msg := handler.HandleError(ctx, err)
		c.JSON(nethttp.StatusOK, dto.Response{Code: code, Msg: msg, Data: dto.CommandResp{View: reply.View}})
		return
	}
	h.ok(c, dto.CommandResp{ShipId: reply.ShipId, View: reply.View})
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(c, code, msg)
}
