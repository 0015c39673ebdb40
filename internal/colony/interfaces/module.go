package interfaces

import (
	"github.com/gin-gonic/gin"

	"SpaceColony/internal/colony/interfaces/handler"
	"SpaceColony/internal/colony/interfaces/handler/http"
	ws2 "SpaceColony/internal/colony/interfaces/handler/ws"
	transporthttp "SpaceColony/internal/shared/transport/http"
	"SpaceColony/internal/shared/transport/ws"
	"SpaceColony/modules/kit/logx"
)

type Module struct {
	colony      *handler.Colony
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(svc handler.ColonyService, opts handler.Options, log logx.Logger) *Module {
	colony := handler.NewColony(svc, opts, log)
	return &Module{
		colony:      colony,
		wsHandler:   ws2.NewWsHandler(colony),
		httpHandler: http.NewHttpHandler(colony),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
