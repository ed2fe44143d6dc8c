package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/elite-connect/internal/app"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/middleware"
	"github.com/oggyb/elite-connect/internal/respond"
)

type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(_, protected *gin.RouterGroup) {
	h := &handler{svc: NewChatService(r.appCtx), appCtx: r.appCtx}

	g := protected.Group("/chat")
	g.GET("/matches", h.listMatches)
	g.GET("/messages/:matchId", h.listMessages)
	g.POST("/send", h.send)
	g.POST("/read/:matchId", h.markRead)
}

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) listMatches(c *gin.Context) {
	matches, err := h.svc.ListMatches(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"matches": matches})
}

func (h *handler) listMessages(c *gin.Context) {
	matchID, ok := respond.ParseID(c.Param("matchId"))
	if !ok {
		respond.Error(c, h.appCtx.Logger, svcErr.NotFound("Match not found"))
		return
	}
	msgs, err := h.svc.ListMessages(c.Request.Context(), middleware.CurrentUser(c).ID, matchID)
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"messages": msgs})
}

func (h *handler) send(c *gin.Context) {
	var req SendRequest
	if err := respond.BindJSON(c, &req); err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	msg, err := h.svc.Send(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"message": msg})
}

func (h *handler) markRead(c *gin.Context) {
	matchID, ok := respond.ParseID(c.Param("matchId"))
	if !ok {
		respond.Error(c, h.appCtx.Logger, svcErr.NotFound("Match not found"))
		return
	}
	n, err := h.svc.MarkRead(c.Request.Context(), middleware.CurrentUser(c).ID, matchID)
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"updated": n})
}
