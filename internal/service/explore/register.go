package explore

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/middleware"
	"github.com/oggyb/elite-connect/internal/respond"
)

// Registrar ties the Explore service into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Explore service.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Explore routes; all of them need a session.
func (r *Registrar) Register(_, protected *gin.RouterGroup) {
	h := &handler{svc: NewExploreService(r.appCtx), appCtx: r.appCtx}

	g := protected.Group("/explore")
	g.GET("/profiles", h.listCandidates)
	g.POST("/like", h.like)
	g.POST("/pass", h.pass)
	g.GET("/likes", h.listLikedYou)
	g.GET("/likes/new", h.listNewLikedYou)
	g.GET("/likes/count", h.countLikedYou)
}

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) listCandidates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	profiles, err := h.svc.ListCandidates(c.Request.Context(), middleware.CurrentUser(c).ID, limit)
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"profiles": profiles})
}

func (h *handler) like(c *gin.Context) {
	var req SwipeRequest
	if err := respond.BindJSON(c, &req); err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}

	res, err := h.svc.Like(c.Request.Context(), middleware.CurrentUser(c).ID, uint64(req.ProfileID))
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}

	body := gin.H{"matched": res.Matched}
	if res.Matched {
		body["matchId"] = respond.FormatID(res.MatchID)
	}
	respond.OK(c, body)
}

func (h *handler) pass(c *gin.Context) {
	var req SwipeRequest
	if err := respond.BindJSON(c, &req); err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}

	if err := h.svc.Pass(c.Request.Context(), middleware.CurrentUser(c).ID, uint64(req.ProfileID)); err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, nil)
}

func (h *handler) listLikedYou(c *gin.Context) {
	likers, next, err := h.svc.ListLikedYou(c.Request.Context(), middleware.CurrentUser(c).ID, c.Query("cursor"))
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"likers": likers, "nextCursor": next})
}

func (h *handler) listNewLikedYou(c *gin.Context) {
	likers, next, err := h.svc.ListNewLikedYou(c.Request.Context(), middleware.CurrentUser(c).ID, c.Query("cursor"))
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"likers": likers, "nextCursor": next})
}

func (h *handler) countLikedYou(c *gin.Context) {
	n, err := h.svc.CountLikedYou(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"count": n})
}
