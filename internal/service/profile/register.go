package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/elite-connect/internal/app"
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
	svc := NewProfileService(r.appCtx)
	log := r.appCtx.Logger

	g := protected.Group("/profile")
	g.POST("/create", func(c *gin.Context) {
		var req UpsertRequest
		if err := respond.BindJSON(c, &req); err != nil {
			respond.Error(c, log, err)
			return
		}
		p, err := svc.CreateOrUpdate(c.Request.Context(), middleware.CurrentUser(c).ID, req)
		if err != nil {
			respond.Error(c, log, err)
			return
		}
		respond.OK(c, gin.H{"profile": p})
	})

	g.GET("/me", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), middleware.CurrentUser(c).ID)
		if err != nil {
			respond.Error(c, log, err)
			return
		}
		respond.OK(c, gin.H{"profile": p})
	})
}
