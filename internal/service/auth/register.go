package auth

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

// Register puts verify on the public group and me behind the gate.
func (r *Registrar) Register(public, protected *gin.RouterGroup) {
	h := &handler{svc: NewAuthService(r.appCtx), appCtx: r.appCtx}

	public.POST("/auth/verify", h.verify)
	protected.GET("/auth/me", h.me)
}

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) verify(c *gin.Context) {
	var req VerifyRequest
	if err := respond.BindJSON(c, &req); err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}

	sess, err := h.svc.Verify(c.Request.Context(), req)
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{
		"token":     sess.Token,
		"expiresAt": sess.ExpiresAt,
		"user": gin.H{
			"id":                sess.User.ID,
			"verificationLevel": sess.User.VerificationLevel,
			"profileCompleted":  sess.User.ProfileCompleted,
		},
	})
}

func (h *handler) me(c *gin.Context) {
	id, err := h.svc.Me(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, h.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{"user": id})
}
