package subscription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/middleware"
	"github.com/oggyb/elite-connect/internal/respond"
)

type Registrar struct {
	svc    *Service
	appCtx *app.AppContext
}

// NewRegistrar fails when the configured subscription price is not a positive decimal.
func NewRegistrar(appCtx *app.AppContext) (*Registrar, error) {
	svc, err := NewSubscriptionService(appCtx)
	if err != nil {
		return nil, err
	}
	return &Registrar{svc: svc, appCtx: appCtx}, nil
}

func (r *Registrar) Register(_, protected *gin.RouterGroup) {
	g := protected.Group("/subscription")
	g.GET("/status", r.status)
	g.POST("/initiate", r.initiate)
	g.POST("/verify", r.verify)
	g.POST("/use-connection", r.useConnection)
}

func (r *Registrar) status(c *gin.Context) {
	st, err := r.svc.Status(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, r.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{
		"hasActiveSubscription":    st.HasActiveSubscription,
		"freeConnectionsRemaining": st.FreeConnectionsRemaining,
		"freeConnectionsLimit":     st.FreeConnectionsLimit,
		"freeConnectionsUsed":      st.FreeConnectionsUsed,
		"totalConnectionsUsed":     st.TotalConnectionsUsed,
		"subscriptionType":         st.SubscriptionType,
		"subscriptionExpiresAt":    st.SubscriptionExpiresAt,
		"canConnect":               st.CanConnect,
	})
}

func (r *Registrar) initiate(c *gin.Context) {
	p, err := r.svc.InitiatePayment(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respond.Error(c, r.appCtx.Logger, err)
		return
	}
	respond.OK(c, gin.H{
		"reference": p.Reference,
		"amount":    p.Amount,
		"currency":  p.Currency,
		"appId":     p.AppID,
	})
}

func (r *Registrar) verify(c *gin.Context) {
	var req VerifyRequest
	if err := respond.BindJSON(c, &req); err != nil {
		respond.Error(c, r.appCtx.Logger, err)
		return
	}
	res, err := r.svc.VerifyPayment(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respond.Error(c, r.appCtx.Logger, err)
		return
	}

	switch {
	case res.AlreadyVerified:
		respond.OK(c, gin.H{"verified": true, "message": "Already verified"})
	case res.Verified:
		respond.OK(c, gin.H{"verified": true, "subscriptionExpiresAt": res.ExpiresAt})
	default:
		// the rail said no; not an HTTP error
		c.JSON(http.StatusOK, gin.H{"success": false, "verified": false})
	}
}

func (r *Registrar) useConnection(c *gin.Context) {
	var req UseConnectionRequest
	if err := respond.BindJSON(c, &req); err != nil {
		respond.Error(c, r.appCtx.Logger, err)
		return
	}
	if err := r.svc.UseConnection(c.Request.Context(), middleware.CurrentUser(c).ID, req); err != nil {
		respond.Error(c, r.appCtx.Logger, err)
		return
	}
	respond.OK(c, nil)
}
