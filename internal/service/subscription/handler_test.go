package subscription_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/elite-connect/internal/respond"
	"github.com/oggyb/elite-connect/internal/server"
	"github.com/oggyb/elite-connect/internal/service/subscription"
	"github.com/oggyb/elite-connect/internal/testutil"
)

func TestSubscriptionRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := setupService(t)
	reg, err := subscription.NewRegistrar(f.app)
	require.NoError(t, err)
	r := server.NewRouter(f.app, reg)
	ana := testutil.Token(t, f.app, f.ana.ID)

	w := testutil.SendRequest(t, r, http.MethodGet, "/api/subscription/status", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.SendRequest(t, r, http.MethodGet, "/api/subscription/status", nil, ana)
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.DecodeJSON(t, w)
	assert.Equal(t, float64(2), body["freeConnectionsRemaining"])
	assert.Equal(t, true, body["canConnect"])

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/use-connection", gin.H{}, ana)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Match ID required", testutil.DecodeJSON(t, w)["error"])

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/use-connection",
		gin.H{"matchId": respond.FormatID(f.matches[0].ID)}, ana)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, testutil.DecodeJSON(t, w)["success"])

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/initiate", nil, ana)
	require.Equal(t, http.StatusOK, w.Code)
	ref := testutil.DecodeJSON(t, w)["reference"].(string)

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/verify", gin.H{"reference": "missing"}, ana)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Transaction not found", testutil.DecodeJSON(t, w)["error"])

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/verify", gin.H{"reference": ref, "transactionId": "tx"}, ana)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, testutil.DecodeJSON(t, w)["verified"])

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/verify", gin.H{"reference": ref}, ana)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Already verified", testutil.DecodeJSON(t, w)["message"])

	w = testutil.SendRequest(t, r, http.MethodGet, "/api/subscription/status", nil, ana)
	require.Equal(t, http.StatusOK, w.Code)
	body = testutil.DecodeJSON(t, w)
	assert.Equal(t, true, body["hasActiveSubscription"])
	assert.Nil(t, body["freeConnectionsRemaining"])
}

func TestVerifyRejectedIsNotAnHTTPError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := setupService(t)
	f.app.Payments = rejectingVerifier{}
	reg, err := subscription.NewRegistrar(f.app)
	require.NoError(t, err)
	r := server.NewRouter(f.app, reg)
	ana := testutil.Token(t, f.app, f.ana.ID)

	w := testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/initiate", nil, ana)
	ref := testutil.DecodeJSON(t, w)["reference"].(string)

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/verify", gin.H{"reference": ref}, ana)
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.DecodeJSON(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, false, body["verified"])
}
