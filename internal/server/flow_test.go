package server_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idauth "github.com/oggyb/elite-connect/internal/auth"
	"github.com/oggyb/elite-connect/internal/server"
	"github.com/oggyb/elite-connect/internal/service/auth"
	"github.com/oggyb/elite-connect/internal/service/chat"
	"github.com/oggyb/elite-connect/internal/service/explore"
	"github.com/oggyb/elite-connect/internal/service/profile"
	"github.com/oggyb/elite-connect/internal/service/subscription"
	"github.com/oggyb/elite-connect/internal/testutil"
)

// signUp verifies a fresh identity and completes its profile.
func signUp(t *testing.T, h http.Handler, nullifier, name string) (token, id string) {
	t.Helper()
	w := testutil.SendRequest(t, h, http.MethodPost, "/api/auth/verify",
		gin.H{"nullifier_hash": nullifier, "verification_level": "orb"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.DecodeJSON(t, w)
	token = body["token"].(string)
	id = body["user"].(map[string]any)["id"].(string)

	w = testutil.SendRequest(t, h, http.MethodPost, "/api/profile/create",
		gin.H{"name": name, "age": 27, "gender": "other"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	return token, id
}

func matchCount(t *testing.T, h http.Handler, token string) int {
	t.Helper()
	w := testutil.SendRequest(t, h, http.MethodGet, "/api/chat/matches", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	return len(testutil.DecodeJSON(t, w)["matches"].([]any))
}

func TestMatchUnlockAndChatFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := testutil.NewAppContext(t)
	a.Proofs = idauth.TrustingVerifier{}

	subs, err := subscription.NewRegistrar(a)
	require.NoError(t, err)
	r := server.NewRouter(a,
		auth.NewRegistrar(a),
		profile.NewRegistrar(a),
		explore.NewRegistrar(a),
		chat.NewRegistrar(a),
		subs,
	)

	ana, anaID := signUp(t, r, "0xana", "Ana")
	ben, benID := signUp(t, r, "0xben", "Ben")

	w := testutil.SendRequest(t, r, http.MethodGet, "/api/explore/profiles", nil, ana)
	require.Equal(t, http.StatusOK, w.Code)
	profiles := testutil.DecodeJSON(t, w)["profiles"].([]any)
	require.Len(t, profiles, 1)
	assert.Equal(t, benID, profiles[0].(map[string]any)["id"])

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/explore/like", gin.H{"profileId": benID}, ana)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, testutil.DecodeJSON(t, w)["matched"])

	w = testutil.SendRequest(t, r, http.MethodGet, "/api/explore/likes/count", nil, ben)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), testutil.DecodeJSON(t, w)["count"])

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/explore/like", gin.H{"profileId": anaID}, ben)
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.DecodeJSON(t, w)
	require.Equal(t, true, body["matched"])
	matchID := body["matchId"].(string)

	// matched but still locked: invisible in chat
	assert.Zero(t, matchCount(t, r, ana))
	assert.Zero(t, matchCount(t, r, ben))

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/chat/send", gin.H{"matchId": matchID, "content": "hi"}, ana)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/subscription/use-connection", gin.H{"matchId": matchID}, ana)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, matchCount(t, r, ana))
	assert.Equal(t, 1, matchCount(t, r, ben))

	w = testutil.SendRequest(t, r, http.MethodPost, "/api/chat/send", gin.H{"matchId": matchID, "content": "hi"}, ana)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.SendRequest(t, r, http.MethodGet, "/api/chat/messages/"+matchID, nil, ben)
	require.Equal(t, http.StatusOK, w.Code)
	msgs := testutil.DecodeJSON(t, w)["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, false, msgs[0].(map[string]any)["isMine"])

	w = testutil.SendRequest(t, r, http.MethodGet, "/api/subscription/status", nil, ana)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), testutil.DecodeJSON(t, w)["freeConnectionsRemaining"])

	w = testutil.SendRequest(t, r, http.MethodGet, "/api/auth/me", nil, ben)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, testutil.DecodeJSON(t, w)["user"].(map[string]any)["profileCompleted"])
}
