package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldIDVerifier(t *testing.T) {
	var got verifyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/verify/app_test", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.Proof == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"invalid_proof","detail":"The provided proof is invalid."}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	v := NewWorldIDVerifier(srv.URL, "app_test", "login")

	err := v.Verify(context.Background(), Proof{NullifierHash: "0xabc", Proof: "good", VerificationLevel: "orb"})
	require.NoError(t, err)
	assert.Equal(t, "login", got.Action)
	assert.Equal(t, SignalHash(""), got.SignalHash)

	err = v.Verify(context.Background(), Proof{NullifierHash: "0xabc", Proof: "bad", VerificationLevel: "orb"})
	assert.ErrorIs(t, err, ErrProofRejected)
	assert.ErrorContains(t, err, "invalid_proof")
}

func TestWorldIDVerifierUpstreamFailureIsNotRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	err := NewWorldIDVerifier(srv.URL, "app_test", "login").Verify(context.Background(), Proof{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProofRejected)
}

func TestSignalHash(t *testing.T) {
	h := SignalHash("")
	assert.Len(t, h, 66)
	// hashToField leaves the top byte zero
	assert.Equal(t, "0x00", h[:4])
	assert.NotEqual(t, h, SignalHash("0x1234"))
}
