package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"golang.org/x/crypto/sha3"
)

// ErrProofRejected means the external verifier answered and said no.
var ErrProofRejected = errors.New("proof rejected")

// Proof is the proof-of-personhood material posted by the mini app.
type Proof struct {
	NullifierHash     string
	MerkleRoot        string
	Proof             string
	VerificationLevel string
	Signal            string
}

// ProofVerifier checks proof material against the external identity provider.
type ProofVerifier interface {
	Verify(ctx context.Context, p Proof) error
}

// WorldIDVerifier verifies proofs with the World ID cloud verification API.
type WorldIDVerifier struct {
	BaseURL string
	AppID   string
	Action  string
	Client  *http.Client
}

func NewWorldIDVerifier(baseURL, appID, action string) *WorldIDVerifier {
	return &WorldIDVerifier{
		BaseURL: baseURL,
		AppID:   appID,
		Action:  action,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type verifyRequest struct {
	NullifierHash     string `json:"nullifier_hash"`
	MerkleRoot        string `json:"merkle_root"`
	Proof             string `json:"proof"`
	VerificationLevel string `json:"verification_level"`
	Action            string `json:"action"`
	SignalHash        string `json:"signal_hash"`
}

type verifyError struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (v *WorldIDVerifier) Verify(ctx context.Context, p Proof) error {
	if v.AppID == "" {
		return errors.New("world id verifier: app id not configured")
	}

	body, err := json.Marshal(verifyRequest{
		NullifierHash:     p.NullifierHash,
		MerkleRoot:        p.MerkleRoot,
		Proof:             p.Proof,
		VerificationLevel: p.VerificationLevel,
		Action:            v.Action,
		SignalHash:        SignalHash(p.Signal),
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v2/verify/%s", v.BaseURL, v.AppID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("world id verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("world id verify: upstream status %d", resp.StatusCode)
	}

	var ve verifyError
	_ = json.NewDecoder(resp.Body).Decode(&ve)
	return fmt.Errorf("%w: %s %s", ErrProofRejected, ve.Code, ve.Detail)
}

// SignalHash is World ID's hashToField: keccak256(signal) shifted right by 8 bits.
func SignalHash(signal string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signal))
	n := new(big.Int).SetBytes(h.Sum(nil))
	n.Rsh(n, 8)
	return fmt.Sprintf("0x%064x", n)
}

// TrustingVerifier accepts every proof. Development only.
type TrustingVerifier struct{}

func (TrustingVerifier) Verify(context.Context, Proof) error { return nil }
