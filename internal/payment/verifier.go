package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request identifies a payment the client claims to have completed.
type Request struct {
	Reference     string
	TransactionID string
}

// Verifier confirms a payment against the external payment rail.
// A false result with a nil error means the rail answered "not paid".
type Verifier interface {
	Verify(ctx context.Context, req Request) (bool, error)
}

// StubVerifier treats every payment as settled.
type StubVerifier struct{}

func (StubVerifier) Verify(context.Context, Request) (bool, error) { return true, nil }

// WorldcoinVerifier looks the transaction up in the World developer portal.
type WorldcoinVerifier struct {
	BaseURL string
	AppID   string
	APIKey  string
	Client  *http.Client
}

func NewWorldcoinVerifier(baseURL, appID, apiKey string) *WorldcoinVerifier {
	return &WorldcoinVerifier{
		BaseURL: baseURL,
		AppID:   appID,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type minikitTransaction struct {
	Reference         string `json:"reference"`
	TransactionStatus string `json:"transaction_status"`
}

// Verify is true when the portal knows the transaction, its reference matches
// and it has not failed.
func (v *WorldcoinVerifier) Verify(ctx context.Context, req Request) (bool, error) {
	if req.TransactionID == "" {
		return false, nil
	}

	q := url.Values{}
	q.Set("app_id", v.AppID)
	q.Set("type", "payment")
	endpoint := fmt.Sprintf("%s/api/v2/minikit/transaction/%s?%s",
		v.BaseURL, url.PathEscape(req.TransactionID), q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+v.APIKey)

	resp, err := v.Client.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("payment lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("payment lookup: upstream status %d", resp.StatusCode)
	}

	var tx minikitTransaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return false, fmt.Errorf("payment lookup: decode: %w", err)
	}
	return tx.Reference == req.Reference && tx.TransactionStatus != "failed", nil
}
