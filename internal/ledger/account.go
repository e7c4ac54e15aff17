package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samber/oops"
)

// HTTPAccount forwards transactions to an external signer service. Wallet
// and key management stay outside the process; the signer owns nonce
// handling and submission.
type HTTPAccount struct {
	endpoint string
	address  string
	client   *http.Client
}

func NewHTTPAccount(endpoint, address string) *HTTPAccount {
	return &HTTPAccount{
		endpoint: endpoint,
		address:  address,
		client:   &http.Client{},
	}
}

func (a *HTTPAccount) Address() string { return a.address }

type executeRequest struct {
	Calls []Call `json:"calls"`
}

type executeResponse struct {
	TransactionHash string `json:"transaction_hash"`
	Error           string `json:"error,omitempty"`
}

func (a *HTTPAccount) Execute(ctx context.Context, calls []Call) (string, error) {
	body, err := json.Marshal(executeRequest{Calls: calls})
	if err != nil {
		return "", oops.Wrapf(err, "encode execute request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", oops.Wrapf(err, "build execute request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", oops.With("endpoint", a.endpoint).Wrapf(err, "submit transaction")
	}
	defer resp.Body.Close()

	var decoded executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", oops.Wrapf(err, "decode signer response")
	}
	if resp.StatusCode != http.StatusOK {
		msg := decoded.Error
		if msg == "" {
			msg = resp.Status
		}
		return "", oops.With("status", resp.StatusCode).Errorf("signer rejected transaction: %s", msg)
	}
	if decoded.TransactionHash == "" {
		return "", fmt.Errorf("signer returned no transaction hash")
	}
	return decoded.TransactionHash, nil
}
