// Package ledger wraps game actions as on-chain calls: single calls with
// positional calldata for the simple actions, and the two-call randomness
// sandwich for the randomized move. Every dispatch is fire-and-forget.
package ledger

import "context"

// Call is one contract invocation. Calldata is positional and stringly
// typed; the argument order per entrypoint is part of the wire contract.
type Call struct {
	ContractAddress string   `json:"contractAddress"`
	Entrypoint      string   `json:"entrypoint"`
	Calldata        []string `json:"calldata"`
}

// Account is the opaque ledger client boundary: a connected wallet able to
// submit one or more calls as a single transaction.
type Account interface {
	// Execute submits the calls in order as one transaction and returns a
	// transaction handle.
	Execute(ctx context.Context, calls []Call) (string, error)
	// Address is the caller address included in oracle request calldata.
	Address() string
}
