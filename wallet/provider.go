// Package wallet holds the session state of the connected actor, the signing
// provider contract, and the balance reconciler that keeps the session in
// step with the chain after confirmed operations.
package wallet

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// IdentityEvent is emitted by a provider when the controlling identity
// changes. A nil Identity means the provider lost its account and the session
// must reset; a non-nil one replaces the session identity atomically.
type IdentityEvent struct {
	Identity *solana.PublicKey
}

// Provider is the wallet-signing collaborator. Implementations are free to be
// remote (browser wallet bridges) or local (keypair files); the orchestrator
// only relies on this capability set.
type Provider interface {
	// Connect performs the provider handshake and returns the actor identity.
	Connect(ctx context.Context) (solana.PublicKey, error)

	// Disconnect tears the provider session down.
	Disconnect(ctx context.Context) error

	// SignAndSubmit signs the prepared transaction with the actor's key and
	// submits it, returning the network transaction signature. A declined
	// signature surfaces as a submission/user_rejected fault.
	SignAndSubmit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)

	// IdentityEvents streams identity changes for the watcher.
	IdentityEvents() <-chan IdentityEvent
}
