// Package gateway abstracts the ledger RPC endpoint the orchestrator talks
// to: block references, account reads, mint metadata and the finalization
// wait. Builders and the confirmation tracker depend on the interface only;
// the Solana RPC implementation lives alongside it.
package gateway

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// FinalizationResult is the outcome of a completed finalization wait.
// ExecutionErr is set when the chain finalized the transaction with an
// execution error, meaning the operation definitely did not take effect.
type FinalizationResult struct {
	ExecutionErr error
}

// Gateway is the ledger-side collaborator contract.
type Gateway interface {
	// RecentBlockhash returns a recent block reference to attach to a
	// transaction before signing.
	RecentBlockhash(ctx context.Context) (solana.Hash, error)

	// MinimumMintRent returns the rent-exempt minimum balance for a new
	// mint account.
	MinimumMintRent(ctx context.Context) (uint64, error)

	// NativeBalance returns the lamport balance of an account.
	NativeBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)

	// AssetDecimals resolves the decimal precision of a mint. It fails with
	// an asset_lookup_failed validation error when the address is not an
	// initialized mint.
	AssetDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error)

	// HoldingAccount derives the owner's associated token account for the
	// mint and reports whether it exists on chain yet.
	HoldingAccount(ctx context.Context, owner, mint solana.PublicKey) (solana.PublicKey, bool, error)

	// HoldingBalance reads the base-unit balance of a token account.
	// A missing account reads as zero.
	HoldingBalance(ctx context.Context, account solana.PublicKey) (uint64, error)

	// AwaitFinalization blocks until the transaction finalizes, the chain
	// reports an execution error, or ctx expires. A nil error with a result
	// means the wait completed; an error means the wait itself failed and
	// the outcome is unknown.
	AwaitFinalization(ctx context.Context, sig solana.Signature) (*FinalizationResult, error)
}
