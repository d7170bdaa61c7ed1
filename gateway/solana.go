package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/krispycake/solmint/faults"
)

// SolanaGateway implements Gateway against a Solana JSON-RPC endpoint.
type SolanaGateway struct {
	client       *rpc.Client
	log          *zap.Logger
	pollInterval time.Duration
}

// NewSolanaGateway wraps an RPC client. pollInterval drives the finalization
// status poll; it defaults to two seconds when non-positive.
func NewSolanaGateway(client *rpc.Client, log *zap.Logger, pollInterval time.Duration) *SolanaGateway {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &SolanaGateway{client: client, log: log, pollInterval: pollInterval}
}

func (g *SolanaGateway) RecentBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := g.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, faults.Connectivity(faults.CodeSubmissionRejected, "failed to obtain block reference: %v", err)
	}
	return out.Value.Blockhash, nil
}

func (g *SolanaGateway) MinimumMintRent(ctx context.Context) (uint64, error) {
	lamports, err := g.client.GetMinimumBalanceForRentExemption(ctx, token.MINT_SIZE, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("failed to compute rent-exempt minimum: %w", err)
	}
	return lamports, nil
}

func (g *SolanaGateway) NativeBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	out, err := g.client.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to read native balance: %w", err)
	}
	return out.Value, nil
}

func (g *SolanaGateway) AssetDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	out, err := g.client.GetTokenSupply(ctx, mint, rpc.CommitmentConfirmed)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return 0, faults.Validation(faults.CodeAssetLookupFailed, "address %s is not an initialized mint", mint)
		}
		return 0, faults.Validation(faults.CodeAssetLookupFailed, "failed to resolve mint %s: %v", mint, err)
	}
	return out.Value.Decimals, nil
}

func (g *SolanaGateway) HoldingAccount(ctx context.Context, owner, mint solana.PublicKey) (solana.PublicKey, bool, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, false, fmt.Errorf("failed to derive holding account: %w", err)
	}
	_, err = g.client.GetAccountInfo(ctx, ata)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return ata, false, nil
		}
		return solana.PublicKey{}, false, fmt.Errorf("failed to resolve holding account %s: %w", ata, err)
	}
	return ata, true, nil
}

func (g *SolanaGateway) HoldingBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	out, err := g.client.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read holding balance of %s: %w", account, err)
	}
	base, err := strconv.ParseUint(out.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable balance %q for %s: %w", out.Value.Amount, account, err)
	}
	return base, nil
}

// AwaitFinalization polls signature statuses until the transaction reaches
// finalized commitment, the chain reports an execution error, or ctx expires.
func (g *SolanaGateway) AwaitFinalization(ctx context.Context, sig solana.Signature) (*FinalizationResult, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for {
		out, err := g.client.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return nil, faults.Connectivity(faults.CodeTimeout, "confirmation wait failed for %s: %v", sig, err)
		}
		if len(out.Value) > 0 && out.Value[0] != nil {
			st := out.Value[0]
			if st.Err != nil {
				return &FinalizationResult{
					ExecutionErr: faults.Confirmation(faults.CodeExecutionError, "transaction failed on chain: %v", st.Err),
				}, nil
			}
			if st.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return &FinalizationResult{}, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, faults.Connectivity(faults.CodeTimeout, "confirmation wait for %s did not complete: %v", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}
