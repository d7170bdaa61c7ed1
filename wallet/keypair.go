package wallet

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/krispycake/solmint/faults"
)

// KeypairProvider is a Provider backed by a local keypair. It signs prepared
// transactions directly and submits them through the RPC client, which lets
// the service run against devnet without a browser wallet bridge.
type KeypairProvider struct {
	key    solana.PrivateKey
	client *rpc.Client
	events chan IdentityEvent
}

// NewKeypairProvider loads a base58-encoded private key.
func NewKeypairProvider(base58Key string, client *rpc.Client) (*KeypairProvider, error) {
	key, err := solana.PrivateKeyFromBase58(base58Key)
	if err != nil {
		return nil, faults.New(faults.ClassValidation, faults.CodeProviderUnavailable, "invalid wallet key: %v", err)
	}
	return &KeypairProvider{
		key:    key,
		client: client,
		events: make(chan IdentityEvent),
	}, nil
}

func (p *KeypairProvider) Connect(ctx context.Context) (solana.PublicKey, error) {
	return p.key.PublicKey(), nil
}

func (p *KeypairProvider) Disconnect(ctx context.Context) error { return nil }

// SignAndSubmit signs with the local key and submits with preflight enabled,
// the same submission options the network expects for user-facing operations.
func (p *KeypairProvider) SignAndSubmit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(p.key.PublicKey()) {
			return &p.key
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, faults.Submission(faults.CodeUserRejected, "failed to sign transaction: %v", err)
	}

	sig, err := p.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, faults.Submission(faults.CodeSubmissionRejected, "submission rejected by gateway: %v", err)
	}
	return sig, nil
}

// IdentityEvents returns the event stream. A local keypair never changes
// identity, so the channel stays open and silent.
func (p *KeypairProvider) IdentityEvents() <-chan IdentityEvent {
	return p.events
}
