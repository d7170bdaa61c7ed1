// Package services implements the transaction lifecycle orchestrator: the
// operation builders that turn user intents into signed ledger operations,
// the shared submission pipeline, and the confirmation tracker that follows
// each submission to finality and reconciles balances on success.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krispycake/solmint/amount"
	"github.com/krispycake/solmint/faults"
	"github.com/krispycake/solmint/gateway"
	"github.com/krispycake/solmint/history"
	"github.com/krispycake/solmint/models"
	"github.com/krispycake/solmint/wallet"
)

// BalanceReconciler is the downstream refresh hook the confirmation tracker
// triggers once per successful confirmation. Coalescing of concurrent
// triggers is the implementation's concern.
type BalanceReconciler interface {
	Trigger()
}

// OperationService drives asset operations end to end. Every user intent runs
// as an independent task: builders block through submission and hand the
// returned signature to a tracker goroutine, so unrelated operations never
// wait on each other.
type OperationService struct {
	log        *zap.Logger
	gw         gateway.Gateway
	provider   wallet.Provider
	session    *wallet.Session
	history    *history.Store
	reconciler BalanceReconciler

	confirmTimeout time.Duration
	wg             sync.WaitGroup
}

func NewOperationService(
	log *zap.Logger,
	gw gateway.Gateway,
	provider wallet.Provider,
	session *wallet.Session,
	hist *history.Store,
	reconciler BalanceReconciler,
	confirmTimeout time.Duration,
) *OperationService {
	if confirmTimeout <= 0 {
		confirmTimeout = 90 * time.Second
	}
	return &OperationService{
		log:            log,
		gw:             gw,
		provider:       provider,
		session:        session,
		history:        hist,
		reconciler:     reconciler,
		confirmTimeout: confirmTimeout,
	}
}

// CreateAssetResult carries the identifiers a caller needs to register the
// new asset once creation finalizes.
type CreateAssetResult struct {
	ProvisionalID string `json:"provisional_id"`
	NetworkID     string `json:"network_id"`
	AssetAddress  string `json:"asset_address"`
}

// OperationResult identifies a submitted mint or transfer attempt.
type OperationResult struct {
	ProvisionalID string `json:"provisional_id"`
	NetworkID     string `json:"network_id"`
}

// CreateAsset builds and submits a two-instruction operation that allocates a
// fresh mint account and initializes it with the actor as mint and freeze
// authority. On confirmed success the actor's own holding account for the new
// asset is ensured and an AssetHandle is registered in the session.
//
// A nil return means the failure was already recorded in the history.
func (s *OperationService) CreateAsset(ctx context.Context, name, symbol string, decimals uint8) *CreateAssetResult {
	id := uuid.New().String()
	s.history.Apply(history.Update{
		ProvisionalID: id,
		Kind:          models.KindCreateAsset,
		Detail:        fmt.Sprintf("Initializing creation of %s...", symbol),
	})

	actor, ok := s.session.Actor()
	if !ok {
		s.fail(id, faults.Validation(faults.CodeWalletNotConnected, "wallet is not connected"), "wallet is not connected")
		return nil
	}

	mint := solana.NewWallet()

	rent, err := s.gw.MinimumMintRent(ctx)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassConnectivity, faults.CodeTimeout), "failed to compute rent-exempt minimum")
		return nil
	}

	instrs := []solana.Instruction{
		system.NewCreateAccountInstruction(
			rent,
			token.MINT_SIZE,
			token.ProgramID,
			actor,
			mint.PublicKey(),
		).Build(),
		token.NewInitializeMintInstruction(
			decimals,
			actor,
			actor,
			mint.PublicKey(),
			solana.SysVarRentPubkey,
		).Build(),
	}

	// The generated mint keypair must co-sign account allocation.
	sig, ok := s.submit(ctx, id, actor, instrs, []solana.PrivateKey{mint.PrivateKey})
	if !ok {
		return nil
	}

	s.history.Apply(history.Update{
		ProvisionalID: id,
		NetworkID:     sig.String(),
		Detail:        fmt.Sprintf("Mint account created for %s. Confirming...", symbol),
	})

	assetAddr := mint.PublicKey()
	handle := models.AssetHandle{
		Address:     assetAddr.String(),
		Symbol:      symbol,
		DisplayName: name,
		Decimals:    decimals,
	}
	s.trackAsync(id, sig,
		fmt.Sprintf("Token %s (%s) created successfully!", symbol, name),
		func(ctx context.Context) {
			s.ensureHoldingAccount(ctx, actor, assetAddr)
			s.session.TrackAsset(handle)
		},
	)

	return &CreateAssetResult{ProvisionalID: id, NetworkID: sig.String(), AssetAddress: assetAddr.String()}
}

// MintSupply mints displayAmount of the asset to destinationAddress, or to
// the actor's own holding account when no destination is given. The actor
// must be the asset's mint authority; a mismatch surfaces from the chain, not
// from local checks.
func (s *OperationService) MintSupply(ctx context.Context, assetAddress, destinationAddress, displayAmount string) *OperationResult {
	id := uuid.New().String()
	s.history.Apply(history.Update{
		ProvisionalID: id,
		Kind:          models.KindMintSupply,
		Detail:        fmt.Sprintf("Preparing to mint %s tokens...", displayAmount),
	})

	actor, ok := s.session.Actor()
	if !ok {
		s.fail(id, faults.Validation(faults.CodeWalletNotConnected, "wallet is not connected"), "wallet is not connected")
		return nil
	}

	mint, err := solana.PublicKeyFromBase58(assetAddress)
	if err != nil {
		s.fail(id, faults.Validation(faults.CodeMalformedAddress, "asset address %q is not valid: %v", assetAddress, err), "asset address is not a valid account identifier")
		return nil
	}

	display, err := amount.ParseDisplayAmount(displayAmount)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassValidation, faults.CodeInvalidAmount), "amount must be a positive number")
		return nil
	}

	decimals, err := s.gw.AssetDecimals(ctx, mint)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassValidation, faults.CodeAssetLookupFailed), "asset metadata lookup failed")
		return nil
	}

	base, err := amount.ToBaseUnits(display, decimals)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassValidation, faults.CodeInvalidAmount), "amount cannot be represented at the asset's precision")
		return nil
	}

	var instrs []solana.Instruction
	var destination solana.PublicKey
	if destinationAddress != "" {
		destination, err = solana.PublicKeyFromBase58(destinationAddress)
		if err != nil {
			s.fail(id, faults.Validation(faults.CodeMalformedAddress, "destination address %q is not valid: %v", destinationAddress, err), "destination address is not a valid account identifier")
			return nil
		}
	} else {
		ata, exists, err := s.gw.HoldingAccount(ctx, actor, mint)
		if err != nil {
			s.fail(id, faults.From(err, faults.ClassConnectivity, faults.CodeTimeout), "failed to resolve destination holding account")
			return nil
		}
		if !exists {
			instrs = append(instrs, associatedtokenaccount.NewCreateInstruction(actor, actor, mint).Build())
		}
		destination = ata
	}

	instrs = append(instrs, token.NewMintToInstruction(base, mint, destination, actor, nil).Build())

	sig, ok := s.submit(ctx, id, actor, instrs, nil)
	if !ok {
		return nil
	}

	s.history.Apply(history.Update{
		ProvisionalID: id,
		NetworkID:     sig.String(),
		Detail:        fmt.Sprintf("Minting %s tokens. Confirming...", displayAmount),
	})
	s.trackAsync(id, sig, fmt.Sprintf("Successfully minted %s tokens!", displayAmount), nil)

	return &OperationResult{ProvisionalID: id, NetworkID: sig.String()}
}

// TransferHoldings sends displayAmount of the asset from the actor to the
// recipient, creating either party's holding account in the same transaction
// when it does not exist yet.
func (s *OperationService) TransferHoldings(ctx context.Context, assetAddress, recipientAddress, displayAmount string) *OperationResult {
	id := uuid.New().String()
	s.history.Apply(history.Update{
		ProvisionalID: id,
		Kind:          models.KindTransferHoldings,
		Detail:        fmt.Sprintf("Preparing to send %s tokens to recipient...", displayAmount),
	})

	actor, ok := s.session.Actor()
	if !ok {
		s.fail(id, faults.Validation(faults.CodeWalletNotConnected, "wallet is not connected"), "wallet is not connected")
		return nil
	}

	mint, err := solana.PublicKeyFromBase58(assetAddress)
	if err != nil {
		s.fail(id, faults.Validation(faults.CodeMalformedAddress, "asset address %q is not valid: %v", assetAddress, err), "asset address is not a valid account identifier")
		return nil
	}

	recipient, err := solana.PublicKeyFromBase58(recipientAddress)
	if err != nil {
		s.fail(id, faults.Validation(faults.CodeMalformedAddress, "recipient address %q is not valid: %v", recipientAddress, err), "recipient address is not a valid account identifier")
		return nil
	}

	display, err := amount.ParseDisplayAmount(displayAmount)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassValidation, faults.CodeInvalidAmount), "amount must be a positive number")
		return nil
	}

	decimals, err := s.gw.AssetDecimals(ctx, mint)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassValidation, faults.CodeAssetLookupFailed), "asset metadata lookup failed")
		return nil
	}

	base, err := amount.ToBaseUnits(display, decimals)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassValidation, faults.CodeInvalidAmount), "amount cannot be represented at the asset's precision")
		return nil
	}

	var instrs []solana.Instruction

	senderATA, senderExists, err := s.gw.HoldingAccount(ctx, actor, mint)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassConnectivity, faults.CodeTimeout), "failed to resolve sender holding account")
		return nil
	}
	if !senderExists {
		instrs = append(instrs, associatedtokenaccount.NewCreateInstruction(actor, actor, mint).Build())
	}

	recipientATA, recipientExists, err := s.gw.HoldingAccount(ctx, recipient, mint)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassConnectivity, faults.CodeTimeout), "failed to resolve recipient holding account")
		return nil
	}
	if !recipientExists {
		instrs = append(instrs, associatedtokenaccount.NewCreateInstruction(actor, recipient, mint).Build())
	}

	instrs = append(instrs, token.NewTransferInstruction(base, senderATA, recipientATA, actor, nil).Build())

	sig, ok := s.submit(ctx, id, actor, instrs, nil)
	if !ok {
		return nil
	}

	s.history.Apply(history.Update{
		ProvisionalID: id,
		NetworkID:     sig.String(),
		Detail:        fmt.Sprintf("Sending %s tokens. Confirming...", displayAmount),
	})
	s.trackAsync(id, sig,
		fmt.Sprintf("Successfully sent %s tokens to %s", displayAmount, shortAddress(recipientAddress)), nil)

	return &OperationResult{ProvisionalID: id, NetworkID: sig.String()}
}

// TrackExternalAsset registers an externally created asset for balance
// tracking after validating its address and resolving its decimals.
func (s *OperationService) TrackExternalAsset(ctx context.Context, address, symbol, name string) (models.AssetHandle, error) {
	mint, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return models.AssetHandle{}, faults.Validation(faults.CodeMalformedAddress, "asset address %q is not valid: %v", address, err)
	}
	decimals, err := s.gw.AssetDecimals(ctx, mint)
	if err != nil {
		return models.AssetHandle{}, faults.From(err, faults.ClassValidation, faults.CodeAssetLookupFailed)
	}
	handle := models.AssetHandle{Address: mint.String(), Symbol: symbol, DisplayName: name, Decimals: decimals}
	s.session.TrackAsset(handle)
	s.reconciler.Trigger()
	return handle, nil
}

// ConnectWallet performs the provider handshake and installs the identity.
func (s *OperationService) ConnectWallet(ctx context.Context) (wallet.View, error) {
	actor, err := s.provider.Connect(ctx)
	if err != nil {
		return wallet.View{}, faults.From(err, faults.ClassSubmission, faults.CodeProviderUnavailable)
	}
	s.session.Connect(actor)
	s.reconciler.Trigger()
	s.log.Info("wallet connected", zap.Stringer("actor", actor))
	return s.session.Snapshot(), nil
}

// DisconnectWallet tears the provider session down and resets local state.
func (s *OperationService) DisconnectWallet(ctx context.Context) error {
	if err := s.provider.Disconnect(ctx); err != nil {
		s.log.Warn("provider disconnect failed", zap.Error(err))
	}
	s.session.Disconnect()
	s.log.Info("wallet disconnected")
	return nil
}

// History returns the newest-first operation snapshot.
func (s *OperationService) History() []models.OperationRecord {
	return s.history.Snapshot()
}

// Wallet returns the balance consumer view.
func (s *OperationService) Wallet() wallet.View {
	return s.session.Snapshot()
}

// Wait blocks until every in-flight confirmation tracker has finished.
func (s *OperationService) Wait() {
	s.wg.Wait()
}

// fail records a terminal failure for the operation.
func (s *OperationService) fail(id string, fe *faults.Error, detail string) {
	s.log.Warn("operation failed",
		zap.String("operation", id),
		zap.String("class", string(fe.Class)),
		zap.String("code", fe.Code),
		zap.String("message", fe.Message),
	)
	s.history.Apply(history.Update{
		ProvisionalID: id,
		Status:        models.StatusFailed,
		Detail:        detail,
		Failure:       fe,
	})
}

// ensureHoldingAccount creates the owner's associated token account for the
// mint when it does not exist yet. Failures are logged, not recorded: the
// step is idempotent and re-runs with the next operation touching the asset.
func (s *OperationService) ensureHoldingAccount(ctx context.Context, owner, mint solana.PublicKey) {
	_, exists, err := s.gw.HoldingAccount(ctx, owner, mint)
	if err != nil {
		s.log.Warn("failed to resolve holding account", zap.Stringer("mint", mint), zap.Error(err))
		return
	}
	if exists {
		return
	}

	blockhash, err := s.gw.RecentBlockhash(ctx)
	if err != nil {
		s.log.Warn("failed to obtain block reference for holding account creation", zap.Error(err))
		return
	}
	tx, err := solana.NewTransaction(
		[]solana.Instruction{associatedtokenaccount.NewCreateInstruction(owner, owner, mint).Build()},
		blockhash,
		solana.TransactionPayer(owner),
	)
	if err != nil {
		s.log.Warn("failed to assemble holding account creation", zap.Error(err))
		return
	}
	if _, err := s.provider.SignAndSubmit(ctx, tx); err != nil {
		s.log.Warn("failed to create holding account", zap.Stringer("mint", mint), zap.Error(err))
	}
}

func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
