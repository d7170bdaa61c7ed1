package wallet

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/krispycake/solmint/gateway"
)

// Reconciler refreshes session balances from the gateway. Triggers are
// coalesced through a buffered channel: a burst of N concurrent confirmations
// results in one full refresh that reflects all of them, not N racing
// refreshes. A periodic interval refresh supplements confirmation triggers.
type Reconciler struct {
	log      *zap.Logger
	gw       gateway.Gateway
	session  *Session
	kick     chan struct{}
	interval time.Duration
}

// NewReconciler builds a reconciler. interval <= 0 disables periodic refresh.
func NewReconciler(log *zap.Logger, gw gateway.Gateway, session *Session, interval time.Duration) *Reconciler {
	return &Reconciler{
		log:      log,
		gw:       gw,
		session:  session,
		kick:     make(chan struct{}, 1),
		interval: interval,
	}
}

// Trigger requests a refresh. Non-blocking; requests arriving while a refresh
// is already pending are absorbed into it.
func (r *Reconciler) Trigger() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Run serves refresh requests until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.kick:
		case <-tick:
		}
		if err := r.Refresh(ctx); err != nil {
			r.log.Warn("balance refresh failed", zap.Error(err))
		}
	}
}

// Refresh reads the native balance and every tracked asset's holding balance
// and installs the snapshot into the session. A missing holding account reads
// as a zero balance.
func (r *Reconciler) Refresh(ctx context.Context) error {
	actor, ok := r.session.Actor()
	if !ok {
		return nil
	}

	native, err := r.gw.NativeBalance(ctx, actor)
	if err != nil {
		return err
	}

	holdings := make(map[string]uint64)
	for _, asset := range r.session.Assets() {
		mint, err := solana.PublicKeyFromBase58(asset.Address)
		if err != nil {
			r.log.Warn("tracked asset has malformed address", zap.String("address", asset.Address))
			continue
		}
		account, exists, err := r.gw.HoldingAccount(ctx, actor, mint)
		if err != nil {
			r.log.Warn("failed to resolve holding account",
				zap.String("asset", asset.Symbol), zap.Error(err))
			holdings[asset.Address] = 0
			continue
		}
		if !exists {
			holdings[asset.Address] = 0
			continue
		}
		balance, err := r.gw.HoldingBalance(ctx, account)
		if err != nil {
			r.log.Warn("failed to read holding balance",
				zap.String("asset", asset.Symbol), zap.Error(err))
			holdings[asset.Address] = 0
			continue
		}
		holdings[asset.Address] = balance
	}

	r.session.SetBalances(native, holdings)
	return nil
}
