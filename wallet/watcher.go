package wallet

import (
	"context"

	"go.uber.org/zap"
)

// WatchIdentity applies provider identity events to the session until ctx is
// cancelled. A new identity replaces the session atomically and schedules a
// balance refresh; a lost identity resets the session to disconnected.
func WatchIdentity(ctx context.Context, log *zap.Logger, p Provider, session *Session, reconciler *Reconciler) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-p.IdentityEvents():
			if !ok {
				return
			}
			if ev.Identity == nil {
				log.Info("provider lost its account, resetting session")
				session.Disconnect()
				continue
			}
			log.Info("provider identity changed", zap.Stringer("identity", ev.Identity))
			session.Connect(*ev.Identity)
			if reconciler != nil {
				reconciler.Trigger()
			}
		}
	}
}
