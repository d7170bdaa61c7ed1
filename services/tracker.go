package services

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/krispycake/solmint/faults"
	"github.com/krispycake/solmint/history"
	"github.com/krispycake/solmint/models"
)

// trackAsync follows a submitted transaction to finality in its own
// goroutine, bounded by the configured confirmation timeout. Exactly one wait
// is ever issued per network signature; there is no retry.
func (s *OperationService) trackAsync(id string, sig solana.Signature, successDetail string, onSuccess func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The request context dies with the caller; confirmation outlives it.
		ctx, cancel := context.WithTimeout(context.Background(), s.confirmTimeout)
		defer cancel()
		s.track(ctx, id, sig, successDetail, onSuccess)
	}()
}

func (s *OperationService) track(ctx context.Context, id string, sig solana.Signature, successDetail string, onSuccess func(context.Context)) {
	res, err := s.gw.AwaitFinalization(ctx, sig)
	if err != nil {
		// The wait itself failed: the outcome is unknown, which is distinct
		// from a reported on-chain execution error.
		s.fail(id, faults.From(err, faults.ClassConnectivity, faults.CodeTimeout), "confirmation wait did not complete; outcome unknown")
		return
	}
	if res.ExecutionErr != nil {
		fe := faults.From(res.ExecutionErr, faults.ClassConfirmation, faults.CodeExecutionError)
		s.fail(id, fe, fe.Message)
		return
	}

	if onSuccess != nil {
		onSuccess(ctx)
	}

	s.history.Apply(history.Update{
		ProvisionalID: id,
		Status:        models.StatusSuccess,
		Detail:        successDetail,
	})
	s.reconciler.Trigger()
	s.log.Info("operation finalized",
		zap.String("operation", id),
		zap.Stringer("signature", sig),
	)
}
