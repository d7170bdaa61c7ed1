package services

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/krispycake/solmint/faults"
)

// submit runs the shared submission pipeline: attach the actor as fee payer,
// attach a recent block reference, let any extra signers (e.g. a generated
// mint keypair) pre-sign, then hand the transaction to the provider's
// combined sign-and-submit capability.
//
// Any stage failure records a Failed entry with stage-specific detail and
// aborts; the pipeline never retries. The second return is false when the
// failure was recorded.
func (s *OperationService) submit(
	ctx context.Context,
	id string,
	payer solana.PublicKey,
	instrs []solana.Instruction,
	extraSigners []solana.PrivateKey,
) (solana.Signature, bool) {
	blockhash, err := s.gw.RecentBlockhash(ctx)
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassConnectivity, faults.CodeTimeout), "failed to obtain block reference")
		return solana.Signature{}, false
	}

	tx, err := solana.NewTransaction(instrs, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		s.fail(id, faults.From(err, faults.ClassSubmission, faults.CodeSubmissionRejected), "failed to assemble transaction")
		return solana.Signature{}, false
	}

	if len(extraSigners) > 0 {
		_, err = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
			for i := range extraSigners {
				if key.Equals(extraSigners[i].PublicKey()) {
					return &extraSigners[i]
				}
			}
			return nil
		})
		if err != nil {
			s.fail(id, faults.From(err, faults.ClassSubmission, faults.CodeSubmissionRejected), "failed to pre-sign transaction")
			return solana.Signature{}, false
		}
	}

	sig, err := s.provider.SignAndSubmit(ctx, tx)
	if err != nil {
		fe := faults.From(err, faults.ClassSubmission, faults.CodeSubmissionRejected)
		s.fail(id, fe, submitFailureDetail(fe))
		return solana.Signature{}, false
	}
	return sig, true
}

func submitFailureDetail(fe *faults.Error) string {
	switch fe.Code {
	case faults.CodeUserRejected:
		return "user rejected signature"
	case faults.CodeAuthorityMismatch:
		return "actor lacks the required authority"
	default:
		return "submission rejected by gateway"
	}
}
