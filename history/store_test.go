package history_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krispycake/solmint/faults"
	"github.com/krispycake/solmint/history"
	"github.com/krispycake/solmint/models"
)

func TestApplyCreatesProcessingRecord(t *testing.T) {
	s := history.NewStore()

	rec := s.Apply(history.Update{
		ProvisionalID: "op-1",
		Kind:          models.KindCreateAsset,
		Detail:        "Initializing creation of DMO...",
	})

	assert.Equal(t, "op-1", rec.ProvisionalID)
	assert.Equal(t, models.StatusProcessing, rec.Status)
	assert.Empty(t, rec.NetworkID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestApplyIsIdempotent(t *testing.T) {
	s := history.NewStore()
	u := history.Update{
		ProvisionalID: "op-1",
		Kind:          models.KindMintSupply,
		NetworkID:     "sig-abc",
		Detail:        "Minting 5 tokens. Confirming...",
	}

	first := s.Apply(u)
	second := s.Apply(u)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, s.Len())
}

func TestMergePreservesNetworkID(t *testing.T) {
	s := history.NewStore()
	s.Apply(history.Update{ProvisionalID: "op-1", Kind: models.KindTransferHoldings, Detail: "Preparing..."})
	s.Apply(history.Update{ProvisionalID: "op-1", NetworkID: "sig-xyz", Detail: "Confirming..."})

	// An update omitting the network ID must not erase it.
	rec := s.Apply(history.Update{ProvisionalID: "op-1", Detail: "Still confirming..."})
	assert.Equal(t, "sig-xyz", rec.NetworkID)
	assert.Equal(t, "Still confirming...", rec.Detail)
}

func TestTerminalStateIsFrozen(t *testing.T) {
	s := history.NewStore()
	s.Apply(history.Update{ProvisionalID: "op-1", Kind: models.KindMintSupply, Detail: "Preparing..."})
	s.Apply(history.Update{
		ProvisionalID: "op-1",
		Status:        models.StatusFailed,
		Detail:        "user rejected signature",
		Failure:       faults.Submission(faults.CodeUserRejected, "declined"),
	})

	rec := s.Apply(history.Update{ProvisionalID: "op-1", Status: models.StatusSuccess, Detail: "nope"})
	assert.Equal(t, models.StatusFailed, rec.Status)
	assert.Equal(t, "user rejected signature", rec.Detail)

	got, ok := s.Get("op-1")
	require.True(t, ok)
	assert.Equal(t, models.StatusFailed, got.Status)
	require.NotNil(t, got.Failure)
	assert.Equal(t, faults.CodeUserRejected, got.Failure.Code)
}

func TestSnapshotIsNewestFirst(t *testing.T) {
	s := history.NewStore()
	for i := 0; i < 3; i++ {
		s.Apply(history.Update{ProvisionalID: fmt.Sprintf("op-%d", i), Kind: models.KindMintSupply, Detail: "x"})
	}

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "op-2", snap[0].ProvisionalID)
	assert.Equal(t, "op-0", snap[2].ProvisionalID)
}

func TestConcurrentUpsertsDistinctKeys(t *testing.T) {
	s := history.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("op-%d", i)
			s.Apply(history.Update{ProvisionalID: id, Kind: models.KindTransferHoldings, Detail: fmt.Sprintf("detail-%d", i)})
			s.Apply(history.Update{ProvisionalID: id, NetworkID: fmt.Sprintf("sig-%d", i)})
		}(i)
	}
	wg.Wait()

	require.Equal(t, 50, s.Len())
	for i := 0; i < 50; i++ {
		rec, ok := s.Get(fmt.Sprintf("op-%d", i))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("detail-%d", i), rec.Detail)
		assert.Equal(t, fmt.Sprintf("sig-%d", i), rec.NetworkID)
	}
}

func TestConcurrentUpsertsSameKey(t *testing.T) {
	s := history.NewStore()
	s.Apply(history.Update{ProvisionalID: "op-1", Kind: models.KindMintSupply, Detail: "initial"})

	// 50 writers race on one key; each carries a matching detail/network-id
	// pair. The final record must equal one applied update, not a hybrid.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Apply(history.Update{
				ProvisionalID: "op-1",
				NetworkID:     fmt.Sprintf("sig-%d", i),
				Detail:        fmt.Sprintf("detail-%d", i),
			})
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, s.Len())
	rec, ok := s.Get("op-1")
	require.True(t, ok)

	var matched bool
	for i := 0; i < 50; i++ {
		if rec.Detail == fmt.Sprintf("detail-%d", i) && rec.NetworkID == fmt.Sprintf("sig-%d", i) {
			matched = true
			break
		}
	}
	assert.True(t, matched, "final record %+v is not one of the applied updates", rec)
	assert.Equal(t, models.StatusProcessing, rec.Status)
}
