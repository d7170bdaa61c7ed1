package wallet_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krispycake/solmint/models"
	"github.com/krispycake/solmint/wallet"
)

func TestSessionLifecycle(t *testing.T) {
	s := wallet.NewSession()

	_, ok := s.Actor()
	assert.False(t, ok, "new session must start disconnected")

	first := solana.NewWallet().PublicKey()
	s.Connect(first)
	actor, ok := s.Actor()
	require.True(t, ok)
	assert.Equal(t, first, actor)

	s.SetBalances(1_000, map[string]uint64{"mint-a": 7})
	view := s.Snapshot()
	assert.Equal(t, uint64(1_000), view.NativeBalance)
	assert.Equal(t, uint64(7), view.Holdings["mint-a"])

	// Reconnecting with a different identity replaces the session: balances
	// are cleared, nothing is merged.
	second := solana.NewWallet().PublicKey()
	s.Connect(second)
	actor, ok = s.Actor()
	require.True(t, ok)
	assert.Equal(t, second, actor)
	view = s.Snapshot()
	assert.Zero(t, view.NativeBalance)
	assert.Empty(t, view.Holdings)

	s.Disconnect()
	_, ok = s.Actor()
	assert.False(t, ok)
}

func TestSetBalancesIgnoredWhenDisconnected(t *testing.T) {
	s := wallet.NewSession()
	s.SetBalances(5, map[string]uint64{"mint-a": 1})
	view := s.Snapshot()
	assert.Zero(t, view.NativeBalance)
	assert.Empty(t, view.Holdings)
}

func TestTrackAssetIsIdempotent(t *testing.T) {
	s := wallet.NewSession()

	h := models.AssetHandle{Address: "mint-a", Symbol: "DMO", DisplayName: "Demo", Decimals: 9}
	s.TrackAsset(h)
	s.TrackAsset(models.AssetHandle{Address: "mint-b", Symbol: "OTR", Decimals: 6})
	s.TrackAsset(h)

	assets := s.Assets()
	require.Len(t, assets, 2)
	assert.Equal(t, "mint-a", assets[0].Address)
	assert.Equal(t, "mint-b", assets[1].Address)

	got, ok := s.Asset("mint-a")
	require.True(t, ok)
	assert.Equal(t, uint8(9), got.Decimals)
}
