package wallet

import (
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/krispycake/solmint/models"
)

// Session is the single source of truth for the connected actor and their
// balances. Builders read it; only the reconciler writes balances. There is
// exactly one live session per process; connecting with a different identity
// replaces the previous one atomically.
type Session struct {
	mu            sync.RWMutex
	connected     bool
	actor         solana.PublicKey
	nativeBalance uint64
	holdings      map[string]uint64
	assets        map[string]models.AssetHandle
	assetOrder    []string
}

// View is a read-only snapshot for the balance consumer.
type View struct {
	Connected     bool                 `json:"connected"`
	Actor         string               `json:"actor,omitempty"`
	NativeBalance uint64               `json:"native_balance"`
	Holdings      map[string]uint64    `json:"holdings"`
	Assets        []models.AssetHandle `json:"assets"`
}

func NewSession() *Session {
	return &Session{
		holdings: make(map[string]uint64),
		assets:   make(map[string]models.AssetHandle),
	}
}

// Connect installs the actor identity, replacing any previous session state.
// Balances are cleared (no merge); tracked assets survive for the session.
func (s *Session) Connect(actor solana.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	s.actor = actor
	s.nativeBalance = 0
	s.holdings = make(map[string]uint64)
}

// Disconnect resets the session to the disconnected state.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.actor = solana.PublicKey{}
	s.nativeBalance = 0
	s.holdings = make(map[string]uint64)
}

// Actor returns the connected identity, if any.
func (s *Session) Actor() (solana.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actor, s.connected
}

// TrackAsset registers an asset handle. Tracking is idempotent by address and
// handles are never removed during a session.
func (s *Session) TrackAsset(h models.AssetHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[h.Address]; !ok {
		s.assetOrder = append(s.assetOrder, h.Address)
	}
	s.assets[h.Address] = h
}

// Asset looks a tracked handle up by mint address.
func (s *Session) Asset(address string) (models.AssetHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.assets[address]
	return h, ok
}

// Assets returns tracked handles in registration order.
func (s *Session) Assets() []models.AssetHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AssetHandle, 0, len(s.assetOrder))
	for _, addr := range s.assetOrder {
		out = append(out, s.assets[addr])
	}
	return out
}

// SetBalances installs a freshly read balance snapshot. Reconciler only.
func (s *Session) SetBalances(native uint64, holdings map[string]uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return
	}
	s.nativeBalance = native
	s.holdings = make(map[string]uint64, len(holdings))
	for k, v := range holdings {
		s.holdings[k] = v
	}
}

// Snapshot returns the balance consumer view.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := View{
		Connected:     s.connected,
		NativeBalance: s.nativeBalance,
		Holdings:      make(map[string]uint64, len(s.holdings)),
		Assets:        make([]models.AssetHandle, 0, len(s.assetOrder)),
	}
	if s.connected {
		v.Actor = s.actor.String()
	}
	for k, val := range s.holdings {
		v.Holdings[k] = val
	}
	for _, addr := range s.assetOrder {
		v.Assets = append(v.Assets, s.assets[addr])
	}
	return v
}
