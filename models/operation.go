package models

import (
	"time"

	"github.com/krispycake/solmint/faults"
)

// OperationKind identifies the user intent behind an operation record.
type OperationKind string

const (
	KindCreateAsset      OperationKind = "create_asset"
	KindMintSupply       OperationKind = "mint_supply"
	KindTransferHoldings OperationKind = "transfer_holdings"
)

// OperationStatus is the lifecycle state of an operation record.
// Processing is the initial state; Success and Failed are terminal.
type OperationStatus string

const (
	StatusProcessing OperationStatus = "Processing"
	StatusSuccess    OperationStatus = "Success"
	StatusFailed     OperationStatus = "Failed"
)

// Terminal reports whether s admits no further transitions.
func (s OperationStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// OperationRecord is one user-initiated attempt, keyed by a locally generated
// provisional ID. The network-assigned transaction signature fills in once
// submission succeeds and is never cleared afterwards.
type OperationRecord struct {
	ProvisionalID string          `json:"provisional_id"`
	NetworkID     string          `json:"network_id,omitempty"`
	Kind          OperationKind   `json:"kind"`
	Status        OperationStatus `json:"status"`
	Detail        string          `json:"detail"`
	Failure       *faults.Error   `json:"failure,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
