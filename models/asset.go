package models

// AssetHandle is a tracked SPL token the actor watches for balance purposes.
// Address is the mint account address and is the unique key; Decimals is fixed
// at mint initialization and drives amount conversion.
type AssetHandle struct {
	Address     string `json:"address"`
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
	Decimals    uint8  `json:"decimals"`
}
