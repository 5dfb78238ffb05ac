package types //nolint:revive,nolintlint // allow pkg name 'types'

// DomainEvent is a contract event decoded from a receipt log.
type DomainEvent struct {
	// Name is the event name as declared in the contract interface, e.g. "Transfer".
	Name string `json:"name"`
	// Signature is the canonical event signature, e.g. "Transfer(address,address,uint256)".
	Signature string `json:"signature"`
	// Address is the contract that emitted the log.
	Address     string `json:"address"`
	BlockNumber uint64 `json:"blockNumber"`
	TxHash      string `json:"txHash"`
	LogIndex    uint   `json:"logIndex"`
	// Args holds both indexed and non-indexed arguments keyed by parameter name.
	Args map[string]any `json:"args"`
}
