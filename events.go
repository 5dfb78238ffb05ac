package txexec

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/txexec/types"
)

// ExtractEvents decodes the receipt logs that match an event of contractABI, preserving log
// order. Logs that match no event or fail to decode are skipped.
//
// Logs are matched by event shape only, whichever contract emitted them. Use
// ExtractContractEvents to keep the logs of one contract.
func ExtractEvents(receipt *gethtypes.Receipt, contractABI *abi.ABI) []types.DomainEvent {
	return extractEvents(receipt, contractABI, nil)
}

// ExtractContractEvents is ExtractEvents restricted to logs emitted by address.
func ExtractContractEvents(receipt *gethtypes.Receipt, contractABI *abi.ABI, address common.Address) []types.DomainEvent {
	return extractEvents(receipt, contractABI, &address)
}

func extractEvents(receipt *gethtypes.Receipt, contractABI *abi.ABI, address *common.Address) []types.DomainEvent {
	events := []types.DomainEvent{}
	if receipt == nil || contractABI == nil {
		return events
	}

	for _, log := range receipt.Logs {
		if log == nil || (address != nil && log.Address != *address) {
			continue
		}

		event, ok := decodeLog(log, contractABI)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	return events
}

func decodeLog(log *gethtypes.Log, contractABI *abi.ABI) (types.DomainEvent, bool) {
	if log == nil || len(log.Topics) == 0 {
		return types.DomainEvent{}, false
	}

	event, err := contractABI.EventByID(log.Topics[0])
	if err != nil {
		return types.DomainEvent{}, false
	}

	args := make(map[string]any, len(event.Inputs))
	if err := event.Inputs.UnpackIntoMap(args, log.Data); err != nil {
		return types.DomainEvent{}, false
	}

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
		return types.DomainEvent{}, false
	}

	return types.DomainEvent{
		Name:        event.Name,
		Signature:   event.Sig,
		Address:     log.Address.Hex(),
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash.Hex(),
		LogIndex:    log.Index,
		Args:        args,
	}, true
}
