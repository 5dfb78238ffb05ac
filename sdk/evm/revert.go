package evm

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	selectorSize = 4

	// revertErrorCode is the JSON-RPC error code geth uses for execution reverts.
	revertErrorCode = 3

	executionRevertedPrefix = "execution reverted:"
	revertPrefix            = "revert:"
)

var (
	// hexPattern matches "0x" followed by one or more hex characters
	hexPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	// customErrorPattern matches "custom error 0x<8-hex-chars>: <hex-data>"
	// Captures: group 1 = selector (8 hex chars), group 2 = data (hex chars with optional spaces)
	customErrorPattern = regexp.MustCompile(`custom error 0x([0-9a-fA-F]{8}):?\s*([0-9a-fA-F\s]*)`)
)

// DecodeRevert reports whether err is an execution revert returned by the node, and the best
// effort decoded revert reason. The reason is decoded against the custom errors of contractABI
// first, then as a standard Error(string) or Panic(uint256).
func DecodeRevert(err error, contractABI *abi.ABI) (string, bool) {
	if err == nil {
		return "", false
	}

	errStr := err.Error()

	var rpcErr rpc.Error
	isRevert := errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode
	if !isRevert && !strings.Contains(strings.ToLower(errStr), "execution reverted") {
		return "", false
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data := revertDataFrom(dataErr.ErrorData()); len(data) > 0 {
			if reason := decodeRevertReason(data, contractABI); reason != "" {
				return reason, true
			}
		}
	}

	return extractRevertReason(errStr, contractABI), true
}

// revertDataFrom converts the data field of a JSON-RPC error into bytes.
func revertDataFrom(data any) []byte {
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil
		}

		return b
	case []byte:
		return v
	default:
		return nil
	}
}

// extractRevertReason extracts a revert reason from the error text when the node did not return
// structured revert data.
func extractRevertReason(errStr string, contractABI *abi.ABI) string {
	if matches := customErrorPattern.FindStringSubmatch(errStr); len(matches) == 3 { //nolint:mnd
		data := common.FromHex("0x" + matches[1] + strings.Join(strings.Fields(matches[2]), ""))
		if reason := decodeRevertReason(data, contractABI); reason != "" {
			return reason
		}

		return "custom error 0x" + matches[1]
	}

	// Plain string reverts, e.g. "execution reverted: revert: Ownable: caller is not the owner"
	if idx := strings.Index(errStr, revertPrefix); idx != -1 {
		if reason := strings.TrimSpace(errStr[idx+len(revertPrefix):]); reason != "" {
			return reason
		}
	}

	if data := common.FromHex(hexPattern.FindString(errStr)); len(data) >= selectorSize {
		if reason := decodeRevertReason(data, contractABI); reason != "" {
			return reason
		}
	}

	if idx := strings.Index(errStr, executionRevertedPrefix); idx != -1 {
		return strings.TrimSpace(errStr[idx+len(executionRevertedPrefix):])
	}

	return ""
}

// decodeRevertReason decodes ABI-encoded revert data, trying the custom errors of the contract
// ABI before the standard Error(string) and Panic(uint256) encodings.
// Returns empty string if all decoding fails.
func decodeRevertReason(data []byte, contractABI *abi.ABI) string {
	if len(data) < selectorSize {
		return ""
	}

	if decoded := decodeErrorBySelector(data, contractABI); decoded != "" {
		return decoded
	}

	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}

	return ""
}

// decodeErrorBySelector finds an error in the ABI by matching the selector, then decodes it.
func decodeErrorBySelector(data []byte, contractABI *abi.ABI) string {
	if contractABI == nil {
		return ""
	}

	selector := data[:selectorSize]
	for name, errDef := range contractABI.Errors {
		if string(errDef.ID[:selectorSize]) != string(selector) {
			continue
		}

		decoded, err := errDef.Unpack(data)
		if err != nil {
			continue
		}

		values, ok := decoded.([]any)
		if !ok {
			values = []any{decoded}
		}

		return formatDecodedError(name, values)
	}

	return ""
}

// formatDecodedError formats a decoded error as "ErrorName(arg1, arg2, ...)".
func formatDecodedError(errorName string, decodedValues []any) string {
	parts := make([]string, 0, len(decodedValues))
	for _, val := range decodedValues {
		if val != nil {
			parts = append(parts, fmt.Sprintf("%v", val))
		}
	}

	return fmt.Sprintf("%s(%s)", errorName, strings.Join(parts, ", "))
}
