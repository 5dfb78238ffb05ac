package evm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cast"
)

var (
	// ErrArgumentCount is returned when the number of arguments does not match the method inputs.
	ErrArgumentCount = errors.New("argument count mismatch")

	// ErrUnsupportedArgument is returned when an argument cannot be converted to its ABI type.
	ErrUnsupportedArgument = errors.New("unsupported argument")
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// CoerceArgs converts loosely typed arguments, as decoded from JSON or YAML, into the Go types
// go-ethereum expects when packing the method inputs. Arguments that already have the exact Go
// type are passed through untouched.
func CoerceArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArgumentCount, len(inputs), len(args))
	}

	out := make([]any, len(args))
	for i, input := range inputs {
		v, err := coerceArg(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s %s): %w", i, input.Type.String(), input.Name, err)
		}
		out[i] = v
	}

	return out, nil
}

func coerceArg(t abi.Type, v any) (any, error) {
	target := t.GetType()
	if v != nil && reflect.TypeOf(v) == target {
		return v, nil
	}

	switch t.T {
	case abi.AddressTy:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}

		return common.HexToAddress(s), nil
	case abi.BoolTy:
		return cast.ToBoolE(v)
	case abi.StringTy:
		return cast.ToStringE(v)
	case abi.IntTy, abi.UintTy:
		return coerceInt(t, target, v)
	case abi.BytesTy:
		return toBytes(v)
	case abi.FixedBytesTy:
		b, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}

		arr := reflect.New(target).Elem()
		reflect.Copy(arr.Slice(0, t.Size), reflect.ValueOf(b))

		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, target, v)
	}

	return nil, fmt.Errorf("%w: %T for %s", ErrUnsupportedArgument, v, t.String())
}

func coerceList(t abi.Type, target reflect.Type, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: expected a list for %s, got %T", ErrUnsupportedArgument, t.String(), v)
	}

	n := rv.Len()

	var out reflect.Value
	if t.T == abi.ArrayTy {
		if n != t.Size {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Size, n)
		}
		out = reflect.New(target).Elem()
	} else {
		out = reflect.MakeSlice(target, n, n)
	}

	for i := range n {
		elem, err := coerceArg(*t.Elem, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(elem))
	}

	return out.Interface(), nil
}

func coerceInt(t abi.Type, target reflect.Type, v any) (any, error) {
	n, err := toBigInt(v)
	if err != nil {
		return nil, err
	}

	if err := checkIntRange(t, n); err != nil {
		return nil, err
	}

	if target == bigIntType {
		return n, nil
	}

	out := reflect.New(target).Elem()
	switch target.Kind() { //nolint:exhaustive // only sized integers reach this point
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.SetUint(n.Uint64())
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(n.Int64())
	default:
		return nil, fmt.Errorf("%w: integer target %s", ErrUnsupportedArgument, target)
	}

	return out.Interface(), nil
}

func checkIntRange(t abi.Type, n *big.Int) error {
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return fmt.Errorf("value %s out of range for %s", n, t.String())
		}

		return nil
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1)) //nolint:gosec // abi sizes are 8..256
	minValue := new(big.Int).Neg(limit)
	if n.Cmp(minValue) < 0 || n.Cmp(limit) >= 0 {
		return fmt.Errorf("value %s out of range for %s", n, t.String())
	}

	return nil
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil integer", ErrUnsupportedArgument)
		}

		return n, nil
	case json.Number:
		return parseBigInt(n.String())
	case string:
		return parseBigInt(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("value %v is not an integer", n)
		}
		i, _ := big.NewFloat(n).Int(nil)

		return i, nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	default:
		i, err := cast.ToInt64E(v)
		if err != nil {
			return nil, err
		}

		return big.NewInt(i), nil
	}
}

func parseBigInt(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}

	return n, nil
}

func toBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		return hexutil.Decode(b)
	default:
		return nil, fmt.Errorf("%w: expected hex string, got %T", ErrUnsupportedArgument, v)
	}
}
