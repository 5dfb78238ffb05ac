package txexec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/txexec/types"
)

func buildExecuteCmd(factory runtimeFactory, envPath *string) *cobra.Command {
	var (
		req           types.OperationRequest
		argsJSON      string
		confirmations uint64
		timeoutMillis uint64
		gasLimit      uint64
	)

	cmd := cobra.Command{
		Use:   "execute",
		Short: "Executes a single contract call and prints its transaction record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := parseArgs(argsJSON)
			if err != nil {
				return err
			}

			req.Args = args
			req.Options = types.Options{
				Confirmations: confirmations,
				TimeoutMillis: timeoutMillis,
				GasLimit:      gasLimit,
			}

			rt, err := factory(*envPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			status, _, flush := rt.async()
			record := rt.executor.Execute(cmd.Context(), req, status)
			flush()

			if err := writeJSON(cmd.OutOrStdout(), record); err != nil {
				return err
			}

			if !record.Succeeded() {
				return fmt.Errorf("transaction %s: %s", record.Status, record.Message)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&req.Contract.ID, "contract", "", "Contract ID in the ABI catalog")
	cmd.Flags().StringVar(&req.Contract.Address, "address", "", "Deployed contract address")
	cmd.Flags().StringVar(&req.Method, "method", "", "Contract method to call")
	cmd.Flags().StringVar(&argsJSON, "args", "[]", "Method arguments as a JSON array")
	cmd.Flags().Uint64Var(&confirmations, "confirmations", 0, "Confirmations to wait for (default from DEFAULT_CONFIRMATIONS)")
	cmd.Flags().Uint64Var(&timeoutMillis, "timeout-ms", 0, "Confirmation timeout in milliseconds (default from DEFAULT_TIMEOUT_MS)")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 0, "Gas limit, estimated when zero")

	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("method")

	return &cmd
}

// parseArgs decodes a JSON array, keeping numbers as json.Number so large integers survive.
func parseArgs(s string) ([]any, error) {
	if s == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var args []any
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("invalid --args: %w", err)
	}

	return args, nil
}
