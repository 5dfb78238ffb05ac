package txexec

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// BuildTxexecCmd builds the root command.
func BuildTxexecCmd() *cobra.Command {
	return buildRootCmd(newRuntime)
}

func buildRootCmd(factory runtimeFactory) *cobra.Command {
	var envPath string

	cmd := cobra.Command{
		Use:   "txexec",
		Short: "Submit contract calls and track them to a terminal status",
		Long: `Submit contract calls to an EVM chain and wait for their confirmation.

Configuration is read from a .env file (see --env) and the environment: RPC_URL, PRIVATE_KEY,
CHAIN_SELECTOR, ABI_DIR, POLL_INTERVAL, DEFAULT_CONFIRMATIONS, DEFAULT_TIMEOUT_MS,
DETACHED_WAIT_LIMIT, LOG_LEVEL and METRICS_ADDR.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Path of the .env file to load")

	cmd.AddCommand(buildExecuteCmd(factory, &envPath))
	cmd.AddCommand(buildBatchCmd(factory, &envPath))

	return &cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
