package txexec

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/txexec"
	"github.com/smartcontractkit/txexec/types"
)

func buildBatchCmd(factory runtimeFactory, envPath *string) *cobra.Command {
	var (
		batchPath     string
		stopOnFailure bool
	)

	cmd := cobra.Command{
		Use:   "batch",
		Short: "Executes the operations of a JSON or YAML batch file in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			batch, err := types.LoadBatch(batchPath)
			if err != nil {
				return err
			}

			rt, err := factory(*envPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			status, progress, flush := rt.async()
			result := rt.executor.ExecuteBatch(cmd.Context(), batch.Operations, txexec.BatchOptions{
				StopOnFailure: stopOnFailure || batch.StopOnFailure,
				OnProgress:    progress,
				OnStatus:      status,
			})
			flush()

			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}

			if result.Failed() > 0 || result.Interrupted() {
				return fmt.Errorf("batch %s: %d of %d operations confirmed", result.ID, result.Succeeded, result.Total)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&batchPath, "file", "", "Batch file (.json, .yaml or .yml)")
	cmd.Flags().BoolVar(&stopOnFailure, "stop-on-failure", false, "Stop at the first operation that does not confirm")

	_ = cmd.MarkFlagRequired("file")

	return &cmd
}
