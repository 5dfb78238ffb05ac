package main

import (
	"fmt"
	"os"

	"github.com/smartcontractkit/txexec/cmd/txexec"
)

func main() {
	rootCmd := txexec.BuildTxexecCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
