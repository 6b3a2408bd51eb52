package main

import (
	"fmt"
	"os"

	"github.com/sst/lens/cmd"
	"github.com/sst/lens/internal/logging"
)

func main() {
	defer logging.RecoverPanic("main", func() {
		fmt.Fprintln(os.Stderr, "lens terminated due to an unhandled panic")
	})

	cmd.Execute()
}
