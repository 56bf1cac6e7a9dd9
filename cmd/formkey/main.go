// FormKey - Constrained molecular formula dictionary generator
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/FormKey/cmd/formkey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
