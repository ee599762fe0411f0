package main

import (
	"fmt"
	"os"

	"github.com/dxid-chain/go-dxid/cmd/dxid/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
