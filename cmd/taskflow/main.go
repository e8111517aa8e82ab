package main

import (
	"context"
	"fmt"
	"os"

	"taskflow/internal/cli"
)

func main() {
	ctx := context.Background()
	if err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
