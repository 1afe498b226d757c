// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command sakuractl administers a Sakura storage backend offline.
//
// It reads the same environment as the API server, so it operates on the
// backend the server would open.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	if err := newRootCommand(os.Stdout).Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "sakuractl:", err)
		os.Exit(1)
	}
}
