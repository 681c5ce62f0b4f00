package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ykhdr/dictcrack/internal/cli"
	"github.com/ykhdr/dictcrack/internal/digest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, filepath.Base(os.Args[0]), os.Args[1:], os.Stdout, os.Stderr, digest.MD5)
	stop()
	os.Exit(code)
}
