// Command bucketdesk manages an S3-compatible bucket from the terminal.
//
// Runtime configuration comes from BUCKETDESK_* environment variables (or a
// .env file); credentials and preferences live in the settings file, edited
// with `bucketdesk settings set`.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/koustreak/BucketDesk/internal/cli"
	"github.com/koustreak/BucketDesk/internal/errs"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(cli.Options{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bucketdesk: %v\n", err)
		if errs.IsInvalidInput(err) {
			return 2
		}
		return 1
	}
	return 0
}
