// Scheduled job: applies pending change records for every client and sends
// one notification.
package main

import (
	"context"
	"os"
	"time"

	"inventory-sync/internal/cli"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	code := cli.ExecuteArgs(ctx, append([]string{"sync-all"}, os.Args[1:]...))
	cancel()
	os.Exit(code)
}
