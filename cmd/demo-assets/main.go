// Command demo-assets lists, signs and uploads demo media in an S3 bucket
// and writes the demo-assets.json manifest consumed by the demo player.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp().execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
