package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fortuna/trendboard/internal/api/rest"
)

const serviceName = "trendboard"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	rest.Version = version
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}
