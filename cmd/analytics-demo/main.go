// Command analytics-demo starts the dummy analytics providers for a
// platform, waits until they are ready and logs an event through them.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
