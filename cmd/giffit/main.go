// Command giffit resizes and optimizes GIF images through gifsicle.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
