// Command chunkseq groups line-oriented input into fixed-size chunks.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
