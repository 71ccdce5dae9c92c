// Command historyctl inspects and maintains the change history outside the
// server: it verifies stored events, prints a rendered timeline and imports
// event documents.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
