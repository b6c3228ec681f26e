// File: cmd/ecsdash/main.go
package main

import (
	"os"

	// Explicitly import provider implementations to ensure their init() functions run and they register themselves
	_ "ecsdash/pkg/storage/aws"
	_ "ecsdash/pkg/storage/gcp"
)

func main() {
	os.Exit(Execute())
}
