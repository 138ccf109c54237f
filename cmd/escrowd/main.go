/*
Command escrowd runs the milestone escrow over a local store.

Every operation subcommand executes one message as a single atomic change
of the store. Callers identify with --as, the named identity is trusted
as authenticated.

	escrowd init
	escrowd genesis
	escrowd create --as alice --recipient @bob --mint DUSD --milestones 2
	escrowd query escrow <id>
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	if err := NewRootCmd(defaultHome).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
