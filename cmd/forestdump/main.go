/*
Forestdump loads HTML or YAML documents into an object tree and prints the
tree to the console, or as a Graphviz DOT graph.

	forestdump html index.html
	forestdump yaml --dot config.yaml | dot -Tsvg > config.svg

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
