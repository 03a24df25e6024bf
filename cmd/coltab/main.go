// Command coltab inspects and maintains tables stored by the storage package.
//
//	coltab describe ./people.saw
//	coltab head --rows 5 ./people.saw
//	coltab verify ./people.saw
//	coltab recompress --compression zstd ./people.saw
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
