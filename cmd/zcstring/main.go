// Package main implements the zcstring CLI for inspecting zero-copy decoding
// of JSON documents, text files and zcwire frames.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
