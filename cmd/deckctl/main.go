// Command deckctl runs the deck pipeline from a terminal: list and inspect
// templates, preview outlines, build decks and tail deck events.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}
