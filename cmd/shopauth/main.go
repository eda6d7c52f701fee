//go:build !wasm

// Command shopauth serves the customer auth page together with a local,
// GoTrue-compatible auth API backed by SQLite.
package main

func main() {
	Execute()
}
