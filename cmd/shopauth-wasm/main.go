//go:build wasm

// Command shopauth-wasm is the browser half of the auth page.
package main

import (
	"context"
	"syscall/js"

	"github.com/tinywasm/customer"
	"github.com/tinywasm/customer/internal/logger"
)

func main() {
	ctx := context.Background()

	url, anonKey := js.Global().Get("location").Get("origin").String(), ""
	if cfg := js.Global().Get("shopAuthConfig"); cfg.Type() == js.TypeObject {
		if v := cfg.Get("url"); v.Type() == js.TypeString && v.String() != "" {
			url = v.String()
		}
		if v := cfg.Get("anonKey"); v.Type() == js.TypeString {
			anonKey = v.String()
		}
	}

	ctrl, err := customer.NewController(customer.Config{},
		customer.BrowserCollaborators(customer.NewGoTrueClient(url, anonKey)))
	if err != nil {
		logger.Fatalf(ctx, "auth page: %v", err)
	}
	customer.Mount(ctx, ctrl)

	select {}
}
