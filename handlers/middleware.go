package handlers

import (
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// RequestLogger logs each API request with its method, path and duration.
// Errors returned by downstream handlers are logged and passed through
// unchanged.
func RequestLogger() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()
		if err != nil {
			log.Printf("%s %s failed after %s: %v", e.Request.Method, e.Request.URL.Path, time.Since(start).Round(time.Millisecond), err)
			return err
		}
		log.Printf("%s %s completed in %s", e.Request.Method, e.Request.URL.Path, time.Since(start).Round(time.Millisecond))
		return nil
	}
}
