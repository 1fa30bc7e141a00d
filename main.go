package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	_ "net/http/pprof" // profiling

	_ "github.com/joho/godotenv/autoload" // automatically load .env files

	"github.com/tujuhre12/togglelist/internal/cmd"
)

const defaultProfileAddress = "localhost:6060"

// profileAddress maps TOGGLELIST_PROFILE to a listen address. An address is
// used as given; any other non-empty value means the default.
func profileAddress(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return ""
	case strings.Contains(value, ":"):
		return value
	default:
		return defaultProfileAddress
	}
}

func main() {
	if addr := profileAddress(os.Getenv("TOGGLELIST_PROFILE")); addr != "" {
		go func() {
			slog.Info("Serving pprof", "address", addr)
			if httpErr := http.ListenAndServe(addr, nil); httpErr != nil {
				slog.Error("Failed to pprof listen", "error", httpErr)
			}
		}()
	}

	cmd.Execute()
}
