package middleware

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

// Logging returns middleware that logs command processing time.
func Logging() Middleware {
	return func(next RunFunc) RunFunc {
		return func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			err := next(cmd, args)

			slog.Debug("command processed",
				"command", cmd.CommandPath(),
				"args", len(args),
				"duration", time.Since(start),
				"failed", err != nil,
			)
			return err
		}
	}
}
