package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Recover returns middleware that turns a panic in a command into an error.
func Recover() Middleware {
	return func(next RunFunc) RunFunc {
		return func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic recovered in command",
						"command", cmd.CommandPath(),
						"panic", r,
						"stack", string(debug.Stack()),
					)
					err = fmt.Errorf("internal error in %s: %v", cmd.Name(), r)
				}
			}()
			return next(cmd, args)
		}
	}
}
