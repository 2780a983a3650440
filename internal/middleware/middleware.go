package middleware

import "github.com/spf13/cobra"

// RunFunc is the signature of a cobra RunE.
type RunFunc func(cmd *cobra.Command, args []string) error

type Middleware func(next RunFunc) RunFunc

// Chain wraps run so that the first middleware is the outermost.
func Chain(run RunFunc, mws ...Middleware) RunFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		run = mws[i](run)
	}
	return run
}
