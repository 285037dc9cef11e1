// Command healthcheck probes a running server and exits non-zero when
// it is not healthy. It is meant for container health checks.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iMedia24/workplacify/internal/healthcheck"
)

const timeout = 10 * time.Second

func newRootCmd(client *http.Client) *cobra.Command {
	return &cobra.Command{
		Use:           "healthcheck <base-url>",
		Short:         "Check that the server answers its health endpoint",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := healthcheck.Check(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(&http.Client{Timeout: timeout})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Health check failed:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
