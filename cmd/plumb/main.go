package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/plumb/pkg/object"
	"github.com/odvcencio/plumb/pkg/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plumb",
		Short:         "Content-addressable object store plumbing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug events to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newHashObjectCmd())
	root.AddCommand(newCatFileCmd())
	root.AddCommand(newLsTreeCmd())
	root.AddCommand(newWriteTreeCmd())
	root.AddCommand(newCommitTreeCmd())
	root.AddCommand(newVerifyCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "plumb 0.1.0-dev")
		},
	}
}

// commandLogger returns a console logger on the command's stderr when
// --verbose is set, and a no-op logger otherwise.
func commandLogger(cmd *cobra.Command) *zap.Logger {
	f := cmd.Flags().Lookup("verbose")
	if f == nil || f.Value.String() != "true" {
		return zap.NewNop()
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(cmd.ErrOrStderr()),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named(cmd.Name())
}

// openRepo opens the repository containing the working directory.
func openRepo(cmd *cobra.Command) (*repo.Repo, error) {
	return repo.Open(".", repo.WithLogger(commandLogger(cmd)))
}

func parseHashArg(s string) (object.Hash, error) {
	h, err := object.ParseHash(s)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("invalid object name %q: %w", s, err)
	}
	return h, nil
}
