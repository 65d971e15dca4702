package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"parityshell/config"
	"parityshell/internal/cli"
	"parityshell/internal/firstrun"
	"parityshell/internal/tui"
	"parityshell/version"
)

var rootCmd = &cobra.Command{
	Use:     "pshell",
	Short:   "Terminal companion for a parity-style wallet daemon",
	Version: version.Get(),
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.EnsureClientConfigExists(); err != nil {
			log.Fatalf("Failed to prepare config: %v", err)
		}

		st, err := cli.OpenSettings()
		if err != nil {
			log.Fatalf("Failed to open settings: %v", err)
		}
		defer st.Close()

		// The daemon being away is not fatal: the overlay decision falls
		// back to the persisted flag alone.
		client, connErr := cli.ConnectDaemon()
		if connErr != nil {
			log.Printf("Daemon unreachable, skipping account check: %v", connErr)
		} else {
			defer client.Close()
		}

		var store *firstrun.Store
		if client != nil {
			store, err = firstrun.New(st, client, nil)
		} else {
			store, err = firstrun.New(st, nil, nil)
		}
		if err != nil {
			log.Fatalf("Failed to initialize first-run state: %v", err)
		}

		ctx := context.Background()
		var probe <-chan struct{}
		if client != nil {
			probe = store.Start(ctx)
		}

		if !store.Visible() {
			fmt.Println("Welcome screen already dismissed; nothing to show")
			return
		}

		if err := tui.Run(ctx, store, probe); err != nil {
			log.Fatalf("Overlay failed: %v", err)
		}
	},
}

var firstrunCmd = &cobra.Command{
	Use:   "firstrun",
	Short: "Inspect and control the welcome screen state",
}

var firstrunStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print whether the welcome screen would be shown",
	Run: func(cmd *cobra.Command, args []string) {
		watch, _ := cmd.Flags().GetBool("watch")

		st, err := cli.OpenSettings()
		if err != nil {
			log.Fatalf("Failed to open settings: %v", err)
		}
		defer st.Close()

		if watch {
			if err := cli.WatchFirstRunStatus(cmd.Context(), st); err != nil && err != context.Canceled {
				log.Fatalf("Watch failed: %v", err)
			}
			return
		}

		if err := cli.FirstRunStatus(st); err != nil {
			log.Fatalf("Failed to read first-run state: %v", err)
		}
	},
}

var firstrunDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Hide the welcome screen permanently",
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")

		st, err := cli.OpenSettings()
		if err != nil {
			log.Fatalf("Failed to open settings: %v", err)
		}
		defer st.Close()

		if err := cli.FirstRunDismiss(st, !yes); err != nil {
			log.Fatalf("Failed to dismiss: %v", err)
		}
	},
}

var firstrunResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Show the welcome screen again on the next start",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := cli.OpenSettings()
		if err != nil {
			log.Fatalf("Failed to open settings: %v", err)
		}
		defer st.Close()

		if err := cli.FirstRunReset(st); err != nil {
			log.Fatalf("Failed to reset: %v", err)
		}
	},
}

var firstrunCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Query the daemon for accounts and update the welcome screen state",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := cli.OpenSettings()
		if err != nil {
			log.Fatalf("Failed to open settings: %v", err)
		}
		defer st.Close()

		if err := cli.FirstRunCheck(cmd.Context(), st); err != nil {
			log.Fatalf("Check failed: %v", err)
		}
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the daemon auth token in the system keyring",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store the daemon auth token (prompts when no value is given)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		value := ""
		if len(args) == 1 {
			value = args[0]
		}
		if err := cli.SetToken(name, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the daemon auth token",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		if err := cli.DeleteToken(name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	firstrunStatusCmd.Flags().Bool("watch", false, "keep printing state changes")
	firstrunDismissCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	firstrunCmd.AddCommand(firstrunStatusCmd, firstrunDismissCmd, firstrunResetCmd, firstrunCheckCmd)

	tokenSetCmd.Flags().String("name", "", "keyring entry name (defaults to daemon-auth-token)")
	tokenDeleteCmd.Flags().String("name", "", "keyring entry name (defaults to daemon-auth-token)")
	tokenCmd.AddCommand(tokenSetCmd, tokenDeleteCmd)

	rootCmd.AddCommand(firstrunCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
