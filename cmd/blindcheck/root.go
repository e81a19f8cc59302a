// Package main provides the entry point for the blindcheck CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for blindcheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blindcheck",
		Short: "Screen conference submissions for double-blind and formatting issues",
		Long: `blindcheck screens submitted papers (PDF) against a conference's
formatting and double-blind policy.

It reports oversize papers, the wrong template, pages after the reference
limit, author emails and names, revealing document metadata and mentions
of previous work. Every check is a heuristic: a clean result does not
guarantee that a paper is anonymous.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
