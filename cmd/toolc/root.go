package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "toolc",
	Short: "A compiler for the script and configuration dialects.",
	Long:  "A compiler toolchain for the script-bytecode and binary-config dialect pair.",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("allow-override", false, "allow a later declaration to silently replace an earlier one")
	rootCmd.PersistentFlags().Bool("analyze-only", false, "run parsing and semantic checking without emitting artifacts")
	rootCmd.PersistentFlags().String("instructions", "", "path to the instruction map TOML file")
	rootCmd.PersistentFlags().String("triggers", "", "path to the trigger catalog TOML file")
	rootCmd.PersistentFlags().String("commands", "", "path to the command catalog TOML file")
}

func getFlagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func getFlagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
