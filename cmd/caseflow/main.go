package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "caseflow",
	Short: "Fill in tribunal case screens from the terminal",
	Long: `caseflow walks a case through its task-list screens.
- Hub: a task list (respondentReply, caseDetails) with one derived check-your-answers section.
- Screen: one form bound to a hub section; an accepted submission moves the section status.
- Case: the answers collected so far, stored in the workspace database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(viper.GetString("log-level"))
		return nil
	},
}

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CASEFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("workspace", "w", ".", "workspace directory")
	flags.String("locale", "en", "message locale")
	flags.String("screens", "", "directory of screen files replacing the built-in screens")
	flags.String("hubs", "", "hub configuration file replacing the built-in hubs")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("json", false, "output JSON")
	for _, name := range []string{"workspace", "locale", "screens", "hubs", "log-level", "json"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(screensCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(fillCmd())
	rootCmd.AddCommand(submitJSONCmd())
	rootCmd.AddCommand(respondentCmd())
	rootCmd.AddCommand(selectRespondentCmd())
	rootCmd.AddCommand(openapiCmd())
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
