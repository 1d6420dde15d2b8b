package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fathomchat/fathom/pkg/config"
	"github.com/fathomchat/fathom/pkg/headless"
	"github.com/fathomchat/fathom/pkg/logger"
	"github.com/fathomchat/fathom/pkg/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fathom",
	Short: "Streaming chat client with progressive tool reveal",
	Long: `Fathom renders a streamed assistant response in the terminal:
tool steps appear one at a time as they complete, followed by the
answer and its citations. Responses come from a live model or from a
captured packet stream via --replay.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		settings := config.Get()
		replayPath := viper.GetString("replay.path")
		prompt := viper.GetString("prompt")
		headlessMode := viper.GetBool("headless")

		if headlessMode {
			runner := headless.NewRunner(os.Stdout)
			return runner.Run(context.Background(), headless.Options{
				ReplayPath: replayPath,
				Prompt:     prompt,
			})
		}

		if replayPath == "" && prompt == "" {
			return fmt.Errorf("provide --prompt for a live run or --replay for capture playback")
		}

		return tui.StartApp(context.Background(), tui.AppOptions{
			ReplayPath: replayPath,
			Prompt:     prompt,
			Expanded:   settings.Reveal.Expanded,
		})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .fathom/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringP("prompt", "p", "", "prompt to send to the live model")
	viper.BindPFlag("prompt", rootCmd.PersistentFlags().Lookup("prompt"))

	rootCmd.PersistentFlags().StringP("replay", "r", "", "replay a captured packet stream (JSONL) instead of a live model")
	viper.BindPFlag("replay.path", rootCmd.PersistentFlags().Lookup("replay"))

	rootCmd.PersistentFlags().BoolP("headless", "H", false, "print a transcript without the TUI")
	viper.BindPFlag("headless", rootCmd.PersistentFlags().Lookup("headless"))

	rootCmd.PersistentFlags().BoolP("expanded", "e", false, "start with all revealed steps kept on screen")
	viper.BindPFlag("reveal.expanded", rootCmd.PersistentFlags().Lookup("expanded"))
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}
