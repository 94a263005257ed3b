// Package main provides the entry point for the readalong CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/readalong/config"
	"github.com/dgnsrekt/readalong/edit"
	"github.com/dgnsrekt/readalong/playback"
	"github.com/dgnsrekt/readalong/speech"
	"github.com/dgnsrekt/readalong/speech/engines"
	"github.com/dgnsrekt/readalong/transcript"
	"github.com/dgnsrekt/readalong/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	engineName string
	plain      bool
	debug      bool

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "readalong [FILE]",
		Short: "Read a transcript aloud, one highlighted word at a time",
		Long: paragraph(
			fmt.Sprintf("\nRead a word-level transcript aloud, %s. FILE is a JSON or YAML list of {word, start_time, duration}; use - for stdin. Without FILE a sample transcript is read.",
				keyword("keeping the original timing")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var err error
	cfg, err = config.LoadFromViper()
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel)
	log.Debug("Configuration loaded", "engine", cfg.Engine, "level", cfg.LogLevel)
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// loadTranscript reads the transcript named by args, stdin, or falls back
// to the sample. It also returns a short name for the source.
func loadTranscript(args []string) (transcript.Transcript, string, error) {
	if len(args) == 1 && args[0] != "-" {
		words, err := transcript.LoadFile(args[0])
		if err != nil {
			return nil, "", err
		}
		return words, filepath.Base(args[0]), nil
	}

	// if stdin is a pipe then use stdin for input. note that you can also
	// explicitly use a - to read from stdin.
	if len(args) == 1 {
		words, err := transcript.Load(os.Stdin, transcript.FormatAuto)
		return words, "stdin", err
	}
	if yes, err := stdinIsPipe(); err != nil {
		return nil, "", err
	} else if yes {
		words, err := transcript.Load(os.Stdin, transcript.FormatAuto)
		return words, "stdin", err
	}

	return transcript.Sample(), "sample", nil
}

func execute(cmd *cobra.Command, args []string) error {
	words, source, err := loadTranscript(args)
	if err != nil {
		return err
	}

	backend, err := engines.New(cfg)
	if err != nil {
		return fmt.Errorf("unable to start speech engine: %w", err)
	}
	driver := speech.NewDriver(backend)
	defer func() {
		if err := driver.Close(); err != nil {
			log.Warn("Could not close speech engine", "error", err)
		}
		stats := driver.Stats()
		log.Info("Session finished",
			"spoken", stats.Utterances,
			"failed", stats.Failures,
			"cancelled", stats.Cancelled,
			"speaking", stats.TotalTime)
	}()

	store := transcript.NewStore(words)
	scheduler := playback.New(driver)

	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runPlain(ctx, os.Stdout, store, scheduler, driver)
	}
	return runTUI(source, store, scheduler)
}

func runTUI(source string, store *transcript.Store, scheduler *playback.Scheduler) error {
	// Read environment to get display settings
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	uiCfg.Engine = cfg.Engine
	uiCfg.Source = source

	coordinator := edit.NewCoordinator(store)

	_, err = ui.NewProgram(uiCfg, store, scheduler, coordinator).Run()
	// Quitting cancels the run; make sure it has unwound.
	scheduler.Stop()
	if err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&engineName, "engine", "e", "", fmt.Sprintf("speech engine (%s)", joinEngines()))
	rootCmd.Flags().BoolVarP(&plain, "plain", "p", false, "print words instead of starting the TUI")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Config bindings
	_ = viper.BindPFlag("engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(configCmd, manCmd)
}

func joinEngines() string {
	return strings.Join(config.Engines, ", ")
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "readalong")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "readalong")}, dirs...)
	}

	if c := os.Getenv("READALONG_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("readalong")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("readalong")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], "readalong.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
