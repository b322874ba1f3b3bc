package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/ehartline/armature/internal/app"
	"github.com/ehartline/armature/internal/config"
	"github.com/ehartline/armature/internal/log"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugMode bool
	cfg       config.Config
	cfgPath   string
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:     "armature",
	Short:   "A namespaced component shell for the terminal",
	Long: `A terminal shell that wires Bubble Tea components together through a
dot-path namespace registry, with readiness callbacks, a responsive
navigation rail, live config reload, and optional usage analytics.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .armature/config.yaml, then ~/.config/armature/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"log to armature.log and enable the ctrl+x log overlay")
	rootCmd.Flags().Bool("no-watch", false,
		"disable live config reload when the config file changes")
}

// initConfig resolves and loads the config file. Cobra initializers
// cannot return errors, so load failures are parked in cfgErr and
// surfaced from RunE.
func initConfig() {
	cfgErr = nil
	path, found := config.Resolve(cfgFile)

	if !found && cfgFile == "" {
		// No config anywhere - create a commented default at the local
		// path. If the write fails, continue with compiled-in defaults.
		if err := config.WriteDefaultConfig(path); err == nil {
			found = true
		}
	}

	cfgPath = path
	if !found {
		cfg = config.Defaults()
		return
	}

	loaded, err := config.Load(path)
	if err != nil {
		cfg = config.Defaults()
		cfgErr = err
		return
	}
	cfg = loaded
}

func runApp(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	// Handle --no-watch flag (negated logic)
	if noWatch, _ := cmd.Flags().GetBool("no-watch"); noWatch {
		cfg.Watch.Enabled = false
	}

	if debugMode || os.Getenv("ARMATURE_DEBUG") != "" {
		cleanup, err := log.Init("armature.log")
		if err != nil {
			return fmt.Errorf("initializing log file: %w", err)
		}
		defer cleanup()
		debugMode = true
	}

	// The global zone manager backs mouse hit testing for the nav rail
	// and search box marks.
	zone.NewGlobal()

	reg, tracker, err := app.Bootstrap(&cfg)
	if err != nil {
		return fmt.Errorf("bootstrapping registry: %w", err)
	}

	model := app.New(reg, &cfg, cfgPath, tracker, debugMode)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()

	// Close the final model, not the one constructed above: Run returns
	// the last value the update loop produced, and Close persists state
	// (nav collapse preference) that lives on it.
	if m, ok := final.(app.Model); ok {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
