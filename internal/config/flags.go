package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"

	"github.com/stigoleg/idle-nudge/internal/platform"
	"github.com/stigoleg/idle-nudge/internal/ui"
	"github.com/stigoleg/idle-nudge/internal/util"
)

// DefaultLogFile receives logs while the TUI owns the terminal.
const DefaultLogFile = "idlenudge.log"

type Config struct {
	// Duration is how long to run; zero means until stopped. With Clock
	// set it is the time left until Clock.
	Duration      time.Duration
	Clock         time.Time
	IdleThreshold time.Duration
	PollInterval  time.Duration
	Backend       string
	Headless      bool
	LogFile       string
	LogLevel      string
	ShowVersion   bool
}

// Minutes returns Duration in whole minutes.
func (c *Config) Minutes() int {
	return int(c.Duration.Minutes())
}

// FormatError renders a configuration error for the terminal.
func FormatError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "Invalid duration format:") || strings.Contains(msg, "Invalid time format:") {
		parts := strings.SplitN(msg, "\n\n", 2)
		if len(parts) == 2 {
			errorBox := ui.Current.InputBox.Copy().
				BorderForeground(lipgloss.Color("#FF4040"))

			header := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF4040")).
				Render(parts[0])

			details := lipgloss.NewStyle().
				Foreground(lipgloss.Color("#999999")).
				Render(parts[1])

			return errorBox.Render(fmt.Sprintf("%s\n\n%s", header, details))
		}
	}
	return ui.Current.Error.Render(msg)
}

func newFlagSet() *flag.FlagSet {
	flags := flag.NewFlagSet("idlenudge", flag.ContinueOnError)
	flags.SortFlags = false

	flags.StringP("duration", "d", "", "How long to run, in minutes or as a duration (e.g. \"150\", \"2h30m\")")
	flags.StringP("clock", "c", "", "Run until a wall-clock time (e.g. \"22:30\", \"10:30PM\")")
	flags.DurationP("idle", "i", platform.IdleThreshold, "Idle time after which the cursor is nudged")
	flags.DurationP("poll", "p", platform.PollInterval, "How often idle time is checked")
	flags.StringP("backend", "b", platform.DefaultBackend,
		fmt.Sprintf("Desktop backend (%s)", strings.Join(platform.Names(), ", ")))
	flags.Bool("headless", false, "Run without the terminal UI")
	flags.String("log-file", "", "Log file (default \""+DefaultLogFile+"\", or stderr with --headless)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.BoolP("version", "v", false, "Show version information")
	return flags
}

// Flags returns the command-line flag set, for documentation generators.
func Flags() *flag.FlagSet {
	return newFlagSet()
}

// ParseArgs parses args (without the program name) against env and now.
// It returns flag.ErrHelp when help was requested.
func ParseArgs(args []string, now time.Time, getenv func(string) string) (*Config, error) {
	cfg := &Config{
		IdleThreshold: platform.IdleThreshold,
		PollInterval:  platform.PollInterval,
		Backend:       platform.DefaultBackend,
		LogLevel:      "info",
	}
	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}

	flags := newFlagSet()
	flags.Usage = func() {}
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "idle":
			cfg.IdleThreshold, _ = flags.GetDuration("idle")
		case "poll":
			cfg.PollInterval, _ = flags.GetDuration("poll")
		case "backend":
			cfg.Backend = f.Value.String()
		case "log-file":
			cfg.LogFile = f.Value.String()
		case "log-level":
			cfg.LogLevel = f.Value.String()
		}
	})
	cfg.Headless, _ = flags.GetBool("headless")
	cfg.ShowVersion, _ = flags.GetBool("version")
	if cfg.ShowVersion {
		return cfg, nil
	}

	duration, _ := flags.GetString("duration")
	clock, _ := flags.GetString("clock")
	if duration != "" && clock != "" {
		return nil, errors.New("--duration and --clock cannot be used together")
	}

	if duration != "" {
		d, err := util.ParseDuration(duration)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, errors.Errorf("duration must be positive, got %q", duration)
		}
		cfg.Duration = d
	}
	if clock != "" {
		target, d, err := util.UntilClock(clock, now)
		if err != nil {
			return nil, err
		}
		cfg.Clock = target
		cfg.Duration = d
	}

	if cfg.IdleThreshold <= 0 {
		return nil, errors.Errorf("idle threshold must be positive, got %s", cfg.IdleThreshold)
	}
	if cfg.PollInterval <= 0 {
		return nil, errors.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	cfg.Backend = platform.Normalize(cfg.Backend)
	if !platform.Valid(cfg.Backend) {
		return nil, errors.Wrapf(platform.ErrUnknownBackend, "%q (want one of %s)",
			cfg.Backend, strings.Join(platform.Names(), ", "))
	}

	if cfg.LogFile == "" && !cfg.Headless {
		cfg.LogFile = DefaultLogFile
	}
	return cfg, nil
}

// ParseFlags parses os.Args, printing help, version or errors and
// exiting when appropriate.
func ParseFlags(version string) (*Config, error) {
	return ParseFlagsWithNow(version, time.Now())
}

// ParseFlagsWithNow is ParseFlags with an explicit current time.
func ParseFlagsWithNow(version string, now time.Time) (*Config, error) {
	cfg, err := ParseArgs(os.Args[1:], now, os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Print(ui.HelpView())
			os.Exit(0)
		}
		fmt.Println(FormatError(err))
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Printf("idlenudge version: %s\n", version)
		os.Exit(0)
	}
	return cfg, nil
}
