package main

import (
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/stigoleg/idle-nudge/internal/config"
	"github.com/stigoleg/idle-nudge/internal/keepalive"
	"github.com/stigoleg/idle-nudge/internal/logging"
	"github.com/stigoleg/idle-nudge/internal/ui"
)

const appVersion = "0.1.0"

var logger = logrus.WithField("component", "main")

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseFlags(appVersion)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		return 1
	}

	closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		return 1
	}
	defer closer.Close()

	logger.Infof("idlenudge %s (idle=%s poll=%s backend=%s)",
		appVersion, cfg.IdleThreshold, cfg.PollInterval, cfg.Backend)

	keeper := keepalive.New(keepalive.Options{
		IdleThreshold: cfg.IdleThreshold,
		PollInterval:  cfg.PollInterval,
		Backend:       cfg.Backend,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, getSignalsForPlatform()...)
	defer signal.Stop(sigChan)

	if cfg.Headless {
		return runHeadless(keeper, cfg, sigChan)
	}
	return runTUI(keeper, cfg, sigChan)
}

func runHeadless(keeper *keepalive.Keeper, cfg *config.Config, sigChan <-chan os.Signal) int {
	var err error
	if cfg.Duration > 0 {
		err = keeper.StartTimed(cfg.Duration)
	} else {
		err = keeper.StartIndefinite()
	}
	if err != nil {
		logger.Errorf("failed to start: %v", err)
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		return 1
	}

	select {
	case sig := <-sigChan:
		logger.Infof("received signal: %v", sig)
		if err := keeper.Stop(); err != nil {
			logger.Errorf("error stopping: %v", err)
			return 1
		}
	case <-keeper.Done():
	}

	if err := keeper.Wait(); err != nil {
		logger.Errorf("session ended with error: %v", err)
		return 1
	}
	return 0
}

func runTUI(keeper *keepalive.Keeper, cfg *config.Config, sigChan <-chan os.Signal) int {
	var model ui.Model
	if cfg.Duration > 0 {
		model = ui.InitialModelWithDuration(keeper, cfg.Duration)
	} else {
		model = ui.InitialModelWithKeeper(keeper)
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		logger.Infof("received signal: %v", sig)
		if err := keeper.Stop(); err != nil {
			logger.Errorf("error stopping: %v", err)
		}
		p.Quit()
	}()

	_, runErr := p.Run()
	if err := keeper.Stop(); err != nil {
		logger.Errorf("error stopping: %v", err)
	}
	if runErr != nil {
		logger.Errorf("error running program: %v", runErr)
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}
	return 0
}
