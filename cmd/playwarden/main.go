/*
Playwarden
Copyright (c) 2026 The Playwarden Contributors.

This file is part of Playwarden.

Playwarden is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Playwarden is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Playwarden.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/playwarden/playwarden/pkg/config"
	"github.com/playwarden/playwarden/pkg/helpers"
	"github.com/playwarden/playwarden/pkg/service"
	"github.com/playwarden/playwarden/pkg/ui/systray"
	"github.com/playwarden/playwarden/pkg/ui/tui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	tuiMode := flag.Bool("tui", false, "run the terminal UI instead of the system tray")
	hours := flag.String("hours", "", "start a session of this many hours")
	minutes := flag.String("minutes", "", "start a session of this many minutes")
	seconds := flag.String("seconds", "", "start a session of this many seconds")
	until := flag.String("until", "", "start a session ending at HH:MM")
	proc := flag.String("process", "", "override the monitored process name")
	debug := flag.Bool("debug", false, "enable debug logging")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("Playwarden v" + config.AppVersion)
		os.Exit(0)
	}

	err := helpers.InitLogging(helpers.LogDir(), []io.Writer{
		zerolog.ConsoleWriter{Out: os.Stderr},
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
	if err != nil {
		log.Error().Err(err).Msg("error loading config")
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	if *debug || cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *proc != "" {
		cfg.SetProcessName(*proc)
	}

	app, err := service.Start(cfg, nil)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		fmt.Println("Error starting service:", err)
		os.Exit(1)
	}

	// A session given on the command line starts before any UI is up.
	switch {
	case *until != "":
		err = app.StartUntil(*until)
	case *hours != "" || *minutes != "" || *seconds != "":
		err = app.StartDurationFields(*hours, *minutes, *seconds)
	}
	if err != nil {
		log.Error().Err(err).Msg("error starting session")
		fmt.Println("Error starting session:", err)
		app.Shutdown()
		os.Exit(1)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		app.Shutdown()
		os.Exit(0)
	}()

	if *tuiMode {
		if err := tui.Run(cfg, app); err != nil {
			fmt.Println("Error running TUI:", err)
			app.Shutdown()
			os.Exit(1)
		}
		app.Shutdown()
		os.Exit(0)
	}

	systray.Run(cfg, app, func() {
		app.Shutdown()
		os.Exit(0)
	})
}
