package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/awilkes/kbchat/internal/api"
	"github.com/awilkes/kbchat/internal/config"
	"github.com/awilkes/kbchat/internal/outbox"
	"github.com/awilkes/kbchat/internal/ui"
	"github.com/awilkes/kbchat/internal/ui/panels"
	"github.com/awilkes/kbchat/internal/ui/styles"
	"github.com/awilkes/kbchat/internal/update"
)

const releaseRepo = "awilkes/kbchat"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			runVersion(releaseRepo)
			return
		case "update":
			runUpdate(releaseRepo)
			return
		}
	}

	server := flag.String("server", "", "backend base URL (overrides config)")
	mode := flag.String("mode", "", "default query mode (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.Server.BaseURL = *server
	}
	if *mode != "" {
		cfg.Query.DefaultMode = *mode
	}

	if err := styles.LoadTheme(cfg.UI.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	// The TUI owns the terminal, so log output goes to a file in debug
	// mode and is dropped otherwise.
	if os.Getenv("KBCHAT_DEBUG") != "" {
		f, err := tea.LogToFile("kbchat.log", "kbchat")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	client := api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSeconds)*time.Second)

	box, err := outbox.New(cfg.Outbox.Dir)
	if err != nil {
		log.Printf("warning: outbox disabled: %v", err)
		box = nil
	}

	model := ui.NewApp(cfg, client, box)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Update.CheckOnStartup == nil || *cfg.Update.CheckOnStartup {
		notifyUpdateAvailable(releaseRepo)
	}
}

// notifyUpdateAvailable prints a hint after the TUI exits so it never
// interferes with the alternate screen.
func notifyUpdateAvailable(repo string) {
	if panels.Version == "dev" {
		return
	}
	rel, err := update.CheckForUpdate(panels.Version, repo)
	if err != nil || rel == nil {
		return
	}
	fmt.Printf("kbchat v%s is available (you have %s). Run \"kbchat update\" to install.\n",
		rel.Version, panels.Version)
}
