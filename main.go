package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saman-rajabii/baby-health-app/internal/api"
	"github.com/saman-rajabii/baby-health-app/internal/config"
	"github.com/saman-rajabii/baby-health-app/internal/store"
	"github.com/saman-rajabii/baby-health-app/internal/tui"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func main() {
	var configPath string
	var apiURL string

	root := &cobra.Command{
		Use:     "babytrack",
		Short:   "Track fetal kicks and contractions from the terminal",
		Long:    "babytrack is a terminal client for the baby health backend.\n\nIt counts fetal kicks inside a timed window and times contractions,\nsyncing everything to the server under your account.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				var err error
				path, err = config.DefaultPath()
				if err != nil {
					return err
				}
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			if env := os.Getenv("BABYTRACK_API_URL"); env != "" && apiURL == "" {
				cfg.APIURL = env
			}

			dbPath, err := store.DefaultDBPath()
			if err != nil {
				return err
			}
			s, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer s.Close()

			client := api.NewClient(cfg.APIURL, cfg.RequestTimeout())

			// Restore a saved session, if any.
			var user *api.User
			if token, err := s.Token(); err == nil && token != "" {
				client.SetToken(token)
				if data, err := s.User(); err == nil && len(data) > 0 {
					var u api.User
					if json.Unmarshal(data, &u) == nil {
						user = &u
					}
				}
			}

			app := tui.NewApp(s, client, cfg.APIURL, user)
			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to the config file")
	root.Flags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
