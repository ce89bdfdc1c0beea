package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradejournal/internal/alerts"
	"tradejournal/internal/config"
	"tradejournal/internal/feed"
	"tradejournal/internal/journal"
	"tradejournal/internal/logging"
	"tradejournal/internal/notify"
	"tradejournal/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
	Store     store.DataStore
	Journal   *journal.Service
	Engine    *alerts.Engine
}

// configSettings re-reads the config file on every snapshot so switch
// changes take effect on the engine's next tick.
type configSettings struct {
	dir    string
	cached alerts.Settings
}

// Snapshot implements alerts.SettingsProvider.
func (p *configSettings) Snapshot() alerts.Settings {
	cfg, err := config.Load(p.dir)
	if err != nil {
		return p.cached
	}
	p.cached = alerts.Settings{
		NotificationsEnabled: cfg.Notifications.Enabled,
		PriceAlertsEnabled:   cfg.Notifications.PriceAlerts,
		NewsAlertsEnabled:    cfg.Notifications.NewsAlerts,
	}
	return p.cached
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, configDir string, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		Logger:    logger,
	}

	dbPath := filepath.Join(configDir, "journal.db")
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize store, most commands will be unavailable")
	} else {
		app.Store = dataStore
		app.Journal = journal.NewService(dataStore, logger)
		app.Engine = alerts.New(alerts.Config{
			Store:    dataStore,
			Prices:   feed.NewFilePriceFeed(filepath.Join(configDir, "prices.json")),
			Calendar: feed.NewFileCalendarFeed(filepath.Join(configDir, "calendar.json")),
			Notifier: notify.NewMultiNotifier(notify.NewTerminalChannel()),
			Settings: &configSettings{
				dir: configDir,
				cached: alerts.Settings{
					NotificationsEnabled: cfg.Notifications.Enabled,
					PriceAlertsEnabled:   cfg.Notifications.PriceAlerts,
					NewsAlertsEnabled:    cfg.Notifications.NewsAlerts,
				},
			},
			Logger:   logger,
			Interval: cfg.Scheduler.Interval,
		})
	}

	rootCmd := &cobra.Command{
		Use:   "tradejournal",
		Short: "Personal trading journal with analytics and alerts",
		Long: `tradejournal is a personal trading-journal CLI.

Log executed or planned trades, derive risk metrics and outcome
classification, review aggregate performance, and watch price/news
conditions with exactly-once alerts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addJournalCommands(rootCmd, app)
	addReportCommands(rootCmd, app)
	addRiskCommands(rootCmd, app)
	addAlertCommands(rootCmd, app)
	addSetupCommands(rootCmd, app)

	return rootCmd
}
