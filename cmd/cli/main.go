package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/cmd/cli/commands"
	"github.com/SamGreenwood1/Camp-Management-App/internal/config"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/utils/logging"
)

var (
	env        string
	configPath string
	logsDir    string
	verbose    bool
	app        = &commands.AppContext{}
	stop       context.CancelFunc
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "camp",
		Short: "Camp scheduler - assign cabins to activity areas",
		Long:  `A CLI tool for building camp activity schedules from cabins, activity areas and periods.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if stop != nil {
				stop()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (defaults to camp_scheduler.<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs-dir", logging.DefaultLogsDir, "Directory for JSON log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	// Commands share app, which is populated by initApp before any RunE
	rootCmd.AddCommand(commands.GenerateScheduleCmd(app))
	rootCmd.AddCommand(commands.ValidateConfigCmd(app))
	rootCmd.AddCommand(commands.ListCatalogCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger, context and config
func initApp() error {
	var err error

	app.Logger, err = logging.InitLogger(env, logging.Options{Dir: logsDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt)

	app.Logger.Debug("Loading configuration", zap.String("path", configPath))
	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	return nil
}
