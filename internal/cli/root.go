// Package cli wires the cobra command surface: flag parsing, environment
// and config file resolution, and dependency construction for the loader.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/rawload/internal/config"
	"github.com/vvka-141/rawload/internal/db"
	"github.com/vvka-141/rawload/internal/loader"
	"github.com/vvka-141/rawload/internal/logging"
	"github.com/vvka-141/rawload/internal/report"
	"github.com/vvka-141/rawload/pkg/rawload"
)

const asciiLogo = `                    _                 _
  _ __ __ ___      _| | ___   __ _  __| |
 | '__/ _` + "`" + ` \ \ /\ / / |/ _ \ / _` + "`" + ` |/ _` + "`" + ` |
 | | | (_| |\ V  V /| | (_) | (_| | (_| |
 |_|  \__,_| \_/\_/ |_|\___/ \__,_|\__,_|`

var rootCmd = &cobra.Command{
	Use:   "rawload [data_path]",
	Short: "Load the SaaS customer CSV dataset into the PostgreSQL raw schema",
	Long: asciiLogo + `

rawload reads the customer dataset from CSV files and upserts it into the
raw schema of the analytics database: raw_users, raw_plans,
raw_subscriptions and raw_nps, in foreign key dependency order.

The data directory may contain either the four per-entity files
(users.csv, plans.csv, subscriptions.csv, nps.csv) or the combined
saas_customer_data.csv, which is split in memory.

Re-running is safe: loads are idempotent upserts, and a populated database
is skipped entirely unless --force-reload (or FORCE_RELOAD=1) is set.

Password Authentication:
  For security, the password is NOT accepted as a CLI flag. Use one of:
    1. $DB_PASSWORD environment variable
    2. A .env file in the working directory
  Never put passwords in shell commands (visible in history and process list)

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - Raw schema DDL failed
  13 - Malformed CSV input
  14 - Integrity constraint violation`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runLoad,
}

type loadFlagValues struct {
	host, username, database, sslMode string
	port                              int
	dataPath                          string
	forceReload                       bool
	timeout                           time.Duration
}

var loadFlags loadFlagValues

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.Flags().StringVarP(&loadFlags.host, "host", "H", "",
		"PostgreSQL server host\nPrecedence: --host > $DB_HOST > rawload.yaml > localhost")
	rootCmd.Flags().IntVarP(&loadFlags.port, "port", "p", 0,
		"PostgreSQL server port\nPrecedence: --port > $DB_PORT > rawload.yaml > 5432")
	rootCmd.Flags().StringVarP(&loadFlags.username, "username", "U", "",
		"PostgreSQL user (default: $DB_USER or analytics)")
	rootCmd.Flags().StringVarP(&loadFlags.database, "database", "d", "",
		"Target database name (default: $DB_NAME or saas_analytics)")
	rootCmd.Flags().StringVar(&loadFlags.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full (default: prefer)")

	rootCmd.Flags().StringVar(&loadFlags.dataPath, "data", "",
		"Directory containing the CSV input\nPrecedence: positional arg > --data > $DATA_PATH > rawload.yaml > ./data")
	rootCmd.Flags().BoolVar(&loadFlags.forceReload, "force-reload", false,
		"Truncate the raw tables and reload from scratch\nAlternative: FORCE_RELOAD=1 environment variable")
	rootCmd.Flags().DurationVar(&loadFlags.timeout, "timeout", rawload.DefaultTimeout,
		"Global timeout for the whole run")
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	// .env is optional; the container setup ships one next to the data.
	_ = godotenv.Load()
	env := db.LoadFromEnvironment()

	projectCfg, err := config.Load(".")
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("%w: reading %s: %w", rawload.ErrInvalidConfig, config.ConfigFileName, err)
	}

	loadConfig, connCfg, err := buildLoadConfig(cmd, args, env, projectCfg, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	connector := db.NewConnector(connCfg, logger)
	service := loader.NewLoadService(connector, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling load...")
		cancel()
	}()

	result, err := service.Run(ctx, *loadConfig)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	report.NewRenderer(os.Stdout).Render(result)
	return nil
}

// buildLoadConfig resolves the effective configuration from the positional
// argument, flags, environment variables and rawload.yaml, in that order.
func buildLoadConfig(
	cmd *cobra.Command,
	args []string,
	env *db.EnvVars,
	projectCfg *config.ProjectConfig,
	verbose bool,
) (*rawload.LoadConfig, *rawload.ConnectionConfig, error) {
	connCfg, err := db.ResolveConnectionParams(&db.Flags{
		Host:     loadFlags.host,
		Port:     loadFlags.port,
		Username: loadFlags.username,
		Database: loadFlags.database,
		SSLMode:  loadFlags.sslMode,
	}, env, projectCfg)
	if err != nil {
		return nil, nil, err
	}

	dataPath := loadFlags.dataPath
	if len(args) == 1 {
		dataPath = args[0]
	}
	var yamlDataPath string
	if projectCfg != nil {
		yamlDataPath = projectCfg.DataPath
	}
	if dataPath == "" {
		dataPath = firstNonEmpty(env.DataPath, yamlDataPath, rawload.DefaultDataPath)
	}

	forceReload := loadFlags.forceReload || env.ForceReloadEnabled()
	if projectCfg != nil && projectCfg.ForceReload {
		forceReload = true
	}

	timeout := loadFlags.timeout
	if !cmd.Flags().Changed("timeout") && projectCfg != nil && projectCfg.Timeout != "" {
		timeout, err = time.ParseDuration(projectCfg.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid timeout %q in %s",
				rawload.ErrInvalidConfig, projectCfg.Timeout, config.ConfigFileName)
		}
	}

	return &rawload.LoadConfig{
		DataPath:         dataPath,
		ConnectionString: db.BuildConnectionString(connCfg),
		DatabaseName:     connCfg.Database,
		ForceReload:      forceReload,
		Timeout:          timeout,
		Verbose:          verbose,
	}, connCfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
