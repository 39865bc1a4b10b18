package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZacxDev/nolan-sites/config"
)

var (
	configFile string

	cfg    *config.SiteConfig
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "nolan-sites",
	Short: "Ana Nolan - business card, blog and taxes sites",
	Long:  `nolan-sites serves and exports the main business-card site and the taxes site from one content tree, in English and Russian.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, used, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := newLogger(cfg)
		if err != nil {
			return err
		}
		logger = l
		if used != "" {
			logger.Debug("config loaded", zap.String("file", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

func newLogger(c *config.SiteConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	if c.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(c.LogLevel)
		if err != nil {
			return nil, errors.Wrap(err, "log_level")
		}
		zc.Level = level
	}
	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return l, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./site.yaml)")
}
