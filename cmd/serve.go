package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/agent"
	"github.com/jmwanja/resume-matcher/internal/analysis"
	"github.com/jmwanja/resume-matcher/internal/api"
	"github.com/jmwanja/resume-matcher/internal/config"
	"github.com/jmwanja/resume-matcher/internal/logger"
	"github.com/jmwanja/resume-matcher/internal/ranking"
	"github.com/jmwanja/resume-matcher/internal/remote"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Bound flags surface their default through viper even when unchanged,
	// so the flag must carry the real default.
	serveCmd.Flags().StringP("listen", "l", config.Default().Listen, "address for the HTTP API server")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		zlog.Fatal("loading configuration", zap.Error(err),
			zap.String("hint", "set --endpoint or the 'endpoint' key in the configuration file"))
	}

	client := remote.New(cfg.Endpoint, logger.WithComponent(zlog, "remote"))
	analyzer := analysis.NewAnalyzer(client, analysis.NewCache(), logger.WithComponent(zlog, "analysis"), cfg.RetryPolicy())
	matchAgent := agent.New(client, analyzer, logger.WithComponent(zlog, "agent"), agent.Options{
		BatchSize: cfg.BatchSize,
		Retry:     cfg.RetryPolicy(),
	})
	server := api.NewServer(matchAgent, ranking.NewEngine(), logger.WithComponent(zlog, "api"))

	zlog.Info("starting the resume matcher API",
		zap.String("version", version),
		zap.String("listen", cfg.Listen),
		zap.String("endpoint", cfg.Endpoint),
	)
	if err := http.ListenAndServe(cfg.Listen, server.Router()); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
