package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jmwanja/resume-matcher/internal/agent"
	"github.com/jmwanja/resume-matcher/internal/analysis"
	"github.com/jmwanja/resume-matcher/internal/config"
	"github.com/jmwanja/resume-matcher/internal/export"
	"github.com/jmwanja/resume-matcher/internal/ingestion"
	"github.com/jmwanja/resume-matcher/internal/logger"
	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/ranking"
	"github.com/jmwanja/resume-matcher/internal/remote"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the resumes in a directory against a job description and export the ranking",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	defaults := config.Default()

	matchCmd.Flags().StringP("job", "J", "", "path to the job description (JSON or plain text)")
	// Bound flags surface their default through viper even when unchanged,
	// so they must carry the real defaults.
	matchCmd.Flags().StringP("resumes-dir", "r", defaults.ResumesDir, "directory holding the resumes to score")
	matchCmd.Flags().StringP("output", "o", defaults.Output, "path of the xlsx report")
	matchCmd.Flags().String("sort-by", ranking.SortOverall, "ranking criterion: overall, keyword, skills, experience or education")

	viper.BindPFlag("resumes-dir", matchCmd.Flags().Lookup("resumes-dir"))
	viper.BindPFlag("output", matchCmd.Flags().Lookup("output"))
}

// match is the main command of the cli.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		zlog.Fatal("loading configuration", zap.Error(err),
			zap.String("hint", "set --endpoint or the 'endpoint' key in the configuration file"))
	}

	jobPath := cmd.Flag("job").Value.String()
	if jobPath == "" {
		zlog.Fatal("a job description file is required", zap.String("hint", "pass --job"))
	}
	job, err := readJobDescription(jobPath)
	if err != nil {
		zlog.Fatal("reading job description", zap.Error(err))
	}

	zlog.Info("starting the resume matcher",
		zap.String("version", version),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("job", job.Title),
	)

	client := remote.New(cfg.Endpoint, logger.WithComponent(zlog, "remote"))
	analyzer := analysis.NewAnalyzer(client, analysis.NewCache(), logger.WithComponent(zlog, "analysis"), cfg.RetryPolicy())
	loader := ingestion.NewLoader(cfg.ResumesDir, client, logger.WithComponent(zlog, "ingestion"), cfg.RetryPolicy())
	matchAgent := agent.New(client, analyzer, logger.WithComponent(zlog, "agent"), agent.Options{
		BatchSize: cfg.BatchSize,
		Retry:     cfg.RetryPolicy(),
	})
	matchAgent.SetProgressCallback(func(processed, total int, message string) {
		zlog.Info(message, zap.Int("processed", processed), zap.Int("total", total))
	})

	candidates, err := loader.LoadCandidates(ctx)
	if err != nil {
		zlog.Fatal("loading resumes", zap.Error(err), zap.String("dir", cfg.ResumesDir))
	}
	if len(candidates) == 0 {
		zlog.Fatal("no resumes found", zap.String("dir", cfg.ResumesDir))
	}

	matchAgent.AnalyzeJob(ctx, job)
	if err := matchAgent.SubmitCandidates(candidates); err != nil {
		zlog.Fatal("submitting candidates", zap.Error(err))
	}
	scores, err := matchAgent.Score(ctx)
	if err != nil {
		zlog.Fatal("scoring", zap.Error(err))
	}

	view := ranking.NewEngine().Rank(scores, ranking.Options{
		SortBy: cmd.Flag("sort-by").Value.String(),
	})
	for _, e := range view.Entries {
		zlog.Info("ranked candidate",
			zap.Int("rank", e.Rank),
			zap.String("name", e.Name),
			zap.Int("overall", e.Overall),
			zap.Bool("estimated", e.IsFallback),
		)
	}

	summary := matchAgent.Summary()
	zlog.Info("matching complete",
		zap.Int("total", summary.Total),
		zap.Int("fully_analyzed", summary.FullyAnalyzed),
		zap.Int("fallback", summary.Fallback),
		zap.Int("parse_failed", summary.ParseFailed),
	)

	if err := export.ExportToExcel(view, matchAgent.Job(), cfg.Output); err != nil {
		zlog.Fatal("exporting report", zap.Error(err))
	}
	zlog.Info("report written", zap.String("path", cfg.Output))
}

// readJobDescription loads the job from a file. JSON files carry the full
// structure; anything else is taken as the raw posting text with the title
// derived from the file name.
func readJobDescription(path string) (models.JobDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.JobDescription{}, err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var job models.JobDescription
		if err := json.Unmarshal(data, &job); err != nil {
			return models.JobDescription{}, err
		}
		return job, nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return models.JobDescription{
		Title:       strings.ReplaceAll(base, "_", " "),
		Description: string(data),
	}, nil
}
