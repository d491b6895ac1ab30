// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/logseer"
	"github.com/poiesic/logseer/ai"
	"github.com/poiesic/logseer/analysis"
	"github.com/poiesic/logseer/server"
	"github.com/poiesic/logseer/tui"
)

func main() {
	// A .env file can supply the OLLAMA_* and EMBEDDING_* variables
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "logseer",
		Usage: "Ask questions about your logs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before:   setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Address for the HTTP server to listen on",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Directory for the record store (empty keeps records in memory)",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML config file",
					},
				}, aiFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Answer one question about a CSV log file",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "CSV log file to index",
						Required: true,
					},
				}, aiFlags()...),
			},
			{
				Name:   "tui",
				Usage:  "Interactive terminal client",
				Action: tuiCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "CSV log file to preload",
					},
				}, aiFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags returns the flag set shared by every command that talks to the
// AI backends. Each call returns fresh flag values.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ollama-url",
			Usage:   "Ollama base URL for grading and synthesis",
			Value:   "http://localhost:11434",
			EnvVars: []string{"OLLAMA_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "ollama-model",
			Usage:   "Generation model for grading and synthesis",
			Value:   "llama2",
			EnvVars: []string{"OLLAMA_MODEL"},
		},
		&cli.StringFlag{
			Name:    "embedding-url",
			Usage:   "OpenAI-compatible base URL for embeddings",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"EMBEDDING_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "all-minilm",
			EnvVars: []string{"EMBEDDING_MODEL"},
		},
		&cli.DurationFlag{
			Name:  "grade-timeout",
			Usage: "Per-candidate deadline for relevance grading",
			Value: 30 * time.Second,
		},
		&cli.DurationFlag{
			Name:  "synthesis-timeout",
			Usage: "Deadline for answer synthesis",
			Value: 120 * time.Second,
		},
	}
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileCfg, err := loadFileConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}

	aiConfig, err := buildAIConfig(c, fileCfg.AI)
	if err != nil {
		return err
	}

	listen := resolveString(c, "listen", fileCfg.Listen)
	dataDir := resolveString(c, "data", fileCfg.DataDir)

	opts := []logseer.ServiceOption{logseer.WithAIConfig(aiConfig)}
	if dataDir == "" {
		slog.Info("no data directory configured, records live in memory")
		opts = append(opts, logseer.WithInMemoryStore())
	}

	svc, err := logseer.NewService(ctx, dataDir, opts...)
	if err != nil {
		return fmt.Errorf("failed to assemble service: %w", err)
	}
	defer svc.Close()

	srv, err := server.NewServer(svc.UploadPipeline(), svc.LogRepository(), svc.ChatPipeline())
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func askCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a question is required, e.g.: logseer ask --file app.csv \"why did the writes fail\"")
	}

	aiConfig, err := buildAIConfig(c, aiFileConfig{})
	if err != nil {
		return err
	}

	svc, err := logseer.NewService(ctx, "",
		logseer.WithInMemoryStore(),
		logseer.WithAIConfig(aiConfig),
	)
	if err != nil {
		return fmt.Errorf("failed to assemble service: %w", err)
	}
	defer svc.Close()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	result, err := svc.UploadPipeline().Upload(ctx, f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to index log file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Indexed %d records (%d skipped)\n\n", result.RecordsProcessed, result.RecordsSkipped)

	answer, err := svc.ChatPipeline().Chat(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	color.New(color.FgCyan, color.Bold).Println(answer.Answer)
	if len(answer.Context) > 0 {
		fmt.Println()
		color.New(color.Faint).Println("Supporting log lines:")
		for _, record := range answer.Context {
			color.New(color.Faint).Printf("  %s\n", record.ContextLine())
		}
	}
	return nil
}

func tuiCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig, err := buildAIConfig(c, aiFileConfig{})
	if err != nil {
		return err
	}

	svc, err := logseer.NewService(ctx, "",
		logseer.WithInMemoryStore(),
		logseer.WithAIConfig(aiConfig),
	)
	if err != nil {
		return fmt.Errorf("failed to assemble service: %w", err)
	}
	defer svc.Close()

	summaryLine := "No logs loaded. Start with --file to preload a CSV."
	if file := c.String("file"); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		result, err := svc.UploadPipeline().Upload(ctx, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to index log file: %w", err)
		}

		records, err := svc.LogRepository().AllLogRecords(ctx)
		if err != nil {
			return err
		}
		summary := analysis.Summarize(records)
		summaryLine = fmt.Sprintf("%d records | %d errors | %d warnings | %d rows skipped",
			summary.TotalCount, summary.ErrorCount, summary.WarningCount, result.RecordsSkipped)
	}

	m := tui.New(svc.ChatPipeline(), summaryLine)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	return nil
}

// buildAIConfig resolves the AI settings from flags, environment, and the
// optional config file, in that order of precedence.
func buildAIConfig(c *cli.Context, file aiFileConfig) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithGenerationHost(resolveString(c, "ollama-url", file.OllamaURL)),
		ai.WithGenerationModel(resolveString(c, "ollama-model", file.OllamaModel)),
		ai.WithEmbeddingHost(resolveString(c, "embedding-url", file.EmbeddingURL)),
		ai.WithEmbeddingModel(resolveString(c, "embedding-model", file.EmbeddingModel)),
		ai.WithGradeTimeout(resolveDuration(c, "grade-timeout", file.GradeTimeoutSecs)),
		ai.WithSynthesisTimeout(resolveDuration(c, "synthesis-timeout", file.SynthesisTimeoutSecs)),
	)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

// resolveString picks a string setting: explicit flag or environment first,
// then the config file, then the flag default.
func resolveString(c *cli.Context, name, fileValue string) string {
	if c.IsSet(name) || fileValue == "" {
		return c.String(name)
	}
	return fileValue
}

func resolveDuration(c *cli.Context, name string, fileSecs int) time.Duration {
	if c.IsSet(name) || fileSecs <= 0 {
		return c.Duration(name)
	}
	return time.Duration(fileSecs) * time.Second
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
