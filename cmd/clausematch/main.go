// Copyright 2025 Veridoc Systems
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	clausematch "github.com/veridoc/clausematch"
	"github.com/veridoc/clausematch/ai"
	"github.com/veridoc/clausematch/ai/openai"
	"github.com/veridoc/clausematch/core"
	"github.com/veridoc/clausematch/match"
	"github.com/veridoc/clausematch/prewarm"
	"github.com/veridoc/clausematch/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "clausematch",
		Usage: "Semantic clause matching for legal documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "match",
				Usage:     "Rank document clauses against a natural-language query",
				Action:    matchCommand,
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "clauses",
						Aliases:  []string{"c"},
						Usage:    "Path to a JSON file with the document clauses",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the embedding cache directory (empty for in-memory)",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of matches to return",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "highlight",
						Usage: "Include character spans to highlight for each match",
					},
					&cli.BoolFlag{
						Name:  "keyword-only",
						Usage: "Skip the embedding service and match on keywords alone",
					},
				},
			},
			{
				Name:      "analyze",
				Usage:     "Show the keyword, synonym, and intent analysis of a query",
				Action:    analyzeCommand,
				ArgsUsage: "QUERY",
			},
			{
				Name:   "warm",
				Usage:  "Precompute clause embeddings into the cache",
				Action: warmCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the embedding cache directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "clauses",
						Aliases:  []string{"c"},
						Usage:    "Path to a JSON file with the document clauses",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of clauses to embed per service call",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N clauses",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// matchOutput is the JSON shape printed by the match command.
type matchOutput struct {
	Query          string             `json:"query"`
	Intent         string             `json:"intent"`
	Degraded       bool               `json:"degraded"`
	ClausesSkipped int                `json:"clauses_skipped"`
	Matches        []matchOutputEntry `json:"matches"`
}

type matchOutputEntry struct {
	ClauseIndex     int             `json:"clause_index"`
	Title           string          `json:"title,omitempty"`
	Score           float64         `json:"score"`
	Confidence      string          `json:"confidence"`
	MatchedKeywords []string        `json:"matched_keywords"`
	Suggestions     []string        `json:"suggestions,omitempty"`
	Segments        []segmentOutput `json:"segments,omitempty"`
}

type segmentOutput struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func matchCommand(c *cli.Context) error {
	ctx := context.Background()

	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return fmt.Errorf("query is required")
	}

	clauses, err := loadClauses(c.String("clauses"))
	if err != nil {
		return fmt.Errorf("failed to load clauses: %w", err)
	}

	matchConfig := match.DefaultConfig()
	matchConfig.MaxResults = c.Int("max-results")

	opts := []clausematch.EngineOption{
		clausematch.WithMatchConfig(matchConfig),
	}
	if c.Bool("keyword-only") {
		opts = append(opts, clausematch.WithKeywordOnly())
	} else {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
		)
		if err := aiConfig.Validate(); err != nil {
			return fmt.Errorf("invalid AI configuration: %w", err)
		}
		opts = append(opts, clausematch.WithAIConfig(aiConfig))
		if c.String("db") == "" {
			opts = append(opts, clausematch.WithInMemoryStore())
		}
	}

	engine, err := clausematch.NewEngine(c.String("db"), opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	response, err := engine.Match(ctx, queryText, clauses)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	output := matchOutput{
		Query:          queryText,
		Intent:         response.Analysis.Intent.String(),
		Degraded:       response.Degraded,
		ClausesSkipped: response.ClausesSkipped,
		Matches:        []matchOutputEntry{},
	}
	for i := range response.Matches {
		m := &response.Matches[i]
		entry := matchOutputEntry{
			ClauseIndex:     m.ClauseIndex,
			Title:           m.Title,
			Score:           m.Score,
			Confidence:      m.Confidence.String(),
			MatchedKeywords: m.MatchedKeywords,
			Suggestions:     m.Suggestions,
		}
		if c.Bool("highlight") {
			for _, seg := range engine.LocateSegments(m.Text, m) {
				entry.Segments = append(entry.Segments, segmentOutput{Start: seg.Start, End: seg.End})
			}
		}
		output.Matches = append(output.Matches, entry)
	}

	return printJSON(output)
}

func analyzeCommand(c *cli.Context) error {
	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return fmt.Errorf("query is required")
	}

	// Analysis is pure text processing; no store or embedding service needed.
	engine, err := clausematch.NewEngine("", clausematch.WithKeywordOnly())
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	analysis := engine.Analyze(queryText)
	return printJSON(struct {
		Query         string   `json:"query"`
		Keywords      []string `json:"keywords"`
		Synonyms      []string `json:"synonyms"`
		ExpandedTerms []string `json:"expanded_terms"`
		Intent        string   `json:"intent"`
		LegalEntities []string `json:"legal_entities"`
	}{
		Query:         analysis.OriginalQuery,
		Keywords:      analysis.Keywords,
		Synonyms:      analysis.Synonyms,
		ExpandedTerms: analysis.ExpandedTerms,
		Intent:        analysis.Intent.String(),
		LegalEntities: analysis.LegalEntities,
	})
}

func warmCommand(c *cli.Context) error {
	ctx := context.Background()

	clauses, err := loadClauses(c.String("clauses"))
	if err != nil {
		return fmt.Errorf("failed to load clauses: %w", err)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	warmConfig := &prewarm.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if warmConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if warmConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	warmer, err := prewarm.NewWarmer(repo, embedder, c.String("embedding-model"), warmConfig, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create warmer: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := warmer.Run(ctx, clauses); err != nil {
		return fmt.Errorf("warming failed: %w", err)
	}

	return nil
}

// loadClauses reads a JSON array of {title, text} objects.
func loadClauses(path string) ([]core.Clause, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid clause file %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("clause file %s contains no clauses", path)
	}

	clauses := make([]core.Clause, len(raw))
	for i, r := range raw {
		clauses[i] = core.Clause{Title: r.Title, Text: r.Text}
	}
	return clauses, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
