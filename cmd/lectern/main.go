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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/lectern"
	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/ingest"
	"github.com/poiesic/lectern/query"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "lectern",
		Usage: "Manage and query multimodal lecture materials",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"L"},
				Usage:   "Path to the lecture library directory",
				Value:   "lectures",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Inference model for multimodal content",
				Value: ai.DefaultModel,
			},
			&cli.StringFlag{
				Name:  "text-model",
				Usage: "Inference model for text-only calls",
				Value: ai.DefaultTextModel,
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Inference service API key",
				EnvVars: []string{"GEMINI_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add lecture materials to the library",
				ArgsUsage: "[DOCUMENT_FILE ...]",
				Action:    addCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "video",
						Usage: "Video files to ingest (e.g., lecture1.mp4)",
					},
					&cli.StringSliceFlag{
						Name:  "audio",
						Usage: "Audio files to ingest (e.g., seminar.mp3)",
					},
					&cli.StringSliceFlag{
						Name:  "image",
						Usage: "Image files to ingest (e.g., whiteboard.png)",
					},
					&cli.StringSliceFlag{
						Name:  "text",
						Usage: "Text or code files to ingest (e.g., notes.txt)",
					},
					&cli.StringFlag{
						Name:  "ffmpeg",
						Usage: "Path to the ffmpeg binary",
						Value: "ffmpeg",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for failed inference calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Fixed delay between retry attempts",
						Value: 5 * time.Second,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Ask a natural language question about the library",
				ArgsUsage: "QUERY_TEXT",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cache-dir",
						Usage: "Answer cache directory (empty disables caching)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent analysis workers (0 uses the default)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for failed inference calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Fixed delay between retry attempts",
						Value: 5 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall time budget for the query (0 means none)",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List the items in the library",
				Action: listCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
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

func openLibrary(c *cli.Context, opts ...lectern.Option) (*lectern.Library, error) {
	config := ai.NewConfig(
		ai.WithModel(c.String("model")),
		ai.WithTextModel(c.String("text-model")),
		ai.WithAPIKey(c.String("api-key")),
	)

	opts = append([]lectern.Option{lectern.WithAIConfig(config)}, opts...)
	return lectern.Open(c.Context, c.String("library"), opts...)
}

// intake is one file queued for ingestion with its declared kind.
type intake struct {
	path string
	kind core.Kind
}

func addCommand(c *cli.Context) error {
	queue, err := buildIntakeQueue(c.Args().Slice(),
		c.StringSlice("video"), c.StringSlice("audio"),
		c.StringSlice("image"), c.StringSlice("text"))
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		return fmt.Errorf("nothing to add: pass document files or use --video/--audio/--image/--text")
	}

	lib, err := openLibrary(c, lectern.WithFFmpegPath(c.String("ffmpeg")))
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	pipeline, err := lib.NewIngestPipeline(c.Context,
		ingest.WithRetryPolicy(c.Int("max-retries"), c.Duration("retry-delay")))
	if err != nil {
		return err
	}

	// One bad file must not sink the rest of the batch.
	failed := 0
	for _, item := range queue {
		record, err := pipeline.Ingest(c.Context, item.path, item.kind)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", item.path, err)
			continue
		}
		fmt.Printf("Added [%d] %s (%s)\n", record.Id, record.OriginalName, record.Kind)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(queue))
	}
	return nil
}

// buildIntakeQueue merges positional documents with the typed flag lists.
// Positional files are auto-detected by extension; only known document
// extensions are accepted there.
func buildIntakeQueue(documents, videos, audios, images, texts []string) ([]intake, error) {
	var queue []intake

	for _, path := range documents {
		if !isKnownDocument(path) {
			return nil, fmt.Errorf("cannot auto-detect %q as a document: use a typed flag instead", path)
		}
		queue = append(queue, intake{path: path, kind: core.KindDocument})
	}
	for _, path := range videos {
		queue = append(queue, intake{path: path, kind: core.KindVideo})
	}
	for _, path := range audios {
		queue = append(queue, intake{path: path, kind: core.KindAudio})
	}
	for _, path := range images {
		queue = append(queue, intake{path: path, kind: core.KindImage})
	}
	for _, path := range texts {
		queue = append(queue, intake{path: path, kind: core.KindText})
	}
	return queue, nil
}

func isKnownDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return true
	}
	return false
}

func queryCommand(c *cli.Context) error {
	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return fmt.Errorf("query text is required")
	}

	var libOpts []lectern.Option
	if dir := c.String("cache-dir"); dir != "" {
		libOpts = append(libOpts, lectern.WithCacheDir(dir))
	}

	lib, err := openLibrary(c, libOpts...)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	queryOpts := []query.Option{
		query.WithRetryPolicy(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if size := c.Int("pool-size"); size > 0 {
		queryOpts = append(queryOpts, query.WithPoolSize(size))
	}
	if timeout := c.Duration("timeout"); timeout > 0 {
		queryOpts = append(queryOpts, query.WithTimeout(timeout))
	}

	pipeline, err := lib.NewQueryPipeline(c.Context, queryOpts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	result, err := pipeline.Resolve(c.Context, queryText)
	if err != nil {
		// A failed merge still produced per-item answers; show them.
		var synthErr *query.SynthesisError
		if errors.As(err, &synthErr) {
			fmt.Fprintln(os.Stderr, "Synthesis failed; showing per-item answers:")
			for _, answer := range synthErr.Answers {
				fmt.Printf("\n--- From item %d ---\n%s\n", answer.Id, answer.Answer)
			}
		}
		// Every candidate failed; say which and why.
		var analysisErr *query.AnalysisError
		if errors.As(err, &analysisErr) {
			for _, failure := range analysisErr.Failures {
				fmt.Fprintf(os.Stderr, "item %d failed: %v\n", failure.Id, failure.Err)
			}
		}
		return err
	}

	if !result.Found {
		fmt.Println("No relevant lecture material found for this query.")
		return nil
	}

	fmt.Println(result.Answer)

	if len(result.Sources) > 0 {
		sources := make([]string, len(result.Sources))
		for i, id := range result.Sources {
			sources[i] = fmt.Sprintf("%d", id)
		}
		fmt.Printf("\nSources: items %s\n", strings.Join(sources, ", "))
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "warning: item %d could not be analyzed: %v\n", failure.Id, failure.Err)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer lib.Close()

	items, err := lib.Catalog().Load(c.Context)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	for _, item := range items {
		fmt.Printf("[%d] %-8s %s (added %s)\n",
			item.Id, item.Kind, item.OriginalName, item.AddedAt.Format("2006-01-02"))
	}
	return nil
}
