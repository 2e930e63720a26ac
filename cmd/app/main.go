package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/editor"
	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/journalservice"
	pkgconfig "github.com/starford/raido/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "raido",
		Usage:   "Flat-directory plain-text journal with frontmatter headers, tag queries, and editor integration",
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Path to the journal entries directory",
				Sources: cli.EnvVars("RAIDO_PATH"),
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("RAIDO_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "n",
				Usage:     "Create a new entry and open it in the editor",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "tags",
						Aliases: []string{"t"},
						Usage:   "Comma-separated tags to apply",
					},
					&cli.BoolFlag{
						Name:  "stdin",
						Usage: "Read the entry body from standard input",
					},
				},
				Action: runNew,
			},
			{
				Name:      "id",
				Usage:     "Edit the entry with the given id, or list all ids when none is given",
				ArgsUsage: "[id]",
				Action:    runID,
			},
			{
				Name:   "t",
				Usage:  "List tags with associated entry counts",
				Action: runTags,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setup loads configuration, wires the logger, and builds the journal service.
// The journal path is taken from --path (or RAIDO_PATH), then the config file.
func setup(cmd *cli.Command) (*journalservice.Service, error) {
	cfg := internal.NewDefaultConfig()
	configPath := cmd.String("config")
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.Level(),
	}))
	slog.SetDefault(logger)

	dir := cmd.String("path")
	if dir == "" {
		dir = cfg.Journal.Path
	}
	if dir == "" {
		return nil, fmt.Errorf("journal path not set: pass --path, set RAIDO_PATH, or configure journal.path")
	}

	repo, err := journal.NewRepository(dir)
	if err != nil {
		return nil, err
	}

	return journalservice.NewService(repo, editor.New(cfg.Editor.Command), logger), nil
}

func runNew(ctx context.Context, cmd *cli.Command) error {
	title := cmd.Args().First()
	if title == "" {
		return fmt.Errorf("missing entry title: usage: raido n <title>")
	}

	svc, err := setup(cmd)
	if err != nil {
		return err
	}

	var tags []string
	for _, raw := range strings.Split(cmd.String("tags"), ",") {
		if t := strings.TrimSpace(raw); t != "" {
			tags = append(tags, t)
		}
	}

	var body string
	if cmd.Bool("stdin") {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read body from stdin: %w", err)
		}
		body = string(data)
	}

	e, err := svc.CreateEntry(ctx, title, tags, body)
	if err != nil {
		return err
	}
	fmt.Println(svc.EntryPath(e))
	return nil
}

func runID(ctx context.Context, cmd *cli.Command) error {
	svc, err := setup(cmd)
	if err != nil {
		return err
	}

	id := cmd.Args().First()
	if id == "" {
		ids, err := svc.ListIDs()
		if err != nil {
			return err
		}
		for _, entryID := range ids {
			fmt.Println(entryID)
		}
		return nil
	}

	e, err := svc.EditByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Println(svc.EntryPath(e))
	return nil
}

func runTags(_ context.Context, cmd *cli.Command) error {
	svc, err := setup(cmd)
	if err != nil {
		return err
	}

	counts, err := svc.TagCounts()
	if err != nil {
		return err
	}
	for _, tc := range counts {
		fmt.Printf("%s %d\n", tc.Tag, tc.Count)
	}
	return nil
}
