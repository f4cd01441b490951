package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/elonfeng/bullhorn/internal/config"
	"github.com/elonfeng/bullhorn/internal/logger"
	"github.com/elonfeng/bullhorn/internal/store"
	"github.com/elonfeng/bullhorn/pkg/extract"
	"github.com/elonfeng/bullhorn/pkg/forum"
	"github.com/elonfeng/bullhorn/pkg/report"
	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setup() (*config.Config, logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func newForumClient(cfg *config.Config, log logger.Logger) *forum.Client {
	return forum.NewClient(
		cfg.Forum.BaseURL,
		cfg.Forum.CategorySlug,
		cfg.Forum.CategoryID,
		cfg.Forum.ParseTimeout(),
		log,
	)
}

// collect walks the category, extracts contributions from every edition
// and persists the snapshot. Fetch failures degrade to less data, never
// to an error; only storage failures surface.
func collect(ctx context.Context, client *forum.Client, ex *extract.Extractor, st store.Store, log logger.Logger) error {
	topics := client.ListTopics(ctx)
	if err := st.ReplaceTopics(ctx, topics); err != nil {
		return fmt.Errorf("store topics: %w", err)
	}

	totalRecords := 0
	for _, t := range topics {
		raw := client.RawContent(ctx, t.ID)
		records := ex.Extract(t.ID, raw)

		if err := st.ReplaceContributions(ctx, t.ID, records); err != nil {
			return fmt.Errorf("store contributions for topic %d: %w", t.ID, err)
		}
		totalRecords += len(records)
	}

	log.Info("collection finished",
		zap.Int("topics", len(topics)),
		zap.Int("contributions", totalRecords))
	return nil
}

// export aggregates the stored snapshot and writes the reports.
func export(ctx context.Context, st store.Store, cfg *config.Config, log logger.Logger, xlsxPath string) error {
	topics, err := st.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("load topics: %w", err)
	}
	records, err := st.ListContributions(ctx)
	if err != nil {
		return fmt.Errorf("load contributions: %w", err)
	}

	rep := report.Build(topics, records)
	report.NewCSVExporter(cfg.Export.Dir, log).Export(rep)

	if xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, rep); err != nil {
			log.Error("failed to write workbook", zap.String("file", xlsxPath), zap.Error(err))
		} else {
			log.Info("saved workbook", zap.String("file", xlsxPath))
		}
	}
	return nil
}

func runPipeline(xlsxPath string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	client := newForumClient(cfg, log)
	ex := extract.New(cfg.Extract.Keywords)

	if err := collect(ctx, client, ex, st, log); err != nil {
		return err
	}
	return export(ctx, st, cfg, log, xlsxPath)
}

func runCollect() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client := newForumClient(cfg, log)
	ex := extract.New(cfg.Extract.Keywords)
	return collect(context.Background(), client, ex, st, log)
}

func runExport(xlsxPath string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return export(context.Background(), st, cfg, log, xlsxPath)
}

func runStats(jsonOutput bool) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	topics, err := st.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("load topics: %w", err)
	}
	records, err := st.ListContributions(ctx)
	if err != nil {
		return fmt.Errorf("load contributions: %w", err)
	}

	if len(topics) == 0 {
		fmt.Println("no data collected yet (try: bullhorn collect)")
		return nil
	}

	rep := report.Build(topics, records)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	renderUserCounts(rep)
	fmt.Println()
	renderUserTotals(rep)
	return nil
}

func renderUserCounts(rep *report.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Users"})
	for _, c := range rep.UserCounts {
		t.AppendRow(table.Row{c.ID, c.Title, c.NumberOfUsers})
	}
	t.Render()
}

func renderUserTotals(rep *report.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"User", "Contributions"})
	for _, u := range rep.UserTotals {
		t.AppendRow(table.Row{u.User, u.Contributions})
	}
	t.Render()
}

func runFeed(limit int) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	client := newForumClient(cfg, log)
	editions, err := client.LatestEditions(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("latest editions: %w", err)
	}

	if len(editions) == 0 {
		fmt.Println("no editions in feed")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Published", "Title", "Link"})
	for _, e := range editions {
		published := ""
		if !e.Published.IsZero() {
			published = e.Published.Format(time.DateOnly)
		}
		t.AppendRow(table.Row{published, e.Title, e.Link})
	}
	t.Render()
	return nil
}
