package commands

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/history"
)

// HistoryCmd lists recorded exports or prints the report of one.
type HistoryCmd struct {
	ID    string `arg:"" optional:"" help:"Export ID to show the full report for"`
	Limit int    `short:"n" default:"20" help:"Number of entries to list (0 = all)"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	store, err := openHistory(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if h.ID != "" {
		return showEntry(ctx, g, store, h.ID)
	}

	entries, err := store.List(ctx, h.Limit)
	if err != nil {
		return errors.WrapError(err, errors.CategoryHistory, "list export history").Build()
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(g.Out, "No exports recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tWHEN\tSITE\tTARGET\tPLATFORM\tOUTCOME\tFILES\tIMAGES\tWARNINGS")
	for _, e := range entries {
		platform := e.Platform
		if platform == "" {
			platform = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%d\n",
			e.ID, humanize.Time(e.Started), e.Site, e.Target, platform, e.Outcome, e.Files,
			humanize.Bytes(uint64(e.OptimizedBytes)), e.Warnings)
	}
	return tw.Flush()
}

func showEntry(ctx context.Context, g *Global, store history.Store, id string) error {
	e, err := store.Get(ctx, id)
	if stdErrors.Is(err, history.ErrNotFound) {
		return errors.NewError(errors.CategoryNotFound, "export not found").WithContext("id", id).Build()
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryHistory, "read export history").WithContext("id", id).Build()
	}
	if e.Error != "" {
		_, _ = fmt.Fprintf(g.Out, "Error: %s\n", e.Error)
	}
	if len(e.Report) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, e.Report, "", "  "); err != nil {
		_, _ = g.Out.Write(e.Report)
		return nil
	}
	buf.WriteByte('\n')
	_, err = g.Out.Write(buf.Bytes())
	return err
}
