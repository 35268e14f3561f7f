package restaurante

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dadosloja/restaurante/internal/logger"
)

// Source provides the four tables a story is computed from.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Dataset, error)
}

type Options struct {
	// OutputDir receives the markdown, the charts and the metrics file.
	OutputDir string

	// MetricsFile is a file name inside OutputDir. Empty disables the export.
	MetricsFile string

	// Period is printed in the closing line of the narrative.
	Period string

	// Stdout receives the narrative. Defaults to os.Stdout.
	Stdout io.Writer
}

type Result struct {
	Story     *Story
	Narrative string
	Files     []string
}

// Run loads the dataset from src, computes the story and writes every output.
// It stops at the first error; files written before that are left in place.
func Run(ctx context.Context, src Source, opts Options) (*Result, error) {
	log := logger.FromContext(ctx)
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	ds, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src.Name(), err)
	}
	log.Info("tables loaded",
		zap.String("source", src.Name()),
		zap.Int("orders", len(ds.Orders)),
		zap.Int("order_items", len(ds.OrderItems)),
		zap.Int("products", len(ds.Products)),
		zap.Int("customers", len(ds.Customers)),
	)

	story, err := Compute(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to compute story: %w", err)
	}
	log.Info("story computed",
		zap.Int("sale_records", story.SaleRecords),
		zap.String("best_seller", story.BestSeller.Name),
		zap.String("gourmet", story.Gourmet.Name),
		zap.Int("loyal_customer_id", story.LoyalCustomer.CustomerId),
	)

	narrative, err := Narrative(story, opts.Period)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(stdout, narrative); err != nil {
		return nil, fmt.Errorf("failed to print narrative: %w", err)
	}

	res := &Result{Story: story, Narrative: narrative}

	md, err := WriteMarkdown(opts.OutputDir, narrative)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, md)

	charts, err := WriteCharts(opts.OutputDir, story)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, charts...)

	if opts.MetricsFile != "" {
		path := filepath.Join(opts.OutputDir, opts.MetricsFile)
		if err := ExportMetrics(path, story); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	log.Info("outputs written", zap.Strings("files", res.Files))
	return res, nil
}
