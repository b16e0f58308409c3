// Command tridcheck-batch reconciles one LE/CD pair from disk and
// writes the result as JSON, optionally alongside an XLSX report.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/bytedance/sonic"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/export"
	"github.com/fintrid/tridcheck/internal/geometry"
	"github.com/fintrid/tridcheck/internal/highlight"
	"github.com/fintrid/tridcheck/internal/match"
	"github.com/fintrid/tridcheck/internal/pipeline"
	"github.com/fintrid/tridcheck/internal/reconcile"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	var (
		lePath   = flag.String("le", "", "loan estimate fee record JSON (required)")
		cdPath   = flag.String("cd", "", "closing disclosure fee record JSON (required)")
		leGeom   = flag.String("le-geom", "", "loan estimate geometry sidecar JSON")
		cdGeom   = flag.String("cd-geom", "", "closing disclosure geometry sidecar JSON")
		outPath  = flag.String("out", "", "write result JSON here instead of stdout")
		xlsxPath = flag.String("xlsx", "", "also write an XLSX report here")
	)
	flag.Parse()

	if *lePath == "" || *cdPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	leData, err := os.ReadFile(*lePath)
	if err != nil {
		logger.Error("failed to read loan estimate", "path", *lePath, "error", err)
		os.Exit(1)
	}
	cdData, err := os.ReadFile(*cdPath)
	if err != nil {
		logger.Error("failed to read closing disclosure", "path", *cdPath, "error", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	engine := reconcile.NewEngine(match.NewLabelMatcher(cfg.Reconcile), cfg.Reconcile)
	locator := highlight.NewLocator(cfg.Highlight)
	proc := pipeline.NewProcessor(logger, engine, locator)

	in := pipeline.Input{LEData: leData, CDData: cdData}
	if *leGeom != "" {
		in.LEGeometry = geometry.SidecarSource{Path: *leGeom}
	}
	if *cdGeom != "" {
		in.CDGeometry = geometry.SidecarSource{Path: *cdGeom}
	}

	result, err := proc.Run(context.Background(), in)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	payload, err := sonic.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
			logger.Error("failed to write result", "path", *outPath, "error", err)
			os.Exit(1)
		}
	} else {
		_, _ = os.Stdout.Write(append(payload, '\n'))
	}

	if *xlsxPath != "" {
		svc := export.NewService(nil, logger)
		data, err := svc.RenderXLSX(result)
		if err != nil {
			logger.Error("failed to render xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, data, 0o644); err != nil {
			logger.Error("failed to write xlsx", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("xlsx written", "path", *xlsxPath)
	}

	logger.Info("analysis complete",
		"analysis_id", result.AnalysisID,
		"matched_fees", len(result.Comparison.MatchedFees),
		"diffs", len(result.Comparison.DiffSummary),
		"cure_required", result.Comparison.Summary.TenPercentTest.CureRequired,
	)
}
