// Command export-report prints the safety score and the doctor report for the
// configured health record, optionally writing the PDF version to a file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/vcscsvcscs/medsafety/internal/bootstrap"
	"github.com/vcscsvcscs/medsafety/internal/config"
	"go.uber.org/zap"
)

func main() {
	pdfPath := pflag.String("pdf", "", "write the PDF report to this path")
	withScore := pflag.Bool("score", true, "include the safety summary in the text report")
	publish := pflag.Bool("publish", false, "upload the PDF report to blob storage and record it")
	pflag.Parse()

	if err := run(*pdfPath, *withScore, *publish); err != nil {
		fmt.Fprintf(os.Stderr, "export-report: %v\n", err)
		os.Exit(1)
	}
}

func run(pdfPath string, withScore, publish bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	deps, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	breakdown, err := deps.Safety.Score(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Safety score: %d/100 (%s risk, %d warnings)\n\n", breakdown.FinalScore, breakdown.RiskLevel, len(breakdown.Warnings))

	text, err := deps.Reports.ExportText(ctx, withScore)
	if err != nil {
		return err
	}
	fmt.Println(text)

	if pdfPath != "" {
		data, err := deps.Reports.ExportPDF(ctx)
		if err != nil {
			return err
		}
		if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		logger.Info("PDF report written", zap.String("path", pdfPath), zap.Int("size", len(data)))
	}

	if publish {
		record, err := deps.Reports.PublishPDF(ctx)
		if err != nil {
			return err
		}
		logger.Info("PDF report published", zap.String("report_id", record.ID), zap.String("date", record.Date))
	}

	return nil
}
