// Package export renders a reconciliation result as an XLSX workbook
// for underwriters who review fee tolerance outside the API.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/fintrid/tridcheck/internal/common"
	"github.com/fintrid/tridcheck/internal/pipeline"
	"github.com/fintrid/tridcheck/internal/reconcile"
	"github.com/fintrid/tridcheck/internal/repository"
)

// Service is a tiny façade over the analysis store that produces XLSX
// bytes for exports.
type Service struct {
	store  repository.AnalysisStore
	logger *slog.Logger
}

func NewService(store repository.AnalysisStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportAnalysisXLSX loads a stored analysis and renders its workbook.
func (s *Service) ExportAnalysisXLSX(ctx context.Context, id uuid.UUID) ([]byte, error) {
	result, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.RenderXLSX(result)
}

// RenderXLSX builds a two-sheet workbook: the per-fee comparison and
// the tolerance summary with the aggregate 10% test.
func (s *Service) RenderXLSX(result *pipeline.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const feeSheet = "Fee Comparison"
	if index, _ := f.GetSheetIndex(feeSheet); index == -1 {
		if _, err := f.NewSheet(feeSheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(feeSheet)
	f.SetActiveSheet(activeIndex)

	writeCell := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	meta := result.LoanMeta
	writeCell(feeSheet, 1, 1, "Borrower")
	writeCell(feeSheet, 2, 1, meta.Borrower)
	writeCell(feeSheet, 1, 2, "Loan ID")
	writeCell(feeSheet, 2, 2, meta.LoanID)
	writeCell(feeSheet, 1, 3, "Property")
	writeCell(feeSheet, 2, 3, meta.Property)
	writeCell(feeSheet, 1, 4, "Loan Amount")
	writeCell(feeSheet, 2, 4, meta.LoanAmount)

	headers := []string{
		"Section",
		"Fee",
		"LE Amount",
		"CD Amount",
		"Difference",
		"Tolerance",
		"Status",
		"Provider",
	}
	const headerRow = 6
	for i, h := range headers {
		writeCell(feeSheet, i+1, headerRow, h)
	}

	row := headerRow + 1
	for _, fee := range result.Comparison.MatchedFees {
		writeCell(feeSheet, 1, row, fee.Section)
		writeCell(feeSheet, 2, row, fee.FeeName)
		writeCell(feeSheet, 3, row, common.FormatMoney(fee.LEAmount))
		writeCell(feeSheet, 4, row, common.FormatMoney(fee.CDAmount))
		writeCell(feeSheet, 5, row, common.FormatMoney(fee.Difference))
		writeCell(feeSheet, 6, row, string(fee.ToleranceCategory))
		writeCell(feeSheet, 7, row, fee.Status)
		writeCell(feeSheet, 8, row, fee.ProviderName)
		row++
	}

	_ = f.SetColWidth(feeSheet, "A", "A", 10)
	_ = f.SetColWidth(feeSheet, "B", "B", 36)
	_ = f.SetColWidth(feeSheet, "C", "E", 14)
	_ = f.SetColWidth(feeSheet, "F", "F", 12)
	_ = f.SetColWidth(feeSheet, "G", "G", 26)
	_ = f.SetColWidth(feeSheet, "H", "H", 30)

	if err := s.writeSummarySheet(f, result, writeCell); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"analysis_id", result.AnalysisID.String(),
		"fees", len(result.Comparison.MatchedFees),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeSummarySheet(f *excelize.File, result *pipeline.Result, writeCell func(sheet string, col, row int, v any)) error {
	const sheet = "Tolerance Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Bucket", "LE Sum", "CD Sum", "Fees"}
	for i, h := range headers {
		writeCell(sheet, i+1, 1, h)
	}
	row := 2
	summary := result.Comparison.Summary
	for _, cat := range []reconcile.ToleranceCategory{reconcile.ToleranceZero, reconcile.ToleranceTenPercent, reconcile.ToleranceUnlimited} {
		bucket := summary.ToleranceSummary[cat]
		writeCell(sheet, 1, row, string(cat))
		writeCell(sheet, 2, row, bucket.LESum)
		writeCell(sheet, 3, row, bucket.CDSum)
		writeCell(sheet, 4, row, bucket.Count)
		row++
	}

	row += 1
	test := summary.TenPercentTest
	writeCell(sheet, 1, row, "10% aggregate limit")
	writeCell(sheet, 2, row, test.Limit)
	row++
	writeCell(sheet, 1, row, "Cure required")
	writeCell(sheet, 2, row, test.CureRequired)
	if summary.LenderCreditRecommendation != "" {
		row++
		writeCell(sheet, 1, row, summary.LenderCreditRecommendation)
	}

	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "B", "D", 14)
	return nil
}
