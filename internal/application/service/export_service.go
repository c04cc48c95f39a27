package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sangkips/daybook-api/internal/domain/entity"
	"github.com/sangkips/daybook-api/internal/domain/repository"
	"github.com/sangkips/daybook-api/pkg/apperror"
	"github.com/sangkips/daybook-api/pkg/pagination"
	"github.com/sangkips/daybook-api/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	DayCounterSheet = "Day Counters"
	PurchaseSheet   = "Purchases"
)

// ExportService writes ledgers to XLSX workbooks
type ExportService struct {
	purchaseRepo repository.PurchaseRepository
	counterRepo  repository.DayCounterRepository
	logger       logrus.FieldLogger
}

// NewExportService creates a new export service
func NewExportService(purchaseRepo repository.PurchaseRepository, counterRepo repository.DayCounterRepository, logger logrus.FieldLogger) *ExportService {
	return &ExportService{
		purchaseRepo: purchaseRepo,
		counterRepo:  counterRepo,
		logger:       logger,
	}
}

// collect pages through fetch until every record has been read.
func collect[T any](fetch func(p *pagination.PaginationParams) ([]T, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, err := fetch(&pagination.PaginationParams{Page: page, PerPage: pagination.MaxPerPage})
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < pagination.MaxPerPage {
			return all, nil
		}
	}
}

func writeSheet(w io.Writer, sheet string, headers []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// ExportDayCounters writes every day counter in dates, newest first
func (s *ExportService) ExportDayCounters(ctx context.Context, w io.Writer, dates repository.DateRange) error {
	counters, err := collect(func(p *pagination.PaginationParams) ([]entity.DayCounter, error) {
		items, _, err := s.counterRepo.List(ctx, &repository.DayCounterFilterParams{Pagination: p, Dates: dates})
		return items, err
	})
	if err != nil {
		err = apperror.NewStorageError("export day counters", err)
		logStorageFailure(s.logger, "ExportService", "ExportDayCounters", nil, err)
		return err
	}

	headers := []interface{}{
		"Date", "Opening Balance", "Cash", "Digital Transfer", "Card", "Credit",
		"Expenses", "Cash Hand Over", "Closing Balance",
		"Total Day Counter", "Actual Closing Counter", "Difference", "Remarks",
	}
	rows := make([][]interface{}, 0, len(counters))
	for _, d := range counters {
		rows = append(rows, []interface{}{
			d.Date.Format(utils.DateLayout),
			d.OpeningBalance.String(),
			d.Payments.Cash.String(),
			d.Payments.DigitalTransfer.String(),
			d.Payments.Card.String(),
			d.Payments.Credit.String(),
			d.Expenses.String(),
			d.CashHandOver.String(),
			d.ClosingBalance.String(),
			d.TotalDayCounter.String(),
			d.ActualClosingCounter.String(),
			d.Difference.String(),
			d.Remarks,
		})
	}

	if err := writeSheet(w, DayCounterSheet, headers, rows); err != nil {
		return fmt.Errorf("write day counter workbook: %w", err)
	}
	return nil
}

// ExportPurchases writes every purchase in dates, newest first
func (s *ExportService) ExportPurchases(ctx context.Context, w io.Writer, dates repository.DateRange) error {
	purchases, err := collect(func(p *pagination.PaginationParams) ([]entity.Purchase, error) {
		items, _, err := s.purchaseRepo.List(ctx, &repository.PurchaseFilterParams{Pagination: p, Dates: dates})
		return items, err
	})
	if err != nil {
		err = apperror.NewStorageError("export purchases", err)
		logStorageFailure(s.logger, "ExportService", "ExportPurchases", nil, err)
		return err
	}

	headers := []interface{}{
		"Date", "Category", "Raw Material", "Vendor", "Price Per Unit", "Quantity",
		"Payment Method", "Paid Amount", "Total", "Balance Due",
	}
	rows := make([][]interface{}, 0, len(purchases))
	for _, p := range purchases {
		material := p.RawMaterialID.String()
		if p.RawMaterial != nil {
			material = p.RawMaterial.Name
		}
		rows = append(rows, []interface{}{
			p.Date.Format(utils.DateLayout),
			p.Category,
			material,
			p.Vendor,
			p.PricePerUnit.String(),
			p.Quantity.String(),
			p.PaymentMethod.String(),
			p.PaidAmount.String(),
			p.Total.String(),
			p.BalanceDue.String(),
		})
	}

	if err := writeSheet(w, PurchaseSheet, headers, rows); err != nil {
		return fmt.Errorf("write purchase workbook: %w", err)
	}
	return nil
}
