package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
)

// SnapshotHeader is the header row of the report sheet.
var SnapshotHeader = []interface{}{
	"Relatório", "Início", "Fim", "Receita bruta", "Despesas", "Combustível", "Óleo", "Lucro líquido", "Gerado em",
}

// SnapshotExporter appends balance snapshots to a sheet range.
type SnapshotExporter struct {
	sheet  Sheet
	rng    string
	logger *zap.Logger
}

// NewSnapshotExporter writes rows into sheetRange of sheet.
func NewSnapshotExporter(sheet Sheet, sheetRange string, logger *zap.Logger) *SnapshotExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotExporter{sheet: sheet, rng: sheetRange, logger: logger}
}

// SnapshotRow renders a snapshot as one sheet row. Amounts are rounded to
// cents and written as plain numbers so the sheet can sum them.
func SnapshotRow(s models.ReportSnapshot) []interface{} {
	return []interface{}{
		s.Label,
		s.PeriodStart.Format(models.DisplayDateLayout),
		s.PeriodEnd.Format(models.DisplayDateLayout),
		finance.RoundMoney(s.GrossRevenue).InexactFloat64(),
		finance.RoundMoney(s.TotalExpenses).InexactFloat64(),
		finance.RoundMoney(s.FuelCost).InexactFloat64(),
		finance.RoundMoney(s.OilCost).InexactFloat64(),
		finance.RoundMoney(s.NetProfit).InexactFloat64(),
		s.CreatedAt.Format("02/01/2006 15:04"),
	}
}

// EnsureHeader writes the header row when the sheet range is empty.
func (e *SnapshotExporter) EnsureHeader(ctx context.Context) error {
	rows, err := e.sheet.ReadRange(ctx, e.rng)
	if err != nil {
		return fmt.Errorf("read report sheet: %w", err)
	}
	if len(rows) > 0 {
		return nil
	}
	return e.sheet.AppendRows(ctx, e.rng, [][]interface{}{SnapshotHeader})
}

// Export appends the snapshot to the sheet.
func (e *SnapshotExporter) Export(ctx context.Context, s models.ReportSnapshot) error {
	if err := e.sheet.AppendRows(ctx, e.rng, [][]interface{}{SnapshotRow(s)}); err != nil {
		return fmt.Errorf("export snapshot %s: %w", s.Label, err)
	}
	e.logger.Info("report snapshot exported", zap.String("label", s.Label), zap.String("range", e.rng))
	return nil
}
