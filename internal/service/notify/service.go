// Package notify pushes balance summaries to WhatsApp.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mamadbah2/aeroagri/internal/config"
	"github.com/mamadbah2/aeroagri/internal/domain/models"
	"github.com/mamadbah2/aeroagri/internal/finance"
	client "github.com/mamadbah2/aeroagri/pkg/clients/whatsapp"
)

// Reports computes the balance a summary is built from.
type Reports interface {
	Balance(ctx context.Context, r models.DateRange, aircraftID *int64) (finance.BalanceReport, error)
}

// Service formats and sends report summaries.
type Service struct {
	cfg     config.WhatsAppConfig
	client  client.Client
	reports Reports
	logger  *zap.Logger
}

// NewService wires a new notification service instance.
func NewService(cfg config.WhatsAppConfig, c client.Client, reports Reports, logger *zap.Logger) *Service {
	svc := &Service{
		cfg:     cfg,
		client:  c,
		reports: reports,
		logger:  logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// SendOutbound computes the requested balance and sends its summary to
// req.To, or to the manager number when req.To is empty.
func (s *Service) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	to, err := s.recipient(req.To)
	if err != nil {
		return err
	}
	r, err := models.ParseDateRange(req.Start, req.End)
	if err != nil {
		return err
	}
	balance, err := s.reports.Balance(ctx, r, req.Aircraft)
	if err != nil {
		return err
	}
	label := "Balanço"
	if req.Aircraft != nil {
		label = fmt.Sprintf("Balanço da aeronave %d", *req.Aircraft)
	}
	return s.send(ctx, to, FormatBalance(label, r, balance))
}

// NotifySnapshot sends a persisted snapshot to the manager number.
func (s *Service) NotifySnapshot(ctx context.Context, snap models.ReportSnapshot) error {
	to, err := s.recipient("")
	if err != nil {
		return err
	}
	balance := finance.BalanceReport{
		GrossRevenue:  snap.GrossRevenue,
		TotalExpenses: snap.TotalExpenses,
		FuelCost:      snap.FuelCost,
		OilCost:       snap.OilCost,
		NetProfit:     snap.NetProfit,
	}
	r := models.DateRange{Start: snap.PeriodStart, End: snap.PeriodEnd}
	return s.send(ctx, to, FormatBalance(snap.Label, r, balance))
}

func (s *Service) recipient(to string) (string, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		to = s.cfg.ManagerNumber
	}
	if to == "" {
		return "", &models.ValidationError{Field: "to", Reason: "no recipient and no manager number configured"}
	}
	return to, nil
}

func (s *Service) send(ctx context.Context, to, body string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("send report summary: %w", err)
	}
	id := ""
	if resp != nil && len(resp.Messages) > 0 {
		id = resp.Messages[0].ID
	}
	s.logger.Info("report summary sent", zap.String("to", to), zap.String("message_id", id))
	return nil
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBalance renders a balance as a WhatsApp message body.
func FormatBalance(label string, r models.DateRange, b finance.BalanceReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n", label)
	fmt.Fprintf(&sb, "Período: %s a %s\n\n", r.Start.Format(models.DisplayDateLayout), r.End.Format(models.DisplayDateLayout))
	fmt.Fprintf(&sb, "Receita bruta: %s\n", Money(b.GrossRevenue))
	fmt.Fprintf(&sb, "Despesas: %s\n", Money(b.TotalExpenses))
	fmt.Fprintf(&sb, "  Combustível: %s\n", Money(b.FuelCost))
	fmt.Fprintf(&sb, "  Óleo: %s\n", Money(b.OilCost))
	fmt.Fprintf(&sb, "Lucro líquido: %s", Money(b.NetProfit))
	return sb.String()
}

// Money renders an amount in reais, e.g. "R$ 1.234,50".
func Money(d decimal.Decimal) string {
	return "R$ " + printer.Sprint(number.Decimal(finance.RoundMoney(d).InexactFloat64(), number.Scale(2)))
}
