package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"billiard/internal/domain"
)

const receiptWidth = 40

// ReceiptService renders orders for printing.
type ReceiptService struct {
	printer  *message.Printer
	location *time.Location
}

// NewReceiptService creates a ReceiptService with Vietnamese number
// grouping and times shown in the local zone.
func NewReceiptService() *ReceiptService {
	return &ReceiptService{
		printer:  message.NewPrinter(language.Vietnamese),
		location: time.Local,
	}
}

// WithLocation returns a copy that prints times in loc.
func (s *ReceiptService) WithLocation(loc *time.Location) *ReceiptService {
	cp := *s
	cp.location = loc
	return &cp
}

// FormatReceipt formats the order as plain text.
func (s *ReceiptService) FormatReceipt(order *domain.Order, settings domain.Settings) string {
	var b strings.Builder
	rule := strings.Repeat("=", receiptWidth)
	thin := strings.Repeat("-", receiptWidth)

	b.WriteString(rule + "\n")
	b.WriteString(center(settings.ShopName) + "\n")
	if settings.ShopAddress != "" {
		b.WriteString(center(settings.ShopAddress) + "\n")
	}
	if settings.ShopPhone != "" {
		b.WriteString(center(settings.ShopPhone) + "\n")
	}
	b.WriteString(rule + "\n")

	b.WriteString(fmt.Sprintf("Order: %s\n", order.ID))
	b.WriteString(fmt.Sprintf("Table: %d\n", order.TableNo))
	b.WriteString(fmt.Sprintf("Date:  %s\n", order.CreatedAt.In(s.location).Format("02/01/2006 15:04")))
	b.WriteString(fmt.Sprintf("Time:  %d min played, %d min billed\n", order.PlayedMinutes, order.BillableMinutes))
	b.WriteString(thin + "\n")

	var taxLines []domain.OrderLine
	for _, line := range order.Lines {
		switch line.Kind {
		case domain.LineKindTax:
			taxLines = append(taxLines, line)
		case domain.LineKindExtra:
			b.WriteString(s.row(fmt.Sprintf("%s x%d", line.Name, line.Qty), line.Amount) + "\n")
		default:
			b.WriteString(s.row(line.Name, line.Amount) + "\n")
		}
	}

	b.WriteString(thin + "\n")
	b.WriteString(s.row("Subtotal", order.Subtotal) + "\n")
	for _, line := range taxLines {
		b.WriteString(s.row(line.Name, line.Amount) + "\n")
	}
	b.WriteString(s.row("TOTAL", order.Total) + "\n")
	b.WriteString(thin + "\n")

	b.WriteString(fmt.Sprintf("Payment: %s\n", strings.ToUpper(string(order.Payment.Method))))
	if order.Payment.CashGiven != nil {
		b.WriteString(s.row("Cash given", *order.Payment.CashGiven) + "\n")
	}
	if order.Payment.Change != nil {
		b.WriteString(s.row("Change", *order.Payment.Change) + "\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString(center("Thank you, see you again!") + "\n")
	b.WriteString(rule + "\n")

	return b.String()
}

// Money formats an amount with thousands grouping and the currency sign.
func (s *ReceiptService) Money(amount int64) string {
	return s.printer.Sprintf("%d", amount) + " ₫"
}

func (s *ReceiptService) row(label string, amount int64) string {
	value := s.Money(amount)
	pad := receiptWidth - len([]rune(label)) - len([]rune(value))
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + value
}

func center(text string) string {
	n := len([]rune(text))
	if n >= receiptWidth {
		return text
	}
	return strings.Repeat(" ", (receiptWidth-n)/2) + text
}
