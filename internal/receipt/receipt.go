// Package receipt renders a committed sale into a fixed-width text
// document suitable for a thermal printer. Rendering is a pure
// function of the sale and display metadata; invoking it again for the
// same inputs produces the same document.
package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/altamira/pos-checkout/internal/models"
)

// Options control layout and currency presentation.
type Options struct {
	Width        int // columns; minimum 24
	CurrencyCode string
	MinorUnits   int // decimal places
}

// DefaultOptions is a 40-column layout with whole-unit currency.
var DefaultOptions = Options{
	Width:        40,
	CurrencyCode: "IDR",
	MinorUnits:   0,
}

const (
	placeholderTenant = "-- tenant unavailable --"
	placeholderBranch = "-- branch unavailable --"
	timeLayout        = "2006-01-02 15:04:05"
)

// Renderer produces receipt documents with a fixed set of options.
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer. Invalid widths fall back to the
// default layout.
func NewRenderer(opts Options) *Renderer {
	if opts.Width < 24 {
		opts.Width = DefaultOptions.Width
	}
	if opts.MinorUnits < 0 {
		opts.MinorUnits = 0
	}
	return &Renderer{opts: opts}
}

// Render produces the receipt document for a committed sale. The sale
// is already committed when this runs, so missing display metadata
// renders as a placeholder rather than failing the receipt.
func (r *Renderer) Render(sale models.Sale, tenant *models.TenantInfo, branch *models.BranchInfo) string {
	var b strings.Builder
	w := r.opts.Width

	writeCentered(&b, w, headerName(tenant))
	if branch == nil {
		writeCentered(&b, w, placeholderBranch)
	} else {
		writeCentered(&b, w, branch.Name)
		if branch.Address != "" {
			writeCentered(&b, w, branch.Address)
		}
	}

	rule(&b, w)
	writeKV(&b, w, "Sale", sale.ID)
	writeKV(&b, w, "Date", sale.CreatedAt.UTC().Format(timeLayout))
	rule(&b, w)

	for _, item := range sale.Items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		b.WriteString(truncate(name, w))
		b.WriteByte('\n')
		detail := fmt.Sprintf("  %s x %s", item.Quantity.String(), r.amount(item.UnitPrice))
		writeAligned(&b, w, detail, r.amount(item.Subtotal()))
	}

	rule(&b, w)
	writeAligned(&b, w, "TOTAL "+r.opts.CurrencyCode, r.amount(sale.Total))
	writeKV(&b, w, "Payment", sale.PaymentMethod.Name)

	if sale.PaymentMethod.IsCash() {
		writeAligned(&b, w, "Tendered", r.amount(sale.AmountTendered))
		writeAligned(&b, w, "Change", r.amount(sale.ChangeDue))
	}

	rule(&b, w)
	writeCentered(&b, w, "Thank you for your purchase")

	return b.String()
}

func (r *Renderer) amount(d decimal.Decimal) string {
	return d.StringFixed(int32(r.opts.MinorUnits))
}

func headerName(tenant *models.TenantInfo) string {
	if tenant == nil || tenant.Name == "" {
		return placeholderTenant
	}
	return tenant.Name
}

func rule(b *strings.Builder, width int) {
	b.WriteString(strings.Repeat("-", width))
	b.WriteByte('\n')
}

func writeCentered(b *strings.Builder, width int, text string) {
	text = truncate(text, width)
	pad := (width - utf8.RuneCountInString(text)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(text)
	b.WriteByte('\n')
}

func writeKV(b *strings.Builder, width int, key, value string) {
	line := fmt.Sprintf("%-9s: %s", key, value)
	b.WriteString(truncate(line, width))
	b.WriteByte('\n')
}

// writeAligned puts left text and a right-aligned value on one line,
// breaking onto two lines when they do not fit.
func writeAligned(b *strings.Builder, width int, left, right string) {
	gap := width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap >= 1 {
		b.WriteString(left)
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(right)
		b.WriteByte('\n')
		return
	}

	b.WriteString(truncate(left, width))
	b.WriteByte('\n')
	pad := width - utf8.RuneCountInString(right)
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(right)
	b.WriteByte('\n')
}

// truncate cuts on rune boundaries; widths are printer columns, not
// bytes.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width])
}
