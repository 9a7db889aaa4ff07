package models

// TenderCategory distinguishes cash tenders, which require an amount
// received and produce change, from everything else.
type TenderCategory string

const (
	TenderCash    TenderCategory = "cash"
	TenderNonCash TenderCategory = "non-cash"
)

// PaymentMethod is one enabled tender type for the tenant.
type PaymentMethod struct {
	ID        string         `json:"methodId"`
	Name      string         `json:"name"`
	Category  TenderCategory `json:"category"`
	IsDefault bool           `json:"isDefault"`
}

// IsCash reports whether the method settles in cash.
func (m PaymentMethod) IsCash() bool {
	return m.Category == TenderCash
}
