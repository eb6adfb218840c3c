package internal

import "github.com/shopspring/decimal"

// Price is a parsed currency amount. The zero value is the fallback used when
// the source text could not be parsed.
type Price struct {
	Symbol string
	Amount decimal.Decimal
}

// String renders the symbol followed by the amount to two decimals, so the
// fallback Price prints as "0.00".
func (p Price) String() string {
	return p.Symbol + p.Amount.StringFixed(2)
}

// Purchase is one line item from one receipt email.
type Purchase struct {
	Item      string
	Purchaser string
	Price     Price
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
