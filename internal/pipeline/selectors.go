package pipeline

// Receipt template markers. The source service renders every receipt from one
// fixed template, and these literals are the only stable hooks in it. Keep
// them in sync with real mail before changing any of them.
const (
	// td whose first text is this label carries the purchaser as its last child
	cellSelector   = "td"
	purchaserLabel = "APPLE ID"

	purchasesTableSelector = ".aapl-mobile-tbl"

	// only genuine line items carry this exact inline style
	rowSelector   = "tr"
	lineItemStyle = "max-height:114px;"

	itemTitleSelector = ".title"
	priceCellSelector = ".price-cell"
	priceMarker       = "$"

	// the HTML alternative is always the second top-level MIME part
	bodyPartIndex = 1
)
