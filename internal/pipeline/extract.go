package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"receipts/internal"
	"receipts/internal/util"
)

// ErrNotReceipt means the body lacks the purchaser cell or the purchases
// table. A recognized receipt with no usable rows is not an error.
var ErrNotReceipt = errors.New("not a receipt")

// ExtractReceipt returns every line item of one receipt body. The returned
// slice is never nil when err is nil.
func ExtractReceipt(body string, log zerolog.Logger) ([]internal.Purchase, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotReceipt, err)
	}

	purchaser, ok := findPurchaser(doc)
	if !ok {
		return nil, fmt.Errorf("%w: no %s cell", ErrNotReceipt, purchaserLabel)
	}

	table := doc.Find(purchasesTableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no purchases table", ErrNotReceipt)
	}

	purchases := make([]internal.Purchase, 0)
	table.Find(rowSelector).FilterFunction(isLineItemRow).Each(func(i int, row *goquery.Selection) {
		purchase, ok := ExtractRow(row, purchaser)
		if !ok {
			log.Warn().Int("row", i).Msg("row failed to be processed")
			return
		}
		purchases = append(purchases, purchase)
	})

	return purchases, nil
}

// ExtractRow reads the item title and the first "$" fragment of the price
// cell. A discounted price is listed before the struck-through original, so
// the first fragment wins.
func ExtractRow(row *goquery.Selection, purchaser string) (internal.Purchase, bool) {
	title := row.Find(itemTitleSelector).First()
	if title.Length() == 0 {
		return internal.Purchase{}, false
	}
	item, ok := firstText(title.Nodes[0], nil)
	if !ok {
		return internal.Purchase{}, false
	}

	cell := row.Find(priceCellSelector).First()
	if cell.Length() == 0 {
		return internal.Purchase{}, false
	}
	rawPrice, ok := firstText(cell.Nodes[0], func(text string) bool {
		return strings.Contains(text, priceMarker)
	})
	if !ok {
		return internal.Purchase{}, false
	}

	return internal.Purchase{
		Item:      item,
		Purchaser: purchaser,
		Price:     util.ParsePrice(rawPrice),
	}, true
}

func findPurchaser(doc *goquery.Document) (string, bool) {
	cell := doc.Find(cellSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		text, _ := firstText(s.Nodes[0], nil)
		return text == purchaserLabel
	}).First()
	if cell.Length() == 0 {
		return "", false
	}

	last := cell.Nodes[0].LastChild
	if last == nil || last.Type != html.TextNode {
		return "", false
	}
	return last.Data, true
}

func isLineItemRow(_ int, row *goquery.Selection) bool {
	return row.AttrOr("style", "") == lineItemStyle
}

// firstText walks n depth-first and returns the first text node accepted by
// match, or the first text node at all when match is nil.
func firstText(n *html.Node, match func(string) bool) (string, bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if match == nil || match(c.Data) {
				return c.Data, true
			}
			continue
		}
		if text, ok := firstText(c, match); ok {
			return text, true
		}
	}
	return "", false
}
