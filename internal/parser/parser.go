// Package parser downloads a store's price page and extracts the price table.
package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Houeta/pricewatch/internal/barcode"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// HTMLParser fetches a price page and parses its table.
type HTMLParser interface {
	GetHTMLResponse(ctx context.Context) (*http.Response, error)
	ParseTableResponse(ctx context.Context, inp io.ReadCloser) ([]models.StorePrice, error)
}

// Parser reads the price table of a single store page. The table rows are
// expected to hold barcode, name, price and an optional regular price.
type Parser struct {
	log     *slog.Logger
	client  *http.Client
	destURL string
}

func NewParser(log *slog.Logger, destinationURL string) *Parser {
	return &Parser{log: log, destURL: destinationURL, client: http.DefaultClient}
}

func (p *Parser) GetHTMLResponse(ctx context.Context) (*http.Response, error) {
	reqURL, err := url.Parse(p.destURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination URL %s: %w", p.destURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL.String(), err)
	}

	req.Header.Add("User-Agent", "Mozilla/5.0 (compatible; pricewatch/1.0)")

	p.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL, "header", req.Header)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", p.destURL, err)
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode, res.Status)
	}

	p.log.InfoContext(ctx, "Successfully received http response", "status code", res.StatusCode)

	return res, nil
}

func (p *Parser) ParseTableResponse(ctx context.Context, inp io.ReadCloser) ([]models.StorePrice, error) {
	doc, err := goquery.NewDocumentFromReader(inp)
	if err != nil {
		return nil, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	var prices []models.StorePrice
	minCells := 3
	barcodeIdx := 0
	nameIdx := 1
	priceIdx := 2
	regularIdx := 3

	doc.Find(".table-bordered tbody tr").Each(func(idx int, s *goquery.Selection) {
		cells := s.Find("td")
		if cells.Length() < minCells {
			p.log.WarnContext(ctx, "table row has insufficient cells", "index", idx, "length", cells.Length())
			return
		}

		code, err := barcode.Normalize(cells.Eq(barcodeIdx).Text())
		if err != nil {
			p.log.WarnContext(ctx, "skipping row with bad barcode", "index", idx, "error", err)
			return
		}

		price, err := parseAmount(cells.Eq(priceIdx).Text())
		if err != nil || !price.IsPositive() {
			p.log.WarnContext(ctx, "skipping row with bad price", "index", idx, "barcode", code)
			return
		}

		item := models.StorePrice{
			Barcode: code,
			Name:    strings.TrimSpace(cells.Eq(nameIdx).Text()),
			Price:   price,
		}
		if item.Name == "" {
			item.Name = code
		}

		if cells.Length() > regularIdx {
			if raw := strings.TrimSpace(cells.Eq(regularIdx).Text()); raw != "" {
				regular, regErr := parseAmount(raw)
				if regErr == nil && regular.IsPositive() {
					item.RegularPrice = decimal.NewNullDecimal(regular)
					item.IsOnSale = regular.GreaterThan(price)
				}
			}
		}

		p.log.DebugContext(ctx, "Parsed price", "barcode", item.Barcode, "price", item.Price.String(),
			"on_sale", item.IsOnSale)
		prices = append(prices, item)
	})

	return prices, nil
}

// parseAmount accepts prices such as "1.99", "1,99", "$ 1.99" or "1.99 €".
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		case r == ',':
			return '.'
		default:
			return -1
		}
	}, raw)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}
