package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"capibara-storefront/internal/domain"
	productsvc "capibara-storefront/internal/service/product"
)

type ProductReader interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type CartWriter interface {
	AddItem(ctx context.Context, product domain.Product, quantity int)
	Line(id int64) (domain.CartLine, bool)
}

// CSVImporter reads a shopping list (productId,quantity) and adds each row to
// the cart under the same stock rules as the storefront add-to-cart path.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductReader
	cart     CartWriter
}

func NewCSVImporter(r io.Reader, products ProductReader, cart CartWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	csvr.Comment = '#'
	return &CSVImporter{
		reader:   csvr,
		products: products,
		cart:     cart,
	}
}

// Skipped is a row that parsed but could not be added.
type Skipped struct {
	Line      int
	ProductID int64
	Reason    string
}

type Report struct {
	Added   int
	Units   int
	Skipped []Skipped
}

// Run adds every acceptable row. Malformed rows abort the import; rows for
// unknown or out-of-stock products are reported and skipped.
func (i *CSVImporter) Run(ctx context.Context) (Report, error) {
	var report Report

	headers, err := i.reader.Read()
	if err != nil {
		return report, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["productid"]; !ok {
		return report, fmt.Errorf("%w: missing productId column", domain.ErrInvalidInput)
	}

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		id, qty, ok, err := parseRow(record, index)
		if err != nil {
			return report, fmt.Errorf("line %d: %w", line, err)
		}
		if !ok {
			continue
		}

		if err := ctx.Err(); err != nil {
			return report, err
		}
		if reason := i.add(ctx, id, qty); reason != "" {
			report.Skipped = append(report.Skipped, Skipped{Line: line, ProductID: id, Reason: reason})
			continue
		}
		report.Added++
		report.Units += qty
	}

	return report, nil
}

func (i *CSVImporter) add(ctx context.Context, id int64, qty int) string {
	p, err := i.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "product not found"
		}
		return err.Error()
	}
	inCart := 0
	if l, ok := i.cart.Line(id); ok {
		inCart = l.Quantity
	}
	if err := productsvc.CheckStock(*p, inCart, qty); err != nil {
		return err.Error()
	}
	i.cart.AddItem(ctx, *p, qty)
	return ""
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch h {
		case "id", "product_id":
			h = "productid"
		case "qty":
			h = "quantity"
		}
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (int64, int, bool, error) {
	idStr := pick(record, index, "productid")
	qtyStr := pick(record, index, "quantity")
	if idStr == "" && qtyStr == "" {
		return 0, 0, false, nil
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, false, fmt.Errorf("%w: product id %q", domain.ErrInvalidInput, idStr)
	}
	qty := 1
	if qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty > domain.MaxLineQuantity {
			return 0, 0, false, fmt.Errorf("%w: quantity %q", domain.ErrInvalidInput, qtyStr)
		}
		if qty < 1 {
			qty = 1
		}
	}
	return id, qty, true, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
