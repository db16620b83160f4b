package parser

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/domain/repository"
)

// DefaultCurrency prefix for display prices built from plain numbers
const DefaultCurrency = "PKR"

const (
	colID       = "id"
	colName     = "name"
	colCategory = "category"
	colImage    = "image"
	colSpecs    = "specs"
	colPrice    = "price"
	colDiscount = "discount"
	colNew      = "new"
	colSale     = "sale"

	otherCategory = "Other"
)

// productIDNamespace seeds name-derived ids so re-imports keep them stable
var productIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("zm-computers/catalog"))

type excelParser struct {
	currency string
	log      logrus.FieldLogger
}

// NewExcelParser xlsx catalog reader
func NewExcelParser(currency string, log logrus.FieldLogger) repository.CatalogParser {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &excelParser{
		currency: currency,
		log:      log.WithField("component", "catalog_parser"),
	}
}

func (e *excelParser) ParseProducts(ctx context.Context, filePath string) ([]entity.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

func (e *excelParser) ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Product, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	e.log.WithField("file", filename).Debug("parsing uploaded catalog")
	return e.parseExcelFile(f)
}

func (e *excelParser) parseExcelFile(f *excelize.File) ([]entity.Product, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	// Without a recognisable header the sheet is read as Name | Price | Category
	columnMap := mapColumns(rows[0])
	startRow := 1
	if _, ok := columnMap[colName]; !ok || looksLikeData(rows[0]) {
		columnMap = map[string]int{colName: 0, colPrice: 1, colCategory: 2}
		startRow = 0
		e.log.Debug("no header detected, using default column mapping")
	}
	if _, ok := columnMap[colPrice]; !ok {
		return nil, fmt.Errorf("price column not found in header %v", rows[0])
	}
	e.log.WithField("columns", columnMap).Debug("column mapping")

	_, hasSaleCol := columnMap[colSale]

	var products []entity.Product
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		name := cell(row, columnMap, colName)
		priceRaw := cell(row, columnMap, colPrice)
		if name == "" || priceRaw == "" {
			continue
		}

		price, err := parsePrice(priceRaw)
		if err != nil || price <= 0 {
			e.log.WithField("row", i+1).Warnf("invalid price %q, skipping", priceRaw)
			continue
		}

		product := entity.Product{
			ID:           cell(row, columnMap, colID),
			Name:         name,
			Category:     cell(row, columnMap, colCategory),
			Image:        cell(row, columnMap, colImage),
			Specs:        splitSpecs(cell(row, columnMap, colSpecs)),
			Price:        e.displayPrice(priceRaw, price),
			NumericPrice: price,
			IsNew:        parseFlag(cell(row, columnMap, colNew)),
			IsSale:       parseFlag(cell(row, columnMap, colSale)),
		}
		if product.ID == "" {
			product.ID = uuid.NewSHA1(productIDNamespace, []byte(strings.ToLower(name))).String()
		}
		if product.Category == "" {
			product.Category = detectCategory(name)
		}

		if discountRaw := cell(row, columnMap, colDiscount); discountRaw != "" {
			if discount, err := parsePrice(discountRaw); err == nil && discount > 0 {
				product.NumericDiscountPrice = &discount
				product.DiscountPrice = e.displayPrice(discountRaw, discount)
				if !hasSaleCol {
					product.IsSale = discount < price
				}
			}
		}

		products = append(products, product)
	}

	e.log.WithField("products", len(products)).Info("catalog parsed")

	if len(products) == 0 {
		return nil, fmt.Errorf("no valid products found in excel file (%d rows)", len(rows)-startRow)
	}
	return products, nil
}

// mapColumns header cells to known fields. Discount is checked before price
// and sale so "Sale Price" lands on the discount column.
func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)
	set := func(key string, i int) {
		if _, taken := columnMap[key]; !taken {
			columnMap[key] = i
		}
	}

	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		switch {
		case name == "":
		case equalsAny(name, "id", "sku", "ref", "code", "product id", "product_id"):
			set(colID, i)
		case contains(name, "discount", "sale price", "offer", "special"):
			set(colDiscount, i)
		case contains(name, "price", "cost", "amount", "$", "pkr", "usd"):
			set(colPrice, i)
		case contains(name, "category", "type", "group"):
			set(colCategory, i)
		case contains(name, "image", "img", "photo", "picture"):
			set(colImage, i)
		case contains(name, "spec", "feature", "details"):
			set(colSpecs, i)
		case equalsAny(name, "new", "is new", "isnew", "new arrival"):
			set(colNew, i)
		case equalsAny(name, "sale", "on sale", "is sale", "issale"):
			set(colSale, i)
		case contains(name, "name", "product", "model", "title"):
			set(colName, i)
		}
	}
	return columnMap
}

// looksLikeData a numeric second cell means the first row is a product, not a header
func looksLikeData(row []string) bool {
	if len(row) < 2 {
		return false
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[1]), ",", ""), 64)
	return err == nil
}

func cell(row []string, columnMap map[string]int, key string) string {
	idx, ok := columnMap[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}

func equalsAny(str string, values ...string) bool {
	for _, v := range values {
		if str == v {
			return true
		}
	}
	return false
}

func splitSpecs(raw string) []string {
	if raw == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '|' || r == '\n'
	})
	specs := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			specs = append(specs, f)
		}
	}
	return specs
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "y", "yes", "true", "x", "✓", "new", "sale":
		return true
	}
	return false
}

// parsePrice strips currency markers and thousands separators
func parsePrice(priceStr string) (float64, error) {
	priceStr = strings.ToLower(strings.TrimSpace(priceStr))
	if priceStr == "" {
		return 0, fmt.Errorf("empty price")
	}

	for _, token := range []string{",", " ", "$", "€", "£", "rs.", "rs", "pkr", "usd", "eur", "/-"} {
		priceStr = strings.ReplaceAll(priceStr, token, "")
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format: %s", priceStr)
	}
	return price, nil
}

// displayPrice keeps sheet formatting when the cell already carries a
// currency marker, otherwise renders the amount with the configured currency.
func (e *excelParser) displayPrice(raw string, amount float64) string {
	if _, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err != nil {
		return raw
	}
	return FormatPrice(e.currency, amount)
}

// FormatPrice currency-prefixed amount with thousands separators
func FormatPrice(currency string, amount float64) string {
	var number string
	if amount == math.Trunc(amount) {
		number = humanize.Comma(int64(amount))
	} else {
		number = humanize.CommafWithDigits(amount, 2)
	}
	if currency == "" {
		return number
	}
	return currency + " " + number
}

// detectCategory guesses a category from the product name. More specific
// markers are checked first.
func detectCategory(name string) string {
	n := strings.ToLower(name)

	switch {
	case contains(n, "workstation", "precision", "z8", "z4 g", "threadripper", "xeon"):
		return "Workstations"
	case contains(n, "laptop", "notebook", "thinkpad", "zbook", "macbook", "latitude", "elitebook", "legion", "rog ", "zenbook", "vivobook"):
		return "Laptops"
	case contains(n, "monitor", "display", "ultrasharp", "144hz", "165hz", "240hz", "ultrawide", "curved"):
		return "Monitors"
	case contains(n, "ssd", "nvme", "hdd", "hard drive", "990 pro"):
		return "Storage"
	case contains(n, "ddr4", "ddr5", "ram", "memory"):
		return "Memory"
	case contains(n, "rtx", "gtx", "radeon", "geforce", "graphics card"):
		return "Graphics Cards"
	case contains(n, "core i", "ryzen", "processor", "cpu"):
		return "Processors"
	case contains(n, "router", "switch", "access point", "firewall"):
		return "Networking"
	case contains(n, "keyboard", "mouse", "headset", "webcam", "dock"):
		return "Accessories"
	}
	return otherCategory
}
