package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/infrastructure/parser"
	"github.com/zmcomputers/storefront/internal/surface"
	"github.com/zmcomputers/storefront/internal/usecase"
)

const (
	// listLimit products per list screen; keeps the keyboard under Telegram's button cap
	listLimit    = 20
	historyLimit = 10
	navPerRow    = 3
)

const welcomeMessage = `🖥 ZM Computers - wholesale computer hardware

Browse workstations, laptops, monitors, storage and components at batch pricing.
Type any question and our hardware advisor will answer.`

const helpMessage = `📖 Commands

/catalog [category] - browse categories or one category
/search <query> - find products by name or spec
/product <id> - open a product
/wishlist - saved products
/cart - your order
/ask <question> - ask the hardware advisor (plain text works too)
/history - your recent questions
/clear - forget your questions

Admins: /admin, /logout, /info, /clean, /history all, or send an .xlsx catalog.`

// navRows navigation bar as keyboard rows
func navRows(items []entity.NavItem, current entity.ViewType, cartCount, wishlistCount int) [][]tgbotapi.InlineKeyboardButton {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(items)+1)
	for i, item := range items {
		label := item.Label
		if item.IsRed {
			label = "🔥 " + label
		}
		if item.View == entity.ViewWishlist {
			if badge := surface.Badge(wishlistCount); badge != "" {
				label += " (" + badge + ")"
			}
		}
		if surface.IsActive(item, current) {
			label = "• " + label
		}
		data := "nav:#" + strconv.Itoa(i)
		if item.View != "" {
			data = "nav:" + string(item.View)
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, data))
	}

	cart := "🛒 Cart"
	if badge := surface.Badge(cartCount); badge != "" {
		cart += " (" + badge + ")"
	}
	if current == entity.ViewCart {
		cart = "• " + cart
	}
	buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(cart, "nav:"+string(entity.ViewCart)))

	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > 0 {
		n := min(navPerRow, len(buttons))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[:n]...))
		buttons = buttons[n:]
	}
	return rows
}

// priceLabel active price, with the list price when discounted
func priceLabel(p entity.Product, currency string) string {
	list := p.Price
	if list == "" {
		list = parser.FormatPrice(currency, p.NumericPrice)
	}
	if !p.IsSale || !p.HasDiscount() {
		return list
	}
	sale := p.DiscountPrice
	if sale == "" {
		sale = parser.FormatPrice(currency, usecase.ActivePrice(p))
	}
	return fmt.Sprintf("%s (was %s)", sale, list)
}

func badges(p entity.Product) string {
	var b []string
	if p.IsNew {
		b = append(b, "NEW")
	}
	if p.IsSale {
		b = append(b, "SALE")
	}
	return strings.Join(b, " · ")
}

// formatProductList numbered product lines
func formatProductList(title string, tiles []usecase.ProductTile, currency string) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	if len(tiles) == 0 {
		sb.WriteString("Nothing here yet.")
		return sb.String()
	}

	for i, t := range tiles {
		if i == listLimit {
			sb.WriteString(fmt.Sprintf("\n…and %d more. Narrow it down with /search.", len(tiles)-listLimit))
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s - %s", i+1, t.Product.Name, priceLabel(t.Product, currency)))
		if b := badges(t.Product); b != "" {
			sb.WriteString(" [" + b + "]")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// productRows one row per card: open, add one unit, wishlist toggle
func productRows(tiles []usecase.ProductTile) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, min(len(tiles), listLimit))
	for i, t := range tiles {
		if i == listLimit {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncateString(t.Product.Name, 32), "view:"+t.Product.ID),
			tgbotapi.NewInlineKeyboardButtonData("🛒 +1", "buy:"+t.Product.ID),
			tgbotapi.NewInlineKeyboardButtonData(heart(t.Wishlisted), "wish:"+t.Product.ID),
		))
	}
	return rows
}

func categoryRows(categories []string) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(categories); i += 2 {
		row := tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(categories[i], "cat:"+categories[i]))
		if i+1 < len(categories) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(categories[i+1], "cat:"+categories[i+1]))
		}
		rows = append(rows, row)
	}
	return rows
}

// formatDetail product page text for the current quantity
func formatDetail(d *surface.ProductDetail, currency string) string {
	p := d.Product()

	var sb strings.Builder
	sb.WriteString(p.Name + "\n")
	sb.WriteString(p.Category)
	if b := badges(p); b != "" {
		sb.WriteString(" · " + b)
	}
	sb.WriteString("\n\n")
	sb.WriteString("💰 " + priceLabel(p, currency) + "\n")

	if len(p.Specs) > 0 {
		sb.WriteString("\n⚙️ Specs:\n")
		for _, spec := range p.Specs {
			sb.WriteString("• " + spec + "\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\nQuantity: %d\n", d.Quantity()))
	sb.WriteString("Total: " + parser.FormatPrice(currency, d.TotalPrice()))
	if len(d.Related()) > 0 {
		sb.WriteString("\n\n🔗 Related hardware:")
	}
	return sb.String()
}

// detailRows quantity stepper, add button, wishlist and back, related cards
func detailRows(d *surface.ProductDetail, wishlisted bool, related []*surface.ProductCard) [][]tgbotapi.InlineKeyboardButton {
	p := d.Product()

	add := "🛒 Add to order"
	if d.IsAdding() {
		add = "⏳ " + surface.PendingLabel
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", "qty:dec"),
			tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(d.Quantity()), "qty:inc"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "qty:inc"),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(add, "add")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(heart(wishlisted)+" Wishlist", "wish:"+p.ID),
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "back"),
		),
	}

	for _, card := range related {
		rp := card.Product()
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncateString(rp.Name, 32)+" · "+rp.Price, "view:"+rp.ID),
			tgbotapi.NewInlineKeyboardButtonData(heart(card.Wishlisted()), "wish:"+rp.ID),
		))
	}
	return rows
}

func formatCart(lines []usecase.CartLine, total float64, currency string) string {
	if len(lines) == 0 {
		return "🛒 Your order is empty. Add hardware from /catalog."
	}

	var sb strings.Builder
	sb.WriteString("🛒 Your order\n\n")
	for _, l := range lines {
		sb.WriteString(fmt.Sprintf("• %s × %d = %s\n", l.Product.Name, l.Quantity, parser.FormatPrice(currency, l.Subtotal)))
	}
	sb.WriteString("\nTotal: " + parser.FormatPrice(currency, total))
	return sb.String()
}

func formatHistory(records []entity.AdviceRecord) string {
	if len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	var sb strings.Builder
	sb.WriteString("🕑 Your recent questions\n")
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("\n%s\nQ: %s\nA: %s\n",
			humanize.Time(r.Timestamp),
			truncateString(r.Prompt, 120),
			truncateString(r.Response, 300)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatAdviceLog newest first, with who asked and how it was answered
func formatAdviceLog(records []entity.AdviceRecord) string {
	var sb strings.Builder
	sb.WriteString("🗂 Recent advisor questions\n")
	for _, r := range records {
		who := r.Username
		if who == "" {
			who = strconv.FormatInt(r.UserID, 10)
		}
		sb.WriteString(fmt.Sprintf("\n%s · %s · %s\nQ: %s\n",
			humanize.Time(r.Timestamp), who, r.Outcome, truncateString(r.Prompt, 120)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func heart(on bool) string {
	if on {
		return "♥"
	}
	return "♡"
}

func truncateString(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

func markup(rows ...[][]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	var all [][]tgbotapi.InlineKeyboardButton
	for _, r := range rows {
		all = append(all, r...)
	}
	return tgbotapi.NewInlineKeyboardMarkup(all...)
}
