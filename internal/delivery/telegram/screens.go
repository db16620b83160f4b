package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/surface"
	"github.com/zmcomputers/storefront/internal/usecase"
)

// showView renders one of the top-level screens
func (h *BotHandler) showView(ctx context.Context, s *chatSession, view entity.ViewType) {
	s.setView(view)

	switch view {
	case entity.ViewHome:
		h.showHome(ctx, s)
	case entity.ViewCategories:
		h.showCategories(ctx, s)
	case entity.ViewWishlist:
		h.showWishlist(ctx, s)
	case entity.ViewCart:
		h.showCart(ctx, s)
	default:
		h.showHome(ctx, s)
	}
}

func (h *BotHandler) navRows(ctx context.Context, s *chatSession) [][]tgbotapi.InlineKeyboardButton {
	cart, wishlist, err := h.shopperUseCase.Counts(ctx, s.userID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", s.userID).Warn("Load badge counts failed")
	}
	return navRows(s.navbar.Items(), s.currentView(), cart, wishlist)
}

func (h *BotHandler) showHome(ctx context.Context, s *chatSession) {
	text := welcomeMessage
	if ok, err := h.productUseCase.HasProducts(ctx); err == nil && !ok {
		text += "\n\nThe catalog is being prepared, please check back soon."
	}
	h.sendScreen(s.chatID, text, markup(h.navRows(ctx, s)))
}

func (h *BotHandler) showCategories(ctx context.Context, s *chatSession) {
	categories, err := h.productUseCase.Categories(ctx)
	if err != nil {
		h.replyError(s.chatID, err, "Load categories failed")
		return
	}
	text := "📂 Categories"
	if len(categories) == 0 {
		text += "\n\nThe catalog is empty."
	}
	h.sendScreen(s.chatID, text, markup(categoryRows(categories), h.navRows(ctx, s)))
}

func (h *BotHandler) showCategory(ctx context.Context, s *chatSession, category string) {
	products, err := h.productUseCase.GetByCategory(ctx, category)
	if err != nil {
		h.replyError(s.chatID, err, "Load category failed")
		return
	}
	s.setView(entity.ViewCategories)
	h.showProducts(ctx, s, "📂 "+category, products)
}

func (h *BotHandler) showWishlist(ctx context.Context, s *chatSession) {
	products, err := h.shopperUseCase.WishlistProducts(ctx, s.userID)
	if err != nil {
		h.replyError(s.chatID, err, "Load wishlist failed")
		return
	}
	h.showProducts(ctx, s, "♥ Wishlist", products)
}

func (h *BotHandler) showCart(ctx context.Context, s *chatSession) {
	lines, total, err := h.shopperUseCase.Cart(ctx, s.userID)
	if err != nil {
		h.replyError(s.chatID, err, "Load cart failed")
		return
	}
	h.sendScreen(s.chatID, formatCart(lines, total, h.currency), markup(h.navRows(ctx, s)))
}

// showSearch live search results; an empty query only clears the search
func (h *BotHandler) showSearch(ctx context.Context, s *chatSession, query string) {
	if query == "" {
		return
	}
	products, err := h.productUseCase.Search(ctx, query)
	if err != nil {
		h.replyError(s.chatID, err, "Search failed")
		return
	}
	h.showProducts(ctx, s, fmt.Sprintf("🔍 Results for %q", query), products)
}

func (h *BotHandler) showDeals(ctx context.Context, s *chatSession) {
	products, err := h.productUseCase.OnSale(ctx)
	if err != nil {
		h.replyError(s.chatID, err, "Load deals failed")
		return
	}
	h.showProducts(ctx, s, "🔥 Wholesale Deals", products)
}

func (h *BotHandler) showProducts(ctx context.Context, s *chatSession, title string, products []entity.Product) {
	tiles := usecase.AnnotateWishlist(products, h.wishlistChecker(ctx, s.userID))
	h.sendScreen(s.chatID, formatProductList(title, tiles, h.currency), markup(productRows(tiles), h.navRows(ctx, s)))
}

// wishlistChecker per-product membership for userID
func (h *BotHandler) wishlistChecker(ctx context.Context, userID int64) func(id string) bool {
	return func(id string) bool {
		ok, err := h.shopperUseCase.IsWishlisted(ctx, userID, id)
		return err == nil && ok
	}
}

// openDetail shows a product page and makes it the chat's open detail
func (h *BotHandler) openDetail(ctx context.Context, s *chatSession, productID string) {
	view, err := h.productUseCase.Detail(ctx, s.userID, productID)
	if err != nil {
		h.replyError(s.chatID, err, "Load product failed")
		return
	}

	related := make([]entity.Product, len(view.Related))
	wished := map[string]bool{view.Product.ID: view.Wishlisted}
	for i, t := range view.Related {
		related[i] = t.Product
		wished[t.Product.ID] = t.Wishlisted
	}

	var d *surface.ProductDetail
	d = surface.NewProductDetailWithRelated(view.Product, related, h.clock, surface.DetailCallbacks{
		OnAddToCart: func(p entity.Product, quantity int) {
			if err := h.shopperUseCase.AddToOrder(ctx, s.userID, p.ID, quantity); err != nil {
				h.log.WithError(err).WithFields(logrusFields(s, p.ID)).Error("Add to order failed")
			}
		},
		OnViewDetail: func(id string) { h.openDetail(ctx, s, id) },
		OnToggleWishlist: func(p entity.Product) {
			if _, err := h.shopperUseCase.ToggleWishlist(ctx, s.userID, p.ID); err != nil {
				h.log.WithError(err).WithFields(logrusFields(s, p.ID)).Error("Toggle wishlist failed")
			}
			h.refreshDetail(ctx, s, d)
		},
		OnBack:        func() { s.navbar.GoHome() },
		OnPhaseChange: func(phase surface.AddPhase) { h.onPhaseChange(ctx, s, d, phase) },
	})
	s.replaceDetail(d)

	// first render uses the flags Detail already loaded
	text, rows := h.renderDetail(ctx, s, d, func(id string) bool { return wished[id] })
	if id := h.sendScreen(s.chatID, text, rows); id != 0 {
		s.setDetailMessage(d, id)
	}
}

func (h *BotHandler) renderDetail(ctx context.Context, s *chatSession, d *surface.ProductDetail, isWishlisted func(id string) bool) (string, tgbotapi.InlineKeyboardMarkup) {
	rows := detailRows(d, isWishlisted(d.Product().ID), d.RelatedCards(isWishlisted))
	return formatDetail(d, h.currency), markup(rows, h.navRows(ctx, s))
}

// refreshDetail edits d's message in place when d is still open
func (h *BotHandler) refreshDetail(ctx context.Context, s *chatSession, d *surface.ProductDetail) {
	messageID := s.detailMessage(d)
	if messageID == 0 {
		return
	}
	text, rows := h.renderDetail(ctx, s, d, h.wishlistChecker(ctx, s.userID))
	h.editScreen(s.chatID, messageID, text, rows)
}

// onPhaseChange mirrors the add-to-order sequence: the add button shows the
// pending label, then a toast message appears and is removed when it expires.
func (h *BotHandler) onPhaseChange(ctx context.Context, s *chatSession, d *surface.ProductDetail, phase surface.AddPhase) {
	h.log.WithFields(logrusFields(s, d.Product().ID)).WithField("phase", phase.String()).Debug("Add phase changed")

	switch phase {
	case surface.AddPending:
		h.refreshDetail(ctx, s, d)
	case surface.ToastVisible:
		h.refreshDetail(ctx, s, d)
		sent, err := h.bot.Send(tgbotapi.NewMessage(s.chatID, "✅ "+surface.ToastText+"\n"+d.Product().Name))
		if err != nil {
			h.log.WithError(err).WithField("chat_id", s.chatID).Error("Send toast failed")
			return
		}
		if old := s.swapToast(sent.MessageID); old != 0 {
			h.deleteMessage(s.chatID, old)
		}
	case surface.AddIdle:
		if old := s.swapToast(0); old != 0 {
			h.deleteMessage(s.chatID, old)
		}
	}
}
