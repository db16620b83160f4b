package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/surface"
)

// handleCallback inline keyboard presses. Data is "<kind>" or "<kind>:<arg>".
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}

	answer := ""
	defer func() {
		// stops the client spinner
		if _, err := h.bot.Request(tgbotapi.NewCallback(cq.ID, answer)); err != nil {
			h.log.WithError(err).Debug("Callback answer failed")
		}
	}()

	s := h.session(ctx, cq.Message.Chat.ID, cq.From.ID)
	kind, arg, _ := strings.Cut(cq.Data, ":")

	switch kind {
	case "nav":
		answer = h.handleNavCallback(ctx, s, arg)
	case "cat":
		h.showCategory(ctx, s, arg)
	case "view":
		h.handleViewCallback(ctx, s, arg)
	case "qty":
		answer = h.handleQuantityCallback(ctx, s, arg)
	case "add":
		answer = h.handleAddCallback(s)
	case "buy":
		answer = h.handleBuyCallback(ctx, s, arg)
	case "wish":
		answer = h.handleWishCallback(ctx, s, arg)
	case "back":
		if d := s.currentDetail(); d != nil {
			d.Back()
			return
		}
		s.navbar.GoHome()
	default:
		answer = "Unknown action"
	}
}

func (h *BotHandler) handleNavCallback(ctx context.Context, s *chatSession, arg string) string {
	if idx, ok := strings.CutPrefix(arg, "#"); ok {
		i, err := strconv.Atoi(idx)
		items := s.navbar.Items()
		if err != nil || i < 0 || i >= len(items) {
			return "Unknown action"
		}
		s.navbar.SelectNavItem(items[i])
		h.showDeals(ctx, s)
		return ""
	}

	view, ok := entity.ParseViewType(arg)
	if !ok {
		return "Unknown action"
	}
	switch view {
	case entity.ViewCart:
		s.navbar.ToggleCart()
	case entity.ViewHome:
		s.navbar.GoHome()
	default:
		for _, item := range s.navbar.Items() {
			if item.View == view {
				s.navbar.SelectNavItem(item)
				return ""
			}
		}
		return "Unknown action"
	}
	return ""
}

// handleViewCallback related cards on the open page forward through the card
func (h *BotHandler) handleViewCallback(ctx context.Context, s *chatSession, productID string) {
	if d := s.currentDetail(); d != nil {
		for _, card := range d.RelatedCards(nil) {
			if card.Product().ID == productID {
				card.ViewDetail()
				return
			}
		}
	}
	h.openDetail(ctx, s, productID)
}

func (h *BotHandler) handleQuantityCallback(ctx context.Context, s *chatSession, arg string) string {
	d := s.currentDetail()
	if d == nil {
		return "Open a product first"
	}
	switch arg {
	case "inc":
		d.Increment()
	case "dec":
		d.Decrement()
	default:
		return "Unknown action"
	}
	h.refreshDetail(ctx, s, d)
	return ""
}

func (h *BotHandler) handleAddCallback(s *chatSession) string {
	d := s.currentDetail()
	if d == nil {
		return "Open a product first"
	}
	if !d.AddToOrder() {
		return surface.PendingLabel
	}
	return ""
}

// handleBuyCallback card shortcut adding a single unit
func (h *BotHandler) handleBuyCallback(ctx context.Context, s *chatSession, productID string) string {
	product, err := h.productUseCase.GetByID(ctx, productID)
	if err != nil {
		return "Product not found"
	}

	answer := ""
	card := surface.NewProductCard(*product, false, surface.CardCallbacks{
		OnAddToCart: func(p entity.Product, quantity int) {
			if err := h.shopperUseCase.AddToOrder(ctx, s.userID, p.ID, quantity); err != nil {
				h.log.WithError(err).WithFields(logrusFields(s, p.ID)).Error("Add to order failed")
				answer = "Could not add to order"
				return
			}
			answer = "Added " + strconv.Itoa(quantity) + " × " + truncateString(p.Name, 40)
		},
	})
	card.AddToCart()

	if d := s.currentDetail(); d != nil {
		h.refreshDetail(ctx, s, d)
	}
	return answer
}

// handleWishCallback the open product toggles through its page, any other
// product through its card
func (h *BotHandler) handleWishCallback(ctx context.Context, s *chatSession, productID string) string {
	d := s.currentDetail()
	if d != nil && d.Product().ID == productID {
		d.ToggleWishlist()
		return ""
	}

	product, err := h.productUseCase.GetByID(ctx, productID)
	if err != nil {
		return "Product not found"
	}

	answer := ""
	wished := h.wishlistChecker(ctx, s.userID)(productID)
	card := surface.NewProductCard(*product, wished, surface.CardCallbacks{
		OnToggleWishlist: func(p entity.Product) {
			added, err := h.shopperUseCase.ToggleWishlist(ctx, s.userID, p.ID)
			switch {
			case err != nil:
				h.log.WithError(err).WithFields(logrusFields(s, p.ID)).Error("Toggle wishlist failed")
				answer = "Could not update wishlist"
			case added:
				answer = "♥ Added to wishlist"
			default:
				answer = "Removed from wishlist"
			}
		},
	})
	card.ToggleWishlist()

	if d != nil {
		h.refreshDetail(ctx, s, d)
	}
	return answer
}

func logrusFields(s *chatSession, productID string) logrus.Fields {
	return logrus.Fields{
		"chat_id":    s.chatID,
		"user_id":    s.userID,
		"product_id": productID,
	}
}
