package telegram

import (
	"context"
	"sync"

	"github.com/zmcomputers/storefront/internal/domain/entity"
	"github.com/zmcomputers/storefront/internal/surface"
)

// chatSession per-chat screen state
type chatSession struct {
	chatID int64
	userID int64
	navbar *surface.Navbar

	mu          sync.Mutex
	view        entity.ViewType
	detail      *surface.ProductDetail
	detailMsgID int
	toastMsgID  int
}

// session returns the chat's session, creating it on first use. Navigation
// callbacks render into the chat with ctx, the bot's lifetime context.
func (h *BotHandler) session(ctx context.Context, chatID, userID int64) *chatSession {
	h.sessionsMu.RLock()
	s, ok := h.sessions[chatID]
	h.sessionsMu.RUnlock()
	if ok {
		return s
	}

	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()
	if s, ok := h.sessions[chatID]; ok {
		return s
	}

	s = &chatSession{chatID: chatID, userID: userID, view: entity.ViewHome}
	s.navbar = surface.NewNavbar(entity.DefaultNavItems, surface.NavbarCallbacks{
		OnNavigate: func(view entity.ViewType) { h.showView(ctx, s, view) },
		OnSearch:   func(query string) { h.showSearch(ctx, s, query) },
		ToggleCart: func() { h.showView(ctx, s, entity.ViewCart) },
	})
	h.sessions[chatID] = s
	return s
}

func (s *chatSession) currentView() entity.ViewType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *chatSession) currentDetail() *surface.ProductDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

// setView switches screens; leaving the detail page closes it
func (s *chatSession) setView(view entity.ViewType) {
	s.mu.Lock()
	s.view = view
	old := s.detail
	if view != entity.ViewProductDetail {
		s.detail = nil
		s.detailMsgID = 0
	}
	s.mu.Unlock()

	if old != nil && view != entity.ViewProductDetail {
		old.Close()
	}
}

// replaceDetail installs d as the open detail page and closes the previous one
func (s *chatSession) replaceDetail(d *surface.ProductDetail) {
	s.mu.Lock()
	old := s.detail
	s.detail = d
	s.detailMsgID = 0
	s.view = entity.ViewProductDetail
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

// detailMessage message id of d's screen, 0 when d is no longer open
func (s *chatSession) detailMessage(d *surface.ProductDetail) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail != d {
		return 0
	}
	return s.detailMsgID
}

func (s *chatSession) setDetailMessage(d *surface.ProductDetail, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == d {
		s.detailMsgID = messageID
	}
}

// swapToast records the visible toast and returns the one it replaces
func (s *chatSession) swapToast(messageID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.toastMsgID
	s.toastMsgID = messageID
	return old
}

func (s *chatSession) close() {
	s.mu.Lock()
	d := s.detail
	s.detail = nil
	s.mu.Unlock()

	if d != nil {
		d.Close()
	}
}

func (h *BotHandler) closeSessions() {
	h.sessionsMu.Lock()
	defer h.sessionsMu.Unlock()
	for id, s := range h.sessions {
		s.close()
		delete(h.sessions, id)
	}
}
