package telegram

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"resty.dev/v3"

	"github.com/zmcomputers/storefront/internal/usecase"
)

const adminWelcome = `✅ Admin mode

📤 Send an .xlsx workbook (max 5MB) to replace the catalog. Recognised columns:
id, name, category, image, specs (separated by ; or |), price, discount price, new, sale.
Missing categories are detected from the product name.

/info - catalog summary
/history all - recent advisor questions
/clean - drop the catalog and advisor history
/logout - leave admin mode`

var errFileTooLarge = errors.New("file exceeds the upload limit")

func (h *BotHandler) handleAdminCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	if isAdmin, _ := h.adminUseCase.IsAdmin(ctx, userID); isAdmin {
		h.sendMessage(message.Chat.ID, "You are already in admin mode.")
		return
	}

	h.setAwaitingPassword(userID, true)
	h.sendMessage(message.Chat.ID, "🔐 Enter the admin password:")
}

// handlePasswordInput the password message is deleted from the chat either way
func (h *BotHandler) handlePasswordInput(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	h.setAwaitingPassword(userID, false)
	h.deleteMessage(message.Chat.ID, message.MessageID)

	ok, err := h.adminUseCase.Login(ctx, userID, message.Text)
	if err != nil {
		h.log.WithError(err).WithField("user_id", userID).Error("Admin login failed")
		h.sendMessage(message.Chat.ID, "❌ Login failed, please try again later.")
		return
	}
	if !ok {
		h.sendMessage(message.Chat.ID, "❌ Wrong password.")
		return
	}

	h.log.WithField("user_id", userID).Info("Admin logged in")
	h.sendMessage(message.Chat.ID, adminWelcome)
}

func (h *BotHandler) handleLogoutCommand(ctx context.Context, message *tgbotapi.Message) {
	if isAdmin, _ := h.adminUseCase.IsAdmin(ctx, message.From.ID); !isAdmin {
		h.sendMessage(message.Chat.ID, "You are not in admin mode.")
		return
	}
	if err := h.adminUseCase.Logout(ctx, message.From.ID); err != nil {
		h.log.WithError(err).WithField("user_id", message.From.ID).Error("Admin logout failed")
		h.sendMessage(message.Chat.ID, "❌ Logout failed.")
		return
	}
	h.sendMessage(message.Chat.ID, "👋 Left admin mode.")
}

func (h *BotHandler) handleInfoCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(ctx, message) {
		return
	}
	info, err := h.adminUseCase.GetCatalogInfo(ctx)
	if err != nil {
		h.sendMessage(message.Chat.ID, "📦 No catalog loaded yet. Send an .xlsx workbook.")
		return
	}
	h.sendMessage(message.Chat.ID, info)
}

func (h *BotHandler) handleCleanCommand(ctx context.Context, message *tgbotapi.Message) {
	err := h.adminUseCase.CleanAll(ctx, message.From.ID)
	switch {
	case errors.Is(err, usecase.ErrNotAdmin):
		h.sendMessage(message.Chat.ID, "❌ Admins only. Use /admin first.")
	case err != nil:
		h.log.WithError(err).WithField("user_id", message.From.ID).Error("Clean failed")
		h.sendMessage(message.Chat.ID, "❌ Clean failed.")
	default:
		h.sendMessage(message.Chat.ID, "🧹 Catalog and advisor history cleared.")
	}
}

// handleDocumentMessage catalog upload
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(ctx, message) {
		return
	}
	doc := message.Document

	if doc.FileSize > maxUploadSize {
		h.sendMessage(message.Chat.ID, "❌ The file must not exceed 5MB.")
		return
	}
	if !strings.EqualFold(filepath.Ext(doc.FileName), ".xlsx") {
		h.sendMessage(message.Chat.ID, "❌ Only .xlsx workbooks are accepted.")
		return
	}

	h.sendMessage(message.Chat.ID, "⏳ Importing catalog...")

	data, err := h.downloadFile(ctx, doc.FileID)
	if errors.Is(err, errFileTooLarge) {
		h.log.WithField("file", doc.FileName).Warn("Uploaded file over the size limit")
		h.sendMessage(message.Chat.ID, "❌ The file must not exceed 5MB.")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("file", doc.FileName).Error("File download failed")
		h.sendMessage(message.Chat.ID, "❌ Could not download the file.")
		return
	}

	count, err := h.adminUseCase.UploadCatalog(ctx, message.From.ID, data, doc.FileName)
	if err != nil {
		h.log.WithError(err).WithField("file", doc.FileName).Error("Catalog upload failed")
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ Catalog import failed: %v", err))
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Catalog updated: %d products from %s\n\n/info - catalog summary", count, doc.FileName))
}

func (h *BotHandler) requireAdmin(ctx context.Context, message *tgbotapi.Message) bool {
	isAdmin, err := h.adminUseCase.IsAdmin(ctx, message.From.ID)
	if err != nil || !isAdmin {
		h.sendMessage(message.Chat.ID, "❌ Admins only. Use /admin first.")
		return false
	}
	return true
}

// downloadFile fetches an uploaded file from Telegram's file storage
func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	resp, err := h.http.R().
		SetContext(ctx).
		SetResponseBodyLimit(maxUploadSize).
		Get(url)
	if errors.Is(err, resty.ErrReadExceedsThresholdLimit) {
		return nil, errFileTooLarge
	}
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch file: HTTP %d", resp.StatusCode())
	}
	// Document.FileSize is only what Telegram reports
	body := resp.Bytes()
	if len(body) > maxUploadSize {
		return nil, errFileTooLarge
	}
	return body, nil
}
