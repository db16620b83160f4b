package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"resty.dev/v3"

	"github.com/zmcomputers/storefront/internal/domain/repository"
	"github.com/zmcomputers/storefront/internal/usecase"
)

// maxUploadSize catalog workbooks above this are rejected
const maxUploadSize = 5 * 1024 * 1024

// botAPI the subset of *tgbotapi.BotAPI the handler uses
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetFileDirectURL(fileID string) (string, error)
	StopReceivingUpdates()
}

// Deps use cases and settings behind the bot
type Deps struct {
	Advisor  usecase.AdvisorUseCase
	Admin    usecase.AdminUseCase
	Products usecase.ProductUseCase
	Shopper  usecase.ShopperUseCase
	Currency string
	Clock    clock.Clock
	Log      logrus.FieldLogger
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot            botAPI
	username       string
	http           *resty.Client
	currency       string
	clock          clock.Clock
	log            logrus.FieldLogger
	advisorUseCase usecase.AdvisorUseCase
	adminUseCase   usecase.AdminUseCase
	productUseCase usecase.ProductUseCase
	shopperUseCase usecase.ShopperUseCase

	wg         sync.WaitGroup
	sessionsMu sync.RWMutex
	sessions   map[int64]*chatSession

	// users expected to send the admin password next
	awaitingPassword map[int64]bool
	mu               sync.RWMutex
}

// NewBotHandler connects to the Bot API with token
func NewBotHandler(token string, deps Deps) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return newBotHandler(bot, bot.Self.UserName, deps), nil
}

func newBotHandler(bot botAPI, username string, deps Deps) *BotHandler {
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &BotHandler{
		bot:              bot,
		username:         username,
		http:             resty.New().SetTimeout(60 * time.Second).SetRetryCount(2),
		currency:         deps.Currency,
		clock:            clk,
		log:              deps.Log.WithField("component", "telegram"),
		advisorUseCase:   deps.Advisor,
		adminUseCase:     deps.Admin,
		productUseCase:   deps.Products,
		shopperUseCase:   deps.Shopper,
		sessions:         make(map[int64]*chatSession),
		awaitingPassword: make(map[int64]bool),
	}
}

// Start polls for updates until ctx is done. Each update is served on its
// own goroutine; in-flight updates finish before Start returns.
func (h *BotHandler) Start(ctx context.Context) error {
	h.log.WithField("bot", h.username).Info("Bot started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Bot stopping")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.dispatch(ctx, update)
		}
	}
}

func (h *BotHandler) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.handleCallback(ctx, update.CallbackQuery)
		}()
	case update.Message != nil:
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.handleMessage(ctx, update.Message)
		}()
	}
}

func (h *BotHandler) shutdown() {
	h.bot.StopReceivingUpdates()
	h.wg.Wait()
	h.closeSessions()
	if err := h.http.Close(); err != nil {
		h.log.WithError(err).Debug("HTTP client close failed")
	}
}

// handleMessage routes one incoming message
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}
	userID := message.From.ID

	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if h.isAwaitingPassword(userID) {
		h.handlePasswordInput(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if text := strings.TrimSpace(message.Text); text != "" {
		h.handleAsk(ctx, message, text)
	}
}

func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	s := h.session(ctx, chatID, message.From.ID)
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		s.navbar.GoHome()
	case "help":
		h.sendMessage(chatID, helpMessage)
	case "catalog":
		if args == "" {
			s.navbar.OpenCategories()
			return
		}
		h.showCategory(ctx, s, args)
	case "search":
		if args == "" {
			h.sendMessage(chatID, "Usage: /search <query>, e.g. /search rtx 4090")
			return
		}
		s.navbar.Search(args)
	case "product":
		if args == "" {
			h.sendMessage(chatID, "Usage: /product <id>")
			return
		}
		h.openDetail(ctx, s, args)
	case "wishlist":
		s.navbar.OpenWishlist()
	case "cart":
		s.navbar.ToggleCart()
	case "ask":
		if args == "" {
			h.sendMessage(chatID, "Usage: /ask <question>, e.g. /ask which workstation for CAD?")
			return
		}
		h.handleAsk(ctx, message, args)
	case "history":
		if args == "all" {
			h.handleAdviceLogCommand(ctx, message)
			return
		}
		h.handleHistoryCommand(ctx, message)
	case "clear":
		h.handleClearCommand(ctx, message)
	case "admin":
		h.handleAdminCommand(ctx, message)
	case "logout":
		h.handleLogoutCommand(ctx, message)
	case "info":
		h.handleInfoCommand(ctx, message)
	case "clean":
		h.handleCleanCommand(ctx, message)
	default:
		h.sendMessage(chatID, "Unknown command. See /help.")
	}
}

// handleAsk forwards a question to the advisor; the answer is always displayable
func (h *BotHandler) handleAsk(ctx context.Context, message *tgbotapi.Message, prompt string) {
	chatID := message.Chat.ID
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.log.WithError(err).Debug("Chat action failed")
	}

	answer := h.advisorUseCase.Ask(ctx, message.From.ID, displayName(message.From), prompt)
	h.sendMessage(chatID, answer)
}

func (h *BotHandler) handleHistoryCommand(ctx context.Context, message *tgbotapi.Message) {
	records, err := h.advisorUseCase.GetHistory(ctx, message.From.ID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", message.From.ID).Error("Load advice history failed")
		h.sendMessage(message.Chat.ID, "Could not load your history right now.")
		return
	}
	if len(records) == 0 {
		h.sendMessage(message.Chat.ID, "No questions yet. Ask the advisor anything about our hardware.")
		return
	}
	h.sendMessage(message.Chat.ID, formatHistory(records))
}

// handleAdviceLogCommand recent questions across all users, admins only
func (h *BotHandler) handleAdviceLogCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.requireAdmin(ctx, message) {
		return
	}
	records, err := h.advisorUseCase.GetAllRecords(ctx, historyLimit)
	if err != nil {
		h.log.WithError(err).WithField("user_id", message.From.ID).Error("Load advice log failed")
		h.sendMessage(message.Chat.ID, "Could not load the advice log right now.")
		return
	}
	if len(records) == 0 {
		h.sendMessage(message.Chat.ID, "No advisor questions yet.")
		return
	}
	h.sendMessage(message.Chat.ID, formatAdviceLog(records))
}

func (h *BotHandler) handleClearCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.advisorUseCase.ClearHistory(ctx, message.From.ID); err != nil {
		h.log.WithError(err).WithField("user_id", message.From.ID).Error("Clear advice history failed")
		h.sendMessage(message.Chat.ID, "Could not clear your history right now.")
		return
	}
	h.sendMessage(message.Chat.ID, "History cleared.")
}

// sendMessage plain text message
func (h *BotHandler) sendMessage(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Error("Send message failed")
	}
}

// sendScreen message with an inline keyboard; returns the sent message id or 0
func (h *BotHandler) sendScreen(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	sent, err := h.bot.Send(msg)
	if err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Error("Send screen failed")
		return 0
	}
	return sent.MessageID
}

func (h *BotHandler) editScreen(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	if _, err := h.bot.Send(edit); err != nil {
		// Telegram rejects edits that change nothing
		h.log.WithError(err).WithField("chat_id", chatID).Debug("Edit screen failed")
	}
}

func (h *BotHandler) deleteMessage(chatID int64, messageID int) {
	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		h.log.WithError(err).WithField("chat_id", chatID).Debug("Delete message failed")
	}
}

// replyError logs err and tells the user something short
func (h *BotHandler) replyError(chatID int64, err error, text string) {
	if errors.Is(err, repository.ErrNotFound) {
		h.sendMessage(chatID, "Product not found. Browse with /catalog or /search.")
		return
	}
	h.log.WithError(err).WithField("chat_id", chatID).Error(text)
	h.sendMessage(chatID, "Something went wrong, please try again.")
}

func (h *BotHandler) isAwaitingPassword(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.awaitingPassword[userID]
}

func (h *BotHandler) setAwaitingPassword(userID int64, awaiting bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if awaiting {
		h.awaitingPassword[userID] = true
	} else {
		delete(h.awaitingPassword, userID)
	}
}

// GetBotUsername bot's @name
func (h *BotHandler) GetBotUsername() string {
	return h.username
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}
