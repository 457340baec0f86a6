package bot

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"linksift/internal/apperrors"
	"linksift/internal/config"
	"linksift/internal/domain"
	"linksift/internal/service"
)

const helpMessage = `Paste any text or forward a message with links, and I'll pull out every URL.

/list - show your current list
/copy - all URLs, one per line
/open - only the valid URLs
/rename N text - relabel link N
/remove N - drop link N
/clear - forget the list
/sites - links grouped by site`

const titlesHelp = "\n/titles - label links with their page titles"

// Handler holds dependencies for the Telegram bot handlers.
type Handler struct {
	bot     *tgbot.Bot
	cfg     config.Config
	svc     *service.Service
	limiter *userLimiter
	log     logrus.FieldLogger
}

// NewHandler creates a new bot handler instance.
func NewHandler(cfg config.Config, svc *service.Service, logger logrus.FieldLogger) (*Handler, error) {
	log := logger.WithField("component", "bot_handler")

	h := &Handler{
		cfg:     cfg,
		svc:     svc,
		limiter: newUserLimiter(cfg.RateLimit, cfg.RateBurst),
		log:     log,
	}

	b, err := tgbot.New(cfg.TelegramBotToken, tgbot.WithDefaultHandler(h.defaultHandler))
	if err != nil {
		log.WithError(err).Error("Failed to create Telegram bot instance")
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.bot = b

	h.registerHandlers()

	log.Info("Telegram bot handler initialized")
	return h, nil
}

// registerHandlers sets up the command handlers.
func (h *Handler) registerHandlers() {
	commands := map[string]tgbot.HandlerFunc{
		"/start":  h.helpHandler,
		"/help":   h.helpHandler,
		"/list":   h.listHandler,
		"/copy":   h.copyHandler,
		"/open":   h.openHandler,
		"/rename": h.renameHandler,
		"/remove": h.removeHandler,
		"/clear":  h.clearHandler,
		"/sites":  h.sitesHandler,
	}
	if h.cfg.ScrapeEnabled {
		commands["/titles"] = h.titlesHandler
	}

	for cmd, fn := range commands {
		h.bot.RegisterHandler(tgbot.HandlerTypeMessageText, cmd, tgbot.MatchTypePrefix, fn)
	}
	h.log.WithField("count", len(commands)).Info("Registered command handlers")
}

// Start begins polling for updates from Telegram.
// This function blocks until the context is cancelled.
func (h *Handler) Start(ctx context.Context) {
	h.log.Info("Starting Telegram bot polling...")
	h.bot.Start(ctx)
	h.log.Info("Telegram bot polling stopped.")
}

// defaultHandler extracts links from any message that is not a command.
func (h *Handler) defaultHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	text, entities := msg.Text, msg.Entities
	if text == "" {
		text, entities = msg.Caption, msg.CaptionEntities
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	log := h.log.WithField("user_id", msg.From.ID)
	if !h.limiter.Allow(msg.From.ID) {
		log.Warn("Rate limit hit")
		h.reply(ctx, b, msg.Chat.ID, "Slow down a little, then paste again.")
		return
	}

	result, err := h.svc.Extract(ctx, msg.From.ID, messageHTML(text, entities))
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, err)
		return
	}
	if len(result.ExtractedURLs) == 0 {
		h.reply(ctx, b, msg.Chat.ID, "No links found.")
		return
	}

	header := fmt.Sprintf("Found %d link(s):\n", len(result.ExtractedURLs))
	h.reply(ctx, b, msg.Chat.ID, header+formatList(result.ExtractedURLs))
}

func (h *Handler) helpHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	text := helpMessage
	if h.cfg.ScrapeEnabled {
		text += titlesHelp
	}
	h.reply(ctx, b, update.Message.Chat.ID, text)
}

func (h *Handler) listHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.withList(ctx, b, update, func(list []domain.ExtractedURL) string {
		return formatList(list)
	})
}

func (h *Handler) copyHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.withList(ctx, b, update, func(list []domain.ExtractedURL) string {
		return domain.CopyText(list, domain.DefaultSeparator)
	})
}

func (h *Handler) openHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.withList(ctx, b, update, func(list []domain.ExtractedURL) string {
		valid := domain.Openable(list)
		if len(valid) == 0 {
			return "None of the links are valid."
		}
		return domain.CopyText(valid, domain.DefaultSeparator)
	})
}

func (h *Handler) sitesHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	h.withList(ctx, b, update, func(list []domain.ExtractedURL) string {
		return formatGroups(service.GroupBySite(list))
	})
}

// withList loads the sender's list and replies with render(list).
func (h *Handler) withList(ctx context.Context, b *tgbot.Bot, update *models.Update, render func([]domain.ExtractedURL) string) {
	msg := update.Message
	list, err := h.svc.List(ctx, msg.From.ID)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, err)
		return
	}
	if len(list) == 0 {
		h.reply(ctx, b, msg.Chat.ID, "Your list is empty. Paste some content first.")
		return
	}
	h.reply(ctx, b, msg.Chat.ID, render(list))
}

func (h *Handler) renameHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	position, label, err := parsePosition(commandArgs(msg.Text))
	if err != nil {
		h.reply(ctx, b, msg.Chat.ID, "Usage: /rename N new label")
		return
	}

	link, err := h.svc.Rename(ctx, msg.From.ID, position, label)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, err)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "Renamed: "+formatEntry(position, link))
}

func (h *Handler) removeHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	position, _, err := parsePosition(commandArgs(msg.Text))
	if err != nil {
		h.reply(ctx, b, msg.Chat.ID, "Usage: /remove N")
		return
	}

	link, err := h.svc.Remove(ctx, msg.From.ID, position)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, err)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "Removed: "+link.URL)
}

func (h *Handler) clearHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if err := h.svc.Clear(ctx, msg.From.ID); err != nil {
		h.replyError(ctx, b, msg.Chat.ID, err)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "List cleared.")
}

func (h *Handler) titlesHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if !h.limiter.Allow(msg.From.ID) {
		h.reply(ctx, b, msg.Chat.ID, "Slow down a little, then try again.")
		return
	}

	h.reply(ctx, b, msg.Chat.ID, "Fetching page titles, this can take a while...")
	n, err := h.svc.FetchTitles(ctx, msg.From.ID)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, err)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("Updated %d title(s). Use /list to see them.", n))
}

// reply sends text in chunks that fit a single Telegram message.
func (h *Handler) reply(ctx context.Context, b *tgbot.Bot, chatID int64, text string) {
	noPreview := true
	for _, chunk := range chunkMessage(text, maxMessageLength) {
		_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID:             chatID,
			Text:               chunk,
			LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: &noPreview},
		})
		if err != nil {
			h.log.WithError(err).WithField("chat_id", chatID).Error("Failed to send message")
			return
		}
	}
}

func (h *Handler) replyError(ctx context.Context, b *tgbot.Bot, chatID int64, err error) {
	log := h.log.WithError(err).WithField("chat_id", chatID)
	if apperrors.Is(err, apperrors.TypeInternal) {
		log.Error("Request failed")
	} else {
		log.Info("Request rejected")
	}
	h.reply(ctx, b, chatID, apperrors.UserMessage(err))
}
