package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/micahreeves/what-time/internal/core"
)

// Pending state keys used in conversational flows.
const (
	pendingTZ   = "await_tz_text"
	pendingWhen = "await_when_text"
)

// Router wires Telegram updates to handlers and holds minimal in-memory
// state (pending free-form inputs only; everything durable lives in the
// core).
type Router struct {
	bot   *tgbotapi.BotAPI
	log   *zap.Logger
	svc   *core.Service
	state map[int64]string // chatID -> pending state
	mu    sync.RWMutex
}

// NewRouter creates a new Telegram router.
func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, svc *core.Service) *Router {
	return &Router{
		bot:   bot,
		log:   log,
		svc:   svc,
		state: make(map[int64]string),
	}
}

func (r *Router) setPending(chatID int64, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[chatID] = s
}

func (r *Router) getPending(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	log := r.log.With(zap.String("request_id", uuid.NewString()))

	if upd.Message != nil {
		msg := upd.Message
		chatID := msg.Chat.ID
		userID := msg.From.ID
		text := strings.TrimSpace(msg.Text)
		cmd, args := splitCommand(text)

		switch cmd {
		case "/start", "/help":
			r.handleStart(ctx, log, chatID)
		case "/settz":
			r.handleSetTZ(ctx, log, chatID, userID, args)
		case "/mytz":
			r.handleMyTZ(ctx, log, chatID, userID)
		case "/cleartz":
			r.handleClearTZ(ctx, log, chatID, userID)
		case "/now":
			r.handleNow(ctx, log, chatID, userID)
		case "/when":
			r.handleWhen(ctx, log, chatID, userID, args)
		case "/for":
			r.handleFor(ctx, log, msg, args)
		case "/event":
			r.handleEvent(ctx, log, chatID, userID, args)
		case "/zones":
			r.handleZones(ctx, log, chatID)
		case "/addtz":
			r.handleAddZone(ctx, log, chatID, args)
		case "/rmtz":
			r.handleRemoveZone(ctx, log, chatID, args)
		case "/clearzones":
			r.handleClearZones(ctx, log, chatID)
		default:
			// Free-form text used by the "Custom" flows.
			r.handleFreeForm(ctx, log, chatID, userID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		data := cb.Data
		chatID := cb.Message.Chat.ID
		userID := cb.From.ID

		switch {
		case data == "tz:custom":
			_ = r.answerCallback(cb.ID, "")
			r.sendText(chatID, promptCustomTZ)
			r.setPending(chatID, pendingTZ)
		case strings.HasPrefix(data, "tz:"):
			_ = r.answerCallback(cb.ID, "")
			r.handleSetTZ(ctx, log, chatID, userID, strings.TrimPrefix(data, "tz:"))
		case strings.HasPrefix(data, "preset:"):
			_ = r.answerCallback(cb.ID, "")
			r.handlePreset(ctx, log, chatID, strings.TrimPrefix(data, "preset:"))
		default:
			// Unknown callback — ignore silently.
		}
		return
	}
}

// splitCommand separates "/cmd args" and strips a "@BotName" suffix
// from the command, as group chats append one.
func splitCommand(text string) (cmd, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd = text
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmd, args = text[:i], strings.TrimSpace(text[i+1:])
	}
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd, args
}
