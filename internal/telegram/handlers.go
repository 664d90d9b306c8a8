package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/micahreeves/what-time/internal/calendar"
	"github.com/micahreeves/what-time/internal/domain"
)

func identityOf(userID int64) domain.Identity {
	return domain.Identity(strconv.FormatInt(userID, 10))
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// --- Generic helpers ---

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.bot.Request(tgbotapi.NewCallback(id, text))
	return err
}

// sendError maps a core error to a user-facing message. This is the one
// place errors become chat text.
func (r *Router) sendError(log *zap.Logger, chatID int64, err error) {
	var invalid *domain.InvalidTimezoneError
	var ambiguous *domain.AmbiguousLocalTimeError
	var nonexistent *domain.NonexistentLocalTimeError

	switch {
	case errors.As(err, &invalid):
		body := fmt.Sprintf("❌ I don't know the timezone %q.", invalid.Raw)
		if len(invalid.Suggestions) > 0 {
			body += "\n\nDid you mean:\n"
			for _, s := range invalid.Suggestions {
				body += "• " + s + "\n"
			}
		}
		r.sendText(chatID, body)
	case errors.As(err, &ambiguous):
		r.sendText(chatID, fmt.Sprintf(
			"⚠️ %02d:%02d happens twice in %s that night (clocks fall back).\n"+
				"It is both %s and %s — please say which one you mean, e.g. by picking a nearby unambiguous time.",
			ambiguous.Wall.Hour, ambiguous.Wall.Minute, ambiguous.Zone,
			ambiguous.First.Format("15:04 MST"), ambiguous.Second.Format("15:04 MST"),
		))
	case errors.As(err, &nonexistent):
		r.sendText(chatID, fmt.Sprintf(
			"⚠️ %02d:%02d doesn't exist in %s that day — clocks spring forward over it. Try a later time.",
			nonexistent.Wall.Hour, nonexistent.Wall.Minute, nonexistent.Zone,
		))
	case errors.Is(err, domain.ErrNoTimezone):
		r.sendText(chatID, "❌ Set your timezone first with /settz, e.g. /settz Europe/Berlin")
	case errors.Is(err, domain.ErrBadTimePhrase):
		r.sendText(chatID, "❌ I couldn't read that time. Try:\n• 3pm\n• 15:00\n• in 2 hours\n• now")
	case errors.Is(err, domain.ErrZoneLimit):
		r.sendText(chatID, fmt.Sprintf("❌ This chat already shows %d timezones. Remove one first with /rmtz.", domain.MaxChatZones))
	case errors.Is(err, domain.ErrPersistence):
		log.Error("persistence failure", zap.Error(err))
		r.sendText(chatID, "⚠️ Could not save right now. Please try again in a moment.")
	default:
		log.Error("handler failed", zap.Error(err))
		r.sendText(chatID, "⚠️ Something went wrong. Please try again.")
	}
}

// --- Core commands ---

func (r *Router) handleStart(_ context.Context, _ *zap.Logger, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, startText)
	msg.ReplyMarkup = mainMenuKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleSetTZ(ctx context.Context, log *zap.Logger, chatID, userID int64, args string) {
	if args == "" {
		msg := tgbotapi.NewMessage(chatID, "Choose a timezone or enter your own (Region/City):")
		msg.ReplyMarkup = tzPresetsKeyboard()
		_, _ = r.bot.Send(msg)
		return
	}

	rec, err := r.svc.SetUserTimezone(ctx, identityOf(userID), args)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	now, err := r.svc.GetUserTime(ctx, rec.Identity, r.svc.Now())
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	r.sendText(chatID, fmt.Sprintf(
		"✅ Timezone set to %s\nYour current time: %s",
		rec.TZ, now.Format("15:04 MST, Mon Jan 2"),
	))
}

func (r *Router) handleMyTZ(ctx context.Context, log *zap.Logger, chatID, userID int64) {
	rec, ok, err := r.svc.UserRecord(ctx, identityOf(userID))
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	if !ok {
		r.sendText(chatID, "You have no timezone set yet. Use /settz to pick one.")
		return
	}
	local, err := r.svc.GetUserTime(ctx, rec.Identity, r.svc.Now())
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	r.sendText(chatID, fmt.Sprintf(
		"🌍 Your timezone: %s\n🕒 Local time: %s",
		rec.TZ, local.Format("15:04 MST, Mon Jan 2"),
	))
}

func (r *Router) handleClearTZ(ctx context.Context, log *zap.Logger, chatID, userID int64) {
	existed, err := r.svc.ClearUserTimezone(ctx, identityOf(userID))
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	if existed {
		r.sendText(chatID, "✅ Timezone cleared.")
	} else {
		r.sendText(chatID, "You had no timezone set.")
	}
}

func (r *Router) handleNow(ctx context.Context, log *zap.Logger, chatID, userID int64) {
	at := r.svc.Now()
	local, err := r.svc.GetUserTime(ctx, identityOf(userID), at)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}

	body := fmt.Sprintf("🕒 Your time: %s\n\n", local.Format("15:04 MST, Mon Jan 2"))
	table, err := r.conversionTable(ctx, chatID, at)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	r.sendText(chatID, body+table)
}

func (r *Router) handleWhen(ctx context.Context, log *zap.Logger, chatID, userID int64, args string) {
	if args == "" {
		r.sendText(chatID, promptWhen)
		r.setPending(chatID, pendingWhen)
		return
	}
	r.answerWhen(ctx, log, chatID, userID, args)
}

func (r *Router) answerWhen(ctx context.Context, log *zap.Logger, chatID, userID int64, phrase string) {
	at, err := r.svc.ResolveUserPhrase(ctx, identityOf(userID), phrase)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}

	table, err := r.conversionTable(ctx, chatID, at)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	body := fmt.Sprintf("🌍 %q is:\n\n%s\nUnix timestamp: %d", phrase, table, at.Unix())
	r.sendText(chatID, body)
}

// handleFor converts a time as spoken by the author of the replied-to
// message into the caller's timezone.
func (r *Router) handleFor(ctx context.Context, log *zap.Logger, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		r.sendText(chatID, "Reply to someone's message with /for <time> to see their time in your timezone.")
		return
	}
	if args == "" {
		r.sendText(chatID, "Usage (as a reply): /for 3pm")
		return
	}

	theirs := identityOf(msg.ReplyToMessage.From.ID)
	mine := identityOf(msg.From.ID)

	local, err := r.svc.ConvertPhrase(ctx, theirs, mine, args)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	r.sendText(chatID, fmt.Sprintf(
		"🕒 %q for %s is %s your time.",
		args, msg.ReplyToMessage.From.FirstName, local.Format("15:04 MST, Mon Jan 2"),
	))
}

func (r *Router) handleEvent(ctx context.Context, log *zap.Logger, chatID, userID int64, args string) {
	phrase, title := args, ""
	if i := strings.IndexByte(args, '|'); i >= 0 {
		phrase, title = strings.TrimSpace(args[:i]), strings.TrimSpace(args[i+1:])
	}
	if phrase == "" || title == "" {
		r.sendText(chatID, "Usage: /event <time> | <title>\nExample: /event 7pm | Raid night")
		return
	}

	at, err := r.svc.ResolveUserPhrase(ctx, identityOf(userID), phrase)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}

	tpl := calendar.Templates["event"]
	link := calendar.GoogleLink(at, tpl.TitlePrefix+title, tpl.Duration, tpl.Description)

	table, err := r.conversionTable(ctx, chatID, at)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	r.sendText(chatID, fmt.Sprintf(
		"%s%s\n\n%s\n📎 Add to calendar:\n%s",
		tpl.TitlePrefix, title, table, link,
	))
}

// --- Chat display list ---

func (r *Router) handleZones(ctx context.Context, log *zap.Logger, chatID int64) {
	zones, err := r.svc.ChatZones(ctx, chatKey(chatID))
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}

	var body string
	if len(zones) == 0 {
		body = "This chat uses the default world list. Add your own with /addtz or pick a preset:"
	} else {
		body = "This chat displays:\n"
		for _, z := range zones {
			body += fmt.Sprintf("• %s — %s\n", z.Name, z.TZ)
		}
		body += "\nAdd more with /addtz, remove with /rmtz, or pick a preset:"
	}
	msg := tgbotapi.NewMessage(chatID, body)
	msg.ReplyMarkup = presetKeyboard()
	_, _ = r.bot.Send(msg)
}

func (r *Router) handleAddZone(ctx context.Context, log *zap.Logger, chatID int64, args string) {
	if args == "" {
		r.sendText(chatID, "Usage: /addtz <zone> or /addtz <name> = <zone>\nExample: /addtz HQ = Europe/Berlin")
		return
	}
	name, raw := "", args
	if i := strings.IndexByte(args, '='); i >= 0 {
		name, raw = strings.TrimSpace(args[:i]), strings.TrimSpace(args[i+1:])
	}

	tz, err := r.svc.AddChatZone(ctx, chatKey(chatID), name, raw)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}

	table, err := r.conversionTable(ctx, chatID, r.svc.Now())
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	r.sendText(chatID, fmt.Sprintf("✅ Added %s.\n\nCurrent display:\n%s", tz, table))
}

func (r *Router) handleRemoveZone(ctx context.Context, log *zap.Logger, chatID int64, args string) {
	if args == "" {
		r.sendText(chatID, "Usage: /rmtz <name> (see /zones for names)")
		return
	}
	existed, err := r.svc.RemoveChatZone(ctx, chatKey(chatID), args)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	if existed {
		r.sendText(chatID, "✅ Removed "+args+".")
	} else {
		r.sendText(chatID, fmt.Sprintf("No display zone named %q here. See /zones.", args))
	}
}

func (r *Router) handleClearZones(ctx context.Context, log *zap.Logger, chatID int64) {
	if err := r.svc.ClearChatZones(ctx, chatKey(chatID)); err != nil {
		r.sendError(log, chatID, err)
		return
	}
	r.sendText(chatID, "✅ Display list cleared; back to the default world list.")
}

func (r *Router) handlePreset(ctx context.Context, log *zap.Logger, chatID int64, preset string) {
	zones, err := r.svc.ApplyPreset(ctx, chatKey(chatID), preset)
	if err != nil {
		r.sendError(log, chatID, err)
		return
	}
	body := "✅ Display list updated:\n"
	for _, z := range zones {
		body += fmt.Sprintf("• %s — %s\n", z.Name, z.TZ)
	}
	r.sendText(chatID, body)
}

// --- Free-form dispatcher (for "Custom" inputs) ---

func (r *Router) handleFreeForm(ctx context.Context, log *zap.Logger, chatID, userID int64, text string) {
	switch r.getPending(chatID) {
	case pendingTZ:
		r.clearPending(chatID)
		r.handleSetTZ(ctx, log, chatID, userID, text)
	case pendingWhen:
		r.clearPending(chatID)
		r.answerWhen(ctx, log, chatID, userID, text)
	default:
		// No pending flow: ignore free-form chatter.
	}
}

// conversionTable renders the chat's display list at the given instant,
// one line per zone.
func (r *Router) conversionTable(ctx context.Context, chatID int64, at time.Time) (string, error) {
	rows, err := r.svc.ConversionsAt(ctx, chatKey(chatID), at)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "🕒 %s: %s (%s)\n",
			row.Name,
			row.Local.Format("15:04 MST"),
			row.Local.Format("01/02"),
		)
	}
	return b.String(), nil
}
