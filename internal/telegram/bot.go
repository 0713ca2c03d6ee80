// Package telegram is the chat transport and command surface. It validates
// user commands, mutates profiles through the session manager and delivers
// qualifying postings back to the user.
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

	"github.com/StanGar30/freelance-bot-ai/internal/ai"
	"github.com/StanGar30/freelance-bot-ai/internal/config"
	"github.com/StanGar30/freelance-bot-ai/internal/job"
	"github.com/StanGar30/freelance-bot-ai/internal/scheduler"
	"github.com/StanGar30/freelance-bot-ai/internal/session"
	"github.com/StanGar30/freelance-bot-ai/internal/source"
)

const (
	pollTimeoutSeconds  = 30
	skillExtractTimeout = 60 * time.Second
)

const welcomeText = `Hello! I am a bot for finding freelance jobs.
Use the following commands:
/skills - set key skills
/sources - select sources for search
/price - set minimum price
/interval - set notification interval
/start_search - start job search
/stop_search - stop job search

You can also type "search <query>" and I will suggest skills for it.`

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	manager  *session.Manager
	sched    *scheduler.Scheduler
	oracle   ai.Oracle
	registry *source.Registry
	log      *zap.Logger
}

func New(cfg *config.Config, manager *session.Manager, sched *scheduler.Scheduler, oracle ai.Oracle, registry *source.Registry, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

	return &Bot{
		api:      api,
		cfg:      cfg,
		manager:  manager,
		sched:    sched,
		oracle:   oracle,
		registry: registry,
		log:      log,
	}, nil
}

// Run processes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if !b.cfg.Allowed(userID) {
		if msg.IsCommand() && msg.Command() == "start" {
			b.send(msg.Chat.ID, "Sorry, you are not allowed to use this bot.")
		}
		return
	}

	b.manager.Ensure(userID)

	if !msg.IsCommand() {
		b.handleText(msg)
		return
	}

	switch msg.Command() {
	case "start":
		b.send(msg.Chat.ID, welcomeText)
	case "skills":
		b.handleSkills(msg)
	case "sources":
		b.handleSources(msg)
	case "price":
		b.handlePrice(msg)
	case "interval":
		b.handleInterval(msg)
	case "start_search":
		b.handleStartSearch(msg)
	case "stop_search":
		b.handleStopSearch(msg)
	default:
		b.send(msg.Chat.ID, "Unknown command. Use /start to see the command list.")
	}
}

func (b *Bot) handleSkills(msg *tgbotapi.Message) {
	skills := parseSkills(msg.CommandArguments())
	if len(skills) == 0 {
		b.send(msg.Chat.ID, "Send a list of skills separated by commas. For example: /skills Python, Django, Flask, AI")
		return
	}

	b.manager.SetSkills(msg.From.ID, skills)
	b.send(msg.Chat.ID, "Skills set: "+strings.Join(skills, ", "))
}

func (b *Bot) handleSources(msg *tgbotapi.Message) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, "Choose sources for search:")
	reply.ReplyMarkup = b.sourcesKeyboard(msg.From.ID)
	if _, err := b.api.Send(reply); err != nil {
		b.log.Warn("send sources keyboard failed", zap.Error(err))
	}
}

func (b *Bot) handlePrice(msg *tgbotapi.Message) {
	price, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil || price < 0 {
		b.send(msg.Chat.ID, "Send the minimum price as a number. For example: /price 3000")
		return
	}

	b.manager.SetMinPrice(msg.From.ID, price)
	b.send(msg.Chat.ID, fmt.Sprintf("Minimum price set: %d", price))
}

func (b *Bot) handleInterval(msg *tgbotapi.Message) {
	minutes, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
	if err != nil {
		b.send(msg.Chat.ID, "Send the notification interval in minutes. For example: /interval 30")
		return
	}

	interval := time.Duration(minutes) * time.Minute
	if err := b.manager.SetInterval(msg.From.ID, interval); err != nil {
		b.send(msg.Chat.ID, "Interval should be at least 5 minutes")
		return
	}

	// an active recurring search picks the new interval up immediately
	if b.sched.Scheduled(msg.From.ID) {
		if err := b.sched.Schedule(msg.From.ID, interval); err != nil {
			b.log.Warn("reschedule failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		}
	}

	b.send(msg.Chat.ID, fmt.Sprintf("Interval set: %d minutes", minutes))
}

func (b *Bot) handleStartSearch(msg *tgbotapi.Message) {
	userID := msg.From.ID

	if err := b.manager.Start(userID); err != nil {
		switch {
		case errors.Is(err, session.ErrNoSkills):
			b.send(msg.Chat.ID, "First set the skills using the /skills command")
		case errors.Is(err, session.ErrNoSources):
			b.send(msg.Chat.ID, "Select at least one source using the /sources command")
		case errors.Is(err, session.ErrAlreadyRunning):
			b.send(msg.Chat.ID, "Search is already running")
		default:
			b.log.Error("start search failed", zap.Int64("user_id", userID), zap.Error(err))
			b.send(msg.Chat.ID, "Could not start the search, try again later")
		}
		return
	}

	settings := b.manager.Settings(userID)
	if err := b.sched.Schedule(userID, settings.Interval); err != nil {
		b.log.Warn("schedule recurring search failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	b.send(msg.Chat.ID, fmt.Sprintf(
		"Started search with the following settings:\nSkills: %s\nSources: %s\nMinimum price: %d\nInterval: %d minutes",
		strings.Join(settings.Skills, ", "),
		strings.Join(settings.Sources, ", "),
		settings.MinPrice,
		int(settings.Interval.Minutes()),
	))
}

func (b *Bot) handleStopSearch(msg *tgbotapi.Message) {
	userID := msg.From.ID
	b.sched.Cancel(userID)

	if err := b.manager.Stop(userID); err != nil {
		b.send(msg.Chat.ID, "Search is not running")
		return
	}

	b.send(msg.Chat.ID, "Search stopped")
}

// handleText serves the "search <query>" flow: the oracle suggests skills for
// a free-form query.
func (b *Bot) handleText(msg *tgbotapi.Message) {
	query, ok := searchQuery(msg.Text)
	if !ok {
		return
	}

	b.send(msg.Chat.ID, "Looking for skills matching: "+query)

	ctx, cancel := context.WithTimeout(context.Background(), skillExtractTimeout)
	defer cancel()

	skills, err := b.oracle.ExtractSkills(ctx, query)
	if err != nil {
		b.log.Warn("skill extraction failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		b.send(msg.Chat.ID, "Sorry, I couldn't extract skills from the query")
		return
	}

	b.send(msg.Chat.ID, "Suggested skills: "+skills+"\nUse the /skills command to set them")
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Debug("answer callback failed", zap.Error(err))
		}
	}()

	userID := cb.From.ID
	if !b.cfg.Allowed(userID) || cb.Message == nil {
		return
	}

	b.manager.Ensure(userID)

	switch {
	case strings.HasPrefix(cb.Data, sourceCallbackPrefix):
		name := strings.TrimPrefix(cb.Data, sourceCallbackPrefix)
		if _, ok := b.registry.Get(name); !ok {
			return
		}
		b.manager.ToggleSource(userID, name)

		edit := tgbotapi.NewEditMessageTextAndMarkup(
			cb.Message.Chat.ID, cb.Message.MessageID,
			"Choose sources for search:", b.sourcesKeyboard(userID),
		)
		if _, err := b.api.Send(edit); err != nil {
			b.log.Warn("edit sources keyboard failed", zap.Error(err))
		}

	case cb.Data == sourcesDoneCallback:
		selected := b.manager.Settings(userID).Sources
		text := "Selected sources: " + strings.Join(selected, ", ")
		if len(selected) == 0 {
			text = "No sources selected"
		}
		edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
		if _, err := b.api.Send(edit); err != nil {
			b.log.Warn("edit sources summary failed", zap.Error(err))
		}
	}
}

// Deliver sends one qualifying posting to the user. Implements the session
// Notifier.
func (b *Bot) Deliver(userID int64, v job.Verdict) error {
	msg := tgbotapi.NewMessage(userID, formatVerdict(v))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if v.Posting.URL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 View job", v.Posting.URL),
			),
		)
	}

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
