// Package telegram surfaces notifications to an operations chat. It is a
// send-only channel: the engine never polls Telegram for updates.
package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	"dukan/internal/notify"
	logx "dukan/pkg/logx"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

type Config struct {
	Token      string
	ChatID     int64
	RatePerSec int
}

// Alerter implements notify.Alerter over a Telegram bot.
//
// Sends are rate limited and bounded; a slow or failing Telegram API only
// costs the alert, never the send that triggered it.
type Alerter struct {
	log     logx.Logger
	bot     *tele.Bot
	chatID  int64
	limiter *rate.Limiter
}

func New(cfg Config, log logx.Logger) (*Alerter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat id is empty")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 3
	}

	b, err := tele.NewBot(tele.Settings{Token: cfg.Token, Offline: false})
	if err != nil {
		return nil, err
	}
	return &Alerter{
		log:    log,
		bot:    b,
		chatID: cfg.ChatID,
		// Token bucket: burst = rate per sec, so short spikes don't block too hard.
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (a *Alerter) Name() string { return "telegram" }

func (a *Alerter) Alert(ctx context.Context, n notify.Notification) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	text := n.Title
	if n.Message != "" {
		text = n.Title + "\n" + n.Message
	}
	_, err := a.bot.Send(&tele.Chat{ID: a.chatID}, text)
	if err != nil {
		return err
	}
	a.log.Debug("notification surfaced", logx.String("id", n.ID))
	return nil
}
