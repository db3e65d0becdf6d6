package telegram

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoutil"
	"github.com/valyala/fasthttp"
	"resty.dev/v3"

	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
)

type telegramMessenger struct {
	api        *telego.Bot
	httpClient *resty.Client

	updatesType string
	srvAddr     string
	webhookURL  string
}

var _ service.Messenger = (*telegramMessenger)(nil)

// Options represents options that are required for creating new
// instance of telegram messenger.
type Options struct {
	// Token represents telegram bot token.
	Token string
	// UpdatesType represents a way we'll receive updates from Telegram. (webhook | polling)
	UpdatesType string

	// ServerAddress represents an address on which we'll start a server. (Required for webhook updates type)
	ServerAddress string
	// WebhookURL represents an url to which telegram will send updates. (Required for webhook updates type)
	WebhookURL string
}

// New creates a new instance of telegram messenger.
func New(opts Options) (*telegramMessenger, error) {
	bot, err := telego.NewBot(opts.Token, telego.WithDefaultLogger(false, true))
	if err != nil {
		return nil, fmt.Errorf("init bot instance: %w", err)
	}

	if opts.UpdatesType == "webhook" {
		err := bot.SetWebhook(&telego.SetWebhookParams{
			URL: opts.WebhookURL + "/bot",
		})
		if err != nil {
			return nil, fmt.Errorf("set webhook url: %w", err)
		}
	}

	return &telegramMessenger{
		api:         bot,
		httpClient:  resty.New(),
		updatesType: opts.UpdatesType,
		srvAddr:     opts.ServerAddress,
		webhookURL:  opts.WebhookURL,
	}, nil
}

func (t *telegramMessenger) ReadUpdates(ctx context.Context, result chan service.Update, errors chan error) {
	var (
		updates <-chan telego.Update
		err     error
	)

	switch t.updatesType {
	case "webhook":
		updates, err = t.api.UpdatesViaWebhook("/bot",
			telego.WithWebhookServer(telego.FastHTTPWebhookServer{
				Logger: t.api.Logger(),
				Server: &fasthttp.Server{},
				Router: router.New(),
			}),
		)
		if err != nil {
			sendError(ctx, errors, fmt.Errorf("register webhook telegram updates receiver: %w", err))

			return
		}

		go func() {
			err := t.api.StartWebhook(t.srvAddr)
			if err != nil {
				sendError(ctx, errors, fmt.Errorf("start webhook: %w", err))
			}
		}()
	case "polling":
		updates, err = t.api.UpdatesViaLongPolling(nil)
		if err != nil {
			sendError(ctx, errors, fmt.Errorf("register long polling telegram updates receiver: %w", err))

			return
		}

	default:
		sendError(ctx, errors, fmt.Errorf("unknown updates type: %s", t.updatesType))

		return
	}

	// The receiver stops draining once ctx is done, so every send must
	// also watch ctx to avoid leaking this goroutine.
	for {
		select {
		case <-ctx.Done():
			return

		case update, ok := <-updates:
			if !ok {
				return
			}

			select {
			case result <- &Update{update: update}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func sendError(ctx context.Context, errors chan error, err error) {
	select {
	case errors <- err:
	case <-ctx.Done():
	}
}

func (t *telegramMessenger) Close() error {
	if t.updatesType == "webhook" {
		return t.api.StopWebhook()
	}

	t.api.StopLongPolling()
	return nil
}

func (t *telegramMessenger) SendMessage(opts service.SendMessageOptions) (int, error) {
	message := telegoutil.Message(telegoutil.ID(opts.ChatID), opts.Text)

	if len(opts.Keyboard) != 0 {
		message = message.WithReplyMarkup(t.createKeyboard(opts.Keyboard))
	}

	if len(opts.InlineKeyboard) != 0 {
		message = message.WithReplyMarkup(t.createInlineKeyboard(opts.InlineKeyboard))
	}

	sent, err := t.api.SendMessage(message)
	if err != nil {
		return 0, err
	}

	return sent.MessageID, nil
}

func (t *telegramMessenger) EditMessage(opts service.EditMessageOptions) error {
	params := &telego.EditMessageTextParams{
		ChatID:    telegoutil.ID(opts.ChatID),
		MessageID: opts.MessageID,
		Text:      opts.Text,
	}

	if len(opts.InlineKeyboard) != 0 {
		params.ReplyMarkup = t.createInlineKeyboard(opts.InlineKeyboard)
	}

	_, err := t.api.EditMessageText(params)
	return err
}

func (t *telegramMessenger) DeleteMessage(chatID int64, messageID int) error {
	return t.api.DeleteMessage(&telego.DeleteMessageParams{
		ChatID:    telegoutil.ID(chatID),
		MessageID: messageID,
	})
}

func (t *telegramMessenger) AnswerCallbackQuery(callbackQueryID string) error {
	return t.api.AnswerCallbackQuery(&telego.AnswerCallbackQueryParams{
		CallbackQueryID: callbackQueryID,
	})
}

func (t *telegramMessenger) DownloadDocument(fileID string) ([]byte, error) {
	file, err := t.api.GetFile(&telego.GetFileParams{
		FileID: fileID,
	})
	if err != nil {
		return nil, fmt.Errorf("get file info: %w", err)
	}

	response, err := t.httpClient.R().Get(t.api.FileDownloadURL(file.FilePath))
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("could not download file(statusCode: %d)", response.StatusCode())
	}

	return response.Bytes(), nil
}

func (t *telegramMessenger) createKeyboard(rows []service.KeyboardRow) *telego.ReplyKeyboardMarkup {
	var convertedRows [][]telego.KeyboardButton

	for _, r := range rows {
		var buttons []telego.KeyboardButton

		for _, b := range r.Buttons {
			button := telegoutil.KeyboardButton(b.Text)

			if b.WebAppURL != "" {
				button = button.WithWebApp(&telego.WebAppInfo{URL: b.WebAppURL})
			}

			buttons = append(buttons, button)
		}

		convertedRows = append(convertedRows, buttons)
	}

	return telegoutil.Keyboard(convertedRows...).WithResizeKeyboard()
}

func (t *telegramMessenger) createInlineKeyboard(rows []service.InlineKeyboardRow) *telego.InlineKeyboardMarkup {
	var convertedRows [][]telego.InlineKeyboardButton

	for _, r := range rows {
		var buttons []telego.InlineKeyboardButton

		for _, b := range r.Buttons {
			buttons = append(buttons, telegoutil.
				InlineKeyboardButton(b.Text).
				WithCallbackData(b.Data))
		}

		convertedRows = append(convertedRows, buttons)
	}

	return telegoutil.InlineKeyboard(convertedRows...)
}
