package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tigon-bot-backend/internal/bot"
)

// Client is a minimal Telegram Bot API binding implementing bot.Transport.
type Client struct {
	httpClient  *http.Client
	token       string
	pollTimeout int
}

func NewClient(token string, pollTimeout int) *Client {
	return &Client{
		// Long polls block up to pollTimeout server-side; leave headroom.
		httpClient:  &http.Client{Timeout: time.Duration(pollTimeout+10) * time.Second},
		token:       token,
		pollTimeout: pollTimeout,
	}
}

type tgResponse[T any] struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	Result      T      `json:"result"`
}

type user struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type chat struct {
	ID int64 `json:"id"`
}

type message struct {
	MessageID int64    `json:"message_id"`
	From      *user    `json:"from"`
	Chat      chat     `json:"chat"`
	Text      string   `json:"text"`
	ReplyTo   *message `json:"reply_to_message"`
}

type callbackQuery struct {
	ID      string   `json:"id"`
	From    user     `json:"from"`
	Message *message `json:"message"`
	Data    string   `json:"data"`
}

type update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *message       `json:"message"`
	CallbackQuery *callbackQuery `json:"callback_query"`
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("https://api.telegram.org/bot%s/%s", c.token, method)
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// replyMarkup renders SendOptions into the Bot API reply_markup payload.
func replyMarkup(opts *bot.SendOptions) (string, error) {
	if opts == nil {
		return "", nil
	}
	if opts.ForceReply {
		return `{"force_reply":true}`, nil
	}
	if len(opts.Keyboard) == 0 {
		return "", nil
	}

	rows := make([][]inlineButton, 0, len(opts.Keyboard))
	for _, row := range opts.Keyboard {
		btns := make([]inlineButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, inlineButton{Text: b.Text, CallbackData: b.Data})
		}
		rows = append(rows, btns)
	}
	buf, err := json.Marshal(map[string]interface{}{"inline_keyboard": rows})
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func fillParams(params url.Values, text string, opts *bot.SendOptions) error {
	params.Set("text", text)
	markup, err := replyMarkup(opts)
	if err != nil {
		return err
	}
	if markup != "" {
		params.Set("reply_markup", markup)
	}
	if opts != nil && opts.ParseMode != "" {
		params.Set("parse_mode", opts.ParseMode)
	}
	if opts != nil && opts.DisableWebPreview {
		params.Set("disable_web_page_preview", "true")
	}
	return nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts *bot.SendOptions) (int64, error) {
	params := url.Values{"chat_id": {strconv.FormatInt(chatID, 10)}}
	if err := fillParams(params, text, opts); err != nil {
		return 0, err
	}

	var result tgResponse[message]
	if err := c.makeRequest(ctx, http.MethodPost, c.endpoint("sendMessage"), params, &result); err != nil {
		return 0, fmt.Errorf("sendMessage: %w", err)
	}
	if !result.Ok {
		return 0, fmt.Errorf("telegram API error: %s", result.Description)
	}
	return result.Result.MessageID, nil
}

func (c *Client) EditMessage(ctx context.Context, chatID, messageID int64, text string, opts *bot.SendOptions) error {
	params := url.Values{
		"chat_id":    {strconv.FormatInt(chatID, 10)},
		"message_id": {strconv.FormatInt(messageID, 10)},
	}
	if err := fillParams(params, text, opts); err != nil {
		return err
	}

	var result tgResponse[json.RawMessage]
	if err := c.makeRequest(ctx, http.MethodPost, c.endpoint("editMessageText"), params, &result); err != nil {
		return fmt.Errorf("editMessageText: %w", err)
	}
	if !result.Ok {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	params := url.Values{
		"chat_id":    {strconv.FormatInt(chatID, 10)},
		"message_id": {strconv.FormatInt(messageID, 10)},
	}

	var result tgResponse[bool]
	if err := c.makeRequest(ctx, http.MethodPost, c.endpoint("deleteMessage"), params, &result); err != nil {
		return fmt.Errorf("deleteMessage: %w", err)
	}
	if !result.Ok {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

func (c *Client) answerCallback(ctx context.Context, id string) error {
	params := url.Values{"callback_query_id": {id}}
	var result tgResponse[bool]
	if err := c.makeRequest(ctx, http.MethodPost, c.endpoint("answerCallbackQuery"), params, &result); err != nil {
		return fmt.Errorf("answerCallbackQuery: %w", err)
	}
	return nil
}

func (c *Client) getUpdates(ctx context.Context, offset int64) ([]update, error) {
	params := url.Values{
		"offset":  {strconv.FormatInt(offset, 10)},
		"timeout": {strconv.Itoa(c.pollTimeout)},
	}

	var result tgResponse[[]update]
	if err := c.makeRequest(ctx, http.MethodGet, c.endpoint("getUpdates"), params, &result); err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}
	if !result.Ok {
		return nil, fmt.Errorf("telegram API error: %s", result.Description)
	}
	return result.Result, nil
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, data url.Values, out any) error {
	var req *http.Request
	var err error
	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(data.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		if len(data) > 0 {
			endpoint = endpoint + "?" + data.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return err
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}
