package dingsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	MsgText     = "text"
	MsgMarkdown = "markdown"
)

type Text struct {
	Content string `json:"content"`
}

type Markdown struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type At struct {
	AtMobiles []string `json:"atMobiles,omitempty"`
	IsAtAll   bool     `json:"isAtAll"`
}

// Message is a robot webhook payload. Exactly one of Text or Markdown is
// set, matching MsgType.
type Message struct {
	MsgType  string    `json:"msgtype"`
	Text     *Text     `json:"text,omitempty"`
	Markdown *Markdown `json:"markdown,omitempty"`
	At       At        `json:"at"`
}

func NewText(content string, atAll bool) *Message {
	return &Message{
		MsgType: MsgText,
		Text:    &Text{Content: content},
		At:      At{IsAtAll: atAll},
	}
}

func NewMarkdown(title, text string) *Message {
	return &Message{
		MsgType:  MsgMarkdown,
		Markdown: &Markdown{Title: title, Text: text},
	}
}

type Result struct {
	ErrCode int64  `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (result *Result) Err() error {
	if result.ErrCode != 0 || result.ErrMsg != "ok" {
		return fmt.Errorf("dingtalk code: %d, err: %s", result.ErrCode, result.ErrMsg)
	}
	return nil
}

type DingSdk struct {
	url    string
	client *http.Client
}

type Option func(*DingSdk)

// WithHTTPClient replaces the default client, which times out after 10s.
func WithHTTPClient(client *http.Client) Option {
	return func(sdk *DingSdk) {
		if client != nil {
			sdk.client = client
		}
	}
}

func NewDingSdk(url string, opts ...Option) *DingSdk {
	sdk := &DingSdk{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(sdk)
	}
	return sdk
}

// Notify posts msg to the webhook. A robot that answers 200 with a non-zero
// errcode still fails.
func (sdk *DingSdk) Notify(ctx context.Context, msg *Message) (*Result, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", msg.MsgType, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sdk.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := sdk.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dingtalk status code: %d", resp.StatusCode)
	}
	result := &Result{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decode dingtalk result: %w", err)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
