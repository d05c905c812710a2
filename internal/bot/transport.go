package bot

import "context"

// Button is one inline keyboard button. Data is the callback action string
// delivered back when the button is pressed.
type Button struct {
	Text string
	Data string
}

// SendOptions shape an outgoing message.
type SendOptions struct {
	ParseMode         string
	ForceReply        bool
	Keyboard          [][]Button
	DisableWebPreview bool
}

// Transport is the chat transport binding. The router owns correlation and
// dispatch; rendering and delivery live behind this interface.
//
// Transport failures are logged and swallowed by the callers: there is no
// user channel left to surface them through.
type Transport interface {
	// SendMessage delivers text to the chat and returns the message id,
	// which free-text prompts use as the PendingReply key.
	SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (int64, error)
	EditMessage(ctx context.Context, chatID, messageID int64, text string, opts *SendOptions) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
}
