package bot

// CommandEvent is an inbound slash command.
type CommandEvent struct {
	Command  string
	ChatID   int64
	UserID   int64
	UserName string
	Text     string
}

// CallbackEvent is an inbound button click.
type CallbackEvent struct {
	ChatID    int64
	MessageID int64
	UserID    int64
	Action    string
}

// ReplyEvent is an inbound message that answers a specific earlier message.
// PromptMessageID is the id of the message being replied to; together with
// ChatID it keys the PendingReply lookup.
type ReplyEvent struct {
	ChatID          int64
	PromptMessageID int64
	UserID          int64
	Text            string
}
