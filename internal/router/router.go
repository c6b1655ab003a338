package router

import "context"

// Message is an incoming user message from any platform
type Message struct {
	ID        string
	Platform  string // "cli" | "web" | "telegram" | "discord"
	ChannelID string
	UserID    string
	Username  string
	Text      string
	ThreadID  string
	Metadata  map[string]string
}

// Response is the assistant's reply to a message
type Response struct {
	Text     string
	ThreadID string
}

// Platform is a chat transport that delivers messages to a handler
// and sends replies back to its channels.
type Platform interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
	Send(ctx context.Context, channelID string, resp Response) error
	SetMessageHandler(handler func(msg Message))
}

// ConversationKey generates a unique key for a conversation
func ConversationKey(platform, channelID, userID string) string {
	return platform + ":" + channelID + ":" + userID
}
