package models

import "time"

type Persona string

const (
	PersonaPersonality Persona = "personality"
	PersonaMentor      Persona = "mentor"
)

type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

type ChatMessage struct {
	ID        string      `json:"id"`
	Sender    ChatSender  `json:"sender"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
	Action    *ChatAction `json:"action,omitempty"`
}

// ChatAction is a button offered under a bot message.
type ChatAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
