package services

import (
	"context"
	"strings"
	"time"

	"mitra/backend/content"
	"mitra/backend/models"
	"mitra/backend/storage"
	"mitra/backend/utils"
)

// Reply is what an assistant answers to one message.
type Reply struct {
	Text   string
	Action *models.ChatAction
}

// Assistant answers from a fixed keyword table. The first rule with a keyword
// contained in the message wins.
type Assistant struct {
	script content.Script
}

func NewAssistant(script content.Script) Assistant {
	return Assistant{script: script}
}

func (a Assistant) Greeting() string { return a.script.Greeting }

func (a Assistant) Respond(text string) Reply {
	input := strings.ToLower(text)
	for _, rule := range a.script.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(input, strings.ToLower(kw)) {
				return a.reply(rule)
			}
		}
	}
	if rule, ok := a.script.Rule(a.script.FallbackRule); ok {
		return a.reply(rule)
	}
	return Reply{Text: a.script.Fallback}
}

func (a Assistant) reply(rule content.Rule) Reply {
	r := Reply{Text: rule.Reply}
	if action, ok := a.script.Action(rule.Action); ok {
		r.Action = &models.ChatAction{ID: action.ID, Label: action.Label}
	}
	return r
}

// Typing waits d unless ctx ends first.
func Typing(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var chatKeys = map[models.Persona]string{
	models.PersonaPersonality: storage.KeyPersonalityChat,
	models.PersonaMentor:      storage.KeyMentorChat,
}

// ChatStore persists one persona's transcript.
type ChatStore struct {
	kv        storage.KV
	key       string
	persona   models.Persona
	assistant Assistant
	script    content.Script
	clock     Clock
	ids       *utils.IDGenerator
	tasks     *TaskStore
}

// NewChatStore builds the store for persona. tasks receives tasks created by
// assistant actions and may be nil for personas without actions.
func NewChatStore(kv storage.KV, persona models.Persona, catalog *content.Catalog, clock Clock, ids *utils.IDGenerator, tasks *TaskStore) (*ChatStore, error) {
	key, ok := chatKeys[persona]
	if !ok {
		return nil, ErrUnknownPersona
	}
	script, ok := catalog.Assistants[persona]
	if !ok {
		return nil, ErrUnknownPersona
	}
	return &ChatStore{
		kv:        kv,
		key:       key,
		persona:   persona,
		assistant: NewAssistant(script),
		script:    script,
		clock:     clock,
		ids:       ids,
		tasks:     tasks,
	}, nil
}

// Transcript returns the conversation, starting with the greeting.
func (c *ChatStore) Transcript(ctx context.Context) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	found, err := storage.LoadJSON(ctx, c.kv, c.key, &messages)
	if err != nil {
		return nil, err
	}
	if !found || len(messages) == 0 {
		messages = []models.ChatMessage{c.message(models.SenderBot, c.assistant.Greeting(), nil)}
	}
	return messages, nil
}

// Ask stores the user's message and returns the reply to deliver later.
func (c *ChatStore) Ask(ctx context.Context, text string) (models.ChatMessage, Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, Reply{}, invalid("text", "message is required")
	}
	msg := c.message(models.SenderUser, text, nil)
	if err := c.append(ctx, msg); err != nil {
		return models.ChatMessage{}, Reply{}, err
	}
	return msg, c.assistant.Respond(text), nil
}

// Deliver stores the bot message for reply.
func (c *ChatStore) Deliver(ctx context.Context, reply Reply) (models.ChatMessage, error) {
	msg := c.message(models.SenderBot, reply.Text, reply.Action)
	if err := c.append(ctx, msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// ApplyAction runs an assistant action button: it creates the action's
// tasks and appends the confirmation.
func (c *ChatStore) ApplyAction(ctx context.Context, actionID string) ([]models.AcademicTask, models.ChatMessage, error) {
	action, ok := c.script.Action(actionID)
	if !ok || c.tasks == nil {
		return nil, models.ChatMessage{}, ErrUnknownAction
	}

	created, err := c.tasks.AddGenerated(ctx, action.Tasks)
	if err != nil {
		return nil, models.ChatMessage{}, err
	}
	msg, err := c.Deliver(ctx, Reply{Text: action.Confirmation})
	if err != nil {
		return created, models.ChatMessage{}, err
	}
	return created, msg, nil
}

// Clear drops the transcript. The greeting comes back on next read.
func (c *ChatStore) Clear(ctx context.Context) error {
	return c.kv.Remove(ctx, c.key)
}

func (c *ChatStore) append(ctx context.Context, msg models.ChatMessage) error {
	messages, err := c.Transcript(ctx)
	if err != nil {
		return err
	}
	messages = append(messages, msg)
	return storage.SaveJSON(ctx, c.kv, c.key, messages)
}

func (c *ChatStore) message(sender models.ChatSender, text string, action *models.ChatAction) models.ChatMessage {
	return models.ChatMessage{
		ID:        c.ids.NextString(),
		Sender:    sender,
		Text:      text,
		Timestamp: c.clock.Now(),
		Action:    action,
	}
}

// Converse runs one exchange with persona. The user message is stored, the
// profile is released during the typing pause, then the reply is stored. If
// ctx ends before the reply is stored, the transcript ends with the user
// message.
func (r *Registry) Converse(ctx context.Context, userID string, persona models.Persona, text string) (user, bot models.ChatMessage, err error) {
	var reply Reply
	err = r.With(ctx, userID, func(p *Profile) error {
		chat, err := p.Chat(persona)
		if err != nil {
			return err
		}
		user, reply, err = chat.Ask(ctx, text)
		return err
	})
	if err != nil {
		return user, bot, err
	}

	if err := Typing(ctx, r.opts.TypingDelay); err != nil {
		return user, bot, err
	}

	err = r.With(ctx, userID, func(p *Profile) error {
		chat, err := p.Chat(persona)
		if err != nil {
			return err
		}
		bot, err = chat.Deliver(ctx, reply)
		return err
	})
	return user, bot, err
}
