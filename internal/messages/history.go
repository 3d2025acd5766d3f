// Package messages keeps the in-memory chat transcript for a session.
//
// The transcript is append-only with two narrow mutations: editing a
// message in place by ID (used to stream text into a placeholder) and
// removing a message by exact content (used to retract placeholders).
package messages

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/artefluxo/promptstudio/internal/models"
)

// History is a concurrency-safe ordered message list.
type History struct {
	mu       sync.Mutex
	messages []models.Message
	now      func() time.Time
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{now: time.Now}
}

func (h *History) append(msg models.Message) models.Message {
	msg.ID = uuid.New().String()
	msg.Timestamp = h.now()
	h.mu.Lock()
	h.messages = append(h.messages, msg)
	h.mu.Unlock()
	return msg
}

// AddUser appends a user message.
func (h *History) AddUser(content string) models.Message {
	return h.append(models.Message{Role: models.RoleUser, Content: content})
}

// AddAssistant appends an assistant message.
func (h *History) AddAssistant(content string) models.Message {
	return h.append(models.Message{Role: models.RoleAssistant, Content: content})
}

// AddSystem appends a guided system message, optionally carrying selectable
// options and the flow step it belongs to.
func (h *History) AddSystem(content string, options []string, questionIndex *int) models.Message {
	return h.append(models.Message{
		Role:          models.RoleSystem,
		Content:       content,
		Options:       options,
		QuestionIndex: questionIndex,
	})
}

// AddImage appends an assistant message carrying a generated image.
func (h *History) AddImage(content, imageURL string) models.Message {
	return h.append(models.Message{Role: models.RoleAssistant, Content: content, ImageURL: imageURL})
}

// EditByID replaces the content of the message with the given ID. It reports
// whether a message was found.
func (h *History) EditByID(id, content string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.messages {
		if h.messages[i].ID == id {
			h.messages[i].Content = content
			return true
		}
	}
	return false
}

// RemoveByContent removes the first message whose content matches exactly.
// It reports whether a message was removed.
func (h *History) RemoveByContent(content string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.messages {
		if h.messages[i].Content == content {
			h.messages = append(h.messages[:i], h.messages[i+1:]...)
			return true
		}
	}
	return false
}

// All returns a copy of the transcript in order.
func (h *History) All() []models.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

// Clear drops the whole transcript.
func (h *History) Clear() {
	h.mu.Lock()
	h.messages = nil
	h.mu.Unlock()
}

// conversational reports whether a message belongs in prior-history exports:
// user or assistant text, not an image card, not listed as excluded.
func conversational(msg models.Message, excluded map[string]struct{}) bool {
	if msg.Role != models.RoleUser && msg.Role != models.RoleAssistant {
		return false
	}
	if msg.Content == "" || msg.ImageURL != "" {
		return false
	}
	_, skip := excluded[msg.Content]
	return !skip
}

// Conversation exports up to limit recent conversational messages as
// role/content pairs, oldest first. Messages whose content appears in
// exclude are dropped; that is how transient placeholders stay out of the
// history sent upstream. limit <= 0 means no cap.
func (h *History) Conversation(limit int, exclude ...string) []models.ConversationMessage {
	excluded := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		excluded[c] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	var out []models.ConversationMessage
	for _, msg := range h.messages {
		if !conversational(msg, excluded) {
			continue
		}
		out = append(out, models.ConversationMessage{Role: string(msg.Role), Content: msg.Content})
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// FirstAssistant returns the earliest assistant text message not listed in
// exclude, reporting whether one exists.
func (h *History) FirstAssistant(exclude ...string) (models.Message, bool) {
	excluded := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		excluded[c] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, msg := range h.messages {
		if msg.Role != models.RoleAssistant || msg.Content == "" || msg.ImageURL != "" {
			continue
		}
		if _, skip := excluded[msg.Content]; skip {
			continue
		}
		return msg, true
	}
	return models.Message{}, false
}
