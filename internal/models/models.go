// Package models defines the core data structures for PromptStudio.
//
// It includes chat messages, quick action flow definitions, custom action
// records, and the API response envelope shared across modules.
package models

import (
	"errors"
	"strings"
	"time"
)

// WorkType categorizes the output a flow produces and selects the
// generation path used once the flow completes.
type WorkType string

const (
	WorkTypeImageGeneration  WorkType = "image-generation"
	WorkTypeCopyWriting      WorkType = "copy-writing"
	WorkTypeVideoGeneration  WorkType = "video-generation"
	WorkTypeDocumentAnalysis WorkType = "document-analysis"
	WorkTypeVoiceToText      WorkType = "voice-to-text"
)

// EnabledWorkTypes lists the work types users may pick when authoring a
// custom action. The remaining types exist in the model but have no
// generation backend yet.
var EnabledWorkTypes = []WorkType{WorkTypeImageGeneration, WorkTypeCopyWriting}

// IsEnabledWorkType reports whether wt may be used for new custom actions.
func IsEnabledWorkType(wt WorkType) bool {
	for _, enabled := range EnabledWorkTypes {
		if wt == enabled {
			return true
		}
	}
	return false
}

// ActionType identifies a built-in quick action.
type ActionType string

const (
	ActionNewConversation ActionType = "new-conversation"
	ActionInstagramImage  ActionType = "instagram-image"
	ActionReels           ActionType = "reels"
	ActionTikTokImage     ActionType = "tiktok-image"
	ActionTikTokVideo     ActionType = "tiktok-video"
	ActionPersonalize     ActionType = "personalize"
)

// FlowKind tags a FlowRef as built-in or user-authored.
type FlowKind string

const (
	FlowKindBuiltin FlowKind = "builtin"
	FlowKindCustom  FlowKind = "custom"
)

// customTypePrefix is the wire-format prefix marking a custom action type
// string, e.g. "custom-3f2a...". It only appears at the API boundary;
// internally flows are carried as a FlowRef.
const customTypePrefix = "custom-"

// FlowRef is the resolved identity of a flow: either a built-in action type
// or a custom action record ID. Downstream logic branches on Kind instead of
// re-inspecting prefixed strings.
type FlowRef struct {
	Kind     FlowKind   `json:"kind"`
	Type     ActionType `json:"type,omitempty"`
	CustomID string     `json:"custom_id,omitempty"`
}

// ParseFlowRef converts a wire-format action type string into a FlowRef.
func ParseFlowRef(raw string) FlowRef {
	if strings.HasPrefix(raw, customTypePrefix) {
		return FlowRef{Kind: FlowKindCustom, CustomID: strings.TrimPrefix(raw, customTypePrefix)}
	}
	return FlowRef{Kind: FlowKindBuiltin, Type: ActionType(raw)}
}

// String returns the wire-format action type for the ref.
func (r FlowRef) String() string {
	if r.Kind == FlowKindCustom {
		return customTypePrefix + r.CustomID
	}
	return string(r.Type)
}

// IsZero reports whether the ref identifies no flow.
func (r FlowRef) IsZero() bool {
	return r.Kind == "" || (r.Type == "" && r.CustomID == "")
}

// MessageRole tags the author of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message is a unit of chat history. Messages are append-only: they are
// edited in place by ID and removed only by exact content match, which is
// how transient placeholders get retracted.
type Message struct {
	ID            string      `json:"id"`
	Content       string      `json:"content"`
	Timestamp     time.Time   `json:"timestamp"`
	Role          MessageRole `json:"role"`
	Options       []string    `json:"options,omitempty"`        // selectable choices on guided system messages
	QuestionIndex *int        `json:"question_index,omitempty"` // ties a system message to its flow step
	ImageURL      string      `json:"image_url,omitempty"`      // set when the message carries a generated image
}

// ConversationMessage is the role/content pair sent as prior history to the
// text generation endpoint.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Validation constants for custom action input.
const (
	// MinOptionsPerField is the minimum number of labeled options a
	// multiple-choice field must carry.
	MinOptionsPerField = 2
	// MaxTitleLength bounds custom action titles.
	MaxTitleLength = 120
	// MaxQuestionLength bounds custom field question text.
	MaxQuestionLength = 500
)

// Error variables for validation failures, kept as sentinels for
// testability.
var (
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrTitleTooLong        = errors.New("title exceeds maximum length")
	ErrInvalidWorkType     = errors.New("work type is not enabled")
	ErrNoFields            = errors.New("at least one question field is required")
	ErrEmptyQuestion       = errors.New("question cannot be empty")
	ErrQuestionTooLong     = errors.New("question exceeds maximum length")
	ErrEmptyOptionLabel    = errors.New("option label cannot be empty")
	ErrInsufficientOptions = errors.New("at least two labeled options are required")
	ErrNoResponses         = errors.New("no responses collected for generation")
	ErrNoActiveFlow        = errors.New("no active flow")
	ErrEmptyMessage        = errors.New("message cannot be empty")
	ErrEmptyPrompt         = errors.New("prompt cannot be empty")
	ErrUnknownAction       = errors.New("unknown action type")
	ErrActionNotFound      = errors.New("custom action not found")
)
