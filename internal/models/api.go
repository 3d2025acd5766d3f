// Package models defines the request/response shapes of the HTTP surface.
package models

// APIStatus indicates the outcome class of an API call.
type APIStatus string

const (
	APIStatusOK    APIStatus = "ok"
	APIStatusError APIStatus = "error"
)

// APIResponse is the JSON envelope used by non-streaming endpoints.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}

// ChatRequest is the body of the text generation endpoint. A streamed
// plain-text body is returned on success; failures are JSON {"error": ...}.
type ChatRequest struct {
	Message             string                `json:"message"`
	ConversationHistory []ConversationMessage `json:"conversationHistory,omitempty"`
	Model               string                `json:"model,omitempty"`
	Temperature         *float64              `json:"temperature,omitempty"`
	MaxTokens           int                   `json:"max_tokens,omitempty"`
}

// ErrorBody is the JSON failure body of both generation endpoints.
type ErrorBody struct {
	Error string `json:"error"`
}

// ImageDimensions is a target pixel size for image generation.
type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ImageGenerateRequest is the body of the image generation endpoint.
// TipoPublicacao carries the Instagram publication-type answer so the server
// can pick dimensions; Model overrides the per-action model table and is set
// for custom flows.
type ImageGenerateRequest struct {
	Prompt         string `json:"prompt"`
	ActionType     string `json:"actionType"`
	TipoPublicacao string `json:"tipoPublicacao,omitempty"`
	Model          string `json:"model,omitempty"`
}

// ImageGenerateResponse is the success body of the image generation
// endpoint.
type ImageGenerateResponse struct {
	ImageURL   string           `json:"imageUrl"`
	RequestID  string           `json:"requestId"`
	Timings    map[string]any   `json:"timings,omitempty"`
	Dimensions *ImageDimensions `json:"dimensions,omitempty"`
}

// CustomActionRequest is the creation body for a user-authored quick
// action, mirroring the builder form.
type CustomActionRequest struct {
	Title    string               `json:"title"`
	WorkType WorkType             `json:"workType"`
	Fields   []CustomFieldRequest `json:"fields"`
}

// CustomFieldRequest is one authored question with its options.
type CustomFieldRequest struct {
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// FlowStartRequest starts a guided flow by wire-format action type
// ("instagram-image", "custom-<id>", ...).
type FlowStartRequest struct {
	Type string `json:"type"`
}

// FlowRespondRequest records an answer for the current question.
type FlowRespondRequest struct {
	Value string `json:"value"`
}

// FlowMessageRequest feeds freeform text into a flow after completion,
// driving the modification paths.
type FlowMessageRequest struct {
	Content string `json:"content"`
}
