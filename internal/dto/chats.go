package dto

// SendMessageRequest is a text message to post in a chat.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4096"`
}
