package dto

// UpdateStatusRequest moves a lead to another board column.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

// UpdateStatusResponse echoes the stored stage.
type UpdateStatusResponse struct {
	ID      int64  `json:"id"`
	Stage   string `json:"stage"`
	Literal string `json:"status"`
}

// AutomationRequest hands a conversation to the agent or to a human.
type AutomationRequest struct {
	Phone   string `json:"phone" validate:"required,max=32"`
	Enabled *bool  `json:"enabled" validate:"required"`
}
