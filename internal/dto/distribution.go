package dto

// DistributionRequest creates a distribution contact, or updates it when ID is set.
type DistributionRequest struct {
	ID         int64  `json:"id" validate:"omitempty,min=1"`
	Name       string `json:"nome" validate:"required,max=200"`
	Phone      string `json:"telefone" validate:"required,max=32"`
	SheetURL   string `json:"link_planilha" validate:"omitempty,url,max=1000"`
	DailyLimit int    `json:"limite_dia" validate:"omitempty,min=1,max=10000"`
}
