package dto

// ProfileRequest carries the editable company fields. Omitted fields are left untouched.
type ProfileRequest struct {
	Name       *string `json:"nome" validate:"omitempty,max=200"`
	Address    *string `json:"endereco" validate:"omitempty,max=500"`
	WPPToken   *string `json:"token_wpp" validate:"omitempty,max=500"`
	Phone      *string `json:"telefone" validate:"omitempty,max=32"`
	GatewayURL *string `json:"url_uazapi" validate:"omitempty,max=500"`
}
