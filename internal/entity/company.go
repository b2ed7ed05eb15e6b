package entity

import "time"

// Company is the tenant account ("empresa") that owns leads, chats and the distribution list.
type Company struct {
	ID         int64     `json:"id"`
	Name       string    `json:"nome"`
	Address    *string   `json:"endereco,omitempty"`
	Phone      *string   `json:"telefone,omitempty"`
	WPPToken   *string   `json:"token_wpp,omitempty"`
	GatewayURL *string   `json:"url_uazapi,omitempty"`
	Areas      []string  `json:"areas"`
	CreatedAt  time.Time `json:"created_at"`
}

// GatewayCredentials authenticates calls to the tenant's WhatsApp gateway instance.
type GatewayCredentials struct {
	Token   string
	BaseURL string
}
