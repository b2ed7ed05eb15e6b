package entity

import "time"

// DefaultDailyLimit is the per-day lead cap applied to new distribution contacts.
const DefaultDailyLimit = 10

// DistributionContact is a downstream client number that receives qualified leads.
type DistributionContact struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"id_numero"`
	Name         string    `json:"nome"`
	Phone        string    `json:"telefone"`
	SheetURL     string    `json:"link_planilha"`
	DailyLimit   int       `json:"limite_dia"`
	LeadsToday   int       `json:"leads_hoje"`
	LeadsTotal   int       `json:"leads_total"`
	LimitReached bool      `json:"atingiu_limite"`
	CreatedAt    time.Time `json:"created_at"`
}
