package entity

import "time"

// CheckpointCount is the number of ordered funnel milestones tracked per lead.
const CheckpointCount = 12

// Lead is a prospect captured through a WhatsApp conversation.
type Lead struct {
	ID            int64                 `json:"id"`
	TenantID      int64                 `json:"tenant_id"`
	Name          *string               `json:"name,omitempty"`
	Phone         *string               `json:"phone,omitempty"`
	Status        string                `json:"status"`
	Area          *string               `json:"area,omitempty"`
	Summary       *string               `json:"summary,omitempty"`
	Checkpoints   [CheckpointCount]Flag `json:"checkpoints"`
	FollowUp1Sent Flag                  `json:"follow_up_1_sent"`
	FollowUp2Sent Flag                  `json:"follow_up_2_sent"`
	AIResponds    Flag                  `json:"ai_responds"`
	CreatedAt     time.Time             `json:"created_at"`
}

// AIEnabled reports whether the automated agent currently owns replies for the lead.
func (l Lead) AIEnabled() bool {
	return l.AIResponds.Truthy()
}
