package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutcomeEvent 工作終態寫入後對外發佈的通知
type OutcomeEvent struct {
	JobID           string          `json:"job_id"`
	Kind            JobKind         `json:"kind"`
	Platform        Platform        `json:"platform"`
	PlayerRef       string          `json:"player_ref"`
	Amount          decimal.Decimal `json:"amount"`
	BonusID         string          `json:"bonus_id,omitempty"`
	Status          string          `json:"status"`
	ConfirmationRef string          `json:"confirmation_ref,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	Attempts        int             `json:"attempts"`
	OccurredAt      time.Time       `json:"occurred_at"`
}
