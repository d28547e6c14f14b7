package automationrpc

import "time"

// SubmitJobRequest 後台送出的工作
// 存提款帶 Amount (十進位字串)，領取紅利帶 BonusId
type SubmitJobRequest struct {
	Kind        string `json:"kind"`
	Platform    string `json:"platform"`
	PlayerRef   string `json:"player_ref"`
	Amount      string `json:"amount,omitempty"`
	BonusId     string `json:"bonus_id,omitempty"`
	RequestedBy string `json:"requested_by"`
	Priority    string `json:"priority,omitempty"`
}

type SubmitJobResponse struct {
	JobId string `json:"job_id"`
}

type GetJobRequest struct {
	JobId string `json:"job_id"`
}

// Job 工作在佇列中的狀態
type Job struct {
	Id           string    `json:"id"`
	Kind         string    `json:"kind"`
	Platform     string    `json:"platform"`
	PlayerRef    string    `json:"player_ref"`
	Amount       string    `json:"amount,omitempty"`
	BonusId      string    `json:"bonus_id,omitempty"`
	RequestedBy  string    `json:"requested_by"`
	Priority     string    `json:"priority"`
	State        string    `json:"state"`
	AttemptCount int32     `json:"attempt_count"`
	LastError    string    `json:"last_error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type GetJobResponse struct {
	Job *Job `json:"job"`
}

type GetRecordRequest struct {
	JobId string `json:"job_id"`
}

type GetRecordResponse struct {
	JobId           string    `json:"job_id"`
	Kind            string    `json:"kind"`
	Status          string    `json:"status"`
	ConfirmationRef string    `json:"confirmation_ref,omitempty"`
	Note            string    `json:"note,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}
