package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type FeedCostRunResponse struct {
	ID             string          `json:"id"`
	Trigger        string          `json:"trigger"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     *time.Time      `json:"finished_at"`
	Processed      int             `json:"processed"`
	Skipped        int             `json:"skipped"`
	TotalIncrement decimal.Decimal `json:"total_increment"`
	SameDayRepeat  bool            `json:"same_day_repeat"`
}

type DeadLetterResponse struct {
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

type DeadLetterListResponse struct {
	Total int64                `json:"total"`
	Items []DeadLetterResponse `json:"items"`
}

type RequeueResponse struct {
	Requeued int `json:"requeued"`
}
