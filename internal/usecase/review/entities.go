package review

import "driver-license-portal/internal/usecase/view"

type DecisionInput struct {
	ApplicationID string
	Action        string
	ReviewNotes   *string
	AdminID       string
}

type BatchInput struct {
	ApplicationIDs []string
	Action         string
	ReviewNotes    *string
	AdminID        string
}

type Summary struct {
	Requested    int `json:"requested"`
	Updated      int `json:"updated"`
	Skipped      int `json:"skipped"`
	EmailsSent   int `json:"emailsSent"`
	EmailsFailed int `json:"emailsFailed"`
}

type BatchResult struct {
	Applications []view.ApplicationDTO
	Summary      Summary
}

type ListInput struct {
	Status     string
	NationalID string
	Limit      int
	Offset     int
}
