package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskRequalifyInquiry = "inquiries.requalify"

type RequalifyInquiryPayload struct {
	InquiryID string `json:"inquiryId"`
}

func NewRequalifyInquiryTask(payload RequalifyInquiryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRequalifyInquiry, data), nil
}

func ParseRequalifyInquiryPayload(task *asynq.Task) (RequalifyInquiryPayload, error) {
	var payload RequalifyInquiryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RequalifyInquiryPayload{}, err
	}
	return payload, nil
}
