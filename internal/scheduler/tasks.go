package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFollowUpReminder = "followups.reminder"

const TaskFollowUpDigest = "followups.digest"

type FollowUpReminderPayload struct {
	LeadID string `json:"leadId"`
}

type FollowUpDigestPayload struct {
	Limit int `json:"limit"`
}

func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpReminder, data), nil
}

func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, err
	}
	return payload, nil
}

func NewFollowUpDigestTask(payload FollowUpDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpDigest, data), nil
}

func ParseFollowUpDigestPayload(task *asynq.Task) (FollowUpDigestPayload, error) {
	var payload FollowUpDigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpDigestPayload{}, err
	}
	return payload, nil
}
