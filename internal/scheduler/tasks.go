// Package scheduler moves queued work through asynq: the dispatcher
// claims due outbox rows and enqueues delivery tasks, the worker executes
// them, and the sweeper flips past-due invoices to overdue.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskNotificationDeliver = "notification.outbox.deliver"

// deliverMaxRetry bounds redelivery attempts for one outbox row.
const deliverMaxRetry = 5

type NotificationDeliverPayload struct {
	OutboxID       string `json:"outboxId"`
	OrganizationID string `json:"organizationId"`
}

func NewNotificationDeliverTask(payload NotificationDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationDeliver, data, asynq.MaxRetry(deliverMaxRetry)), nil
}

func ParseNotificationDeliverPayload(task *asynq.Task) (NotificationDeliverPayload, error) {
	var payload NotificationDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationDeliverPayload{}, err
	}
	return payload, nil
}
