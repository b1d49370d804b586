package queue

import (
	"encoding/json"

	"github.com/Innovatio-dev/tof-checkout/internal/constants"

	"github.com/hibiken/asynq"
)

// TaskOrderStatusEmail notifies a customer that an order changed status.
const TaskOrderStatusEmail = constants.TaskOrderStatusEmail

// OrderStatusEmailPayload is the order status email task payload.
type OrderStatusEmailPayload struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderStatusEmailTask builds the order status email task.
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}
