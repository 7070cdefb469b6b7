package reminder

import (
	"errors"
	"time"
)

var (
	ErrDebtorRequired  = errors.New("debtor id required")
	ErrDueDateRequired = errors.New("due date required")
)

// Reminder is a time-anchored record of a debt obligation. The JSON shape
// is the persisted record format and must stay stable across restarts.
//
// There is no stored "fired" state: firing is an external event, observed
// only by comparing DueDate with the current time.
type Reminder struct {
	ID            string    `json:"id"`
	DebtorID      string    `json:"debtorId"`
	DebtorName    string    `json:"debtorName"`
	Amount        int64     `json:"amount"` // dinars; debt arithmetic lives outside the engine
	DueDate       time.Time `json:"dueDate"`
	Message       string    `json:"message"`
	TriggerHandle string    `json:"externalTriggerHandle,omitempty"` // empty when no trigger registered
	Active        bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ScheduleInput carries the caller-supplied fields of a new reminder.
type ScheduleInput struct {
	DebtorID   string
	DebtorName string
	Amount     int64
	DueDate    time.Time
	Message    string
}
