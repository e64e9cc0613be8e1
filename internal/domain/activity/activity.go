package activity

import (
	"errors"
	"time"
)

type Activity struct {
	ActivityID int64     `json:"activityId"`
	ScheduleID int64     `json:"scheduleId"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("activity not found")

// raised by the per-item re-check inside a bulk write
var ErrMissingFields = errors.New("missing required fields in one or more activities")

type CreateActivityRequest struct {
	Name      string    `json:"name" binding:"required,min=1,max=100"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtefield=StartDate"`
}

type BulkCreateActivitiesRequest struct {
	Activities []CreateActivityRequest `json:"activities" binding:"required,min=1,dive"`
}

// CheckRequired re-verifies the fields the schema already validated. Bulk
// inserts run this on every element inside the transaction before touching
// the activities table, so a malformed element can never leave a partial
// batch behind.
func (r CreateActivityRequest) CheckRequired() error {
	if r.Name == "" || r.StartDate.IsZero() || r.EndDate.IsZero() {
		return ErrMissingFields
	}

	return nil
}
