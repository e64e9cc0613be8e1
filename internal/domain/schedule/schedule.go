package schedule

import (
	"errors"
	"time"
)

type Schedule struct {
	ScheduleID int64     `json:"scheduleId"`
	UserID     int64     `json:"userId"`
	Name       string    `json:"name"`
	ImageURL   *string   `json:"imageUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("schedule not found")

// a user cannot own two schedules with the same name
var ErrDuplicateName = errors.New("schedule name already exists for this user")

type CreateScheduleRequest struct {
	UserID   int64   `json:"userId" binding:"required,gt=0"`
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	ImageURL *string `json:"imageUrl" binding:"omitempty,uri,max=255"`
}
