package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schedulehub/schedulehub/internal/config"
	"github.com/schedulehub/schedulehub/internal/domain/activity"
	"github.com/schedulehub/schedulehub/internal/domain/schedule"
	"github.com/schedulehub/schedulehub/internal/domain/user"
	"github.com/schedulehub/schedulehub/internal/http/middlewares"
	"github.com/schedulehub/schedulehub/internal/utils"
)

type ScheduleCreator interface {
	Create(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.Schedule, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type ActivityPager interface {
	ListBySchedule(ctx context.Context, scheduleID int64, limit, offset int) ([]activity.Activity, error)
	CountForSchedule(ctx context.Context, scheduleID int64) (int, error)
}

type SchedulesHandler struct {
	schedules  ScheduleCreator
	users      UserGetter
	activities ActivityPager
}

func NewSchedulesHandler(schedules ScheduleCreator, users UserGetter, activities ActivityPager) *SchedulesHandler {
	return &SchedulesHandler{
		schedules:  schedules,
		users:      users,
		activities: activities,
	}
}

// the schedule plus its windowed activity list, serialized as one object
type scheduleWithActivities struct {
	schedule.Schedule
	Activities []activity.Activity `json:"activities"`
}

func (h *SchedulesHandler) CreateSchedule(ctx *gin.Context) {
	var req schedule.CreateScheduleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	// the owner must exist before anything is written

	_, err := h.users.GetByID(cctx, req.UserID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not create schedule")
		return
	}

	sched, err := h.schedules.Create(cctx, req)

	if err != nil {
		if errors.Is(err, schedule.ErrDuplicateName) {
			RespondBadRequest(ctx, "A schedule with this name already exists for this user", nil)
			return
		}

		RespondInternal(ctx, "Could not create schedule")
		return
	}

	ctx.JSON(http.StatusCreated, sched)
}

func (h *SchedulesHandler) GetSchedule(ctx *gin.Context) {
	sched, ok := middlewares.ScheduleFromContext(ctx)

	if !ok {
		RespondInternal(ctx, "Could not fetch schedule")
		return
	}

	page, limit := utils.ParsePageLimit(ctx.Query("page"), ctx.Query("limit"))
	offset := utils.Offset(page, limit)

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	acts, err := h.activities.ListBySchedule(cctx, sched.ScheduleID, limit, offset)

	if err != nil {
		RespondInternal(ctx, "Could not fetch schedule")
		return
	}

	total, err := h.activities.CountForSchedule(cctx, sched.ScheduleID)

	if err != nil {
		RespondInternal(ctx, "Could not fetch schedule")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"schedule": scheduleWithActivities{
			Schedule:   sched,
			Activities: acts,
		},
		"pagination": utils.NewPagination(page, limit, total),
	})
}
