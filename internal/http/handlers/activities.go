package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schedulehub/schedulehub/internal/config"
	"github.com/schedulehub/schedulehub/internal/domain/activity"
	"github.com/schedulehub/schedulehub/internal/http/middlewares"
)

type ActivityCreator interface {
	Create(ctx context.Context, scheduleID int64, req activity.CreateActivityRequest) (activity.Activity, error)
	BulkCreate(ctx context.Context, scheduleID int64, reqs []activity.CreateActivityRequest) ([]activity.Activity, error)
}

type ActivitiesHandler struct {
	repo ActivityCreator
}

func NewActivitiesHandler(repo ActivityCreator) *ActivitiesHandler {
	return &ActivitiesHandler{repo: repo}
}

// AddActivity attaches one activity to the guard-resolved schedule.
func (h *ActivitiesHandler) AddActivity(ctx *gin.Context) {
	sched, ok := middlewares.ScheduleFromContext(ctx)

	if !ok {
		RespondInternal(ctx, "Could not add activity")
		return
	}

	var req activity.CreateActivityRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	act, err := h.repo.Create(cctx, sched.ScheduleID, req)

	if err != nil {
		RespondInternal(ctx, "Could not add activity")
		return
	}

	ctx.JSON(http.StatusCreated, act)
}

// BulkAddActivities inserts the whole batch atomically: the repo re-checks
// every element before the first insert and rolls the transaction back on any
// failure, so a bad element never leaves part of the batch behind.
func (h *ActivitiesHandler) BulkAddActivities(ctx *gin.Context) {
	sched, ok := middlewares.ScheduleFromContext(ctx)

	if !ok {
		RespondInternal(ctx, "Could not add activities")
		return
	}

	var req activity.BulkCreateActivitiesRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	acts, err := h.repo.BulkCreate(cctx, sched.ScheduleID, req.Activities)

	if err != nil {
		if errors.Is(err, activity.ErrMissingFields) {
			RespondBadRequest(ctx, "Missing required fields in one or more activities", nil)
			return
		}

		RespondInternal(ctx, "Could not add activities")
		return
	}

	ctx.JSON(http.StatusCreated, acts)
}
