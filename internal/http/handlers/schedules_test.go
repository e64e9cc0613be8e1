package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schedulehub/schedulehub/internal/domain/activity"
	"github.com/schedulehub/schedulehub/internal/domain/schedule"
	"github.com/schedulehub/schedulehub/internal/domain/user"
	"github.com/schedulehub/schedulehub/internal/http/handlers"
	"github.com/schedulehub/schedulehub/internal/http/middlewares"
	"github.com/schedulehub/schedulehub/internal/utils"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake repository implementations of the handler interfaces

type fakeSchedulesRepo struct {
	createFn func(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.Schedule, error)
}

func (f *fakeSchedulesRepo) Create(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.Schedule, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}

	return schedule.Schedule{}, nil
}

type fakeUsersRepo struct {
	getFn func(ctx context.Context, id int64) (user.User, error)
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}

	return user.User{UserID: id}, nil
}

type fakeActivitiesPager struct {
	listFn  func(ctx context.Context, scheduleID int64, limit, offset int) ([]activity.Activity, error)
	countFn func(ctx context.Context, scheduleID int64) (int, error)
}

func (f *fakeActivitiesPager) ListBySchedule(ctx context.Context, scheduleID int64, limit, offset int) ([]activity.Activity, error) {
	if f.listFn != nil {
		return f.listFn(ctx, scheduleID, limit, offset)
	}

	return []activity.Activity{}, nil
}

func (f *fakeActivitiesPager) CountForSchedule(ctx context.Context, scheduleID int64) (int, error) {
	if f.countFn != nil {
		return f.countFn(ctx, scheduleID)
	}

	return 0, nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func TestCreateScheduleHandler(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		body           string
		usersSetUp     func(*fakeUsersRepo)
		repoSetUp      func(*fakeSchedulesRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"userId": 1, "name": "Trip", "imageUrl": "http://example.com/image.jpg"}`,
			repoSetUp: func(f *fakeSchedulesRepo) {
				f.createFn = func(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.Schedule, error) {
					return schedule.Schedule{
						ScheduleID: 7,
						UserID:     req.UserID,
						Name:       req.Name,
						ImageURL:   req.ImageURL,
						CreatedAt:  now,
						UpdatedAt:  now,
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "missing_name",
			body: `{"userId": 1}`,
			// invalid request, neither repo should be called
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "missing_user_id",
			body: `{"name": "Trip"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "user_not_found",
			body: `{"userId": 9999, "name": "Trip"}`,
			usersSetUp: func(f *fakeUsersRepo) {
				f.getFn = func(ctx context.Context, id int64) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "duplicate_name",
			body: `{"userId": 1, "name": "Trip"}`,
			repoSetUp: func(f *fakeSchedulesRepo) {
				f.createFn = func(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.Schedule, error) {
					return schedule.Schedule{}, schedule.ErrDuplicateName
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"userId": 1, "name": "Trip"}`,
			repoSetUp: func(f *fakeSchedulesRepo) {
				f.createFn = func(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.Schedule, error) {
					return schedule.Schedule{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			schedulesRepo := &fakeSchedulesRepo{}
			usersRepo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(schedulesRepo)
			}
			if tt.usersSetUp != nil {
				tt.usersSetUp(usersRepo)
			}

			h := handlers.NewSchedulesHandler(schedulesRepo, usersRepo, &fakeActivitiesPager{})

			r := setupRouter(http.MethodPost, "/schedules", h.CreateSchedule)

			req := httptest.NewRequest(http.MethodPost, "/schedules", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusCreated {
				var created schedule.Schedule
				if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}

				if created.ScheduleID == 0 {
					t.Fatalf("expected a generated scheduleId, got %+v", created)
				}
				if created.UserID != 1 {
					t.Fatalf("owner mismatch: got %d, want 1", created.UserID)
				}
			}
		})
	}
}

type getScheduleResponse struct {
	Schedule struct {
		ScheduleID int64               `json:"scheduleId"`
		UserID     int64               `json:"userId"`
		Name       string              `json:"name"`
		Activities []activity.Activity `json:"activities"`
	} `json:"schedule"`
	Pagination utils.Pagination `json:"pagination"`
}

// mounts GetSchedule behind a stand-in for the ownership guard that attaches
// the given schedule

func setupGetScheduleRouter(sched schedule.Schedule, h *handlers.SchedulesHandler) *gin.Engine {
	r := gin.New()

	r.GET("/schedules/:scheduleId", func(c *gin.Context) {
		c.Set(middlewares.CtxSchedule, sched)
	}, h.GetSchedule)

	return r
}

func TestGetScheduleHandler(t *testing.T) {
	now := time.Now().UTC()

	sched := schedule.Schedule{
		ScheduleID: 3,
		UserID:     1,
		Name:       "Trip",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	makeActivities := func(n int) []activity.Activity {
		out := make([]activity.Activity, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, activity.Activity{
				ActivityID: int64(i + 1),
				ScheduleID: sched.ScheduleID,
				Name:       "Activity",
				StartDate:  now.Add(time.Duration(i) * time.Hour),
				EndDate:    now.Add(time.Duration(i+1) * time.Hour),
			})
		}
		return out
	}

	t.Run("paginates_with_defaults", func(t *testing.T) {
		var gotLimit, gotOffset int

		pager := &fakeActivitiesPager{
			listFn: func(ctx context.Context, scheduleID int64, limit, offset int) ([]activity.Activity, error) {
				gotLimit, gotOffset = limit, offset
				return makeActivities(10), nil
			},
			countFn: func(ctx context.Context, scheduleID int64) (int, error) {
				return 21, nil
			},
		}

		h := handlers.NewSchedulesHandler(&fakeSchedulesRepo{}, &fakeUsersRepo{}, pager)
		r := setupGetScheduleRouter(sched, h)

		req := httptest.NewRequest(http.MethodGet, "/schedules/3", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		if gotLimit != 10 || gotOffset != 0 {
			t.Fatalf("expected default window (10,0), got (%d,%d)", gotLimit, gotOffset)
		}

		var resp getScheduleResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if resp.Schedule.ScheduleID != sched.ScheduleID {
			t.Fatalf("scheduleId = %d, want %d", resp.Schedule.ScheduleID, sched.ScheduleID)
		}
		if len(resp.Schedule.Activities) != 10 {
			t.Fatalf("activities window = %d, want 10", len(resp.Schedule.Activities))
		}
		if resp.Pagination.TotalItems != 21 || resp.Pagination.TotalPages != 3 {
			t.Fatalf("unexpected pagination: %+v", resp.Pagination)
		}
		if resp.Pagination.CurrentPage != 1 || resp.Pagination.ItemsPerPage != 10 {
			t.Fatalf("unexpected pagination defaults: %+v", resp.Pagination)
		}
	})

	t.Run("explicit_page_and_limit", func(t *testing.T) {
		var gotLimit, gotOffset int

		pager := &fakeActivitiesPager{
			listFn: func(ctx context.Context, scheduleID int64, limit, offset int) ([]activity.Activity, error) {
				gotLimit, gotOffset = limit, offset
				return makeActivities(2), nil
			},
			countFn: func(ctx context.Context, scheduleID int64) (int, error) {
				return 12, nil
			},
		}

		h := handlers.NewSchedulesHandler(&fakeSchedulesRepo{}, &fakeUsersRepo{}, pager)
		r := setupGetScheduleRouter(sched, h)

		req := httptest.NewRequest(http.MethodGet, "/schedules/3?page=2&limit=5", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		if gotLimit != 5 || gotOffset != 5 {
			t.Fatalf("expected window (5,5), got (%d,%d)", gotLimit, gotOffset)
		}

		var resp getScheduleResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if resp.Pagination.TotalPages != 3 || resp.Pagination.CurrentPage != 2 {
			t.Fatalf("unexpected pagination: %+v", resp.Pagination)
		}
	})

	t.Run("empty_schedule", func(t *testing.T) {
		h := handlers.NewSchedulesHandler(&fakeSchedulesRepo{}, &fakeUsersRepo{}, &fakeActivitiesPager{})
		r := setupGetScheduleRouter(sched, h)

		req := httptest.NewRequest(http.MethodGet, "/schedules/3", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		var resp getScheduleResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if resp.Schedule.Activities == nil || len(resp.Schedule.Activities) != 0 {
			t.Fatalf("expected an empty activities array, got %+v", resp.Schedule.Activities)
		}
		if resp.Pagination.TotalItems != 0 {
			t.Fatalf("totalItems = %d, want 0", resp.Pagination.TotalItems)
		}
	})

	t.Run("list_error", func(t *testing.T) {
		pager := &fakeActivitiesPager{
			listFn: func(ctx context.Context, scheduleID int64, limit, offset int) ([]activity.Activity, error) {
				return nil, errors.New("db error")
			},
		}

		h := handlers.NewSchedulesHandler(&fakeSchedulesRepo{}, &fakeUsersRepo{}, pager)
		r := setupGetScheduleRouter(sched, h)

		req := httptest.NewRequest(http.MethodGet, "/schedules/3", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("got status %d, want 500", w.Code)
		}
	})
}
