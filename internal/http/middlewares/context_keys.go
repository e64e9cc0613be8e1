package middlewares

type ctxKey string

const (
	CtxRequestID ctxKey = "requestID"
	CtxSchedule  ctxKey = "schedule"
)
