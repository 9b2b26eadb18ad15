package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
)

// KeyAuthToken holds the raw bearer token so outbound calls can forward it.
const KeyAuthToken CtxKey = "AuthToken"

// KeyClientIP carries the caller's address for per-IP limits on in-process calls.
const KeyClientIP CtxKey = "ClientIP"
