package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUploadLimited      EventType = "upload_limited"
	EventUploadRejected     EventType = "upload_rejected"
	EventMalwareDetected    EventType = "malware_detected"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventValidationFailed   EventType = "validation_failed"
)

// eventLevels derives the log level from the event type, never from the caller.
var eventLevels = map[EventType]zapcore.Level{
	EventRateLimitTriggered: zapcore.WarnLevel,
	EventUploadLimited:      zapcore.WarnLevel,
	EventValidationFailed:   zapcore.WarnLevel,
	EventUploadRejected:     zapcore.WarnLevel,
	EventUnauthorizedAccess: zapcore.ErrorLevel,
	EventMalwareDetected:    zapcore.ErrorLevel,
}

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "ip", "user_id"
	SubjectValue string                 `json:"subject_value,omitempty"` // hashed for user ids
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultLogger *SecurityLogger
	defaultOnce   sync.Once
)

// NewSecurityLogger wraps an existing zap logger (tests use zaptest/observer).
func NewSecurityLogger(zapLogger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: zapLogger, serviceName: serviceName, environment: environment}
}

// InitSecurityLogger builds the production zap logger and makes it the default.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// stdout for container environments
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	sl := NewSecurityLogger(logger, serviceName, environment)
	defaultLogger = sl
	return sl
}

// DefaultLogger returns the default security logger instance
func DefaultLogger() *SecurityLogger {
	defaultOnce.Do(func() {
		if defaultLogger == nil {
			InitSecurityLogger("netch-backend", getEnvironment())
		}
	})
	return defaultLogger
}

// Log logs a security event
func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	level, ok := eventLevels[event.Event]
	if !ok {
		level = zapcore.WarnLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogUploadLimited logs a resume upload denied by the per-user/IP limiter
func (sl *SecurityLogger) LogUploadLimited(ctx context.Context, userID, ip string, retryAfter int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUploadLimited,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           ip,
		Details:      map[string]interface{}{"retry_after_seconds": retryAfter},
	})
}

// LogUploadRejected logs a file whose content does not match an allowed resume type
func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, userID, ip, fileName, detectedMIME, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUploadRejected,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           ip,
		Details: map[string]interface{}{
			"file_name":     fileName,
			"detected_mime": detectedMIME,
			"reason":        reason,
		},
	})
}

// LogMalwareDetected logs a file flagged by the antivirus scanner
func (sl *SecurityLogger) LogMalwareDetected(ctx context.Context, userID, ip, fileName, scanner, threat string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventMalwareDetected,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           ip,
		Details: map[string]interface{}{
			"file_name": fileName,
			"scanner":   scanner,
			"threat":    threat,
		},
	})
}

// LogUnauthorizedAccess logs an attempt to act on another user's onboarding
func (sl *SecurityLogger) LogUnauthorizedAccess(ctx context.Context, callerID, targetID, action string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUnauthorizedAccess,
		SubjectType:  "user_id",
		SubjectValue: HashValue(callerID),
		Details: map[string]interface{}{
			"target": HashValue(targetID),
			"action": action,
		},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func getEnvironment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
