package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// LogAuditEvent logs a structured audit event for moderation and ownership changes.
//
// Args:
//   - action: The action performed (e.g., "approve", "toggle_visibility", "delete")
//   - userID: The user performing the action (empty for anonymous callers)
//   - resourceType: The type of resource (e.g., "biodata", "favorite")
//   - resourceID: The ID of the resource
//   - result: AuditSuccess or AuditFailure
//   - details: Optional additional details
func LogAuditEvent(
	ctx context.Context,
	action, userID, resourceType, resourceID, result string,
	details map[string]any,
) {
	LoggerFromContext(ctx).Info("Audit event",
		zap.String("audit.action", action),
		zap.String("audit.user_id", userID),
		zap.String("audit.resource_type", resourceType),
		zap.String("audit.resource_id", resourceID),
		zap.String("audit.result", result),
		zap.Any("audit.details", details),
	)
}
