package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateProgressCache invalidates all progress-related caches for a record
func InvalidateProgressCache(ctx context.Context, cm *CacheManager, progressID uint, studentID string) {
	// Delete specific keys using single call
	SafeDelete(ctx, cm.Progress,
		fmt.Sprintf("id:%d", progressID))

	// Invalidate patterns
	SafeInvalidatePattern(ctx, cm.Progress, fmt.Sprintf("student:%s:*", studentID))
	SafeInvalidatePattern(ctx, cm.Progress, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("student:%s:*", studentID))
}

// InvalidateContentCache invalidates all content caches for an activity
func InvalidateContentCache(ctx context.Context, cm *CacheManager, activityID, stageID uint) {
	SafeDelete(ctx, cm.Content, fmt.Sprintf("activity:%d", activityID))
	SafeInvalidatePattern(ctx, cm.Content, fmt.Sprintf("stage:%d:*", stageID))
	SafeInvalidatePattern(ctx, cm.Content, "list:*")
}
