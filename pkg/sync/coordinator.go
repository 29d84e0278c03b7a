package sync

import (
	"context"
	"time"

	"member-access-be/internal/entity"
	"member-access-be/internal/pkg/logger"
	"member-access-be/pkg/provider/community"
	"member-access-be/pkg/provider/course"
)

// Coordinator drives the external side of an access grant. Every call is
// bounded by its own timeout and produces a SyncResult instead of an
// error: provider failures are recorded next to the ledger change, never
// allowed to undo it.
type Coordinator struct {
	community community.Provider
	course    course.Provider
	timeout   time.Duration
	log       logger.ILogger
}

func NewCoordinator(communityProvider community.Provider, courseProvider course.Provider, timeout time.Duration, log logger.ILogger) *Coordinator {
	return &Coordinator{
		community: communityProvider,
		course:    courseProvider,
		timeout:   timeout,
		log:       log,
	}
}

func (c *Coordinator) GrantCommunity(ctx context.Context, memberRef, clubId string, durationDays int, source string) entity.SyncResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.community.Grant(ctx, memberRef, clubId, durationDays, source); err != nil {
		c.log.Warn("sync", "community grant failed", map[string]interface{}{
			"member_ref": memberRef,
			"club_id":    clubId,
			"error":      err.Error(),
		})
		return entity.SyncResult{Success: false, Error: err.Error()}
	}
	return entity.SyncResult{Success: true}
}

func (c *Coordinator) RevokeCommunity(ctx context.Context, memberRef, clubId, reason string) entity.SyncResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.community.Revoke(ctx, memberRef, clubId, reason); err != nil {
		c.log.Warn("sync", "community revoke failed", map[string]interface{}{
			"member_ref": memberRef,
			"club_id":    clubId,
			"error":      err.Error(),
		})
		return entity.SyncResult{Success: false, Error: err.Error()}
	}
	return entity.SyncResult{Success: true}
}

func (c *Coordinator) EnrollCourse(ctx context.Context, orderRef, email, offerId, tariffCode string) entity.SyncResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.course.Enroll(ctx, orderRef, email, offerId, tariffCode); err != nil {
		c.log.Warn("sync", "course enroll failed", map[string]interface{}{
			"order_ref": orderRef,
			"email":     email,
			"offer_id":  offerId,
			"error":     err.Error(),
		})
		return entity.SyncResult{Success: false, Error: err.Error()}
	}
	return entity.SyncResult{Success: true}
}

func (c *Coordinator) CancelCourse(ctx context.Context, orderRef, reason string) entity.SyncResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.course.Cancel(ctx, orderRef, reason); err != nil {
		c.log.Warn("sync", "course cancel failed", map[string]interface{}{
			"order_ref": orderRef,
			"error":     err.Error(),
		})
		return entity.SyncResult{Success: false, Error: err.Error()}
	}
	return entity.SyncResult{Success: true}
}
