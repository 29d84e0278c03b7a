package entity

import (
	"time"

	"github.com/google/uuid"
)

// Audit action names, namespaced by surface.
const (
	AuditActionGrantAccess     = "admin.grant_access"
	AuditActionCancel          = "admin.subscription.cancel"
	AuditActionResume          = "admin.subscription.resume"
	AuditActionExtend          = "admin.subscription.extend"
	AuditActionReactivate      = "admin.subscription.grant_access"
	AuditActionRevokeAccess    = "admin.subscription.revoke_access"
	AuditActionDelete          = "admin.subscription.delete"
	AuditActionToggleAutoRenew = "admin.subscription.toggle_auto_renew"
	AuditActionRefund          = "admin.subscription.refund"
)

// AuditRecord is an append-only snapshot of one admin-initiated state
// change. ActorId is nil for system-initiated transitions. Meta always
// carries enough identifiers (order id, subscription id) to reconstruct
// the transition.
type AuditRecord struct {
	Id           uuid.UUID
	ActorId      *uuid.UUID
	Action       string
	TargetUserId uuid.UUID
	Meta         map[string]interface{}
	CreatedAt    time.Time
}
