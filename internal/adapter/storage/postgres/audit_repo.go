package postgres

import (
	"context"
	"fmt"

	"delivery-escrow/internal/core/domain"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a PostgreSQL-backed audit repository.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create inserts an audit log outside any escrow transaction.
func (r *AuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	var actor *string
	if log.Actor != nil {
		s := log.Actor.String()
		actor = &s
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, actor, action, resource_type, resource_id, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, '')::jsonb, $7, $8)`,
		log.ID, actor, string(log.Action), log.ResourceType,
		log.ResourceID, log.Details, log.IPAddress, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
