package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
)

const createAuditEventQuery = `
INSERT INTO otp_audit_events (id, action, resource, phone_number, actor_address, success, details, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// CreateAuditEvent appends one event to the audit trail.
func (s *DB) CreateAuditEvent(ctx context.Context, ev entity.AuditEvent) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAuditEvent")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createAuditEventQuery,
		ev.ID,
		ev.Action.String(),
		ev.Resource,
		ev.PhoneNumber,
		ev.ActorAddress,
		ev.Success,
		ev.Details,
		ev.OccurredAt,
	)
	err = s.mapError(err)

	return err
}

// GetAuditEvents lists events matching the filter, newest first.
func (s *DB) GetAuditEvents(ctx context.Context, filter entity.AuditFilterData) (evs []entity.AuditEvent, err error) {
	ctx, span := s.startSpan(ctx, "GetAuditEvents")
	defer func() { s.endSpan(span, err) }()

	var (
		conds []string
		args  []any
	)

	addCond := func(expr string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if filter.PhoneNumber != "" {
		addCond("phone_number = $%d", filter.PhoneNumber)
	}
	if filter.Action != "" {
		addCond("action = $%d", filter.Action.String())
	}
	if filter.Success != nil {
		addCond("success = $%d", *filter.Success)
	}
	if !filter.DateFrom.IsZero() {
		addCond("occurred_at >= $%d", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		addCond("occurred_at <= $%d", filter.DateTo)
	}

	query := "SELECT id, action, resource, phone_number, actor_address, success, details, occurred_at FROM otp_audit_events"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at DESC"

	args = append(args, filter.Size)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Page*filter.Size)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ev     entity.AuditEvent
			action string
		)

		if err = rows.Scan(
			&ev.ID,
			&action,
			&ev.Resource,
			&ev.PhoneNumber,
			&ev.ActorAddress,
			&ev.Success,
			&ev.Details,
			&ev.OccurredAt,
		); err != nil {
			err = s.mapError(err)
			return nil, err
		}

		ev.Action = entity.AuditAction(action)
		evs = append(evs, ev)
	}

	if err = rows.Err(); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return evs, nil
}
