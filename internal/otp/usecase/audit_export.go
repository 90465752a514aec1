package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/goerror"
	"github.com/nimbusheet/otpgate/internal/pkg/idempotency"
	"github.com/nimbusheet/otpgate/internal/pkg/storage"
)

const auditExportPageSize int32 = 1_000

type (
	AuditExportInput struct {
		DateFrom time.Time `validate:"required"`
		DateTo   time.Time `validate:"required"`
	}

	AuditExportOutput struct {
		Bucket string
		Key    string
		Count  int
	}

	auditExportLine struct {
		ID           int64          `json:"id"`
		Action       string         `json:"action"`
		Resource     string         `json:"resource"`
		PhoneNumber  string         `json:"phone_number"`
		ActorAddress string         `json:"actor_address"`
		Success      bool           `json:"success"`
		Details      map[string]any `json:"details,omitempty"`
		OccurredAt   time.Time      `json:"occurred_at"`
	}
)

// AuditExport writes the audit trail for a date range to object storage as
// newline-delimited JSON. Concurrent exports of the same range collapse into
// one upload.
func (s *Usecase) AuditExport(ctx context.Context, in AuditExportInput) (*AuditExportOutput, error) {
	ctx, span := s.startSpan(ctx, "AuditExport")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if in.DateTo.Before(in.DateFrom) {
		return nil, goerror.NewBusiness("date range end is before start", goerror.CodeInvalidInput)
	}

	bucket := s.cfg.GetString("modules.otp.audit_export_bucket")
	key := fmt.Sprintf("audit-exports/%s/%s.ndjson", in.DateFrom.Format("2006-01-02"), s.oid.Generate())

	var out *AuditExportOutput

	idemKey := fmt.Sprintf("otp:audit-export:%d:%d", in.DateFrom.Unix(), in.DateTo.Unix())
	err := s.idempotency.Exec(ctx, idemKey, func(ctx context.Context) error {
		events, err := s.collectAuditEvents(ctx, in.DateFrom, in.DateTo)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		for _, ev := range events {
			if err := enc.Encode(auditExportLine{
				ID:           ev.ID,
				Action:       ev.Action.String(),
				Resource:     ev.Resource,
				PhoneNumber:  ev.PhoneNumber,
				ActorAddress: ev.ActorAddress,
				Success:      ev.Success,
				Details:      ev.Details,
				OccurredAt:   ev.OccurredAt,
			}); err != nil {
				return err
			}
		}

		if _, err := s.storage.PutObject(ctx, bucket, key, &buf, storage.PutOptions{
			Size:        int64(buf.Len()),
			ContentType: "application/x-ndjson",
		}); err != nil {
			return err
		}

		out = &AuditExportOutput{Bucket: bucket, Key: key, Count: len(events)}

		return nil
	})
	if errors.Is(err, idempotency.ErrAlreadyInProgress) || errors.Is(err, idempotency.ErrAlreadyCompleted) {
		return nil, goerror.NewBusiness("an export for this range already ran", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to export audit events", "error", err)
		return nil, goerror.NewServer(err)
	}

	return out, nil
}

func (s *Usecase) collectAuditEvents(ctx context.Context, from, to time.Time) ([]entity.AuditEvent, error) {
	var (
		all  []entity.AuditEvent
		page int32
	)

	for {
		events, err := s.repoDB.GetAuditEvents(ctx, entity.AuditFilterData{
			DateFrom: from,
			DateTo:   to,
			Size:     auditExportPageSize,
			Page:     page,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, events...)

		if int32(len(events)) < auditExportPageSize {
			break
		}

		page++
	}

	return lo.Reverse(all), nil
}
