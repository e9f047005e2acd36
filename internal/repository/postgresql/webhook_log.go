package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type webhookLogRepository struct {
	db *database.DB
}

// NewWebhookLogRepository stores one row per notification delivery attempt.
func NewWebhookLogRepository(db *database.DB) notification.DeliveryLogRepository {
	return &webhookLogRepository{db: db}
}

// Create implements notification.DeliveryLogRepository.
func (r *webhookLogRepository) Create(ctx context.Context, log notification.DeliveryLog) error {
	q := GetQuerier(ctx, r.db)

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	payloadJSON, err := json.Marshal(log.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery payload: %w", err)
	}

	query := `
		INSERT INTO webhook_logs (id, event, destination, target, success, status_code, error, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = q.Exec(ctx, query,
		log.ID,
		string(log.Event),
		string(log.Destination),
		log.Target,
		log.Success,
		log.StatusCode,
		log.Error,
		payloadJSON,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook log: %w", err)
	}
	return nil
}

// List implements notification.DeliveryLogRepository.
func (r *webhookLogRepository) List(ctx context.Context, filter notification.DeliveryLogFilter) ([]notification.DeliveryLog, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	var args []interface{}
	argIdx := 1

	if filter.Event != nil && *filter.Event != "" {
		where += fmt.Sprintf(" AND event = $%d", argIdx)
		args = append(args, *filter.Event)
		argIdx++
	}
	if filter.Destination != nil && *filter.Destination != "" {
		where += fmt.Sprintf(" AND destination = $%d", argIdx)
		args = append(args, *filter.Destination)
		argIdx++
	}
	if filter.Success != nil {
		where += fmt.Sprintf(" AND success = $%d", argIdx)
		args = append(args, *filter.Success)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM webhook_logs WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count webhook logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, event, destination, target, success, status_code, error, payload, created_at
		FROM webhook_logs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query webhook logs: %w", err)
	}
	defer rows.Close()

	var logs []notification.DeliveryLog
	for rows.Next() {
		var (
			log         notification.DeliveryLog
			event       string
			destination string
			payloadJSON []byte
		)
		if err := rows.Scan(
			&log.ID, &event, &destination, &log.Target, &log.Success,
			&log.StatusCode, &log.Error, &payloadJSON, &log.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan webhook log: %w", err)
		}
		log.Event = notification.Event(event)
		log.Destination = notification.DestinationKind(destination)
		if len(payloadJSON) > 0 {
			if err := json.Unmarshal(payloadJSON, &log.Payload); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal webhook log payload: %w", err)
			}
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
