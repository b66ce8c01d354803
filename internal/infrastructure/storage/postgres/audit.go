package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"innkeep/internal/core/id"
	appctx "innkeep/internal/core/context"
	"innkeep/internal/domain/audit"
	"innkeep/pkg/logger"
)

// CompressionAlgo specifies the compression applied to the details payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is one persisted audit row.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            string          `db:"action"`
	UserID            string          `db:"user_id"`
	Details           json.RawMessage `db:"details"`
	DetailsCompressed []byte          `db:"details_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

var _ audit.Sink = (*AuditStore)(nil)

// AuditStore persists workflow audit events to sys_audit. Large detail
// payloads are zstd-compressed. Record never returns an error to the
// caller; the workflow outcome is already committed by the time events
// arrive here, so failures are logged and dropped.
type AuditStore struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewAuditStore creates a new audit store.
func NewAuditStore(txManager *TxManager) (*AuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditStore{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record implements audit.Sink.
func (s *AuditStore) Record(ctx context.Context, event audit.Event) {
	if err := s.insert(ctx, event); err != nil {
		logger.Error(ctx, "audit record failed",
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
			"action", event.Action,
			"error", err,
		)
	}
}

func (s *AuditStore) insert(ctx context.Context, event audit.Event) error {
	entry := AuditEntry{
		ID:              id.New(),
		EntityType:      event.EntityType,
		EntityID:        event.EntityID,
		Action:          string(event.Action),
		UserID:          event.UserID,
		CompressionAlgo: CompressionNone,
		CreatedAt:       event.OccurredAt,
	}
	if entry.UserID == "" {
		entry.UserID = appctx.GetUserID(ctx)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if len(event.Details) > 0 {
		details, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		if len(details) > s.compressThreshold {
			entry.DetailsCompressed = s.encoder.EncodeAll(details, nil)
			entry.CompressionAlgo = CompressionZstd
		} else {
			entry.Details = details
		}
	}

	sql := `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, user_id,
			details, details_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.ID, entry.EntityType, entry.EntityID, entry.Action, entry.UserID,
		entry.Details, entry.DetailsCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	return err
}

// GetEntityHistory retrieves audit history for an entity, newest first.
func (s *AuditStore) GetEntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]AuditEntry, error) {
	sql := `
		SELECT id, entity_type, entity_id, action, user_id,
		       details, details_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.UserID,
			&e.Details, &e.DetailsCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.DetailsCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.DetailsCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress details: %w", err)
			}
			e.Details = decompressed
			e.DetailsCompressed = nil
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
