package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"swap-service/internal/models"
)

var ErrSwapNotFound = errors.New("swap request not found")

// DeleteBatchSize bounds how many child rows are removed per delete statement
// so a single operation never grows past provider write limits.
const DeleteBatchSize = 50

// SwapRepository abstracts swap-request persistence.
type SwapRepository interface {
	GetSwapRequest(ctx context.Context, id string) (models.SwapRequest, error)
	CreateSwapMessage(ctx context.Context, swapID, senderUID, body string) (models.SwapMessage, error)
	ListSwapMessages(ctx context.Context, limit int) ([]models.SwapMessage, error)
	TouchPresence(ctx context.Context, swapID, userUID string) error
	DeleteSwapRequestTree(ctx context.Context, swapID string) error
}

// SwapRepo is a sqlx implementation of SwapRepository.
type SwapRepo struct {
	db *sqlx.DB
}

// NewSwapRepo constructs a SwapRepo.
func NewSwapRepo(db *sqlx.DB) *SwapRepo {
	return &SwapRepo{db: db}
}

// GetSwapRequest fetches a swap request by id.
func (r *SwapRepo) GetSwapRequest(ctx context.Context, id string) (models.SwapRequest, error) {
	var swap models.SwapRequest
	err := r.db.GetContext(ctx, &swap, `SELECT id, requester_uid, responder_uid, listing_id, created_at
        FROM swap_requests WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SwapRequest{}, ErrSwapNotFound
	}
	return swap, err
}

// CreateSwapMessage stores a message in a swap conversation.
func (r *SwapRepo) CreateSwapMessage(ctx context.Context, swapID, senderUID, body string) (models.SwapMessage, error) {
	var msg models.SwapMessage
	err := r.db.QueryRowxContext(ctx, `INSERT INTO swap_messages (swap_id, sender_uid, body)
        VALUES ($1, $2, $3) RETURNING id, swap_id, sender_uid, body, created_at`,
		swapID, senderUID, body).
		Scan(&msg.ID, &msg.SwapID, &msg.SenderUID, &msg.Body, &msg.CreatedAt)
	return msg, err
}

// ListSwapMessages returns the most recent messages for the admin view.
func (r *SwapRepo) ListSwapMessages(ctx context.Context, limit int) ([]models.SwapMessage, error) {
	var msgs []models.SwapMessage
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, swap_id, sender_uid, body, created_at
        FROM swap_messages ORDER BY created_at DESC LIMIT $1`, limit)
	return msgs, err
}

// TouchPresence upserts the caller's presence row for a swap conversation.
func (r *SwapRepo) TouchPresence(ctx context.Context, swapID, userUID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO swap_presence (swap_id, user_uid, last_seen_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (swap_id, user_uid) DO UPDATE SET last_seen_at = NOW()`, swapID, userUID)
	return err
}

// DeleteSwapRequestTree removes a swap request and both of its child tables.
// Each child table is drained in id-ordered batches of DeleteBatchSize rows,
// one transaction per batch, before the parent row itself is deleted. The
// operation is atomic per batch only: a failure mid-drain leaves a partially
// deleted subtree behind.
func (r *SwapRepo) DeleteSwapRequestTree(ctx context.Context, swapID string) error {
	for _, table := range []string{"swap_messages", "swap_presence"} {
		if err := r.drainChildTable(ctx, table, swapID); err != nil {
			return fmt.Errorf("drain %s: %w", table, err)
		}
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM swap_requests WHERE id=$1`, swapID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSwapNotFound
	}
	return nil
}

// drainChildTable loops fetch-then-delete until the table holds no more rows
// for the swap. Ordering by id only gives the enumeration a stable order; it
// carries no meaning for callers.
func (r *SwapRepo) drainChildTable(ctx context.Context, table, swapID string) error {
	fetch := fmt.Sprintf(`SELECT id FROM %s WHERE swap_id=$1 ORDER BY id LIMIT $2`, table)
	del := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, table)

	for {
		var ids []int64
		if err := r.db.SelectContext(ctx, &ids, fetch, swapID, DeleteBatchSize); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, del, pq.Array(ids)); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
}
