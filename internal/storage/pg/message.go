package pg

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/forumkit/forumkit/internal/domain"
)

// SaveMessages batch-inserts moderation messages through COPY. All rows
// land or none do.
func (s *Storage) SaveMessages(ctx context.Context, messages []domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("messages",
		"sender_id", "receiver_id", "topic", "content",
		"sender_status", "receiver_status", "created_at", "updated_at"))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, m := range messages {
		_, err = stmt.ExecContext(ctx, m.SenderId, m.ReceiverId, m.Topic, m.Content,
			m.SenderStatus, m.ReceiverStatus, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("failed to buffer message: %w", err)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush messages: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
