package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/domain"
)

// ApplyVote records a thumb for (post, voter) and moves the post
// counters in the same transaction. A repeated vote in the same
// direction changes nothing; an opposite vote flips the row and both
// counters.
func (s *Storage) ApplyVote(ctx context.Context, postId domain.PostId, voterId domain.UserId, thumb int) (domain.VoteResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.VoteResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRowContext(ctx,
		"SELECT thumb FROM post_thumbs WHERE post_id = $1 AND user_id = $2 FOR UPDATE",
		postId, voterId).Scan(&existing)

	var result domain.VoteResult
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			"INSERT INTO post_thumbs (post_id, user_id, thumb) VALUES ($1, $2, $3)",
			postId, voterId, thumb)
		if err != nil {
			return domain.VoteResult{}, fmt.Errorf("failed to insert thumb: %w", err)
		}
		err = tx.QueryRowContext(ctx, `
            UPDATE posts
            SET likes = likes + CASE WHEN $2 = 1 THEN 1 ELSE 0 END,
                dislikes = dislikes + CASE WHEN $2 = -1 THEN 1 ELSE 0 END,
                updated_at = NOW() AT TIME ZONE 'utc'
            WHERE id = $1
            RETURNING likes, dislikes`, postId, thumb).Scan(&result.Likes, &result.Dislikes)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.VoteResult{}, apperr.NotFound("Post not found")
			}
			return domain.VoteResult{}, fmt.Errorf("failed to update vote counters: %w", err)
		}
		result.Changed = true

	case err != nil:
		return domain.VoteResult{}, fmt.Errorf("failed to read thumb: %w", err)

	case existing == thumb:
		err = tx.QueryRowContext(ctx,
			"SELECT likes, dislikes FROM posts WHERE id = $1", postId).
			Scan(&result.Likes, &result.Dislikes)
		if err != nil {
			return domain.VoteResult{}, fmt.Errorf("failed to read vote counters: %w", err)
		}

	default:
		_, err = tx.ExecContext(ctx,
			"UPDATE post_thumbs SET thumb = $3 WHERE post_id = $1 AND user_id = $2",
			postId, voterId, thumb)
		if err != nil {
			return domain.VoteResult{}, fmt.Errorf("failed to flip thumb: %w", err)
		}
		err = tx.QueryRowContext(ctx, `
            UPDATE posts
            SET likes = likes + CASE WHEN $2 = 1 THEN 1 ELSE -1 END,
                dislikes = dislikes + CASE WHEN $2 = -1 THEN 1 ELSE -1 END,
                updated_at = NOW() AT TIME ZONE 'utc'
            WHERE id = $1
            RETURNING likes, dislikes`, postId, thumb).Scan(&result.Likes, &result.Dislikes)
		if err != nil {
			return domain.VoteResult{}, fmt.Errorf("failed to update vote counters: %w", err)
		}
		result.Changed = true
	}

	if err := tx.Commit(); err != nil {
		return domain.VoteResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}
