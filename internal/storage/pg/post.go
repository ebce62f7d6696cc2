package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/domain"
)

const postColumns = "id, thread_id, forum_id, author_id, content, likes, dislikes, " +
	"edited, edited_at, created_at, updated_at"

func scanPost(row interface{ Scan(...any) error }, p *domain.Post) error {
	return row.Scan(&p.Id, &p.ThreadId, &p.ForumId, &p.AuthorId, &p.Content,
		&p.Likes, &p.Dislikes, &p.Edited, &p.EditedAt, &p.CreatedAt, &p.UpdatedAt)
}

func (s *Storage) Post(ctx context.Context, postId domain.PostId) (domain.Post, error) {
	var post domain.Post
	err := scanPost(s.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = $1", postId), &post)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, apperr.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to fetch post: %w", err)
	}
	return post, nil
}

func (s *Storage) ThreadPost(ctx context.Context, threadId domain.ThreadId, postId domain.PostId) (domain.Post, error) {
	var post domain.Post
	err := scanPost(s.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id = $1 AND thread_id = $2",
		postId, threadId), &post)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, apperr.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to fetch post: %w", err)
	}
	return post, nil
}

func (s *Storage) LatestPost(ctx context.Context, threadId domain.ThreadId) (domain.Post, error) {
	var post domain.Post
	err := scanPost(s.db.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE thread_id = $1 ORDER BY id DESC LIMIT 1",
		threadId), &post)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, apperr.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to fetch latest post: %w", err)
	}
	return post, nil
}

// OpeningPostId derives the thread's opening post as the lowest id in
// the thread; there is no stored flag. MIN over an empty thread yields a
// NULL row, not ErrNoRows.
func (s *Storage) OpeningPostId(ctx context.Context, threadId domain.ThreadId) (domain.PostId, error) {
	var postId sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MIN(id) FROM posts WHERE thread_id = $1", threadId).Scan(&postId)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch opening post id: %w", err)
	}
	if !postId.Valid {
		return 0, apperr.NotFound("Post not found")
	}
	return postId.Int64, nil
}

// InsertReply appends a new post and bumps the forum and thread counters
// in one transaction.
func (s *Storage) InsertReply(ctx context.Context, data domain.ReplyData) (domain.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var post domain.Post
	err = scanPost(tx.QueryRowContext(ctx, `
        INSERT INTO posts (thread_id, forum_id, author_id, content)
        VALUES ($1, $2, $3, $4)
        RETURNING `+postColumns,
		data.ThreadId, data.ForumId, data.AuthorId, data.Content), &post)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE forums SET posts = posts + 1, updated_at = NOW() AT TIME ZONE 'utc'
        WHERE id = $1`, data.ForumId)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to update forum counters: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE threads
        SET posts = posts + 1,
            new_post_at = NOW() AT TIME ZONE 'utc',
            edited_post_at = NOW() AT TIME ZONE 'utc',
            updated_at = NOW() AT TIME ZONE 'utc'
        WHERE id = $1`, data.ThreadId)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to update thread counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Post{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return post, nil
}

// MergeIntoPost appends addition to an existing post's content and marks
// it edited; the owning thread's edited_post_at moves in the same
// transaction. No counters change.
func (s *Storage) MergeIntoPost(ctx context.Context, postId domain.PostId, addition string) (domain.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var post domain.Post
	err = scanPost(tx.QueryRowContext(ctx, `
        UPDATE posts
        SET content = content || $2,
            edited = TRUE,
            edited_at = NOW() AT TIME ZONE 'utc',
            updated_at = NOW() AT TIME ZONE 'utc'
        WHERE id = $1
        RETURNING `+postColumns, postId, addition), &post)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, apperr.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to merge into post: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE threads SET edited_post_at = NOW() AT TIME ZONE 'utc'
        WHERE id = $1`, post.ThreadId)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to touch thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Post{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return post, nil
}

// UpdatePost replaces a post's content; a non-nil topic also renames the
// owning thread in the same transaction.
func (s *Storage) UpdatePost(ctx context.Context, postId domain.PostId, content string, topic *string) (domain.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var post domain.Post
	err = scanPost(tx.QueryRowContext(ctx, `
        UPDATE posts
        SET content = $2,
            edited = TRUE,
            edited_at = NOW() AT TIME ZONE 'utc',
            updated_at = NOW() AT TIME ZONE 'utc'
        WHERE id = $1
        RETURNING `+postColumns, postId, content), &post)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, apperr.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to update post: %w", err)
	}

	if topic != nil {
		_, err = tx.ExecContext(ctx, `
            UPDATE threads SET name = $2, slug = $3, updated_at = NOW() AT TIME ZONE 'utc'
            WHERE id = $1`, post.ThreadId, *topic, slug.Make(*topic))
		if err != nil {
			return domain.Post{}, fmt.Errorf("failed to rename thread: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE threads SET edited_post_at = NOW() AT TIME ZONE 'utc'
        WHERE id = $1`, post.ThreadId)
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to touch thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Post{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return post, nil
}

func (s *Storage) CountEarlierPosts(ctx context.Context, threadId domain.ThreadId, postId domain.PostId) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE thread_id = $1 AND id < $2",
		threadId, postId).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count earlier posts: %w", err)
	}
	return count, nil
}

func (s *Storage) PostsByAuthor(ctx context.Context, authorId domain.UserId, page, perPage int) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE author_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3",
		authorId, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts by author: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var post domain.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (s *Storage) PostCountByAuthor(ctx context.Context, authorId domain.UserId) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts WHERE author_id = $1", authorId).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts by author: %w", err)
	}
	return count, nil
}
