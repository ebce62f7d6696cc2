package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/domain"
)

const threadColumns = "id, category_id, forum_id, author_id, name, slug, posts, views, " +
	"locked, pinned, new_post_at, edited_post_at, created_at, updated_at"

func scanThread(row interface{ Scan(...any) error }, t *domain.Thread) error {
	return row.Scan(&t.Id, &t.CategoryId, &t.ForumId, &t.AuthorId, &t.Name, &t.Slug,
		&t.Posts, &t.Views, &t.Locked, &t.Pinned, &t.NewPostAt, &t.EditedPostAt,
		&t.CreatedAt, &t.UpdatedAt)
}

func (s *Storage) Thread(ctx context.Context, categoryId domain.CategoryId, forumId domain.ForumId, threadId domain.ThreadId) (domain.Thread, error) {
	var thread domain.Thread
	err := scanThread(s.db.QueryRowContext(ctx,
		"SELECT "+threadColumns+" FROM threads WHERE id = $1 AND category_id = $2 AND forum_id = $3",
		threadId, categoryId, forumId), &thread)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, apperr.NotFound("Thread not found")
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread: %w", err)
	}
	return thread, nil
}

func (s *Storage) ThreadById(ctx context.Context, threadId domain.ThreadId) (domain.Thread, error) {
	var thread domain.Thread
	err := scanThread(s.db.QueryRowContext(ctx,
		"SELECT "+threadColumns+" FROM threads WHERE id = $1", threadId), &thread)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, apperr.NotFound("Thread not found")
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread: %w", err)
	}
	return thread, nil
}

func (s *Storage) ForumThreads(ctx context.Context, forumId domain.ForumId, page, perPage int) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+threadColumns+" FROM threads WHERE forum_id = $1 "+
			"ORDER BY pinned DESC, new_post_at DESC LIMIT $2 OFFSET $3",
		forumId, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		var thread domain.Thread
		if err := scanThread(rows, &thread); err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, thread)
	}
	return threads, rows.Err()
}

// CreateThread inserts the thread and its opening post and bumps the
// forum counters, all in one transaction. No partial state is ever
// visible.
func (s *Storage) CreateThread(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var thread domain.Thread
	err = scanThread(tx.QueryRowContext(ctx, `
        INSERT INTO threads (category_id, forum_id, author_id, name, slug, posts, views)
        VALUES ($1, $2, $3, $4, $5, 0, 0)
        RETURNING `+threadColumns,
		data.CategoryId, data.ForumId, data.AuthorId, data.Name, data.Slug), &thread)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to insert thread: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO posts (thread_id, forum_id, author_id, content)
        VALUES ($1, $2, $3, $4)`,
		thread.Id, data.ForumId, data.AuthorId, data.Content)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to insert opening post: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        UPDATE forums
        SET threads = threads + 1, posts = posts + 1,
            updated_at = NOW() AT TIME ZONE 'utc'
        WHERE id = $1`, data.ForumId)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to update forum counters: %w", err)
	}

	err = scanThread(tx.QueryRowContext(ctx, `
        UPDATE threads
        SET posts = posts + 1,
            new_post_at = NOW() AT TIME ZONE 'utc',
            edited_post_at = NOW() AT TIME ZONE 'utc'
        WHERE id = $1
        RETURNING `+threadColumns, thread.Id), &thread)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to update thread counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Thread{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return thread, nil
}

func (s *Storage) ThreadPosts(ctx context.Context, threadId domain.ThreadId, page, perPage int) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE thread_id = $1 ORDER BY id LIMIT $2 OFFSET $3",
		threadId, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
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

func (s *Storage) BumpThreadViews(ctx context.Context, threadId domain.ThreadId) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE threads SET views = views + 1 WHERE id = $1", threadId)
	if err != nil {
		return fmt.Errorf("failed to bump views: %w", err)
	}
	return nil
}

func (s *Storage) SetThreadPinned(ctx context.Context, threadId domain.ThreadId, pinned bool) error {
	return s.setThreadFlag(ctx, threadId, "pinned", pinned)
}

func (s *Storage) SetThreadLocked(ctx context.Context, threadId domain.ThreadId, locked bool) error {
	return s.setThreadFlag(ctx, threadId, "locked", locked)
}

func (s *Storage) setThreadFlag(ctx context.Context, threadId domain.ThreadId, column string, value bool) error {
	// column is one of the two fixed flag names, never user input
	result, err := s.db.ExecContext(ctx,
		"UPDATE threads SET "+column+" = $1, updated_at = NOW() AT TIME ZONE 'utc' WHERE id = $2",
		value, threadId)
	if err != nil {
		return fmt.Errorf("failed to update thread %s: %w", column, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("Thread not found")
	}
	return nil
}

func (s *Storage) ThreadsByAuthor(ctx context.Context, authorId domain.UserId, page, perPage int) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+threadColumns+" FROM threads WHERE author_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3",
		authorId, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads by author: %w", err)
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		var thread domain.Thread
		if err := scanThread(rows, &thread); err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, thread)
	}
	return threads, rows.Err()
}

func (s *Storage) ThreadCountByAuthor(ctx context.Context, authorId domain.UserId) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM threads WHERE author_id = $1", authorId).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count threads by author: %w", err)
	}
	return count, nil
}
