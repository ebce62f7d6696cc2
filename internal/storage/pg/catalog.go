package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forumkit/forumkit/internal/apperr"
	"github.com/forumkit/forumkit/internal/domain"
)

const categoryColumns = "id, name, slug, visible, sort, created_at, updated_at"
const forumColumns = "id, category_id, name, sub, slug, visible, sort, threads, posts, created_at, updated_at"

func scanCategory(row interface{ Scan(...any) error }, c *domain.Category) error {
	return row.Scan(&c.Id, &c.Name, &c.Slug, &c.Visible, &c.Sort, &c.CreatedAt, &c.UpdatedAt)
}

func scanForum(row interface{ Scan(...any) error }, f *domain.Forum) error {
	return row.Scan(&f.Id, &f.CategoryId, &f.Name, &f.Sub, &f.Slug, &f.Visible, &f.Sort,
		&f.Threads, &f.Posts, &f.CreatedAt, &f.UpdatedAt)
}

func (s *Storage) Categories(ctx context.Context, visibleOnly bool) ([]domain.Category, error) {
	query := "SELECT " + categoryColumns + " FROM categories"
	if visibleOnly {
		query += " WHERE visible"
	}
	query += " ORDER BY sort, id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := scanCategory(rows, &category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *Storage) Category(ctx context.Context, id domain.CategoryId) (domain.Category, error) {
	var category domain.Category
	err := scanCategory(s.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = $1", id), &category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, apperr.NotFound("Category not found")
		}
		return domain.Category{}, fmt.Errorf("failed to fetch category: %w", err)
	}
	return category, nil
}

func (s *Storage) Forums(ctx context.Context, categoryId domain.CategoryId, visibleOnly bool) ([]domain.Forum, error) {
	query := "SELECT " + forumColumns + " FROM forums WHERE category_id = $1"
	if visibleOnly {
		query += " AND visible"
	}
	query += " ORDER BY sort, id"

	rows, err := s.db.QueryContext(ctx, query, categoryId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forums: %w", err)
	}
	defer rows.Close()

	var forums []domain.Forum
	for rows.Next() {
		var forum domain.Forum
		if err := scanForum(rows, &forum); err != nil {
			return nil, fmt.Errorf("failed to scan forum: %w", err)
		}
		forums = append(forums, forum)
	}
	return forums, rows.Err()
}

func (s *Storage) Forum(ctx context.Context, categoryId domain.CategoryId, forumId domain.ForumId) (domain.Forum, error) {
	var forum domain.Forum
	err := scanForum(s.db.QueryRowContext(ctx,
		"SELECT "+forumColumns+" FROM forums WHERE id = $1 AND category_id = $2",
		forumId, categoryId), &forum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Forum{}, apperr.NotFound("Forum not found")
		}
		return domain.Forum{}, fmt.Errorf("failed to fetch forum: %w", err)
	}
	return forum, nil
}

func (s *Storage) TotalThreads(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM threads").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count threads: %w", err)
	}
	return count, nil
}

func (s *Storage) TotalPosts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func (s *Storage) IsModerator(ctx context.Context, userId domain.UserId, forumId domain.ForumId) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM moderators WHERE forum_id = $1 AND user_id = $2)",
		forumId, userId).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check moderator: %w", err)
	}
	return exists, nil
}

func (s *Storage) ForumModerators(ctx context.Context, forumId domain.ForumId) ([]domain.UserId, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM moderators WHERE forum_id = $1 ORDER BY user_id", forumId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch moderators: %w", err)
	}
	defer rows.Close()

	var moderators []domain.UserId
	for rows.Next() {
		var userId domain.UserId
		if err := rows.Scan(&userId); err != nil {
			return nil, fmt.Errorf("failed to scan moderator: %w", err)
		}
		moderators = append(moderators, userId)
	}
	return moderators, rows.Err()
}
