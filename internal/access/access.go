// Package access holds the capability and visibility policy. Services
// never look at roles directly; they ask the Checker by named capability
// with an optional target resource.
package access

import (
	"context"

	"github.com/forumkit/forumkit/internal/domain"
	"github.com/forumkit/forumkit/internal/logger"
)

type Checker interface {
	Can(ctx context.Context, actor domain.Actor, capability domain.Capability, target any) bool
}

type Storage interface {
	IsModerator(ctx context.Context, userId domain.UserId, forumId domain.ForumId) (bool, error)
}

// RBAC backs the Checker with the moderators table and the admin flag
// carried in the actor's token.
type RBAC struct {
	storage Storage
}

func NewRBAC(storage Storage) *RBAC {
	return &RBAC{storage: storage}
}

func (r *RBAC) Can(ctx context.Context, actor domain.Actor, capability domain.Capability, target any) bool {
	if actor.Guest {
		return false
	}
	if actor.Admin {
		return true
	}

	switch capability {
	case domain.CapCreateThread, domain.CapCreatePost:
		return true
	case domain.CapUpdateThread:
		thread, ok := target.(*domain.Thread)
		if !ok {
			return false
		}
		return r.isModerator(ctx, actor.Id, thread.ForumId)
	case domain.CapUpdatePost:
		post, ok := target.(*domain.Post)
		if !ok {
			return false
		}
		return r.isModerator(ctx, actor.Id, post.ForumId)
	case domain.CapUpdateOwnPost:
		post, ok := target.(*domain.Post)
		if !ok {
			return false
		}
		return post.AuthorId == actor.Id
	}
	return false
}

// storage failures deny; a policy check must not grant on error
func (r *RBAC) isModerator(ctx context.Context, userId domain.UserId, forumId domain.ForumId) bool {
	mod, err := r.storage.IsModerator(ctx, userId, forumId)
	if err != nil {
		logger.Log.Error("moderator lookup failed", "user_id", userId, "forum_id", forumId, "error", err)
		return false
	}
	return mod
}

// CanSeeCategory gates invisible categories from guests. Applied at
// every read path, not just listings.
func CanSeeCategory(actor domain.Actor, category *domain.Category) bool {
	return category.Visible || actor.Authenticated()
}

// CanSeeForum gates invisible forums from guests.
func CanSeeForum(actor domain.Actor, forum *domain.Forum) bool {
	return forum.Visible || actor.Authenticated()
}
