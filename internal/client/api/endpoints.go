package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/quillhq/quill/internal/client/auth"
	"github.com/quillhq/quill/internal/client/notifications"
	"github.com/quillhq/quill/internal/common"
)

// Login exchanges credentials for a token pair. Persisting the pair is the
// session manager's job, not the gateway's.
func (g *Gateway) Login(ctx context.Context, username, password string) (*auth.TokenPair, error) {
	var pair auth.TokenPair
	err := g.Do(ctx, http.MethodPost, "/user/token/", map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	if err != nil {
		return nil, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return nil, fmt.Errorf("login: %w", common.ErrMalformedResponse)
	}
	return &pair, nil
}

// Register creates a new account. The backend requires the password twice.
func (g *Gateway) Register(ctx context.Context, fullName, email, password string) error {
	return g.Do(ctx, http.MethodPost, "/user/register/", map[string]string{
		"full_name": fullName,
		"email":     email,
		"password":  password,
		"password2": password,
	}, nil)
}

func (g *Gateway) CategoryList(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := g.Do(ctx, http.MethodGet, "/post/category/list/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) PostList(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := g.Do(ctx, http.MethodGet, "/post/lists/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) CategoryPosts(ctx context.Context, categorySlug string) ([]Post, error) {
	var out []Post
	path := "/post/category/posts/" + url.PathEscape(categorySlug) + "/"
	if err := g.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) PostDetail(ctx context.Context, slug string) (*Post, error) {
	var out Post
	path := "/post/detail/" + url.PathEscape(slug) + "/"
	if err := g.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) LikePost(ctx context.Context, postID int64) (*Message, error) {
	var out Message
	err := g.Do(ctx, http.MethodPost, "/post/like-post/", map[string]int64{"post_id": postID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CommentPost leaves a reader comment. Name and email ride along because
// the backend accepts comments from readers without an account.
func (g *Gateway) CommentPost(ctx context.Context, postID int64, name, email, comment string) (*Message, error) {
	var out Message
	err := g.Do(ctx, http.MethodPost, "/post/comment-post/", map[string]any{
		"post_id": postID,
		"name":    name,
		"email":   email,
		"comment": comment,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BookmarkPost toggles a bookmark on the post.
func (g *Gateway) BookmarkPost(ctx context.Context, postID int64) (*Message, error) {
	var out Message
	err := g.Do(ctx, http.MethodPost, "/post/bookmark-post/", map[string]int64{"post_id": postID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateContent asks the AI assistant for a draft based on the prompt.
func (g *Gateway) GenerateContent(ctx context.Context, prompt string) (*GeneratedContent, error) {
	var out GeneratedContent
	err := g.Do(ctx, http.MethodPost, "/content/generate/", map[string]string{"prompt": prompt}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) DashboardStats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := g.Do(ctx, http.MethodGet, "/author/dashboard/stats/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) DashboardPostList(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := g.Do(ctx, http.MethodGet, "/author/dashboard/post-list/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway) DashboardCommentList(ctx context.Context) ([]Comment, error) {
	var out []Comment
	if err := g.Do(ctx, http.MethodGet, "/author/dashboard/comment-list/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NotificationList is the bulk fetch counterpart of the real-time channel.
func (g *Gateway) NotificationList(ctx context.Context) ([]notifications.Event, error) {
	var out []notifications.Event
	if err := g.Do(ctx, http.MethodGet, "/author/dashboard/noti-list/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationSeen acknowledges one notification server-side. It also
// satisfies notifications.Acker.
func (g *Gateway) MarkNotificationSeen(ctx context.Context, notiID int64) error {
	return g.Do(ctx, http.MethodPost, "/author/dashboard/noti-mark-seen/",
		map[string]int64{"noti_id": notiID}, nil)
}

func (g *Gateway) MarkAllNotificationsSeen(ctx context.Context) error {
	return g.Do(ctx, http.MethodPost, "/author/dashboard/noti-mark-all-seen/", nil, nil)
}
