package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/quillhq/quill/internal/client/api"
	"github.com/quillhq/quill/internal/common"
)

// Posts lists the published posts.
func (a *App) Posts(ctx context.Context) error {
	posts, err := a.session.API().PostList(ctx)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printPostList(posts)
	return nil
}

// Search filters the post listing by a case-insensitive match against title
// and description. The backend has no search endpoint; filtering is local.
func (a *App) Search(ctx context.Context, query string) error {
	posts, err := a.session.API().PostList(ctx)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}

	q := strings.ToLower(query)
	var matched []api.Post
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		printlnFn("No posts match", query)
		return nil
	}
	printPostList(matched)
	return nil
}

// Read shows a single post by slug.
func (a *App) Read(ctx context.Context, slug string) error {
	p, err := a.session.API().PostDetail(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No post with slug", slug)
			return nil
		}
		printlnFn("error:", err.Error())
		return err
	}

	printfFn("%s\n", p.Title)
	if p.Author != nil {
		printfFn("by %s, %s\n", p.Author.FullName, p.Date.Format("2 Jan 2006"))
	}
	printfFn("%d views, %d likes\n\n", p.View, p.LikesCount)
	printlnFn(p.Description)
	return nil
}

// Like likes a post by slug. The like endpoint wants the numeric post ID, so
// the post is resolved first.
func (a *App) Like(ctx context.Context, slug string) error {
	p, err := a.session.API().PostDetail(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No post with slug", slug)
			return nil
		}
		printlnFn("error:", err.Error())
		return err
	}

	msg, err := a.session.API().LikePost(ctx, p.ID)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn(msg.Message)
	return nil
}

// Bookmark toggles a bookmark on a post by slug.
func (a *App) Bookmark(ctx context.Context, slug string) error {
	p, err := a.session.API().PostDetail(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No post with slug", slug)
			return nil
		}
		printlnFn("error:", err.Error())
		return err
	}

	msg, err := a.session.API().BookmarkPost(ctx, p.ID)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn(msg.Message)
	return nil
}

// Comment leaves a comment on a post by slug. Name and email come from the
// signed-in session.
func (a *App) Comment(ctx context.Context, slug string) error {
	s, err := a.session.Session(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		printlnFn("Sign in to comment.")
		return nil
	}

	p, err := a.session.API().PostDetail(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No post with slug", slug)
			return nil
		}
		printlnFn("error:", err.Error())
		return err
	}

	text, err := GetMultiline(a.reader, "Your comment", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		printlnFn("Nothing to do.")
		return nil
	}

	msg, err := a.session.API().CommentPost(ctx, p.ID, s.Username, s.Email, text)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn(msg.Message)
	return nil
}

// Categories lists the post categories.
func (a *App) Categories(ctx context.Context) error {
	cats, err := a.session.API().CategoryList(ctx)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	for _, c := range cats {
		printfFn("%-24s %s (%d posts)\n", c.Slug, c.Title, c.PostCount)
	}
	return nil
}

func printPostList(posts []api.Post) {
	for _, p := range posts {
		printfFn("%-32s %-48q %d views, %d likes\n", p.Slug, p.Title, p.View, p.LikesCount)
	}
}
