package cli

import (
	"context"
	"errors"
	"os"

	"github.com/quillhq/quill/internal/common"
)

// Dashboard shows the author counters plus the author's posts and latest
// comments.
func (a *App) Dashboard(ctx context.Context) error {
	gw := a.session.API()

	stats, err := gw.DashboardStats(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			printlnFn("Sign in to see your dashboard.")
			return nil
		}
		printlnFn("error:", err.Error())
		return err
	}
	printfFn("views %d  posts %d  likes %d  bookmarks %d\n\n", stats.Views, stats.Posts, stats.Likes, stats.Bookmarks)

	posts, err := gw.DashboardPostList(ctx)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn("Your posts:")
	printPostList(posts)

	comments, err := gw.DashboardCommentList(ctx)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	if len(comments) > 0 {
		printlnFn("\nLatest comments:")
		for _, c := range comments {
			printfFn("%s (%s): %s\n", c.Name, c.Date.Format("2 Jan"), c.Comment)
		}
	}
	return nil
}

// Compose asks the writing assistant for a draft based on a prompt.
func (a *App) Compose(ctx context.Context) error {
	prompt, err := GetMultiline(a.reader, "What should the draft be about?", os.Stdout)
	if err != nil {
		return err
	}
	if prompt == "" {
		printlnFn("Nothing to do.")
		return nil
	}

	draft, err := a.session.API().GenerateContent(ctx, prompt)
	if err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn(draft.Content)
	return nil
}
