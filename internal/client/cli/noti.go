package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/quillhq/quill/internal/common"
)

// Notifications lists the stored notifications, unseen ones marked with *.
func (a *App) Notifications(ctx context.Context) error {
	events, err := a.session.API().NotificationList(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			printlnFn("Sign in to see your notifications.")
			return nil
		}
		printlnFn("error:", err.Error())
		return err
	}

	if len(events) == 0 {
		printlnFn("No notifications.")
		return nil
	}
	for _, e := range events {
		marker := " "
		if !e.Seen {
			marker = "*"
		}
		printfFn("%s %4d  %-10s %q\n", marker, e.ID, e.Type, e.Post.Title)
	}
	return nil
}

// NotificationsOn opens the real-time stream. Pushed notifications print
// above the prompt until the stream is closed.
func (a *App) NotificationsOn(ctx context.Context) error {
	if err := a.session.OpenNotifications(ctx); err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn("Real-time notifications on.")
	return nil
}

// NotificationsOff closes the real-time stream.
func (a *App) NotificationsOff(ctx context.Context) error {
	a.session.CloseNotifications()
	printlnFn("Real-time notifications off.")
	return nil
}

// NotificationsClear marks every notification seen server-side.
func (a *App) NotificationsClear(ctx context.Context) error {
	if err := a.session.API().MarkAllNotificationsSeen(ctx); err != nil {
		printlnFn("error:", err.Error())
		return err
	}
	printlnFn("All notifications marked seen.")
	return nil
}

// Open follows a pushed notification by its ID: it acknowledges the
// notification and prints the post location.
func (a *App) Open(ctx context.Context, idArg string) error {
	id, err := strconv.ParseInt(idArg, 10, 64)
	if err != nil {
		printlnFn("Usage: open <notification-id>")
		return err
	}

	slug, ok := a.session.ActivateNotification(ctx, id)
	if !ok {
		printlnFn("No such notification.")
		return nil
	}
	printlnFn("/post/" + slug)
	return nil
}
