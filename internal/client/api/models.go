package api

import "time"

// Category groups posts on the public site.
type Category struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	PostCount int    `json:"post_count"`
}

// Author is the public profile attached to posts and comments.
type Author struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
}

// Post is a published article as the listing and detail endpoints return it.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Author      *Author   `json:"profile,omitempty"`
	Category    *Category `json:"category,omitempty"`
	View        int64     `json:"view"`
	LikesCount  int       `json:"likes_count"`
	Date        time.Time `json:"date"`
}

// Comment is a reader comment as the dashboard lists it.
type Comment struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Comment string    `json:"comment"`
	Reply   string    `json:"reply"`
	Date    time.Time `json:"date"`
}

// Stats is the author dashboard counters block.
type Stats struct {
	Views     int64 `json:"views"`
	Posts     int64 `json:"posts"`
	Likes     int64 `json:"likes"`
	Bookmarks int64 `json:"bookmarks"`
}

// Message is the generic `{"message": ...}` acknowledgment body several
// mutation endpoints return.
type Message struct {
	Message string `json:"message"`
}

// GeneratedContent is the AI assistant's response to a draft prompt.
type GeneratedContent struct {
	Content string `json:"content"`
}
