package domain

import (
	"context"
	"errors"
	"log/slog"

	"photogram/modules/auth"
	"photogram/modules/entity"
)

// ListPosts returns one page of the feed, newest first. Next is empty on the
// last page.
func (app *Application) ListPosts(ctx context.Context, viewer auth.Principal, cursor string, limit int) (*Page, error) {
	switch {
	case limit < 0:
		return nil, ErrInvalidData
	case limit == 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	q := PostQuery{
		ViewerID:       viewer.UserID,
		IncludePrivate: isStaff(viewer),
		Limit:          limit + 1,
	}
	if cursor != "" {
		pivot, err := app.decodeCursor(cursor)
		if err != nil {
			slog.DebugContext(ctx, "cursor rejected", slog.Any("error", err))
			return nil, err
		}
		q.After = pivot
	}

	posts, err := app.reader.ListPosts(ctx, q)
	if err != nil {
		slog.ErrorContext(ctx, "persistence error", slog.Any("error", err))
		return nil, ErrUnhandled
	}

	page := &Page{Posts: posts}
	if len(posts) > limit {
		page.Posts = posts[:limit]
		next, err := app.encodeCursor(page.Posts[limit-1].Pivot())
		if err != nil {
			slog.ErrorContext(ctx, "cursor not signed", slog.Any("error", err))
			return nil, ErrUnhandled
		}
		page.Next = next
	}

	if err := app.attachComments(ctx, page.Posts); err != nil {
		return nil, err
	}
	return page, nil
}

// ListUserPosts returns every post of author the viewer may see.
func (app *Application) ListUserPosts(ctx context.Context, viewer auth.Principal, author entity.ID) ([]Post, error) {
	if author.IsNew() {
		return nil, ErrInvalidData
	}

	posts, err := app.reader.ListPosts(ctx, PostQuery{
		ViewerID:       viewer.UserID,
		AuthorID:       author,
		IncludePrivate: viewer.UserID == author || isStaff(viewer),
	})
	if err != nil {
		slog.ErrorContext(ctx, "persistence error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	if err := app.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost hides private posts from everyone but their author and staff.
func (app *Application) GetPost(ctx context.Context, viewer auth.Principal, id entity.ID) (*Post, error) {
	p, err := app.visiblePost(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	posts := []Post{*p}
	if err := app.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (app *Application) visiblePost(ctx context.Context, viewer auth.Principal, id entity.ID) (*Post, error) {
	if id.IsNew() {
		return nil, ErrInvalidData
	}

	p, err := app.reader.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	if !canView(viewer, p) {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (app *Application) attachComments(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]entity.ID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	byPost, err := app.reader.ListComments(ctx, ids...)
	if err != nil {
		slog.ErrorContext(ctx, "persistence error", slog.Any("error", err))
		return ErrUnhandled
	}
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
	}
	return nil
}
