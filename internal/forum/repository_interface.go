package forum

import "context"

type Repository interface {
	Create(ctx context.Context, p *Post) (*Post, error)
	FindByID(ctx context.Context, id int) (*Post, error)
	Voters(ctx context.Context, postID int) (map[string]int, error)
	Latest(ctx context.Context, limit int) ([]Teaser, error)
	// Vote records value for voter and returns the previous vote, 0 when
	// there was none.
	Vote(ctx context.Context, postID int, voter string, value int) (previous int, err error)
}
