package forum

import "time"

const (
	VoteUp   = 1
	VoteDown = -1
)

type Votes struct {
	Up     int            `json:"up"`
	Down   int            `json:"down"`
	Voters map[string]int `json:"voters"`
}

type Post struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Image       string    `db:"image" json:"image"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	AuthorEmail string    `db:"author_email" json:"authorEmail"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`

	UpVotes   int    `db:"up_votes" json:"-"`
	DownVotes int    `db:"down_votes" json:"-"`
	Votes     *Votes `db:"-" json:"votes"`
}

func (p *Post) fillVotes(voters map[string]int) {
	if voters == nil {
		voters = map[string]int{}
	}
	p.Votes = &Votes{Up: p.UpVotes, Down: p.DownVotes, Voters: voters}
}

// Teaser is the projection used on the home page.
type Teaser struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Image       string    `db:"image" json:"image"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type CreatePostRequest struct {
	Title       string `json:"title" binding:"required" example:"Morning mobility routine"`
	Image       string `json:"image" example:"https://i.ibb.co/x/post.png"`
	Category    string `json:"category" binding:"required" example:"Wellness"`
	Description string `json:"description" binding:"required" example:"Ten minutes a day keeps the stiffness away."`
}

type CreatePostResponse struct {
	Message string `json:"message" example:"Forum post added successfully"`
	PostID  int    `json:"postId" example:"5"`
}

type VoteRequest struct {
	Vote int `json:"vote" example:"1"`
}
