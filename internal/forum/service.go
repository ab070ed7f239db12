package forum

import (
	"context"
	"errors"
	"strings"

	"fitfolio/internal/logger"
	"fitfolio/internal/metrics"
	"fitfolio/internal/user"
)

const latestLimit = 6

var (
	ErrInvalidVote  = errors.New("vote must be 1 or -1")
	ErrInvalidPost  = errors.New("title, category, and description are required")
	ErrAuthorAbsent = errors.New("author user not found")
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, authorEmail string, req CreatePostRequest) (*Post, error)
	Get(ctx context.Context, id int) (*Post, error)
	Latest(ctx context.Context) ([]Teaser, error)
	Vote(ctx context.Context, postID int, voter string, value int) error
}

type service struct {
	repo  Repository
	users UserFinder
}

func NewService(repo Repository, users UserFinder) Service {
	return &service{repo: repo, users: users}
}

func (s *service) Create(ctx context.Context, authorEmail string, req CreatePostRequest) (*Post, error) {
	p := &Post{
		Title:       strings.TrimSpace(req.Title),
		Image:       strings.TrimSpace(req.Image),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		AuthorEmail: strings.ToLower(authorEmail),
	}
	if p.Title == "" || p.Category == "" || p.Description == "" {
		return nil, ErrInvalidPost
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	created.fillVotes(nil)

	logger.Info("forum post created", "id", created.ID, "author", created.AuthorEmail)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int) (*Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	voters, err := s.repo.Voters(ctx, id)
	if err != nil {
		return nil, err
	}
	p.fillVotes(voters)
	return p, nil
}

func (s *service) Latest(ctx context.Context) ([]Teaser, error) {
	return s.repo.Latest(ctx, latestLimit)
}

func (s *service) Vote(ctx context.Context, postID int, voter string, value int) error {
	if value != VoteUp && value != VoteDown {
		return ErrInvalidVote
	}

	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if _, err := s.users.FindByEmail(ctx, p.AuthorEmail); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrAuthorAbsent
		}
		return err
	}

	voter = strings.ToLower(voter)
	previous, err := s.repo.Vote(ctx, postID, voter, value)
	if err != nil {
		if errors.Is(err, ErrVoteConflict) {
			logger.Warn("vote conflict", "post_id", postID, "voter", voter)
		}
		return err
	}

	direction := "up"
	if value == VoteDown {
		direction = "down"
	}
	kind := "new"
	if previous != 0 {
		kind = "flip"
	}
	metrics.RecordVote(direction, kind)
	logger.Debug("vote recorded", "post_id", postID, "voter", voter, "value", value, "kind", kind)
	return nil
}
