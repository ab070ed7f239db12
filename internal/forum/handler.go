package forum

import (
	"errors"
	"net/http"

	"fitfolio/internal/api"
	"fitfolio/internal/auth"
	"fitfolio/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create forum post
// @Tags         forums
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePostRequest  true  "Post"
// @Success      201      {object}  CreatePostResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /forums [post]
func (h *Handler) Create(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	var req CreatePostRequest
	if !api.BindJSON(c, &req, "Title, category, and description are required.") {
		return
	}

	post, err := h.service.Create(c.Request.Context(), email, req)
	if err != nil {
		if errors.Is(err, ErrInvalidPost) {
			api.Fail(c, http.StatusBadRequest, "Title, category, and description are required.")
			return
		}
		api.FailWithError(c, http.StatusInternalServerError, "Failed to add forum post", err)
		return
	}

	c.JSON(http.StatusCreated, CreatePostResponse{Message: "Forum post added successfully", PostID: post.ID})
}

// Get godoc
// @Summary      Get forum post
// @Description  Returns the post with its vote counters and voter map.
// @Tags         forums
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  Post
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /forums/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			api.Fail(c, http.StatusNotFound, "Forum post not found")
			return
		}
		api.FailWithError(c, http.StatusInternalServerError, "Internal Server Error", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Latest godoc
// @Summary      Latest forum posts
// @Tags         forums
// @Produce      json
// @Success      200  {array}   Teaser
// @Failure      500  {object}  api.ErrorResponse
// @Router       /forums/latest [get]
func (h *Handler) Latest(c *gin.Context) {
	posts, err := h.service.Latest(c.Request.Context())
	if err != nil {
		api.FailWithError(c, http.StatusInternalServerError, "Failed to fetch latest forum posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Vote godoc
// @Summary      Vote on a forum post
// @Description  vote is 1 or -1. Repeating the same vote is rejected; the opposite vote flips it.
// @Tags         forums
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int          true  "Post ID"
// @Param        request  body      VoteRequest  true  "Vote"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /forums/{id}/vote [post]
func (h *Handler) Vote(c *gin.Context) {
	email, ok := auth.GetEmail(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Unauthorized Access!")
		return
	}

	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req VoteRequest
	if !api.BindJSON(c, &req, "Vote must be 1 or -1") {
		return
	}

	err := h.service.Vote(c.Request.Context(), id, email, req.Vote)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, api.MessageResponse{Message: "Vote recorded"})
	case errors.Is(err, ErrInvalidVote):
		api.Fail(c, http.StatusBadRequest, "Vote must be 1 or -1")
	case errors.Is(err, ErrPostNotFound):
		api.Fail(c, http.StatusNotFound, "Forum post not found")
	case errors.Is(err, ErrAuthorAbsent):
		api.Fail(c, http.StatusNotFound, "Author user not found")
	case errors.Is(err, ErrAlreadyVoted):
		api.Fail(c, http.StatusBadRequest, "You already voted this way")
	case errors.Is(err, ErrVoteConflict):
		api.Fail(c, http.StatusConflict, "Vote changed concurrently, please retry")
	default:
		logger.Error("vote failed", "post_id", id, "voter", email, "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Failed to record vote", err)
	}
}
