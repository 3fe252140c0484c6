package models

import (
	"slices"
	"time"
)

// Like marks one user's like on a post. The user id is its identity.
type Like struct {
	User uint `json:"user"`
}

// Comment is a reply stored inside its post. ID is a UUID.
type Comment struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	User   uint      `json:"user"`
	Date   time.Time `json:"date"`
}

// Post is a short text post. Likes and comments are ordered newest first.
type Post struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"user"`
	Text      string            `gorm:"type:text;not null" json:"text"`
	Name      string            `json:"name"`
	Avatar    string            `json:"avatar"`
	Likes     JSONList[Like]    `gorm:"not null" json:"likes"`
	Comments  JSONList[Comment] `gorm:"not null" json:"comments"`
	Date      time.Time         `gorm:"autoCreateTime;index" json:"date"`
	UpdatedAt time.Time         `json:"-"`
}

// LikeIndex returns the position of userID's like, or -1.
func (p *Post) LikeIndex(userID uint) int {
	return slices.IndexFunc(p.Likes, func(l Like) bool { return l.User == userID })
}

// AddLike prepends a like from userID. A user may like a post once.
func (p *Post) AddLike(userID uint) error {
	if p.LikeIndex(userID) >= 0 {
		return NewAlreadyLikedError()
	}
	p.Likes = slices.Insert(p.Likes, 0, Like{User: userID})
	return nil
}

// RemoveLike removes the first like from userID.
func (p *Post) RemoveLike(userID uint) error {
	i := p.LikeIndex(userID)
	if i < 0 {
		return NewNotLikedError()
	}
	p.Likes = slices.Delete(p.Likes, i, i+1)
	return nil
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (p *Post) CommentIndex(commentID string) int {
	return slices.IndexFunc(p.Comments, func(c Comment) bool { return c.ID == commentID })
}

// AddComment prepends c.
func (p *Post) AddComment(c Comment) {
	p.Comments = slices.Insert(p.Comments, 0, c)
}

// RemoveComment removes the comment with the given id and returns it.
func (p *Post) RemoveComment(commentID string) (Comment, error) {
	i := p.CommentIndex(commentID)
	if i < 0 {
		return Comment{}, NewCommentNotFoundError()
	}
	removed := p.Comments[i]
	p.Comments = slices.Delete(p.Comments, i, i+1)
	return removed, nil
}

func NewCommentNotFoundError() *AppError {
	return (&AppError{
		Code:    CodeNotFound,
		Message: "Comment does not exist",
	}).WithField("commentnotexists", "Comment does not exist")
}

// NewPostNotFoundError reports a missing post the way the posts API expects.
func NewPostNotFoundError(id uint) *AppError {
	return NewNotFoundError("Post", id).WithField("nopostfound", "No post found with that ID")
}
