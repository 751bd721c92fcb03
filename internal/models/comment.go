package models

import "time"

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ItemID    uint      `json:"taskId" gorm:"not null;index"`
	AuthorID  int64     `json:"authorId" gorm:"not null"`
	Text      string    `json:"text" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentCreateRequest struct {
	AuthorID *int64 `json:"authorId" validate:"required"`
	Text     string `json:"text" validate:"required,notblank,max=255"`
}
