package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/TaskConverterAI/task-service/internal/models"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) AddToTask(itemID uint, req *models.CommentCreateRequest) (*models.CommentResponse, error) {
	return s.add(itemID, "Task", req)
}

func (s *CommentService) AddToNote(itemID uint, req *models.CommentCreateRequest) (*models.CommentResponse, error) {
	return s.add(itemID, "Note", req)
}

// add 插入评论并刷新所属条目的 updatedAt，两个时间戳用同一次读钟
func (s *CommentService) add(itemID uint, resource string, req *models.CommentCreateRequest) (*models.CommentResponse, error) {
	logrus.WithField("itemId", itemID).Info("Adding comment")

	var resp *models.CommentResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(resource, itemID)
			}
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.Item{}).Where("id = ?", itemID).
			Update("updated_at", now).Error; err != nil {
			return err
		}

		comment := models.Comment{
			ItemID:    itemID,
			AuthorID:  *req.AuthorID,
			Text:      req.Text,
			CreatedAt: now,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		r := buildCommentResponse(&comment)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("id", resp.ID).Info("Added comment")
	return resp, nil
}

// Delete 只删评论行，不动所属条目的 updatedAt
func (s *CommentService) Delete(id uint) error {
	logrus.WithField("id", id).Info("Deleting comment")

	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Comment", id)
			}
			return err
		}
		return tx.Delete(&comment).Error
	})
}
