package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/TaskConverterAI/task-service/internal/models"
)

// ReminderService 截止时间挂件的创建/替换/删除，单行链，形状同 LocationService
type ReminderService struct{}

func NewReminderService() *ReminderService {
	return &ReminderService{}
}

func (s *ReminderService) Attach(tx *gorm.DB, payload *models.DeadlinePayload) (*uint, error) {
	if payload == nil {
		return nil, nil
	}

	reminder := models.Reminder{
		Time:         payload.Time,
		RemindByTime: payload.RemindByTime,
	}
	if err := tx.Create(&reminder).Error; err != nil {
		return nil, err
	}

	return &reminder.ID, nil
}

func (s *ReminderService) Replace(tx *gorm.DB, oldRef *uint, payload *models.DeadlinePayload) (*uint, error) {
	if oldRef != nil {
		if err := s.Detach(tx, *oldRef); err != nil {
			return nil, err
		}
	}
	return s.Attach(tx, payload)
}

func (s *ReminderService) Detach(tx *gorm.DB, ref uint) error {
	result := tx.Delete(&models.Reminder{}, ref)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}
