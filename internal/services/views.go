package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/TaskConverterAI/task-service/internal/models"
)

// 投影装配。侧挂件链断了（Location 没有 Point、Reminder 缺行）时该分支输出 nil，
// 不报错。

func buildLocationResponse(tx *gorm.DB, ref *uint) (*models.LocationResponse, error) {
	if ref == nil {
		return nil, nil
	}

	var location models.Location
	if err := tx.First(&location, *ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var point models.Point
	if err := tx.First(&point, location.PointID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	remind := false
	if location.RemindByLocation != nil {
		remind = *location.RemindByLocation
	}

	return &models.LocationResponse{
		Latitude:         point.Latitude,
		Longitude:        point.Longitude,
		Name:             point.Name,
		RemindByLocation: remind,
	}, nil
}

func buildDeadlineResponse(tx *gorm.DB, ref *uint) (*models.DeadlineResponse, error) {
	if ref == nil {
		return nil, nil
	}

	var reminder models.Reminder
	if err := tx.First(&reminder, *ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	remind := false
	if reminder.RemindByTime != nil {
		remind = *reminder.RemindByTime
	}

	return &models.DeadlineResponse{
		Time:         reminder.Time,
		RemindByTime: remind,
	}, nil
}

func buildTaskResponse(tx *gorm.DB, item *models.Item) (*models.TaskResponse, error) {
	location, err := buildLocationResponse(tx, item.LocationID)
	if err != nil {
		return nil, err
	}
	deadline, err := buildDeadlineResponse(tx, item.ReminderID)
	if err != nil {
		return nil, err
	}

	return &models.TaskResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Kind:        item.Kind,
		Location:    location,
		Deadline:    deadline,
		AuthorID:    item.AuthorID,
		GroupID:     item.GroupID,
		DoerID:      item.DoerID,
		Priority:    item.Priority,
		Status:      item.Status,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}, nil
}

func buildNoteResponse(tx *gorm.DB, item *models.Item) (*models.NoteResponse, error) {
	location, err := buildLocationResponse(tx, item.LocationID)
	if err != nil {
		return nil, err
	}

	return &models.NoteResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Kind:        item.Kind,
		Location:    location,
		AuthorID:    item.AuthorID,
		GroupID:     item.GroupID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}, nil
}

func buildSubtaskResponse(item *models.Item) *models.SubtaskResponse {
	return &models.SubtaskResponse{
		ID:          item.ID,
		Description: item.Description,
		AuthorID:    item.AuthorID,
		GroupID:     item.GroupID,
		DoerID:      item.DoerID,
		Status:      item.Status,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func buildCommentResponse(comment *models.Comment) models.CommentResponse {
	return models.CommentResponse{
		ID:        comment.ID,
		TaskID:    comment.ItemID,
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

func buildCommentList(tx *gorm.DB, itemID uint) ([]models.CommentResponse, error) {
	var comments []models.Comment
	if err := tx.Where("item_id = ?", itemID).Order("id").Find(&comments).Error; err != nil {
		return nil, err
	}

	responses := make([]models.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, buildCommentResponse(&comments[i]))
	}
	return responses, nil
}

func buildSubtaskList(tx *gorm.DB, parentID uint) ([]models.SubtaskResponse, error) {
	var links []models.Link
	if err := tx.Where("parent_id = ?", parentID).Order("id").Find(&links).Error; err != nil {
		return nil, err
	}

	subtasks := make([]models.SubtaskResponse, 0, len(links))
	for _, link := range links {
		var child models.Item
		if err := tx.First(&child, link.ChildID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // 悬空链接不影响投影
			}
			return nil, err
		}
		subtasks = append(subtasks, *buildSubtaskResponse(&child))
	}
	return subtasks, nil
}

func buildTaskDetails(tx *gorm.DB, item *models.Item) (*models.TaskDetailsResponse, error) {
	base, err := buildTaskResponse(tx, item)
	if err != nil {
		return nil, err
	}
	subtasks, err := buildSubtaskList(tx, item.ID)
	if err != nil {
		return nil, err
	}
	comments, err := buildCommentList(tx, item.ID)
	if err != nil {
		return nil, err
	}

	return &models.TaskDetailsResponse{
		TaskResponse: *base,
		Subtasks:     subtasks,
		Comments:     comments,
	}, nil
}

func buildNoteDetails(tx *gorm.DB, item *models.Item) (*models.NoteDetailsResponse, error) {
	base, err := buildNoteResponse(tx, item)
	if err != nil {
		return nil, err
	}
	comments, err := buildCommentList(tx, item.ID)
	if err != nil {
		return nil, err
	}

	return &models.NoteDetailsResponse{
		NoteResponse: *base,
		Comments:     comments,
	}, nil
}
