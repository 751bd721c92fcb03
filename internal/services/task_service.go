package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/TaskConverterAI/task-service/internal/models"
)

// TaskService 任务/笔记/子任务的完整生命周期。每个写操作开一个事务，
// 内部对 composer 的调用复用同一事务。
type TaskService struct {
	db        *gorm.DB
	locations *LocationService
	reminders *ReminderService
}

func NewTaskService(db *gorm.DB, locations *LocationService, reminders *ReminderService) *TaskService {
	return &TaskService{
		db:        db,
		locations: locations,
		reminders: reminders,
	}
}

func (s *TaskService) CreateTask(req *models.TaskCreateRequest) (*models.TaskResponse, error) {
	logrus.WithField("title", req.Title).Info("Creating task")

	var resp *models.TaskResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locationID, err := s.locations.Attach(tx, req.Location)
		if err != nil {
			return err
		}
		reminderID, err := s.reminders.Attach(tx, req.Deadline)
		if err != nil {
			return err
		}

		title := req.Title
		item := models.Item{
			Title:       &title,
			Description: req.Description,
			Kind:        models.KindTask,
			LocationID:  locationID,
			ReminderID:  reminderID,
			AuthorID:    *req.AuthorID,
			GroupID:     req.GroupID,
			DoerID:      req.DoerID,
			Status:      models.StatusUndone,
			Priority:    models.NormalizePriority(req.Priority),
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		resp, err = buildTaskResponse(tx, &item)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("id", resp.ID).Info("Created task")
	return resp, nil
}

func (s *TaskService) CreateNote(req *models.NoteCreateRequest) (*models.NoteResponse, error) {
	logrus.WithField("title", req.Title).Info("Creating note")

	var resp *models.NoteResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locationID, err := s.locations.Attach(tx, req.Location)
		if err != nil {
			return err
		}

		title := req.Title
		item := models.Item{
			Title:       &title,
			Description: req.Description,
			Kind:        models.KindNote,
			LocationID:  locationID,
			AuthorID:    *req.AuthorID,
			GroupID:     req.GroupID,
			Status:      models.StatusUndone,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		resp, err = buildNoteResponse(tx, &item)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("id", resp.ID).Info("Created note")
	return resp, nil
}

// CreateSubtask 在父任务下新建子任务并建链，作者/组/执行人从父条目继承
func (s *TaskService) CreateSubtask(parentID uint, req *models.SubtaskCreateRequest) (*models.SubtaskResponse, error) {
	logrus.WithField("parentId", parentID).Info("Creating subtask")

	var resp *models.SubtaskResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var parent models.Item
		if err := tx.First(&parent, parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Task", parentID)
			}
			return err
		}

		item := models.Item{
			Description: req.Text,
			Kind:        models.KindSubtask,
			AuthorID:    parent.AuthorID,
			GroupID:     parent.GroupID,
			DoerID:      parent.DoerID,
			Status:      models.StatusUndone,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		link := models.Link{ParentID: parent.ID, ChildID: item.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		resp = buildSubtaskResponse(&item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("id", resp.ID).Info("Created subtask")
	return resp, nil
}

func (s *TaskService) UpdateTask(id uint, req *models.TaskUpdateRequest) (*models.TaskResponse, error) {
	logrus.WithField("id", id).Info("Updating task")

	var resp *models.TaskResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.patchItem(tx, id, "Task", &itemPatch{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			Deadline:    req.Deadline,
			GroupID:     req.GroupID,
			DoerID:      req.DoerID,
			Priority:    req.Priority,
			Status:      req.Status,
		})
		if err != nil {
			return err
		}
		resp, err = buildTaskResponse(tx, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *TaskService) UpdateNote(id uint, req *models.NoteUpdateRequest) (*models.NoteResponse, error) {
	logrus.WithField("id", id).Info("Updating note")

	var resp *models.NoteResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.patchItem(tx, id, "Note", &itemPatch{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			GroupID:     req.GroupID,
		})
		if err != nil {
			return err
		}
		resp, err = buildNoteResponse(tx, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// itemPatch 稀疏补丁：nil 字段保持原值。kind、authorId、createdAt 不可改。
type itemPatch struct {
	Title       *string
	Description *string
	Location    *models.LocationPayload
	Deadline    *models.DeadlinePayload
	GroupID     *int64
	DoerID      *int64
	Priority    *string
	Status      *string
}

func (s *TaskService) patchItem(tx *gorm.DB, id uint, resource string, patch *itemPatch) (*models.Item, error) {
	var item models.Item
	if err := tx.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(resource, id)
		}
		return nil, err
	}

	updates := map[string]interface{}{}

	if patch.Location != nil {
		ref, err := s.locations.Replace(tx, item.LocationID, patch.Location)
		if err != nil {
			return nil, err
		}
		updates["location_id"] = ref
	}
	if patch.Deadline != nil {
		ref, err := s.reminders.Replace(tx, item.ReminderID, patch.Deadline)
		if err != nil {
			return nil, err
		}
		updates["reminder_id"] = ref
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.GroupID != nil {
		updates["group_id"] = *patch.GroupID
	}
	if patch.DoerID != nil {
		updates["doer_id"] = *patch.DoerID
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	updates["updated_at"] = time.Now()

	if err := tx.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 事务内读自己的写
	if err := tx.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *TaskService) UpdateSubtaskStatus(id uint, req *models.SubtaskStatusRequest) (*models.SubtaskResponse, error) {
	logrus.WithFields(logrus.Fields{"id": id, "status": req.Status}).Info("Updating subtask status")

	var resp *models.SubtaskResponse
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Subtask", id)
			}
			return err
		}

		updates := map[string]interface{}{
			"status":     req.Status,
			"updated_at": time.Now(),
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}

		resp = buildSubtaskResponse(&item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *TaskService) DeleteTask(id uint) error {
	logrus.WithField("id", id).Info("Deleting task")
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.deleteItem(tx, id, "Task")
	})
}

func (s *TaskService) DeleteNote(id uint) error {
	logrus.WithField("id", id).Info("Deleting note")
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.deleteItem(tx, id, "Note")
	})
}

// deleteItem 级联删除：条目本身、它的侧挂件、评论、出边链接，以及链接指向的
// 全部子条目。用工作队列迭代而不是递归，防御性地处理过深或成环的链接图；
// 同一个 id 第二次出现说明图里有环，整个事务回滚。
func (s *TaskService) deleteItem(tx *gorm.DB, id uint, resource string) error {
	var root models.Item
	if err := tx.First(&root, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(resource, id)
		}
		return err
	}

	worklist := []uint{id}
	visited := map[uint]bool{id: true}

	for len(worklist) > 0 {
		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		var links []models.Link
		if err := tx.Where("parent_id = ?", current).Find(&links).Error; err != nil {
			return err
		}
		for _, link := range links {
			if visited[link.ChildID] {
				logrus.WithFields(logrus.Fields{"parentId": current, "childId": link.ChildID}).
					Error("Cycle detected in link graph")
				return ErrInvariantViolation
			}
			visited[link.ChildID] = true
			worklist = append(worklist, link.ChildID)
		}
		if len(links) > 0 {
			if err := tx.Where("parent_id = ?", current).Delete(&models.Link{}).Error; err != nil {
				return err
			}
		}

		var item models.Item
		if err := tx.First(&item, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // 链接指向的条目已经不存在，按空操作处理
			}
			return err
		}

		if item.LocationID != nil {
			if err := s.locations.Detach(tx, *item.LocationID); err != nil {
				return err
			}
		}
		if item.ReminderID != nil {
			if err := s.reminders.Detach(tx, *item.ReminderID); err != nil {
				return err
			}
		}
		if err := tx.Where("item_id = ?", current).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Item{}, current).Error; err != nil {
			return err
		}
	}

	logrus.WithField("id", id).Info("Deleted item tree")
	return nil
}

func (s *TaskService) GetTaskByID(id uint) (*models.TaskResponse, error) {
	item, err := s.getItem(id, "Task")
	if err != nil {
		return nil, err
	}
	return buildTaskResponse(s.db, item)
}

func (s *TaskService) GetNoteByID(id uint) (*models.NoteResponse, error) {
	item, err := s.getItem(id, "Note")
	if err != nil {
		return nil, err
	}
	return buildNoteResponse(s.db, item)
}

func (s *TaskService) GetTaskDetails(id uint) (*models.TaskDetailsResponse, error) {
	item, err := s.getItem(id, "Task")
	if err != nil {
		return nil, err
	}
	return buildTaskDetails(s.db, item)
}

func (s *TaskService) GetNoteDetails(id uint) (*models.NoteDetailsResponse, error) {
	item, err := s.getItem(id, "Note")
	if err != nil {
		return nil, err
	}
	return buildNoteDetails(s.db, item)
}

func (s *TaskService) getItem(id uint, resource string) (*models.Item, error) {
	var item models.Item
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(resource, id)
		}
		return nil, err
	}
	return &item, nil
}

// 列表查询：按 kind 过滤再叠加一个索引条件，按 id 升序，不分页

func (s *TaskService) GetTasksByAuthor(authorID int64) ([]models.TaskResponse, error) {
	return s.listTasks("author_id = ? AND kind = ?", authorID, models.KindTask)
}

func (s *TaskService) GetPersonalTasks(authorID int64) ([]models.TaskResponse, error) {
	return s.listTasks("author_id = ? AND group_id IS NULL AND kind = ?", authorID, models.KindTask)
}

func (s *TaskService) GetTasksByGroup(groupID int64) ([]models.TaskResponse, error) {
	return s.listTasks("group_id = ? AND kind = ?", groupID, models.KindTask)
}

func (s *TaskService) GetTasksByDoer(doerID int64) ([]models.TaskResponse, error) {
	return s.listTasks("doer_id = ? AND kind = ?", doerID, models.KindTask)
}

func (s *TaskService) listTasks(query string, args ...interface{}) ([]models.TaskResponse, error) {
	var items []models.Item
	if err := s.db.Where(query, args...).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	responses := make([]models.TaskResponse, 0, len(items))
	for i := range items {
		resp, err := buildTaskResponse(s.db, &items[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *TaskService) GetNotesByAuthor(authorID int64) ([]models.NoteResponse, error) {
	return s.listNotes("author_id = ? AND kind = ?", authorID, models.KindNote)
}

func (s *TaskService) GetPersonalNotes(authorID int64) ([]models.NoteResponse, error) {
	return s.listNotes("author_id = ? AND group_id IS NULL AND kind = ?", authorID, models.KindNote)
}

func (s *TaskService) GetNotesByGroup(groupID int64) ([]models.NoteResponse, error) {
	return s.listNotes("group_id = ? AND kind = ?", groupID, models.KindNote)
}

func (s *TaskService) listNotes(query string, args ...interface{}) ([]models.NoteResponse, error) {
	var items []models.Item
	if err := s.db.Where(query, args...).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	responses := make([]models.NoteResponse, 0, len(items))
	for i := range items {
		resp, err := buildNoteResponse(s.db, &items[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}
