package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TaskConverterAI/task-service/internal/models"
)

func TestCreateTaskDefaults(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	resp, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:       "buy milk",
		Description: "2L",
		AuthorID:    ptr(int64(7)),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusUndone, resp.Status)
	assert.Equal(t, models.PriorityMiddle, resp.Priority)
	assert.Equal(t, models.KindTask, resp.Kind)
	assert.True(t, resp.CreatedAt.Equal(resp.UpdatedAt))
	assert.Nil(t, resp.Location)
	assert.Nil(t, resp.Deadline)
	require.NotNil(t, resp.Title)
	assert.Equal(t, "buy milk", *resp.Title)
	assert.Equal(t, int64(7), resp.AuthorID)
}

func TestCreateTaskNormalizesPriority(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	for priority, want := range map[string]string{
		"ZEBRA":  models.PriorityMiddle,
		"":       models.PriorityMiddle,
		"low":    models.PriorityMiddle,
		"HIGH":   models.PriorityHigh,
		"LOW":    models.PriorityLow,
		"MIDDLE": models.PriorityMiddle,
	} {
		resp, err := svc.CreateTask(&models.TaskCreateRequest{
			Title:    "t",
			AuthorID: ptr(int64(1)),
			Priority: priority,
		})
		require.NoError(t, err)
		assert.Equal(t, want, resp.Priority, "priority %q", priority)
	}
}

func TestCreateTaskWithSidecars(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	resp, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:    "meet",
		AuthorID: ptr(int64(7)),
		Location: validLocationPayload(),
		Deadline: validDeadlinePayload(),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Location)
	assert.Equal(t, 55.75, resp.Location.Latitude)
	assert.Equal(t, 37.62, resp.Location.Longitude)
	assert.Equal(t, "Moscow", resp.Location.Name)
	assert.True(t, resp.Location.RemindByLocation)

	require.NotNil(t, resp.Deadline)
	assert.Equal(t, "2026-09-07T12:00:00Z", resp.Deadline.Time)
	assert.True(t, resp.Deadline.RemindByTime)

	assert.Equal(t, int64(1), countRows(t, db, &models.Point{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Location{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Reminder{}))
}

func TestCreateTaskCoercesNilRemindFlags(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	location := validLocationPayload()
	location.RemindByLocation = nil
	deadline := validDeadlinePayload()
	deadline.RemindByTime = nil

	resp, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:    "t",
		AuthorID: ptr(int64(1)),
		Location: location,
		Deadline: deadline,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Location)
	assert.False(t, resp.Location.RemindByLocation)
	require.NotNil(t, resp.Deadline)
	assert.False(t, resp.Deadline.RemindByTime)
}

func TestGetTaskRoundTrip(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	created, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:       "plan trip",
		Description: "book hotel",
		AuthorID:    ptr(int64(7)),
		GroupID:     ptr(int64(3)),
		DoerID:      ptr(int64(9)),
		Priority:    "HIGH",
		Location:    validLocationPayload(),
		Deadline:    validDeadlinePayload(),
	})
	require.NoError(t, err)

	got, err := svc.GetTaskByID(created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, "book hotel", got.Description)
	assert.Equal(t, int64(7), got.AuthorID)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, int64(3), *got.GroupID)
	require.NotNil(t, got.DoerID)
	assert.Equal(t, int64(9), *got.DoerID)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, models.StatusUndone, got.Status)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Moscow", got.Location.Name)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2026-09-07T12:00:00Z", got.Deadline.Time)
}

func TestGetTaskNotFound(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	_, err := svc.GetTaskByID(9999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Task not found with id: 9999", err.Error())
}

func TestUpdateTaskSparsePatch(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	created, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:       "buy milk",
		Description: "2L",
		AuthorID:    ptr(int64(7)),
		Priority:    "HIGH",
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := svc.UpdateTask(created.ID, &models.TaskUpdateRequest{
		Location: validLocationPayload(),
	})
	require.NoError(t, err)

	// 补丁外的字段保持不变
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, "2L", updated.Description)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, models.StatusUndone, updated.Status)
	assert.Equal(t, int64(7), updated.AuthorID)
	assert.Equal(t, models.KindTask, updated.Kind)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	require.NotNil(t, updated.Location)
	assert.Equal(t, 55.75, updated.Location.Latitude)
	assert.Equal(t, 37.62, updated.Location.Longitude)
	assert.Equal(t, "Moscow", updated.Location.Name)
	assert.True(t, updated.Location.RemindByLocation)
}

func TestUpdateTaskReplacesSidecarsWithoutOrphans(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	created, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:    "t",
		AuthorID: ptr(int64(1)),
		Location: validLocationPayload(),
		Deadline: validDeadlinePayload(),
	})
	require.NoError(t, err)

	newLocation := &models.LocationPayload{
		Latitude:  ptr(59.94),
		Longitude: ptr(30.31),
		Name:      "Saint Petersburg",
	}
	newDeadline := &models.DeadlinePayload{Time: "2026-10-01T08:00:00Z"}

	updated, err := svc.UpdateTask(created.ID, &models.TaskUpdateRequest{
		Location: newLocation,
		Deadline: newDeadline,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Location)
	assert.Equal(t, "Saint Petersburg", updated.Location.Name)
	require.NotNil(t, updated.Deadline)
	assert.Equal(t, "2026-10-01T08:00:00Z", updated.Deadline.Time)

	// 旧链整条拆掉，不留孤儿行
	assert.Equal(t, int64(1), countRows(t, db, &models.Point{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Location{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Reminder{}))
}

func TestUpdateTaskScalars(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	created, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:    "t",
		AuthorID: ptr(int64(1)),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(created.ID, &models.TaskUpdateRequest{
		Title:       ptr("renamed"),
		Description: ptr("new desc"),
		GroupID:     ptr(int64(11)),
		DoerID:      ptr(int64(12)),
		Priority:    ptr(models.PriorityLow),
		Status:      ptr(models.StatusDone),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Title)
	assert.Equal(t, "renamed", *updated.Title)
	assert.Equal(t, "new desc", updated.Description)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, int64(11), *updated.GroupID)
	require.NotNil(t, updated.DoerID)
	assert.Equal(t, int64(12), *updated.DoerID)
	assert.Equal(t, models.PriorityLow, updated.Priority)
	assert.Equal(t, models.StatusDone, updated.Status)
}

func TestUpdateTaskNotFound(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	_, err := svc.UpdateTask(404, &models.TaskUpdateRequest{Status: ptr(models.StatusDone)})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Task not found with id: 404", err.Error())
}

func TestCreateSubtaskInheritsFromParent(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	parent, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:    "release",
		AuthorID: ptr(int64(7)),
		GroupID:  ptr(int64(3)),
		DoerID:   ptr(int64(9)),
	})
	require.NoError(t, err)

	first, err := svc.CreateSubtask(parent.ID, &models.SubtaskCreateRequest{Text: "step 1"})
	require.NoError(t, err)
	second, err := svc.CreateSubtask(parent.ID, &models.SubtaskCreateRequest{Text: "step 2"})
	require.NoError(t, err)

	for _, subtask := range []*models.SubtaskResponse{first, second} {
		assert.Equal(t, int64(7), subtask.AuthorID)
		require.NotNil(t, subtask.GroupID)
		assert.Equal(t, int64(3), *subtask.GroupID)
		require.NotNil(t, subtask.DoerID)
		assert.Equal(t, int64(9), *subtask.DoerID)
		assert.Equal(t, models.StatusUndone, subtask.Status)
	}
	assert.Equal(t, "step 1", first.Description)
	assert.Equal(t, "step 2", second.Description)
	assert.Equal(t, int64(2), countRows(t, db, &models.Link{}))

	details, err := svc.GetTaskDetails(parent.ID)
	require.NoError(t, err)
	require.Len(t, details.Subtasks, 2)
	assert.Equal(t, first.ID, details.Subtasks[0].ID)
	assert.Equal(t, second.ID, details.Subtasks[1].ID)
}

func TestCreateSubtaskParentMissing(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	_, err := svc.CreateSubtask(77, &models.SubtaskCreateRequest{Text: "x"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Task not found with id: 77", err.Error())
}

func TestUpdateSubtaskStatus(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	parent, err := svc.CreateTask(&models.TaskCreateRequest{Title: "t", AuthorID: ptr(int64(1))})
	require.NoError(t, err)
	subtask, err := svc.CreateSubtask(parent.ID, &models.SubtaskCreateRequest{Text: "step"})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	updated, err := svc.UpdateSubtaskStatus(subtask.ID, &models.SubtaskStatusRequest{Status: models.StatusDone})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.True(t, updated.UpdatedAt.After(subtask.UpdatedAt))

	_, err = svc.UpdateSubtaskStatus(555, &models.SubtaskStatusRequest{Status: models.StatusDone})
	require.Error(t, err)
	assert.Equal(t, "Subtask not found with id: 555", err.Error())
}

func TestDeleteTaskCascades(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	comments := NewCommentService(db)

	parent, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:    "release",
		AuthorID: ptr(int64(7)),
		Location: validLocationPayload(),
		Deadline: validDeadlinePayload(),
	})
	require.NoError(t, err)

	child, err := svc.CreateSubtask(parent.ID, &models.SubtaskCreateRequest{Text: "step 1"})
	require.NoError(t, err)
	_, err = svc.CreateSubtask(parent.ID, &models.SubtaskCreateRequest{Text: "step 2"})
	require.NoError(t, err)

	_, err = comments.AddToTask(parent.ID, &models.CommentCreateRequest{AuthorID: ptr(int64(7)), Text: "lgtm"})
	require.NoError(t, err)
	_, err = comments.AddToTask(child.ID, &models.CommentCreateRequest{AuthorID: ptr(int64(8)), Text: "on it"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(parent.ID))

	// 从条目可达的所有行都应被清掉
	assert.Equal(t, int64(0), countRows(t, db, &models.Item{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Point{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Location{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Reminder{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Link{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Comment{}))

	_, err = svc.GetTaskByID(child.ID)
	assert.True(t, IsNotFound(err))
}

func TestDeleteTaskTwice(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	created, err := svc.CreateTask(&models.TaskCreateRequest{Title: "t", AuthorID: ptr(int64(1))})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(created.ID))

	err = svc.DeleteTask(created.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int64(0), countRows(t, db, &models.Item{}))
}

func TestDeleteTaskToleratesDanglingLink(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	created, err := svc.CreateTask(&models.TaskCreateRequest{Title: "t", AuthorID: ptr(int64(1))})
	require.NoError(t, err)

	// 指向不存在条目的悬空链接
	require.NoError(t, db.Create(&models.Link{ParentID: created.ID, ChildID: 98765}).Error)

	require.NoError(t, svc.DeleteTask(created.ID))
	assert.Equal(t, int64(0), countRows(t, db, &models.Item{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Link{}))
}

func TestDeleteTaskRejectsCycle(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	a := models.Item{Kind: models.KindTask, AuthorID: 1, Status: models.StatusUndone, Title: ptr("a")}
	b := models.Item{Kind: models.KindSubtask, AuthorID: 1, Status: models.StatusUndone}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Create(&models.Link{ParentID: a.ID, ChildID: b.ID}).Error)
	require.NoError(t, db.Create(&models.Link{ParentID: b.ID, ChildID: a.ID}).Error)

	err := svc.DeleteTask(a.ID)
	require.ErrorIs(t, err, ErrInvariantViolation)

	// 事务回滚，什么都没删
	assert.Equal(t, int64(2), countRows(t, db, &models.Item{}))
	assert.Equal(t, int64(2), countRows(t, db, &models.Link{}))
}

func TestTaskListings(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	personal, err := svc.CreateTask(&models.TaskCreateRequest{Title: "personal", AuthorID: ptr(int64(7))})
	require.NoError(t, err)
	grouped, err := svc.CreateTask(&models.TaskCreateRequest{
		Title: "grouped", AuthorID: ptr(int64(7)), GroupID: ptr(int64(5)), DoerID: ptr(int64(9)),
	})
	require.NoError(t, err)
	_, err = svc.CreateTask(&models.TaskCreateRequest{Title: "other", AuthorID: ptr(int64(8))})
	require.NoError(t, err)
	// 同作者的笔记不能混进任务列表
	_, err = svc.CreateNote(&models.NoteCreateRequest{Title: "note", AuthorID: ptr(int64(7))})
	require.NoError(t, err)

	byAuthor, err := svc.GetTasksByAuthor(7)
	require.NoError(t, err)
	require.Len(t, byAuthor, 2)
	assert.Equal(t, personal.ID, byAuthor[0].ID)
	assert.Equal(t, grouped.ID, byAuthor[1].ID)

	personalOnly, err := svc.GetPersonalTasks(7)
	require.NoError(t, err)
	require.Len(t, personalOnly, 1)
	assert.Equal(t, personal.ID, personalOnly[0].ID)

	byGroup, err := svc.GetTasksByGroup(5)
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, grouped.ID, byGroup[0].ID)

	byDoer, err := svc.GetTasksByDoer(9)
	require.NoError(t, err)
	require.Len(t, byDoer, 1)
	assert.Equal(t, grouped.ID, byDoer[0].ID)
}

func TestNoteLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)
	comments := NewCommentService(db)

	created, err := svc.CreateNote(&models.NoteCreateRequest{
		Title:       "ideas",
		Description: "scratchpad",
		AuthorID:    ptr(int64(7)),
		Location:    validLocationPayload(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.KindNote, created.Kind)
	require.NotNil(t, created.Location)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	updated, err := svc.UpdateNote(created.ID, &models.NoteUpdateRequest{
		Description: ptr("rewritten"),
	})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", updated.Description)
	require.NotNil(t, updated.Title)
	assert.Equal(t, "ideas", *updated.Title)

	_, err = comments.AddToNote(created.ID, &models.CommentCreateRequest{AuthorID: ptr(int64(2)), Text: "nice"})
	require.NoError(t, err)

	details, err := svc.GetNoteDetails(created.ID)
	require.NoError(t, err)
	require.Len(t, details.Comments, 1)
	assert.Equal(t, "nice", details.Comments[0].Text)

	require.NoError(t, svc.DeleteNote(created.ID))
	assert.Equal(t, int64(0), countRows(t, db, &models.Item{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Point{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Location{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Comment{}))

	_, err = svc.GetNoteByID(created.ID)
	require.Error(t, err)
	assert.Equal(t, fmt.Sprintf("Note not found with id: %d", created.ID), err.Error())
}

func TestNoteListings(t *testing.T) {
	svc := newTaskService(newTestDB(t))

	personal, err := svc.CreateNote(&models.NoteCreateRequest{Title: "personal", AuthorID: ptr(int64(7))})
	require.NoError(t, err)
	grouped, err := svc.CreateNote(&models.NoteCreateRequest{Title: "grouped", AuthorID: ptr(int64(7)), GroupID: ptr(int64(5))})
	require.NoError(t, err)
	_, err = svc.CreateTask(&models.TaskCreateRequest{Title: "task", AuthorID: ptr(int64(7))})
	require.NoError(t, err)

	byAuthor, err := svc.GetNotesByAuthor(7)
	require.NoError(t, err)
	require.Len(t, byAuthor, 2)

	personalOnly, err := svc.GetPersonalNotes(7)
	require.NoError(t, err)
	require.Len(t, personalOnly, 1)
	assert.Equal(t, personal.ID, personalOnly[0].ID)

	byGroup, err := svc.GetNotesByGroup(5)
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, grouped.ID, byGroup[0].ID)
}

func TestDetailsToleratesBrokenSidecarChain(t *testing.T) {
	db := newTestDB(t)
	svc := newTaskService(db)

	created, err := svc.CreateTask(&models.TaskCreateRequest{
		Title:    "t",
		AuthorID: ptr(int64(1)),
		Location: validLocationPayload(),
	})
	require.NoError(t, err)

	// 手工破坏链：Point 丢失时投影该分支为 null，而不是报错
	require.NoError(t, db.Where("1 = 1").Delete(&models.Point{}).Error)

	got, err := svc.GetTaskDetails(created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Location)
}
