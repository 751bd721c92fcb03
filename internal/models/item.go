package models

import "time"

// ItemKind 条目类型：任务、笔记、子任务共用一张表
type ItemKind int16

const (
	KindTask ItemKind = iota
	KindNote
	KindSubtask
)

func (k ItemKind) String() string {
	switch k {
	case KindTask:
		return "TASK"
	case KindNote:
		return "NOTE"
	case KindSubtask:
		return "SUBTASK"
	}
	return "UNKNOWN"
}

const (
	StatusUndone = "UNDONE"
	StatusDone   = "DONE"
)

const (
	PriorityLow    = "LOW"
	PriorityMiddle = "MIDDLE"
	PriorityHigh   = "HIGH"
)

// NormalizePriority 非法或缺失的优先级一律按 MIDDLE 处理
func NormalizePriority(priority string) string {
	switch priority {
	case PriorityLow, PriorityMiddle, PriorityHigh:
		return priority
	default:
		return PriorityMiddle
	}
}

type Item struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       *string   `json:"title" gorm:"size:255"` // 子任务没有标题
	Description string    `json:"description" gorm:"size:255"`
	Kind        ItemKind  `json:"kind" gorm:"not null;index"`
	LocationID  *uint     `json:"locationId"`
	ReminderID  *uint     `json:"reminderId"`
	AuthorID    int64     `json:"authorId" gorm:"not null;index"`
	GroupID     *int64    `json:"groupId" gorm:"index"`
	DoerID      *int64    `json:"doerId" gorm:"index"`
	Status      string    `json:"status" gorm:"size:16"`
	Priority    string    `json:"priority" gorm:"size:16"` // 仅任务使用
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TaskCreateRequest struct {
	Title       string           `json:"title" validate:"required,notblank,max=255"`
	Description string           `json:"description" validate:"max=255"`
	Location    *LocationPayload `json:"location"`
	Deadline    *DeadlinePayload `json:"deadline"`
	AuthorID    *int64           `json:"authorId" validate:"required"`
	GroupID     *int64           `json:"groupId"`
	DoerID      *int64           `json:"doerId"`
	Priority    string           `json:"priority"`
}

type TaskUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitempty,notblank,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
	Location    *LocationPayload `json:"location"`
	Deadline    *DeadlinePayload `json:"deadline"`
	GroupID     *int64           `json:"groupId"`
	DoerID      *int64           `json:"doerId"`
	Priority    *string          `json:"priority" validate:"omitempty,oneof=LOW MIDDLE HIGH"`
	Status      *string          `json:"status" validate:"omitempty,oneof=DONE UNDONE"`
}

type NoteCreateRequest struct {
	Title       string           `json:"title" validate:"required,notblank,max=255"`
	Description string           `json:"description" validate:"max=255"`
	Location    *LocationPayload `json:"location"`
	AuthorID    *int64           `json:"authorId" validate:"required"`
	GroupID     *int64           `json:"groupId"`
}

type NoteUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitempty,notblank,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
	Location    *LocationPayload `json:"location"`
	GroupID     *int64           `json:"groupId"`
}

type SubtaskCreateRequest struct {
	Text string `json:"text" validate:"required,notblank,max=255"`
}

type SubtaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DONE UNDONE"`
}
