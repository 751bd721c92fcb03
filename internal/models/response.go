package models

import "time"

// 对外投影。侧挂件分支为空时输出 null，remindBy* 空值一律投影为 false。

type LocationResponse struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Name             string  `json:"name"`
	RemindByLocation bool    `json:"remindByLocation"`
}

type DeadlineResponse struct {
	Time         string `json:"time"`
	RemindByTime bool   `json:"remindByTime"`
}

type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       *string           `json:"title"`
	Description string            `json:"description"`
	Kind        ItemKind          `json:"kind"`
	Location    *LocationResponse `json:"location"`
	Deadline    *DeadlineResponse `json:"deadline"`
	AuthorID    int64             `json:"authorId"`
	GroupID     *int64            `json:"groupId"`
	DoerID      *int64            `json:"doerId"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type TaskDetailsResponse struct {
	TaskResponse
	Subtasks []SubtaskResponse `json:"subtasks"`
	Comments []CommentResponse `json:"comments"`
}

type NoteResponse struct {
	ID          uint              `json:"id"`
	Title       *string           `json:"title"`
	Description string            `json:"description"`
	Kind        ItemKind          `json:"kind"`
	Location    *LocationResponse `json:"location"`
	AuthorID    int64             `json:"authorId"`
	GroupID     *int64            `json:"groupId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type NoteDetailsResponse struct {
	NoteResponse
	Comments []CommentResponse `json:"comments"`
}

type SubtaskResponse struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	AuthorID    int64     `json:"authorId"`
	GroupID     *int64    `json:"groupId"`
	DoerID      *int64    `json:"doerId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	TaskID    uint      `json:"taskId"`
	AuthorID  int64     `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
