package models

import "time"

// ErrorResponse 统一错误返回体，空字段省略
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status,omitempty"`
	Message   string    `json:"message,omitempty"`
}
