package services

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation 链接图出现环，事务整体回滚
var ErrInvariantViolation = errors.New("link graph contains a cycle")

// NotFoundError 按操作声明的资源种类报 404
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

func notFound(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
