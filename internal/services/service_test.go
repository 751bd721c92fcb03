package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/TaskConverterAI/task-service/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库只允许一个连接，避免连接池各自拿到空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Item{},
		&models.Point{},
		&models.Location{},
		&models.Reminder{},
		&models.Link{},
		&models.Comment{},
	))

	return db
}

func newTaskService(db *gorm.DB) *TaskService {
	return NewTaskService(db, NewLocationService(), NewReminderService())
}

func ptr[T any](v T) *T {
	return &v
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func validLocationPayload() *models.LocationPayload {
	return &models.LocationPayload{
		Latitude:         ptr(55.75),
		Longitude:        ptr(37.62),
		Name:             "Moscow",
		RemindByLocation: ptr(true),
	}
}

func validDeadlinePayload() *models.DeadlinePayload {
	return &models.DeadlinePayload{
		Time:         "2026-09-07T12:00:00Z",
		RemindByTime: ptr(true),
	}
}
