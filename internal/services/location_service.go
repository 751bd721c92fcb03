package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/TaskConverterAI/task-service/internal/models"
)

// LocationService 负责 (Point, Location) 侧挂件的原子创建/替换/删除。
// 所有方法都在调用方的事务里执行。
type LocationService struct{}

func NewLocationService() *LocationService {
	return &LocationService{}
}

// Attach 先写 Point 再写引用它的 Location，返回 Location 的 id。
// payload 为空时直接返回 nil。
func (s *LocationService) Attach(tx *gorm.DB, payload *models.LocationPayload) (*uint, error) {
	if payload == nil {
		return nil, nil
	}

	point := models.Point{
		Latitude:  *payload.Latitude,
		Longitude: *payload.Longitude,
		Name:      payload.Name,
	}
	if err := tx.Create(&point).Error; err != nil {
		return nil, err
	}

	location := models.Location{
		PointID:          point.ID,
		RemindByLocation: payload.RemindByLocation,
	}
	if err := tx.Create(&location).Error; err != nil {
		return nil, err
	}

	return &location.ID, nil
}

// Replace 先整条拆掉旧链，再挂新的，避免出现同一个 Point 被两个 Location 引用的窗口
func (s *LocationService) Replace(tx *gorm.DB, oldRef *uint, payload *models.LocationPayload) (*uint, error) {
	if oldRef != nil {
		if err := s.Detach(tx, *oldRef); err != nil {
			return nil, err
		}
	}
	return s.Attach(tx, payload)
}

// Detach 按"先子后父"的顺序删除：先 Point 后 Location。
// 容忍残缺的半条链：Location 不存在直接返回，Point 丢了就跳过。
func (s *LocationService) Detach(tx *gorm.DB, ref uint) error {
	var location models.Location
	if err := tx.First(&location, ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if location.PointID != 0 {
		if err := tx.Delete(&models.Point{}, location.PointID).Error; err != nil {
			return err
		}
	}

	return tx.Delete(&models.Location{}, ref).Error
}
