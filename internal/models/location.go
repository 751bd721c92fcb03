package models

// Point 地理坐标点
type Point struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`
	Name      string  `json:"name" gorm:"size:255"`
}

// Location 把坐标点和"按位置提醒"标记绑定到一个条目上
type Location struct {
	ID               uint  `json:"id" gorm:"primaryKey"`
	PointID          uint  `json:"pointId" gorm:"not null"`
	RemindByLocation *bool `json:"remindByLocation"`
}

type LocationPayload struct {
	Latitude         *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Name             string   `json:"name" validate:"max=255"`
	RemindByLocation *bool    `json:"remindByLocation"`
}
