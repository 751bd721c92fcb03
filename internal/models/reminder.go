package models

// Reminder 截止时间挂件，time 按调用方给的字符串原样存储
type Reminder struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Time         string `json:"time" gorm:"size:64"`
	RemindByTime *bool  `json:"remindByTime"`
}

type DeadlinePayload struct {
	Time         string `json:"time" validate:"required"`
	RemindByTime *bool  `json:"remindByTime"`
}
