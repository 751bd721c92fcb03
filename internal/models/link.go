package models

// Link 父子条目之间的有向边，child 一定是子任务
type Link struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	ParentID uint `json:"parentId" gorm:"not null;index"`
	ChildID  uint `json:"childId" gorm:"not null"`
}
