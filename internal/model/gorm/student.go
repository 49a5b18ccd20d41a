package gorm

import (
	"time"
)

// 性别取值
const (
	GenderMale   = "男"
	GenderFemale = "女"
)

// Student 学生信息表
type Student struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement;column:id;type:bigint" json:"id"`
	Name      string     `gorm:"column:name;type:varchar(50);not null" json:"name"`                         // 学生姓名
	StudentID string     `gorm:"column:student_id;type:varchar(20);uniqueIndex;not null" json:"student_id"` // 学号（业务主键）
	ClassName string     `gorm:"column:class_name;type:varchar(50);not null" json:"class_name"`             // 班级
	College   string     `gorm:"column:college;type:varchar(100);not null" json:"college"`                  // 学院
	Major     string     `gorm:"column:major;type:varchar(100);not null" json:"major"`                      // 专业
	Grade     string     `gorm:"column:grade;type:varchar(10);not null" json:"grade"`                       // 年级
	Gender    string     `gorm:"column:gender;type:varchar(4);not null" json:"gender"`                      // 性别：男/女
	Phone     *string    `gorm:"column:phone;type:varchar(20)" json:"phone"`                                // 手机号
	CreatedAt *time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName 设置表名
func (Student) TableName() string {
	return "students"
}

// IsValidGender 性别只允许 男/女
func IsValidGender(gender string) bool {
	return gender == GenderMale || gender == GenderFemale
}
