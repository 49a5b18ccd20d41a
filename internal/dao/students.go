package dao

import (
	"context"
	"errors"

	gormModel "github.com/Malowking/edugo/internal/model/gorm"
	"github.com/gogf/gf/v2/frame/g"
	"gorm.io/gorm"
)

// StudentDAO 学生信息数据访问对象
type StudentDAO struct{}

var Student = &StudentDAO{}

// Create 创建学生
func (d *StudentDAO) Create(ctx context.Context, student *gormModel.Student) error {
	if err := GetDB().WithContext(ctx).Create(student).Error; err != nil {
		g.Log().Errorf(ctx, "创建学生失败: %v", err)
		return err
	}
	return nil
}

// GetByStudentID 根据学号获取学生，不存在时返回 nil, nil
func (d *StudentDAO) GetByStudentID(ctx context.Context, studentID string) (*gormModel.Student, error) {
	var student gormModel.Student
	if err := GetDB().WithContext(ctx).Where("student_id = ?", studentID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		g.Log().Errorf(ctx, "查询学生失败: %v", err)
		return nil, err
	}
	return &student, nil
}

// List 分页查询，conditions 的键必须是列名，由调用方保证
func (d *StudentDAO) List(ctx context.Context, conditions map[string]interface{}, offset, limit int) ([]*gormModel.Student, error) {
	var students []*gormModel.Student
	query := GetDB().WithContext(ctx).Model(&gormModel.Student{})
	if len(conditions) > 0 {
		query = query.Where(conditions)
	}
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		g.Log().Errorf(ctx, "查询学生列表失败: %v", err)
		return nil, err
	}
	return students, nil
}

// Updates 按学号更新指定字段
func (d *StudentDAO) Updates(ctx context.Context, studentID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := GetDB().WithContext(ctx).
		Model(&gormModel.Student{}).
		Where("student_id = ?", studentID).
		Updates(updates).Error
	if err != nil {
		g.Log().Errorf(ctx, "更新学生失败: %v", err)
		return err
	}
	return nil
}

// Delete 按学号删除，返回删除行数
func (d *StudentDAO) Delete(ctx context.Context, studentID string) (int64, error) {
	result := GetDB().WithContext(ctx).Where("student_id = ?", studentID).Delete(&gormModel.Student{})
	if result.Error != nil {
		g.Log().Errorf(ctx, "删除学生失败: %v", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
