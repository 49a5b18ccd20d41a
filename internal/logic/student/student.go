package student

import (
	"context"
	"sort"
	"strings"

	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/internal/dao"
	gormModel "github.com/Malowking/edugo/internal/model/gorm"
	"github.com/gogf/gf/v2/frame/g"
)

// FilterField 学生列表允许的过滤字段
type FilterField string

const (
	FilterCollege   FilterField = "college"
	FilterGrade     FilterField = "grade"
	FilterClassName FilterField = "class_name"
	FilterMajor     FilterField = "major"
	FilterGender    FilterField = "gender"
)

var filterFields = map[FilterField]struct{}{
	FilterCollege:   {},
	FilterGrade:     {},
	FilterClassName: {},
	FilterMajor:     {},
	FilterGender:    {},
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Filters 已校验的过滤条件
type Filters map[FilterField]string

// ParseFilters 校验过滤字段，空值忽略，未知字段直接拒绝
func ParseFilters(raw map[string]string) (Filters, error) {
	filters := make(Filters, len(raw))
	for key, value := range raw {
		field := FilterField(key)
		if _, ok := filterFields[field]; !ok {
			return nil, errors.Newf(errors.ErrInvalidFilter, "unsupported filter: %s", key)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if field == FilterGender && !gormModel.IsValidGender(value) {
			return nil, errors.Newf(errors.ErrInvalidParameter, "gender must be %s or %s", gormModel.GenderMale, gormModel.GenderFemale)
		}
		filters[field] = value
	}
	return filters, nil
}

func (f Filters) conditions() map[string]interface{} {
	conds := make(map[string]interface{}, len(f))
	for field, value := range f {
		conds[string(field)] = value
	}
	return conds
}

// String 用于日志，按字段名排序
func (f Filters) String() string {
	parts := make([]string, 0, len(f))
	for field, value := range f {
		parts = append(parts, string(field)+"="+value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// CreateInput 创建学生的字段
type CreateInput struct {
	Name      string
	StudentID string
	ClassName string
	College   string
	Major     string
	Grade     string
	Gender    string
	Phone     *string
}

// UpdateInput 只更新非空字段
type UpdateInput struct {
	Name      *string
	StudentID *string
	ClassName *string
	College   *string
	Major     *string
	Grade     *string
	Gender    *string
	Phone     *string
}

func (in UpdateInput) updates() map[string]interface{} {
	updates := make(map[string]interface{})
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("name", in.Name)
	set("student_id", in.StudentID)
	set("class_name", in.ClassName)
	set("college", in.College)
	set("major", in.Major)
	set("grade", in.Grade)
	set("gender", in.Gender)
	set("phone", in.Phone)
	return updates
}

// Create 创建学生，学号必须唯一
func Create(ctx context.Context, in CreateInput) (*gormModel.Student, error) {
	if !gormModel.IsValidGender(in.Gender) {
		return nil, errors.Newf(errors.ErrInvalidParameter, "gender must be %s or %s", gormModel.GenderMale, gormModel.GenderFemale)
	}

	existing, err := dao.Student.GetByStudentID(ctx, in.StudentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err, "failed to query student")
	}
	if existing != nil {
		return nil, errors.Newf(errors.ErrStudentExists, "学号 %s 已存在", in.StudentID)
	}

	student := &gormModel.Student{
		Name:      in.Name,
		StudentID: in.StudentID,
		ClassName: in.ClassName,
		College:   in.College,
		Major:     in.Major,
		Grade:     in.Grade,
		Gender:    in.Gender,
		Phone:     in.Phone,
	}
	if err := dao.Student.Create(ctx, student); err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseInsert, err, "failed to create student")
	}
	g.Log().Infof(ctx, "创建学生成功: student_id=%s", student.StudentID)
	return student, nil
}

// Get 根据学号获取学生
func Get(ctx context.Context, studentID string) (*gormModel.Student, error) {
	student, err := dao.Student.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err, "failed to query student")
	}
	if student == nil {
		return nil, errors.Newf(errors.ErrStudentNotFound, "学号 %s 不存在", studentID)
	}
	return student, nil
}

// List 分页查询学生列表
func List(ctx context.Context, filters Filters, skip, limit int) ([]*gormModel.Student, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	students, err := dao.Student.List(ctx, filters.conditions(), skip, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err, "failed to list students")
	}
	g.Log().Debugf(ctx, "查询学生列表: filters=[%s], skip=%d, limit=%d, count=%d", filters, skip, limit, len(students))
	return students, nil
}

// Update 更新学生信息，修改学号时同样检查唯一性
func Update(ctx context.Context, studentID string, in UpdateInput) (*gormModel.Student, error) {
	if in.Gender != nil && !gormModel.IsValidGender(*in.Gender) {
		return nil, errors.Newf(errors.ErrInvalidParameter, "gender must be %s or %s", gormModel.GenderMale, gormModel.GenderFemale)
	}

	if _, err := Get(ctx, studentID); err != nil {
		return nil, err
	}

	targetID := studentID
	if in.StudentID != nil && *in.StudentID != studentID {
		other, err := dao.Student.GetByStudentID(ctx, *in.StudentID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabaseQuery, err, "failed to query student")
		}
		if other != nil {
			return nil, errors.Newf(errors.ErrStudentExists, "学号 %s 已存在", *in.StudentID)
		}
		targetID = *in.StudentID
	}

	if err := dao.Student.Updates(ctx, studentID, in.updates()); err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseUpdate, err, "failed to update student")
	}
	return Get(ctx, targetID)
}

// Delete 按学号删除学生
func Delete(ctx context.Context, studentID string) error {
	affected, err := dao.Student.Delete(ctx, studentID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseDelete, err, "failed to delete student")
	}
	if affected == 0 {
		return errors.Newf(errors.ErrStudentNotFound, "学号 %s 不存在", studentID)
	}
	g.Log().Infof(ctx, "删除学生成功: student_id=%s", studentID)
	return nil
}
