package edugo

import (
	"context"

	"github.com/Malowking/edugo/api/edugo/v1"
	"github.com/Malowking/edugo/internal/logic/student"
	"github.com/gogf/gf/v2/frame/g"
)

func (c *ControllerV1) StudentCreate(ctx context.Context, req *v1.StudentCreateReq) (res *v1.StudentCreateRes, err error) {
	g.Log().Infof(ctx, "StudentCreate request - StudentID: %s, Name: %s", req.StudentID, req.Name)

	s, err := student.Create(ctx, student.CreateInput{
		Name:      req.Name,
		StudentID: req.StudentID,
		ClassName: req.ClassName,
		College:   req.College,
		Major:     req.Major,
		Grade:     req.Grade,
		Gender:    req.Gender,
		Phone:     req.Phone,
	})
	if err != nil {
		return nil, err
	}
	return &v1.StudentCreateRes{Student: s}, nil
}

func (c *ControllerV1) StudentList(ctx context.Context, req *v1.StudentListReq) (res *v1.StudentListRes, err error) {
	filters, err := student.ParseFilters(map[string]string{
		string(student.FilterCollege):   req.College,
		string(student.FilterGrade):     req.Grade,
		string(student.FilterClassName): req.ClassName,
		string(student.FilterMajor):     req.Major,
		string(student.FilterGender):    req.Gender,
	})
	if err != nil {
		return nil, err
	}

	students, err := student.List(ctx, filters, req.Skip, req.Limit)
	if err != nil {
		return nil, err
	}
	return &v1.StudentListRes{Data: students, Total: len(students)}, nil
}

func (c *ControllerV1) StudentGet(ctx context.Context, req *v1.StudentGetReq) (res *v1.StudentGetRes, err error) {
	s, err := student.Get(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	return &v1.StudentGetRes{Student: s}, nil
}

func (c *ControllerV1) StudentUpdate(ctx context.Context, req *v1.StudentUpdateReq) (res *v1.StudentUpdateRes, err error) {
	g.Log().Infof(ctx, "StudentUpdate request - StudentID: %s", req.StudentID)

	s, err := student.Update(ctx, req.StudentID, student.UpdateInput{
		Name:      req.Name,
		StudentID: req.NewStudentID,
		ClassName: req.ClassName,
		College:   req.College,
		Major:     req.Major,
		Grade:     req.Grade,
		Gender:    req.Gender,
		Phone:     req.Phone,
	})
	if err != nil {
		return nil, err
	}
	return &v1.StudentUpdateRes{Student: s}, nil
}

func (c *ControllerV1) StudentDelete(ctx context.Context, req *v1.StudentDeleteReq) (res *v1.StudentDeleteRes, err error) {
	g.Log().Infof(ctx, "StudentDelete request - StudentID: %s", req.StudentID)

	if err := student.Delete(ctx, req.StudentID); err != nil {
		return nil, err
	}
	return &v1.StudentDeleteRes{}, nil
}
