package v1

import (
	gormModel "github.com/Malowking/edugo/internal/model/gorm"
	"github.com/gogf/gf/v2/frame/g"
)

type StudentCreateReq struct {
	g.Meta    `path:"/v1/database/students" method:"post" tags:"student" summary:"创建学生"`
	Name      string  `json:"name" v:"required|length:1,50"`
	StudentID string  `json:"student_id" v:"required|length:1,20"`
	ClassName string  `json:"class_name" v:"required|length:1,50"`
	College   string  `json:"college" v:"required|length:1,100"`
	Major     string  `json:"major" v:"required|length:1,100"`
	Grade     string  `json:"grade" v:"required|length:1,10"`
	Gender    string  `json:"gender" v:"required|in:男,女"`
	Phone     *string `json:"phone" v:"max-length:20"`
}

type StudentCreateRes struct {
	*gormModel.Student
}

type StudentListReq struct {
	g.Meta    `path:"/v1/database/students" method:"get" tags:"student" summary:"学生列表"`
	Skip      int    `json:"skip" d:"0" v:"min:0"`
	Limit     int    `json:"limit" d:"100" v:"min:1|max:1000"`
	College   string `json:"college"`
	Grade     string `json:"grade"`
	ClassName string `json:"class_name"`
	Major     string `json:"major"`
	Gender    string `json:"gender" v:"in:男,女"`
}

type StudentListRes struct {
	Data  []*gormModel.Student `json:"data"`
	Total int                  `json:"total"` // 本页条数
}

type StudentGetReq struct {
	g.Meta    `path:"/v1/database/students/{student_id}" method:"get" tags:"student" summary:"按学号查询学生"`
	StudentID string `json:"student_id" v:"required"`
}

type StudentGetRes struct {
	*gormModel.Student
}

type StudentUpdateReq struct {
	g.Meta       `path:"/v1/database/students/{student_id}" method:"put" tags:"student" summary:"更新学生"`
	StudentID    string  `json:"student_id" in:"path" v:"required"`
	Name         *string `json:"name" v:"length:1,50"`
	NewStudentID *string `json:"new_student_id" v:"length:1,20"`
	ClassName    *string `json:"class_name" v:"length:1,50"`
	College      *string `json:"college" v:"length:1,100"`
	Major        *string `json:"major" v:"length:1,100"`
	Grade        *string `json:"grade" v:"length:1,10"`
	Gender       *string `json:"gender" v:"in:男,女"`
	Phone        *string `json:"phone" v:"max-length:20"`
}

type StudentUpdateRes struct {
	*gormModel.Student
}

type StudentDeleteReq struct {
	g.Meta    `path:"/v1/database/students/{student_id}" method:"delete" tags:"student" summary:"删除学生"`
	StudentID string `json:"student_id" v:"required"`
}

type StudentDeleteRes struct{}
