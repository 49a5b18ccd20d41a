package schema

import (
	"fmt"
	"strings"
)

// Column 列描述
type Column struct {
	Name        string `json:"column_name"`
	DataType    string `json:"data_type"`
	Nullable    bool   `json:"nullable"`
	Description string `json:"description"`
}

// Table 表描述
type Table struct {
	Name        string   `json:"table_name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Columns     []Column `json:"columns"`
}

// Exemplar few-shot 示例：自然语言问题与对应SQL
type Exemplar struct {
	Question string `json:"question"`
	SQL      string `json:"sql"`
}

// Catalog 可查询表的描述和示例，进程启动时构建，之后只读
type Catalog struct {
	version   string
	tables    []Table
	exemplars []Exemplar
	rendered  string
}

// NewCatalog 创建目录，传入的切片会被复制
func NewCatalog(version string, tables []Table, exemplars []Exemplar) *Catalog {
	c := &Catalog{
		version:   version,
		tables:    make([]Table, len(tables)),
		exemplars: make([]Exemplar, len(exemplars)),
	}
	for i, t := range tables {
		t.Columns = append([]Column(nil), t.Columns...)
		c.tables[i] = t
	}
	copy(c.exemplars, exemplars)
	c.rendered = c.render()
	return c
}

// Version 版本号
func (c *Catalog) Version() string { return c.version }

// Tables 返回表描述的副本
func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.tables))
	for i, t := range c.tables {
		t.Columns = append([]Column(nil), t.Columns...)
		out[i] = t
	}
	return out
}

// Exemplars 返回示例的副本，顺序固定
func (c *Catalog) Exemplars() []Exemplar {
	return append([]Exemplar(nil), c.exemplars...)
}

// ColumnNames 所有表的列名
func (c *Catalog) ColumnNames() []string {
	var names []string
	for _, t := range c.tables {
		for _, col := range t.Columns {
			names = append(names, col.Name)
		}
	}
	return names
}

// Describe 提示词使用的 Schema 文本
func (c *Catalog) Describe() string {
	return c.rendered
}

func (c *Catalog) render() string {
	var sb strings.Builder
	for _, table := range c.tables {
		sb.WriteString(fmt.Sprintf("### 表: %s (%s)\n", table.Name, table.DisplayName))
		if table.Description != "" {
			sb.WriteString(fmt.Sprintf("说明: %s\n", table.Description))
		}
		sb.WriteString("字段:\n")
		for _, col := range table.Columns {
			nullable := "NOT NULL"
			if col.Nullable {
				nullable = "NULL"
			}
			sb.WriteString(fmt.Sprintf("- %s (%s, %s): %s\n", col.Name, col.DataType, nullable, col.Description))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// StudentsVersion 学生表描述的版本
const StudentsVersion = "students.v1"

// Students 学生信息表的目录
func Students() *Catalog {
	return NewCatalog(StudentsVersion, []Table{
		{
			Name:        "students",
			DisplayName: "学生信息表",
			Description: "每行一名学生，student_id 为业务主键",
			Columns: []Column{
				{Name: "id", DataType: "BIGINT", Description: "主键"},
				{Name: "name", DataType: "VARCHAR(50)", Description: "学生姓名"},
				{Name: "student_id", DataType: "VARCHAR(20)", Description: "学号，唯一"},
				{Name: "class_name", DataType: "VARCHAR(50)", Description: "班级"},
				{Name: "college", DataType: "VARCHAR(100)", Description: "学院"},
				{Name: "major", DataType: "VARCHAR(100)", Description: "专业"},
				{Name: "grade", DataType: "VARCHAR(10)", Description: "年级"},
				{Name: "gender", DataType: "ENUM('男','女')", Description: "性别（'男' 或 '女'）"},
				{Name: "phone", DataType: "VARCHAR(20)", Nullable: true, Description: "手机号"},
				{Name: "created_at", DataType: "TIMESTAMP", Nullable: true, Description: "创建时间"},
				{Name: "updated_at", DataType: "TIMESTAMP", Nullable: true, Description: "更新时间"},
			},
		},
	}, []Exemplar{
		{Question: "查询所有学生的信息", SQL: "SELECT * FROM students"},
		{Question: "查询计算机学院的所有学生", SQL: "SELECT * FROM students WHERE college = '计算机学院'"},
		{Question: "统计每个年级的学生人数", SQL: "SELECT grade, COUNT(*) as count FROM students GROUP BY grade"},
		{Question: "查询男女生的人数", SQL: "SELECT gender, COUNT(*) as count FROM students GROUP BY gender"},
		{
			Question: "添加学生：张三，学号2025001，计算机1班，计算机学院，计算机科学与技术专业，2025级，男，手机13800138001",
			SQL:      "INSERT INTO students (name, student_id, class_name, college, major, grade, gender, phone) VALUES ('张三', '2025001', '计算机1班', '计算机学院', '计算机科学与技术', '2025级', '男', '13800138001')",
		},
		{Question: "更新学号2024001的学生的手机号为13900139001", SQL: "UPDATE students SET phone = '13900139001' WHERE student_id = '2024001'"},
		{Question: "删除学号2024001的学生", SQL: "DELETE FROM students WHERE student_id = '2024001'"},
	})
}
