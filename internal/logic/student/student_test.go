package student

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/internal/dao"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var studentColumns = []string{"id", "name", "student_id", "class_name", "college", "major", "grade", "gender", "phone", "created_at", "updated_at"}

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	dao.SetDB(db)
	return mock
}

func TestParseFilters(t *testing.T) {
	filters, err := ParseFilters(map[string]string{"college": "计算机学院", "grade": " 2021 ", "major": ""})
	require.NoError(t, err)
	assert.Equal(t, Filters{FilterCollege: "计算机学院", FilterGrade: "2021"}, filters)
	assert.Equal(t, "college=计算机学院,grade=2021", filters.String())

	_, err = ParseFilters(map[string]string{"phone": "123"})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidFilter))

	_, err = ParseFilters(map[string]string{"gender": "x"})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))

	filters, err = ParseFilters(nil)
	require.NoError(t, err)
	assert.Empty(t, filters)
}

func TestUpdateInput_OnlyNonEmptyFields(t *testing.T) {
	name := "李四"
	updates := UpdateInput{Name: &name}.updates()
	assert.Equal(t, map[string]interface{}{"name": "李四"}, updates)
}

func TestGet_NotFound(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `students` WHERE student_id = \\?").
		WillReturnRows(sqlmock.NewRows(studentColumns))

	_, err := Get(context.Background(), "2024001")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrStudentNotFound))
	assert.Contains(t, err.Error(), "2024001")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateStudentID(t *testing.T) {
	mock := setupMockDB(t)
	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `students` WHERE student_id = \\?").
		WillReturnRows(sqlmock.NewRows(studentColumns).
			AddRow(1, "张三", "2024001", "计科1班", "计算机学院", "计算机科学", "2024", "男", nil, now, now))

	_, err := Create(context.Background(), CreateInput{
		Name: "王五", StudentID: "2024001", ClassName: "计科1班",
		College: "计算机学院", Major: "计算机科学", Grade: "2024", Gender: "男",
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrStudentExists))
	assert.Contains(t, err.Error(), "已存在")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Success(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `students` WHERE student_id = \\?").
		WillReturnRows(sqlmock.NewRows(studentColumns))
	mock.ExpectExec("INSERT INTO `students`").
		WillReturnResult(sqlmock.NewResult(7, 1))

	student, err := Create(context.Background(), CreateInput{
		Name: "王五", StudentID: "2024009", ClassName: "计科1班",
		College: "计算机学院", Major: "计算机科学", Grade: "2024", Gender: "女",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), student.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RejectsInvalidGender(t *testing.T) {
	setupMockDB(t)
	_, err := Create(context.Background(), CreateInput{StudentID: "1", Gender: "unknown"})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))
}

func TestList_AppliesFilters(t *testing.T) {
	mock := setupMockDB(t)
	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `students` WHERE `students`.`college` = \\? ORDER BY id ASC LIMIT \\?").
		WillReturnRows(sqlmock.NewRows(studentColumns).
			AddRow(1, "张三", "2024001", "计科1班", "计算机学院", "计算机科学", "2024", "男", "13800000000", now, now))

	students, err := List(context.Background(), Filters{FilterCollege: "计算机学院"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "张三", students[0].Name)
	require.NotNil(t, students[0].Phone)
	assert.Equal(t, "13800000000", *students[0].Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_CombinesFiltersInColumnOrder(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `students` WHERE `students`.`college` = \\? AND `students`.`grade` = \\? ORDER BY id ASC LIMIT \\? OFFSET \\?").
		WillReturnRows(sqlmock.NewRows(studentColumns))

	filters, err := ParseFilters(map[string]string{"grade": "2024", "college": "计算机学院"})
	require.NoError(t, err)

	students, err := List(context.Background(), filters, 20, 10)
	require.NoError(t, err)
	assert.Empty(t, students)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectExec("DELETE FROM `students` WHERE student_id = \\?").
		WithArgs("2024001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `students` WHERE student_id = \\?").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Delete(context.Background(), "2024001"))
	err := Delete(context.Background(), "missing")
	assert.True(t, errors.HasCode(err, errors.ErrStudentNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
