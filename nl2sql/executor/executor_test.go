package executor

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Malowking/edugo/nl2sql/common"
	"github.com/Malowking/edugo/nl2sql/datasource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore 内存中的学生表，事务内修改在提交后才生效
type stubStore struct {
	columns []string
	rows    [][]any

	beginErr  error
	queryErr  error
	execErr   error
	commitErr error

	queryFn  func(statement string, rows [][]any) *datasource.QueryResult
	mutateFn func(statement string, rows [][]any) ([][]any, int64)

	begins, queries, execs, commits, rollbacks int
}

func newStudentStore() *stubStore {
	return &stubStore{
		columns: []string{"student_id", "grade", "college"},
		rows: [][]any{
			{"2024001", "2024级", "计算机学院"},
			{"2024002", "2024级", "数学学院"},
			{"2023001", "2023级", "计算机学院"},
			{"2023002", "2023级", "物理学院"},
			{"2022001", "2022级", "计算机学院"},
		},
	}
}

func (s *stubStore) Begin(ctx context.Context) (datasource.Tx, error) {
	s.begins++
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	working := make([][]any, len(s.rows))
	copy(working, s.rows)
	return &stubTx{store: s, rows: working}, nil
}

type stubTx struct {
	store *stubStore
	rows  [][]any
}

func (t *stubTx) Query(ctx context.Context, statement string) (*datasource.QueryResult, error) {
	t.store.queries++
	if t.store.queryErr != nil {
		return nil, t.store.queryErr
	}
	if t.store.queryFn != nil {
		return t.store.queryFn(statement, t.rows), nil
	}
	out := make([][]any, len(t.rows))
	copy(out, t.rows)
	return &datasource.QueryResult{Columns: t.store.columns, Rows: out}, nil
}

func (t *stubTx) Exec(ctx context.Context, statement string) (int64, error) {
	t.store.execs++
	if t.store.execErr != nil {
		return 0, t.store.execErr
	}
	var affected int64
	if t.store.mutateFn != nil {
		t.rows, affected = t.store.mutateFn(statement, t.rows)
	}
	return affected, nil
}

func (t *stubTx) Commit() error {
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	t.store.commits++
	t.store.rows = t.rows
	return nil
}

func (t *stubTx) Rollback() error {
	t.store.rollbacks++
	return nil
}

// deleteWhere 删除第 col 列等于 value 的行
func deleteWhere(col int, value string) func(string, [][]any) ([][]any, int64) {
	return func(_ string, rows [][]any) ([][]any, int64) {
		kept := make([][]any, 0, len(rows))
		for _, r := range rows {
			if r[col] != value {
				kept = append(kept, r)
			}
		}
		return kept, int64(len(rows) - len(kept))
	}
}

func deleteAll(_ string, rows [][]any) ([][]any, int64) {
	return nil, int64(len(rows))
}

const adminToken = "s3cret"

func newTestExecutor(store datasource.Store) *Executor {
	return NewExecutor(store, Config{
		AdminToken:      adminToken,
		MaxAffectedRows: 3,
		MaxQueryRows:    100,
		StoreTimeout:    time.Second,
	})
}

func TestExecute_UnsafeStatementNeverReachesStore(t *testing.T) {
	store := newStudentStore()
	exec := newTestExecutor(store)

	for _, stmt := range []string{
		"DROP TABLE students",
		"SELECT * FROM students; DROP TABLE students",
		"SHOW TABLES",
		"",
	} {
		env := exec.Execute(context.Background(), stmt, adminToken)
		assert.False(t, env.Success, stmt)
		assert.Equal(t, common.MsgUnsafeStatement, env.Message)
		assert.Equal(t, common.KindUnsafeStatement, env.ErrorKind)
		assert.Nil(t, env.Rows)
		assert.Nil(t, env.AffectedRows)
	}
	assert.Zero(t, store.begins)
}

func TestExecute_StackedWriteBehindSelectNeverReachesStore(t *testing.T) {
	store := newStudentStore()
	store.mutateFn = deleteAll
	exec := newTestExecutor(store)

	env := exec.Execute(context.Background(), "SELECT 1; DELETE FROM students", "")
	assert.False(t, env.Success)
	assert.Equal(t, common.MsgUnsafeStatement, env.Message)
	assert.Equal(t, common.KindUnsafeStatement, env.ErrorKind)
	assert.Nil(t, env.Rows)
	assert.Zero(t, store.begins)
	assert.Zero(t, store.queries)
	assert.Len(t, store.rows, 5)
}

func TestExecute_WriteWithoutPrivilegeNeverReachesStore(t *testing.T) {
	store := newStudentStore()
	store.mutateFn = deleteWhere(0, "2024001")
	exec := newTestExecutor(store)

	stmts := []string{
		"DELETE FROM students WHERE student_id='2024001'",
		"UPDATE students SET grade = '2025级' WHERE student_id = '2024001'",
		"INSERT INTO students (student_id) VALUES ('2025001')",
	}
	for _, token := range []string{"", "wrong", "S3CRET", adminToken + " "} {
		for _, stmt := range stmts {
			env := exec.Execute(context.Background(), stmt, token)
			assert.False(t, env.Success)
			assert.Contains(t, env.Message, "privilege")
			assert.Equal(t, common.KindInsufficientPrivilege, env.ErrorKind)
		}
	}
	assert.Zero(t, store.begins)
	assert.Len(t, store.rows, 5)
}

func TestExecute_EmptyConfiguredSecretDisablesWrites(t *testing.T) {
	store := newStudentStore()
	exec := NewExecutor(store, Config{AdminToken: ""})

	env := exec.Execute(context.Background(), "DELETE FROM students WHERE student_id='2024001'", "")
	assert.False(t, env.Success)
	assert.Equal(t, common.MsgInsufficientPrivilege, env.Message)
	assert.Zero(t, store.begins)
}

func TestExecute_DeleteScenario(t *testing.T) {
	store := newStudentStore()
	store.mutateFn = deleteWhere(0, "2024001")
	exec := newTestExecutor(store)
	stmt := "DELETE FROM students WHERE student_id='2024001'"

	env := exec.Execute(context.Background(), stmt, "")
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "privilege")

	env = exec.Execute(context.Background(), stmt, adminToken)
	require.True(t, env.Success, env.Message)
	require.NotNil(t, env.Operation)
	assert.Equal(t, common.OpDelete, *env.Operation)
	require.NotNil(t, env.AffectedRows)
	assert.Equal(t, int64(1), *env.AffectedRows)
	assert.Nil(t, env.Rows)
	assert.Equal(t, "deleted 1 records", env.Message)
	assert.Equal(t, stmt, *env.SQL)
	assert.Equal(t, 1, store.commits)
	assert.Zero(t, store.rollbacks)
	assert.Len(t, store.rows, 4)
}

func TestExecute_WriteMessages(t *testing.T) {
	store := newStudentStore()
	store.mutateFn = func(_ string, rows [][]any) ([][]any, int64) { return rows, 2 }
	exec := newTestExecutor(store)

	env := exec.Execute(context.Background(), "INSERT INTO students (student_id) VALUES ('1'), ('2')", adminToken)
	require.True(t, env.Success)
	assert.Equal(t, "inserted 2 records", env.Message)

	env = exec.Execute(context.Background(), "update students set grade='x' where grade='y'", adminToken)
	require.True(t, env.Success)
	assert.Equal(t, common.OpUpdate, *env.Operation)
	assert.Equal(t, "updated 2 records", env.Message)
}

func TestExecute_RowCeilingRollsBackEntirely(t *testing.T) {
	store := newStudentStore()
	store.mutateFn = deleteAll
	exec := newTestExecutor(store)

	before := exec.Execute(context.Background(), "SELECT * FROM students", "")
	require.True(t, before.Success)

	env := exec.Execute(context.Background(), "DELETE FROM students", adminToken)
	assert.False(t, env.Success)
	assert.Equal(t, "affected rows exceed limit (3), operation rolled back", env.Message)
	assert.Equal(t, common.KindRowLimitExceeded, env.ErrorKind)
	assert.Nil(t, env.AffectedRows)
	assert.Equal(t, 1, store.rollbacks)

	after := exec.Execute(context.Background(), "SELECT * FROM students", "")
	require.True(t, after.Success)
	assert.Equal(t, before.Rows, after.Rows)
}

func TestExecute_WriteAtCeilingCommits(t *testing.T) {
	store := newStudentStore()
	store.mutateFn = deleteWhere(2, "计算机学院")
	exec := newTestExecutor(store)

	env := exec.Execute(context.Background(), "DELETE FROM students WHERE college = '计算机学院'", adminToken)
	require.True(t, env.Success)
	assert.Equal(t, int64(3), *env.AffectedRows)
	assert.Len(t, store.rows, 2)
}

func TestExecute_SelectTruncation(t *testing.T) {
	store := newStudentStore()
	exec := NewExecutor(store, Config{AdminToken: adminToken, MaxQueryRows: 2})

	env := exec.Execute(context.Background(), "SELECT * FROM students", "")
	require.True(t, env.Success)
	require.Len(t, env.Rows, 2)
	assert.Equal(t, int64(2), *env.AffectedRows)
	assert.Equal(t, "query succeeded, 2 records", env.Message)
	assert.Equal(t, "2024001", env.Rows[0]["student_id"])
	assert.Equal(t, "2024002", env.Rows[1]["student_id"])
	assert.Equal(t, []string{"student_id", "grade", "college"}, env.Columns)
	assert.Equal(t, 1, store.commits)
}

func TestExecute_TruncationNeverFabricatesRows(t *testing.T) {
	store := newStudentStore()
	store.rows = store.rows[:1]
	exec := NewExecutor(store, Config{MaxQueryRows: 10})

	env := exec.Execute(context.Background(), "SELECT * FROM students", "")
	require.True(t, env.Success)
	assert.Len(t, env.Rows, 1)
}

func TestExecute_SelectIsIdempotent(t *testing.T) {
	store := newStudentStore()
	exec := newTestExecutor(store)

	first := exec.Execute(context.Background(), "SELECT * FROM students", "")
	second := exec.Execute(context.Background(), "SELECT * FROM students", "")
	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestExecute_GroupByScenario(t *testing.T) {
	store := newStudentStore()
	store.queryFn = func(_ string, rows [][]any) *datasource.QueryResult {
		counts := map[string]int64{}
		for _, r := range rows {
			counts[r[1].(string)]++
		}
		grades := make([]string, 0, len(counts))
		for g := range counts {
			grades = append(grades, g)
		}
		sort.Strings(grades)
		out := make([][]any, 0, len(grades))
		for _, g := range grades {
			out = append(out, []any{[]byte(g), counts[g]})
		}
		return &datasource.QueryResult{Columns: []string{"grade", "COUNT(*)"}, Rows: out}
	}
	exec := newTestExecutor(store)

	env := exec.Execute(context.Background(), "SELECT grade, COUNT(*) FROM students GROUP BY grade", "")
	require.True(t, env.Success)
	assert.Equal(t, common.OpSelect, *env.Operation)
	require.Len(t, env.Rows, 3)
	assert.Equal(t, "2022级", env.Rows[0]["grade"])
	assert.Equal(t, int64(2), env.Rows[2]["COUNT(*)"])
}

func TestExecute_NormalizesDatetimes(t *testing.T) {
	created := time.Date(2024, 9, 1, 8, 30, 0, 0, time.UTC)
	store := &stubStore{
		columns: []string{"name", "created_at", "updated_at", "raw"},
		rows:    [][]any{{"张三", created, nil, []byte("abc")}},
	}
	exec := newTestExecutor(store)

	env := exec.Execute(context.Background(), "SELECT * FROM students", "")
	require.True(t, env.Success)
	row := env.Rows[0]
	assert.Equal(t, "2024-09-01T08:30:00Z", row["created_at"])
	assert.Nil(t, row["updated_at"])
	assert.Equal(t, "abc", row["raw"])
	assert.Equal(t, "张三", row["name"])
}

func TestExecute_StoreErrorsRollBack(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		store := newStudentStore()
		store.queryErr = errors.New("connection lost")
		env := newTestExecutor(store).Execute(context.Background(), "SELECT * FROM students", "")
		assert.False(t, env.Success)
		assert.Equal(t, "execution failed: connection lost", env.Message)
		assert.Equal(t, common.KindExecutionFailure, env.ErrorKind)
		assert.Nil(t, env.Rows)
		assert.Equal(t, 1, store.rollbacks)
		assert.Zero(t, store.commits)
	})

	t.Run("exec", func(t *testing.T) {
		store := newStudentStore()
		store.execErr = errors.New("duplicate entry")
		env := newTestExecutor(store).Execute(context.Background(), "INSERT INTO students (student_id) VALUES ('2024001')", adminToken)
		assert.False(t, env.Success)
		assert.Contains(t, env.Message, "execution failed: duplicate entry")
		assert.Equal(t, 1, store.rollbacks)
	})

	t.Run("begin", func(t *testing.T) {
		store := newStudentStore()
		store.beginErr = errors.New("too many connections")
		env := newTestExecutor(store).Execute(context.Background(), "SELECT * FROM students", "")
		assert.False(t, env.Success)
		assert.Contains(t, env.Message, "too many connections")
	})

	t.Run("commit", func(t *testing.T) {
		store := newStudentStore()
		store.mutateFn = deleteWhere(0, "2024001")
		store.commitErr = errors.New("deadlock")
		env := newTestExecutor(store).Execute(context.Background(), "DELETE FROM students WHERE student_id='2024001'", adminToken)
		assert.False(t, env.Success)
		assert.Contains(t, env.Message, "deadlock")
		assert.Nil(t, env.AffectedRows)
		assert.Equal(t, 1, store.rollbacks)
		assert.Len(t, store.rows, 5)
	})
}

func TestEnvelope_Helpers(t *testing.T) {
	store := newStudentStore()
	env := newTestExecutor(store).Execute(context.Background(), "SELECT * FROM students", "")
	assert.True(t, env.IsSelect())
	assert.Equal(t, "SELECT", env.OperationName())
	assert.Equal(t, 5, env.Table().Len())
	assert.Equal(t, []string{"student_id", "grade", "college"}, env.Table().Columns)

	failed := Failure(common.KindUnsafeStatement, "x", "")
	assert.False(t, failed.IsSelect())
	assert.Nil(t, failed.SQL)
	assert.Equal(t, 0, failed.Table().Len())
}
