package export

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/nl2sql/common"
	"github.com/Malowking/edugo/nl2sql/executor"
	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func gradeEnvelope() *executor.Envelope {
	op := common.OpSelect
	sql := "SELECT grade, COUNT(*) AS n FROM students GROUP BY grade"
	return &executor.Envelope{
		Success:   true,
		Operation: &op,
		SQL:       &sql,
		Columns:   []string{"grade", "n"},
		Rows: []map[string]any{
			{"grade": "2021", "n": int64(12)},
			{"grade": "2022", "n": nil},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("Excel")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, f)

	_, err = ParseFormat("pdf")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))
}

func TestExport_RejectsWrites(t *testing.T) {
	op := common.OpDelete
	affected := int64(1)
	env := &executor.Envelope{Success: true, Operation: &op, AffectedRows: &affected}

	_, err := NewExporter(t.TempDir()).Export(context.Background(), env, FormatCSV, "")
	assert.True(t, errors.HasCode(err, errors.ErrExportFailed))

	_, err = NewExporter(t.TempDir()).Export(context.Background(), executor.Failure(common.KindUnsafeStatement, "unsafe statement", ""), FormatCSV, "")
	assert.Error(t, err)
}

func TestExport_CSV(t *testing.T) {
	result, err := NewExporter(t.TempDir()).Export(context.Background(), gradeEnvelope(), FormatCSV, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	data, err := os.ReadFile(result.FilePath)
	require.NoError(t, err)
	content := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	assert.Equal(t, "grade,n\n2021,12\n2022,\n", content)
	assert.Equal(t, int64(len(data)), result.Size)
}

func TestExport_Excel(t *testing.T) {
	result, err := NewExporter(t.TempDir()).Export(context.Background(), gradeEnvelope(), FormatExcel, "各年级人数")
	require.NoError(t, err)

	f, err := excelize.OpenFile(result.FilePath)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	title, _ := f.GetCellValue(sheet, "A1")
	header, _ := f.GetCellValue(sheet, "B2")
	value, _ := f.GetCellValue(sheet, "B3")
	assert.Equal(t, "各年级人数", title)
	assert.Equal(t, "n", header)
	assert.Equal(t, "12", value)
}

func TestExport_JSON(t *testing.T) {
	result, err := NewExporter(t.TempDir()).Export(context.Background(), gradeEnvelope(), FormatJSON, "")
	require.NoError(t, err)

	data, err := os.ReadFile(result.FilePath)
	require.NoError(t, err)
	var decoded struct {
		Columns []string `json:"columns"`
		Count   int      `json:"count"`
		SQL     string   `json:"sql"`
	}
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"grade", "n"}, decoded.Columns)
	assert.Equal(t, 2, decoded.Count)
	assert.Contains(t, decoded.SQL, "GROUP BY grade")
}
