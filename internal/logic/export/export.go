package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Malowking/edugo/core/errors"
	"github.com/Malowking/edugo/nl2sql/executor"
	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gfile"
	"github.com/gogf/gf/v2/util/gconv"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Format 导出文件格式
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
	FormatJSON  Format = "json"
)

// ParseFormat 空值默认 csv
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatExcel, "excel":
		return FormatExcel, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Newf(errors.ErrInvalidParameter, "unsupported export format: %s", s)
	}
}

// Result 导出结果
type Result struct {
	FilePath    string    `json:"-"`
	FileURL     string    `json:"file_url"`
	Filename    string    `json:"filename"`
	Format      string    `json:"format"`
	Size        int64     `json:"size"`
	RowCount    int       `json:"row_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Exporter 把查询结果写成文件
type Exporter struct {
	baseDir string
}

// NewExporter baseDir 为空时使用 upload
func NewExporter(baseDir string) *Exporter {
	if baseDir == "" {
		baseDir = "upload"
	}
	return &Exporter{baseDir: baseDir}
}

// Dir 导出文件所在目录
func (e *Exporter) Dir() string {
	return filepath.Join(e.baseDir, "export")
}

// URLPrefix 下载路径前缀，不含首尾斜杠
func (e *Exporter) URLPrefix() string {
	return filepath.ToSlash(filepath.Join(filepath.Base(e.baseDir), "export"))
}

// Export 只接受成功的查询结果，写操作和失败结果一律拒绝
func (e *Exporter) Export(ctx context.Context, env *executor.Envelope, format Format, title string) (*Result, error) {
	if !env.IsSelect() {
		return nil, errors.New(errors.ErrExportFailed, "only successful SELECT results can be exported")
	}
	if len(env.Columns) == 0 {
		return nil, errors.New(errors.ErrExportFailed, "no columns to export")
	}

	targetDir := e.Dir()
	if !gfile.Exists(targetDir) {
		if err := gfile.Mkdir(targetDir); err != nil {
			return nil, errors.Newf(errors.ErrExportFailed, "failed to create directory %s: %v", targetDir, err)
		}
	}

	fileName := strings.ReplaceAll(uuid.New().String(), "-", "") + "." + string(format)
	targetPath := filepath.Join(targetDir, fileName)
	g.Log().Infof(ctx, "Exporting query result to file: %s", targetPath)

	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(targetPath, env.Columns, env.Rows)
	case FormatExcel:
		err = writeExcel(targetPath, title, env.Columns, env.Rows)
	case FormatJSON:
		err = writeJSON(targetPath, title, env)
	default:
		return nil, errors.Newf(errors.ErrInvalidParameter, "unsupported export format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrExportFailed, err, "export failed")
	}

	result := &Result{
		FilePath:    targetPath,
		FileURL:     "/" + e.URLPrefix() + "/" + fileName,
		Filename:    fileName,
		Format:      string(format),
		Size:        gfile.Size(targetPath),
		RowCount:    len(env.Rows),
		GeneratedAt: time.Now(),
	}
	g.Log().Infof(ctx, "Export completed: %s, size: %d bytes, rows: %d", result.Filename, result.Size, result.RowCount)
	return result, nil
}

func writeCSV(path string, columns []string, rows []map[string]any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM，Excel打开中文不乱码
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row[col]; ok && v != nil {
				record[i] = gconv.String(v)
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeExcel(path, title string, columns []string, rows []map[string]any) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rowIndex := 1
	if title != "" {
		cell, _ := excelize.CoordinatesToCellName(1, rowIndex)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
		_ = f.SetCellStyle(sheet, cell, cell, titleStyle)
		rowIndex++
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, rowIndex)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	rowIndex++

	for _, row := range rows {
		for i, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIndex)
			if err := f.SetCellValue(sheet, cell, row[col]); err != nil {
				return err
			}
		}
		rowIndex++
	}

	if len(columns) > 0 {
		first, _ := excelize.ColumnNumberToName(1)
		last, _ := excelize.ColumnNumberToName(len(columns))
		_ = f.SetColWidth(sheet, first, last, 15)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func writeJSON(path, title string, env *executor.Envelope) error {
	payload := map[string]interface{}{
		"columns": env.Columns,
		"data":    env.Rows,
		"count":   len(env.Rows),
	}
	if title != "" {
		payload["title"] = title
	}
	if env.SQL != nil {
		payload["sql"] = *env.SQL
	}

	data, err := sonic.ConfigStd.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
