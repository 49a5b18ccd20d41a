package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Table 有序列名的表格数据
// Rows 中的 map 无序，列顺序以 Columns 为准
type Table struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// NewTable 创建表格，columns 为空时从行数据推断
func NewTable(columns []string, rows []map[string]any) *Table {
	if len(columns) == 0 {
		columns = InferColumns(rows)
	}
	return &Table{Columns: columns, Rows: rows}
}

// Len 行数
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn 判断列是否存在
func (t *Table) HasColumn(name string) bool {
	if t == nil || name == "" {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Values 按行顺序返回某一列的值
func (t *Table) Values(column string) []any {
	values := make([]any, 0, t.Len())
	for _, row := range t.Rows {
		values = append(values, row[column])
	}
	return values
}

// InferColumns 在无法得知列顺序时，按首次出现顺序收集列名；同一行内的键按字典序排列
func InferColumns(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			if _, ok := seen[k]; !ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = struct{}{}
			columns = append(columns, k)
		}
	}
	return columns
}

// ColumnOrderFromJSON 从原始JSON请求体中恢复 field 字段（对象数组）的列顺序
// Go 的 map 会丢失键顺序，而图表按列位置回退时依赖原始顺序
func ColumnOrderFromJSON(raw []byte, field string) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if key != field {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}
		return readArrayColumns(dec)
	}
	return nil, fmt.Errorf("field %q not found", field)
}

func readArrayColumns(dec *json.Decoder) ([]string, error) {
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var columns []string
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
	}
	return columns, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
