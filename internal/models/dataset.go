package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ColumnType 表示数据集中某一列的推断类型。
type ColumnType string

const (
	ColumnText        ColumnType = "text"        // 自由文本列
	ColumnNumeric     ColumnType = "numeric"     // 数值列
	ColumnTimestamp   ColumnType = "timestamp"   // 时间戳列
	ColumnCategorical ColumnType = "categorical" // 分类（枚举值）列
)

// Column 描述数据集的一列：名称与类型。
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Dataset 是一个带类型列的有序行集合，对应一张电子表格工作表。
// 单元格的取值类型为 string、float64、time.Time 或 nil。
//
// 所有派生操作（GroupCount、Filter、Head 等）都返回新的 Dataset，
// 绝不就地修改接收者，因此同一份源数据可以被重复查询安全复用。
type Dataset struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewDataset 创建一个带有给定列、零行的数据集。
func NewDataset(cols ...Column) *Dataset {
	return &Dataset{Columns: cols, Rows: [][]any{}}
}

// Len 返回数据集的行数。
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex 返回指定名称列的下标；列不存在时返回 -1。
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn 判断数据集是否包含指定名称的列。
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// ColumnNames 返回所有列名，保持声明顺序。
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Clone 返回数据集的深拷贝。单元格的值本身是不可变类型，按值复制即可。
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Columns: make([]Column, len(d.Columns)),
		Rows:    make([][]any, len(d.Rows)),
	}
	copy(out.Columns, d.Columns)
	for i, row := range d.Rows {
		r := make([]any, len(row))
		copy(r, row)
		out.Rows[i] = r
	}
	return out
}

// Head 返回仅包含前 n 行的新数据集。n 大于行数时返回全部行，n 为负数时按 0 处理。
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	out := &Dataset{Columns: append([]Column(nil), d.Columns...)}
	out.Rows = make([][]any, n)
	for i := 0; i < n; i++ {
		r := make([]any, len(d.Rows[i]))
		copy(r, d.Rows[i])
		out.Rows[i] = r
	}
	return out
}

// AddColumn 在数据集的副本上追加一列并返回该副本。
// values 的长度必须与行数一致，否则返回错误。
func (d *Dataset) AddColumn(col Column, values []any) (*Dataset, error) {
	if len(values) != len(d.Rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", col.Name, len(values), len(d.Rows))
	}
	out := d.Clone()
	out.Columns = append(out.Columns, col)
	for i := range out.Rows {
		out.Rows[i] = append(out.Rows[i], values[i])
	}
	return out, nil
}

// Cell 返回第 row 行、名称为 col 的单元格的值。
func (d *Dataset) Cell(row int, col string) (any, error) {
	idx := d.ColumnIndex(col)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	if row < 0 || row >= len(d.Rows) {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	return d.Rows[row][idx], nil
}

// ColumnStrings 以字符串形式返回某一列的全部值，供嵌入模型等按文本消费。
func (d *Dataset) ColumnStrings(col string) ([]string, error) {
	idx := d.ColumnIndex(col)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = FormatCell(row[idx])
	}
	return out, nil
}

// GroupCount 按 by 列分组并统计每组行数，结果列为 [by, out]。
// 分组顺序为首次出现顺序，保证同一输入的输出确定。
func (d *Dataset) GroupCount(by, out string) (*Dataset, error) {
	idx := d.ColumnIndex(by)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", by)
	}
	counts := map[string]float64{}
	var order []string
	for _, row := range d.Rows {
		key := FormatCell(row[idx])
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}
	res := NewDataset(Column{Name: by, Type: ColumnCategorical}, Column{Name: out, Type: ColumnNumeric})
	for _, key := range order {
		res.Rows = append(res.Rows, []any{key, counts[key]})
	}
	return res, nil
}

// GroupSum 按 by 列分组并对 val 列求和。val 必须是数值列，空单元格不参与聚合。
func (d *Dataset) GroupSum(by, val, out string) (*Dataset, error) {
	return d.groupReduce(by, val, out, false)
}

// GroupMean 按 by 列分组并对 val 列求均值。val 必须是数值列，空单元格不参与聚合。
func (d *Dataset) GroupMean(by, val, out string) (*Dataset, error) {
	return d.groupReduce(by, val, out, true)
}

func (d *Dataset) groupReduce(by, val, out string, mean bool) (*Dataset, error) {
	byIdx := d.ColumnIndex(by)
	if byIdx < 0 {
		return nil, fmt.Errorf("unknown column %q", by)
	}
	valIdx := d.ColumnIndex(val)
	if valIdx < 0 {
		return nil, fmt.Errorf("unknown column %q", val)
	}
	sums := map[string]float64{}
	counts := map[string]float64{}
	var order []string
	for _, row := range d.Rows {
		// 稀疏列里的空单元格按缺失值处理，整行跳过。
		if row[valIdx] == nil {
			continue
		}
		key := FormatCell(row[byIdx])
		n, ok := asNumber(row[valIdx])
		if !ok {
			return nil, fmt.Errorf("column %q is not numeric", val)
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		sums[key] += n
		counts[key]++
	}
	res := NewDataset(Column{Name: by, Type: ColumnCategorical}, Column{Name: out, Type: ColumnNumeric})
	for _, key := range order {
		v := sums[key]
		if mean {
			v = v / counts[key]
		}
		res.Rows = append(res.Rows, []any{key, v})
	}
	return res, nil
}

// Filter 返回仅包含满足 "col op value" 条件的行的新数据集。
// 支持的 op：==、!=、>、<、>=、<=、contains（大小写不敏感的子串匹配）。
func (d *Dataset) Filter(col, op string, value any) (*Dataset, error) {
	idx := d.ColumnIndex(col)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	out := &Dataset{Columns: append([]Column(nil), d.Columns...)}
	for _, row := range d.Rows {
		ok, err := compareCells(row[idx], op, value)
		if err != nil {
			return nil, err
		}
		if ok {
			r := make([]any, len(row))
			copy(r, row)
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

// SortBy 按指定列排序并返回新数据集。数值与时间列按大小排序，其余按字典序。
func (d *Dataset) SortBy(col string, desc bool) (*Dataset, error) {
	idx := d.ColumnIndex(col)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	out := d.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool {
		less := cellLess(out.Rows[i][idx], out.Rows[j][idx])
		if desc {
			return !less && !cellEqual(out.Rows[i][idx], out.Rows[j][idx])
		}
		return less
	})
	return out, nil
}

// Resample 把时间戳列的值截断到给定周期（day、week、month、year）的起点，
// 返回处理后的新数据集。空单元格原样保留。通常与 GroupCount 组合实现趋势聚合。
func (d *Dataset) Resample(timeCol, period string) (*Dataset, error) {
	idx := d.ColumnIndex(timeCol)
	if idx < 0 {
		return nil, fmt.Errorf("unknown column %q", timeCol)
	}
	out := d.Clone()
	for i, row := range out.Rows {
		if row[idx] == nil {
			continue
		}
		t, ok := row[idx].(time.Time)
		if !ok {
			return nil, fmt.Errorf("column %q is not a timestamp column", timeCol)
		}
		bucket, err := truncatePeriod(t, period)
		if err != nil {
			return nil, err
		}
		out.Rows[i][idx] = bucket
	}
	return out, nil
}

// Markdown 把数据集渲染为 Markdown 表格文本，供提示词中的数据样例使用。
func (d *Dataset) Markdown() string {
	var sb strings.Builder
	names := d.ColumnNames()
	sb.WriteString("| " + strings.Join(names, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(names)) + "\n")
	for _, row := range d.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatCell(v)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}

// DTypes 返回 "列名: 类型" 的逐行文本，对应样例数据旁的结构说明。
func (d *Dataset) DTypes() string {
	var sb strings.Builder
	for _, c := range d.Columns {
		sb.WriteString(fmt.Sprintf("%-24s %s\n", c.Name, c.Type))
	}
	return sb.String()
}

// FormatCell 把单元格的值转换为稳定的字符串表示。
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", x)
	}
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func compareCells(cell any, op string, value any) (bool, error) {
	// 两侧均可解析为数值时按数值比较，否则退化为字符串比较。
	ln, lok := asNumber(cell)
	rn, rok := asNumber(value)
	if lok && rok {
		switch op {
		case "==":
			return ln == rn, nil
		case "!=":
			return ln != rn, nil
		case ">":
			return ln > rn, nil
		case "<":
			return ln < rn, nil
		case ">=":
			return ln >= rn, nil
		case "<=":
			return ln <= rn, nil
		}
	}
	ls, rs := FormatCell(cell), FormatCell(value)
	switch op {
	case "==":
		return ls == rs, nil
	case "!=":
		return ls != rs, nil
	case ">":
		return ls > rs, nil
	case "<":
		return ls < rs, nil
	case ">=":
		return ls >= rs, nil
	case "<=":
		return ls <= rs, nil
	case "contains":
		return strings.Contains(strings.ToLower(ls), strings.ToLower(rs)), nil
	default:
		return false, fmt.Errorf("unsupported filter operator %q", op)
	}
}

func cellLess(a, b any) bool {
	an, aok := asNumber(a)
	bn, bok := asNumber(b)
	if aok && bok {
		return an < bn
	}
	at, aok2 := a.(time.Time)
	bt, bok2 := b.(time.Time)
	if aok2 && bok2 {
		return at.Before(bt)
	}
	return FormatCell(a) < FormatCell(b)
}

func cellEqual(a, b any) bool {
	return FormatCell(a) == FormatCell(b)
}

func truncatePeriod(t time.Time, period string) (time.Time, error) {
	switch period {
	case "day":
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
	case "week":
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		// 周起点取周一。
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset), nil
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()), nil
	case "year":
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported resample period %q", period)
	}
}
