package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

// ParseSizes converts the multi-line "size,stock" text used by the edit forms
// into a sizes sequence.
//
// Each non-blank line yields one entry. Only the first two comma-separated
// fields are read and both are trimmed. Stock is parsed as a number and
// coerced to a non-negative integer: fractions truncate toward zero, negative
// values become 0, and a missing or non-numeric stock defaults to 0.
//
// ParseSizes 将编辑表单中使用的多行"size,stock"文本转换为尺码序列。
// 每个非空行产生一个条目；缺失或非数字的库存默认为0。
//
// Parameters:
//   - text: The raw textarea contents
//
// Returns:
//   - []SizeStock: One entry per non-blank line, in input order
func ParseSizes(text string) []SizeStock {
	sizes := make([]SizeStock, 0)
	for _, line := range splitLines(text) {
		size, stock, _ := splitRow(line)
		sizes = append(sizes, SizeStock{Size: size, Stock: coerceStock(stock)})
	}
	return sizes
}

// SizeRowError reports a malformed row found by ParseSizesStrict.
//
// SizeRowError 报告ParseSizesStrict发现的格式错误的行。
type SizeRowError struct {
	Line   int    // 1-based line number in the input / 输入中的行号（从1开始）
	Row    string // The offending row, trimmed / 出错的行（已去除空白）
	Reason string // Human readable cause / 可读的原因
}

// Error implements the error interface.
func (e *SizeRowError) Error() string {
	return fmt.Sprintf("sizes line %d %q: %s", e.Line, e.Row, e.Reason)
}

// Unwrap lets errors.Is match apperrors.ErrInvalidSizes.
func (e *SizeRowError) Unwrap() error {
	return apperrors.ErrInvalidSizes
}

// ParseSizesStrict parses the same grammar as ParseSizes but rejects rows
// that ParseSizes would silently default: a missing size label, a missing,
// non-numeric, negative or fractional stock, and duplicate size labels.
//
// ParseSizesStrict 解析与ParseSizes相同的语法，但拒绝ParseSizes会静默默认的行。
//
// Returns:
//   - []SizeStock: The parsed sizes when every row is valid
//   - error: A *SizeRowError for the first malformed row
func ParseSizesStrict(text string) ([]SizeStock, error) {
	sizes := make([]SizeStock, 0)
	seen := make(map[string]struct{})

	lineNo := 0
	for _, raw := range strings.Split(normalizeNewlines(text), "\n") {
		lineNo++
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		size, stock, hasStock := splitRow(line)
		if size == "" {
			return nil, &SizeRowError{Line: lineNo, Row: line, Reason: "missing size label"}
		}
		if !hasStock || stock == "" {
			return nil, &SizeRowError{Line: lineNo, Row: line, Reason: "missing stock"}
		}
		n, err := strconv.Atoi(stock)
		if err != nil {
			return nil, &SizeRowError{Line: lineNo, Row: line, Reason: "stock must be a whole number"}
		}
		if n < 0 {
			return nil, &SizeRowError{Line: lineNo, Row: line, Reason: "stock must not be negative"}
		}
		if _, dup := seen[size]; dup {
			return nil, &SizeRowError{Line: lineNo, Row: line, Reason: "duplicate size"}
		}
		seen[size] = struct{}{}
		sizes = append(sizes, SizeStock{Size: size, Stock: n})
	}
	return sizes, nil
}

// FormatSizes renders sizes back into the "size,stock" text form, one row
// per line. ParseSizes(FormatSizes(s)) returns s for any valid s.
//
// FormatSizes 将尺码渲染回"size,stock"文本形式，每行一个。
func FormatSizes(sizes []SizeStock) string {
	var b strings.Builder
	for i, s := range sizes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.Size)
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(s.Stock))
	}
	return b.String()
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// splitLines returns the trimmed non-blank lines of text.
func splitLines(text string) []string {
	lines := make([]string, 0)
	for _, raw := range strings.Split(normalizeNewlines(text), "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitRow returns the trimmed size and stock fields of one row.
// Fields after the second comma are ignored.
func splitRow(line string) (size, stock string, hasStock bool) {
	parts := strings.SplitN(line, ",", 3)
	size = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		return size, strings.TrimSpace(parts[1]), true
	}
	return size, "", false
}

func coerceStock(raw string) int {
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
