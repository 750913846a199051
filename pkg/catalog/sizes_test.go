package catalog

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

func TestParseSizes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []SizeStock
	}{
		{
			name:  "mixed valid, invalid and missing stock",
			input: "S,5\nM,bad\nL",
			want:  []SizeStock{{Size: "S", Stock: 5}, {Size: "M", Stock: 0}, {Size: "L", Stock: 0}},
		},
		{
			name:  "blank lines are skipped",
			input: "\nS,1\n\n   \nM,2\n",
			want:  []SizeStock{{Size: "S", Stock: 1}, {Size: "M", Stock: 2}},
		},
		{
			name:  "whitespace is trimmed",
			input: "  XL ,  7  ",
			want:  []SizeStock{{Size: "XL", Stock: 7}},
		},
		{
			name:  "negative stock becomes zero",
			input: "S,-4",
			want:  []SizeStock{{Size: "S", Stock: 0}},
		},
		{
			name:  "fractional stock truncates",
			input: "S,2.9",
			want:  []SizeStock{{Size: "S", Stock: 2}},
		},
		{
			name:  "extra fields are ignored",
			input: "S,3,ignored,too",
			want:  []SizeStock{{Size: "S", Stock: 3}},
		},
		{
			name:  "windows line endings",
			input: "S,1\r\nM,2\r\n",
			want:  []SizeStock{{Size: "S", Stock: 1}, {Size: "M", Stock: 2}},
		},
		{
			name:  "empty stock after comma",
			input: "S,",
			want:  []SizeStock{{Size: "S", Stock: 0}},
		},
		{
			name:  "empty input",
			input: "",
			want:  []SizeStock{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSizes(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseSizes(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			for _, s := range got {
				assert.GreaterOrEqual(t, s.Stock, 0)
			}
		})
	}
}

func TestParseSizesStrict(t *testing.T) {
	got, err := ParseSizesStrict("S,5\n\nM,0\n")
	require.NoError(t, err)
	assert.Equal(t, []SizeStock{{Size: "S", Stock: 5}, {Size: "M", Stock: 0}}, got)

	bad := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{"non-numeric stock", "S,5\nM,bad", 2, "stock must be a whole number"},
		{"missing stock", "L", 1, "missing stock"},
		{"missing label", ",4", 1, "missing size label"},
		{"negative stock", "S,-1", 1, "stock must not be negative"},
		{"fraction", "S,1.5", 1, "stock must be a whole number"},
		{"duplicate", "S,1\nS,2", 2, "duplicate size"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSizesStrict(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidSizes))

			var rowErr *SizeRowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tt.line, rowErr.Line)
			assert.Equal(t, tt.reason, rowErr.Reason)
		})
	}
}

func TestFormatSizesRoundTrip(t *testing.T) {
	sizes := []SizeStock{{Size: "S", Stock: 3}, {Size: "M", Stock: 0}, {Size: "XL", Stock: 12}}
	text := FormatSizes(sizes)
	assert.Equal(t, "S,3\nM,0\nXL,12", text)
	assert.Equal(t, sizes, ParseSizes(text))
	assert.Equal(t, "", FormatSizes(nil))
}
