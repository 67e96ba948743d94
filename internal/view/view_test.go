package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/texml/pkg/diag"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"table", false},
		{"json", false},
		{"plain", false},
		{"xml", true},
		{"markdown", true},
		{"TABLE", true},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid output format")
				assert.Contains(t, err.Error(), "table, json, plain")
			} else {
				require.NoError(t, err)
			}
		})
	}
	assert.Equal(t, []string{"table", "json", "plain"}, ValidFormats())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{`macro:->\hbox{x}`, 40, `macro:->\hbox{x}`},
		{"3.0pt plus 1.0fil", 17, "3.0pt plus 1.0fil"},
		{"3.0pt plus 1.0fil minus 2.0pt", 14, "3.0pt plus ..."},
		{"<figure>", 3, "<fi"},
		{"", 10, ""},
		// bytes, not runes
		{"café au lait", 8, "café..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.input, tt.maxLen), "%q/%d", tt.input, tt.maxLen)
	}
}

var slotHeaders = []string{"SLOT", "VALUE"}

func slotRows() [][]string {
	return [][]string{
		{`\count1`, "5"},
		{`\dimen2`, "1.5pt"},
		{`\skip0`}, // value column missing
	}
}

func TestRenderer_RenderTable(t *testing.T) {
	tests := []struct {
		format Format
		rows   [][]string
		want   string
	}{
		{FormatTable, slotRows(), "SLOT  VALUE\n\\count1  5\n\\dimen2  1.5pt\n\\skip0\n"},
		{FormatTable, nil, "SLOT  VALUE\n"},
		{FormatPlain, slotRows(), "\\count1\t5\n\\dimen2\t1.5pt\n\\skip0\n"},
		{FormatPlain, nil, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRenderer(tt.format, true)
			r.SetWriter(&buf)
			r.RenderTable(slotHeaders, tt.rows)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderer_RenderTable_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	r.RenderTable(slotHeaders, slotRows())

	var result []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 3)
	assert.Equal(t, map[string]string{"slot": `\count1`, "value": "5"}, result[0])
	_, hasValue := result[2]["value"]
	assert.False(t, hasValue)

	// No rows marshal as null
	buf.Reset()
	r.RenderTable(slotHeaders, nil)
	assert.Equal(t, "null", strings.TrimSpace(buf.String()))
}

func TestRenderer_RenderJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderJSON(map[string][]string{"output": {`\count1=7`}}))

	var result map[string][]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, []string{`\count1=7`}, result["output"])

	buf.Reset()
	require.NoError(t, r.RenderJSON([]string{}))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))

	assert.Error(t, r.RenderJSON(make(chan int)))
}

func TestRenderer_Messages(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		render func(*Renderer)
		want   string
	}{
		{"text", FormatTable, func(r *Renderer) { r.RenderText("speculation from line 1 completed") }, "speculation from line 1 completed\n"},
		{"success", FormatTable, func(r *Renderer) { r.Success("Configuration cleared") }, "✓ Configuration cleared\n"},
		{"error", FormatTable, func(r *Renderer) { r.Error("2 error(s), 0 warning(s)") }, "✗ 2 error(s), 0 warning(s)\n"},
		{"key value", FormatTable, func(r *Renderer) { r.RenderKeyValue("Max depth", "3") }, "Max depth: 3\n"},
		{"key value json", FormatJSON, func(r *Renderer) { r.RenderKeyValue("pushes", "4") }, `{"pushes": "4"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRenderer(tt.format, true)
			r.SetWriter(&buf)
			tt.render(r)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func sampleEntries() []diag.Entry {
	sink := diag.New(nil)
	sink.Warnf(diag.Location{Line: 3, File: "a.md"}, "Warning: junk in figure")
	sink.Errorf(diag.Location{Line: 7}, "Extra }")
	return sink.Entries()
}

func TestRenderer_RenderDiagnostics_Table(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatTable, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderDiagnostics(sampleEntries()))

	assert.Equal(t,
		"warning: Warning: junk in figure at line 3 of file a.md\nerror: Extra } at line 7\n",
		buf.String())
}

func TestRenderer_RenderDiagnostics_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatPlain, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderDiagnostics(sampleEntries()))

	assert.Equal(t, "Warning: junk in figure at line 3 of file a.md\nExtra } at line 7\n", buf.String())
}

func TestRenderer_RenderDiagnostics_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderDiagnostics(sampleEntries()))

	var result []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "warning", result[0]["severity"])
	assert.Equal(t, "a.md", result[0]["file"])
	assert.Equal(t, "error", result[1]["severity"])
	assert.EqualValues(t, 7, result[1]["line"])
	_, hasFile := result[1]["file"]
	assert.False(t, hasFile)
}

func TestRenderer_RenderDiagnostics_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(FormatJSON, true)
	r.SetWriter(&buf)

	require.NoError(t, r.RenderDiagnostics(nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestRenderer_RenderCounts(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		errors   int
		warnings int
		want     string
	}{
		{"clean", FormatTable, 0, 2, "✓ 0 error(s), 2 warning(s)"},
		{"errors", FormatTable, 1, 0, "✗ 1 error(s), 0 warning(s)"},
		{"json", FormatJSON, 3, 1, `{"errors": 3, "warnings": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRenderer(tt.format, true)
			r.SetWriter(&buf)
			r.RenderCounts(tt.errors, tt.warnings)
			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()))
		})
	}
}
