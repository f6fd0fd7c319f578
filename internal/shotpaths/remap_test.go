package shotpaths

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRemapper = Remapper{
	From: []string{"//192.168.99.25/", "//192.168.99.202/"},
	To:   "//192.168.99.203/",
}

func TestRemapper_Remap(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		changed bool
	}{
		{"//192.168.99.25/prj/render/a.exr", "//192.168.99.203/prj/render/a.exr", true},
		{"//192.168.99.202/prj/comp/b.mov", "//192.168.99.203/prj/comp/b.mov", true},
		{`\\192.168.99.25\prj\render\a.exr`, "//192.168.99.203/prj/render/a.exr", true},
		{"//192.168.99.203/prj/render/a.exr", "//192.168.99.203/prj/render/a.exr", false},
		{"/local/192.168.99.25/x", "/local/192.168.99.25/x", false},
	}

	for _, tt := range tests {
		got, changed := testRemapper.Remap(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.changed, changed, tt.in)
	}
}

func TestRemapper_NoTarget(t *testing.T) {
	got, changed := Remapper{From: []string{"//old/"}}.Remap("//old/x")
	assert.False(t, changed)
	assert.Equal(t, "//old/x", got)
}

func TestRemapper_RemapScript(t *testing.T) {
	script := strings.Join([]string{
		"Read {",
		" inputs 0",
		" file //192.168.99.25/prj/render/ep01/sq01/sh01/render/beauty/beauty.%04d.exr",
		" name Read1",
		"}",
		"Write {",
		` file "//192.168.99.202/prj/comp/ep01/sq01/sh01/comp/mov/ep01_sq01_sh01_v01.mov"`,
		" file_type mov",
		"}",
		"Read {",
		" file //192.168.99.203/prj/render/already.exr",
		"}",
	}, "\n") + "\n"

	var out bytes.Buffer
	n, err := testRemapper.RemapScript(strings.NewReader(script), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := out.String()
	assert.Contains(t, got, " file //192.168.99.203/prj/render/ep01/sq01/sh01/render/beauty/beauty.%04d.exr\n")
	assert.Contains(t, got, ` file "//192.168.99.203/prj/comp/ep01/sq01/sh01/comp/mov/ep01_sq01_sh01_v01.mov"`)
	assert.Contains(t, got, " file_type mov\n")
	assert.NotContains(t, got, "192.168.99.25")
	assert.NotContains(t, got, "192.168.99.202")
}
