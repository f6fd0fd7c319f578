package shotpaths

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScriptName(t *testing.T) {
	tests := []struct {
		name    string
		want    Script
		wantErr bool
	}{
		{"ep01_sq02_sh003_v04.nk", Script{"ep01", "sq02", "sh003", false, "v04"}, false},
		{"EP01_SQ02_SH003_V04.nk", Script{"ep01", "sq02", "sh003", false, "v04"}, false},
		{"ep01sq02sh003.nk", Script{"ep01", "sq02", "sh003", false, ""}, false},
		{"ep01_sq02_sh003_light_precomp.nk", Script{"ep01", "sq02", "sh003", true, ""}, false},
		{"ep01_sq02_sh003_precomp_v02.nk", Script{"ep01", "sq02", "sh003", true, "v02"}, false},
		{`C:\shows\nk\ep01_sq02_sh003_v01.nk`, Script{"ep01", "sq02", "sh003", false, "v01"}, false},
		{"//server/nk/ep01_sq02_sh003_v01.nk", Script{"ep01", "sq02", "sh003", false, "v01"}, false},
		{"untitled.nk", Script{}, true},
		{"old_ep01_sq02_sh003.nk", Script{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScriptName(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidScriptName), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("EXR")
	require.NoError(t, err)
	assert.Equal(t, FormatExr, f)

	_, err = ParseFormat("dpx")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestWriteOutput(t *testing.T) {
	l := Layout{CompRoot: "//server/prj/comp/"}

	tests := []struct {
		script string
		format Format
		want   string
	}{
		{"ep01_sq02_sh003_v04.nk", FormatExr, "//server/prj/comp/ep01/sq02/sh003/comp/exr/ep01_sq02_sh003.%04d.exr"},
		{"ep01_sq02_sh003_v04.nk", FormatMov, "//server/prj/comp/ep01/sq02/sh003/comp/mov/ep01_sq02_sh003_v04.mov"},
		{"ep01_sq02_sh003_light_precomp.nk", FormatExr, "//server/prj/comp/ep01/sq02/sh003/light_precomp/exr/ep01_sq02_sh003_precomp.%04d.exr"},
		{"ep01_sq02_sh003_light_precomp_v02.nk", FormatMov, "//server/prj/comp/ep01/sq02/sh003/light_precomp/mov/ep01_sq02_sh003_precomp_v02.mov"},
	}

	for _, tt := range tests {
		t.Run(tt.script+"/"+string(tt.format), func(t *testing.T) {
			got, err := l.WriteOutput(tt.script, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteOutput_Errors(t *testing.T) {
	l := Layout{CompRoot: "/comp"}

	_, err := l.WriteOutput("ep01_sq02_sh003.nk", FormatMov)
	assert.True(t, errors.Is(err, ErrNoVersion))

	_, err = l.WriteOutput("untitled.nk", FormatExr)
	assert.True(t, errors.Is(err, ErrInvalidScriptName))

	_, err = l.WriteOutput("ep01_sq02_sh003_v01.nk", Format("dpx"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = Layout{}.WriteOutput("ep01_sq02_sh003_v01.nk", FormatExr)
	assert.True(t, errors.Is(err, ErrNoCompRoot))
}

func TestWriteOutput_CustomTemplates(t *testing.T) {
	l := Layout{
		CompRoot:  "/comp",
		Templates: DefaultTemplates(),
	}
	l.Templates.CompExr = "{comp_root}/{ep}/{sq}/{sh}/out/{sh}.{unknown}.%05d.exr"

	got, err := l.WriteOutput("ep01_sq02_sh003_v01.nk", FormatExr)
	require.NoError(t, err)
	assert.Equal(t, "/comp/ep01/sq02/sh003/out/sh003.{unknown}.%05d.exr", got)
}
