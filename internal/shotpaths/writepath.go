package shotpaths

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Templates are write-node output templates. Placeholders are {comp_root},
// {ep}, {sq}, {sh} and {ver}; ep, sq and sh carry their prefixes ("ep01").
type Templates struct {
	CompExr    string
	CompMov    string
	PrecompExr string
	PrecompMov string
}

// DefaultTemplates lay comp output under comp/{exr,mov} and light precomp
// output under light_precomp/{exr,mov}.
func DefaultTemplates() Templates {
	return Templates{
		CompExr:    "{comp_root}/{ep}/{sq}/{sh}/comp/exr/{ep}_{sq}_{sh}.%04d.exr",
		CompMov:    "{comp_root}/{ep}/{sq}/{sh}/comp/mov/{ep}_{sq}_{sh}_{ver}.mov",
		PrecompExr: "{comp_root}/{ep}/{sq}/{sh}/light_precomp/exr/{ep}_{sq}_{sh}_precomp.%04d.exr",
		PrecompMov: "{comp_root}/{ep}/{sq}/{sh}/light_precomp/mov/{ep}_{sq}_{sh}_precomp_{ver}.mov",
	}
}

// Format is a write-node file type.
type Format string

const (
	FormatExr Format = "exr"
	FormatMov Format = "mov"
)

// ParseFormat accepts "exr" and "mov" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatExr, FormatMov:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Script is what a script file name says about the shot it belongs to.
type Script struct {
	Episode  string // "ep01"
	Sequence string // "sq02"
	Shot     string // "sh003"
	Precomp  bool
	Version  string // "v04", empty when unversioned
}

var scriptPattern = regexp.MustCompile(`(?i)^(ep\d+)_?(sq\d+)_?(sh\d+)(_light_precomp|_precomp)?(?:_(v\d+))?`)

// ParseScriptName reads a script file name such as
// "ep01_sq02_sh003_light_precomp_v04.nk". Directories are ignored.
func ParseScriptName(name string) (Script, error) {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, ".nk")

	m := scriptPattern.FindStringSubmatch(base)
	if m == nil {
		return Script{}, fmt.Errorf("%w: %s", ErrInvalidScriptName, base)
	}
	return Script{
		Episode:  strings.ToLower(m[1]),
		Sequence: strings.ToLower(m[2]),
		Shot:     strings.ToLower(m[3]),
		Precomp:  m[4] != "",
		Version:  strings.ToLower(m[5]),
	}, nil
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// applyTemplate substitutes {name} placeholders. Unknown names are kept.
func applyTemplate(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		if v, ok := vars[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})
}

// WriteOutput returns the write-node output path for a script. Light
// precomp scripts write under light_precomp, all others under comp. MOV
// output is versioned after the script and needs a versioned script name.
func (l Layout) WriteOutput(scriptName string, format Format) (string, error) {
	if l.CompRoot == "" {
		return "", ErrNoCompRoot
	}
	s, err := ParseScriptName(scriptName)
	if err != nil {
		return "", err
	}

	t := l.Templates
	if t == (Templates{}) {
		t = DefaultTemplates()
	}

	var tmpl string
	switch {
	case format == FormatExr && !s.Precomp:
		tmpl = t.CompExr
	case format == FormatMov && !s.Precomp:
		tmpl = t.CompMov
	case format == FormatExr:
		tmpl = t.PrecompExr
	case format == FormatMov:
		tmpl = t.PrecompMov
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if strings.Contains(tmpl, "{ver}") && s.Version == "" {
		return "", fmt.Errorf("%w: %s", ErrNoVersion, scriptName)
	}

	return applyTemplate(tmpl, map[string]string{
		"comp_root": strings.TrimRight(l.CompRoot, `/\`),
		"ep":        s.Episode,
		"sq":        s.Sequence,
		"sh":        s.Shot,
		"ver":       s.Version,
	}), nil
}
