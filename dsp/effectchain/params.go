package effectchain

import (
	"strings"

	"github.com/goyamamoto/effetune-sub001/dsp/core"
)

// Params holds the settings of one chain node. Numeric and string values are
// kept in separate maps so presets can carry both without type switches.
type Params struct {
	ID       string
	Type     string
	Bypassed bool
	Num      map[string]float64
	Str      map[string]string
}

// GetNum returns Num[key], or def when the key is absent or not finite.
func (p Params) GetNum(key string, def float64) float64 {
	if v, ok := p.Num[key]; ok && core.IsFinite(v) {
		return v
	}

	return def
}

// NumIn is GetNum clamped to [lo, hi].
func (p Params) NumIn(key string, def, lo, hi float64) float64 {
	return core.Clamp(p.GetNum(key, def), lo, hi)
}

// GetStr returns the trimmed Str[key], or def when it is absent or blank.
func (p Params) GetStr(key, def string) string {
	if v := strings.TrimSpace(p.Str[key]); v != "" {
		return v
	}

	return def
}
