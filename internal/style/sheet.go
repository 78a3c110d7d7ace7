package style

import (
	"sort"
	"strconv"
)

const (
	GZD  = "gzd"
	SQID = "sqid"
)

// Levels lists the grid resolutions, coarse to fine.
var Levels = []float64{100000, 10000, 1000, 100, 10, 1}

// Sheet maps level keys to styles. It is filled once during setup and
// read concurrently afterwards without locking.
type Sheet struct {
	styles  map[string]*Style
	aliases map[string]string
}

func NewSheet() *Sheet {
	return &Sheet{
		styles:  make(map[string]*Style),
		aliases: make(map[string]string),
	}
}

// Add registers a style under its name, replacing any previous one.
func (s *Sheet) Add(st Style) {
	s.styles[st.Name] = &st
}

// Alias makes name resolve to target.
func (s *Sheet) Alias(name, target string) {
	s.aliases[name] = target
}

// Get returns the style for key.
func (s *Sheet) Get(key string) (*Style, bool) {
	if s == nil {
		return nil, false
	}
	if target, ok := s.aliases[key]; ok {
		key = target
	}
	st, ok := s.styles[key]
	return st, ok
}

func (s *Sheet) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// HasText reports whether key resolves to a style with a text symbol.
func (s *Sheet) HasText(key string) bool {
	st, ok := s.Get(key)
	return ok && st.Text != nil
}

// Keys returns the registered style names in sorted order.
func (s *Sheet) Keys() []string {
	keys := make([]string, 0, len(s.styles))
	for k := range s.styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Restrict returns a sheet holding only the listed keys. Aliases survive
// when their target does. An empty list returns s unchanged.
func (s *Sheet) Restrict(keys []string) *Sheet {
	if len(keys) == 0 {
		return s
	}
	out := NewSheet()
	for _, k := range keys {
		if st, ok := s.Get(k); ok {
			cp := *st
			cp.Name = k
			if target, aliased := s.aliases[k]; aliased {
				cp.Name = target
			}
			out.styles[cp.Name] = &cp
		}
	}
	for name, target := range s.aliases {
		if _, ok := out.styles[target]; ok {
			out.aliases[name] = target
		}
	}
	return out
}

// MaxResolution returns the finest grid resolution in meters that has a
// registered style, or 0 when no grid level is styled.
func (s *Sheet) MaxResolution() float64 {
	res := 0.0
	for _, lvl := range Levels {
		if s.Has(strconv.Itoa(int(lvl))) {
			res = lvl
		}
	}
	return res
}

// SetUpDefaults registers the built-in symbology.
func (s *Sheet) SetUpDefaults() {
	const alpha = 0.35

	s.Add(Style{
		Name: GZD,
		Line: &LineSymbol{Color: Color{1, 0, 0, alpha}, Width: 4, Tessellation: 20},
		Text: &TextSymbol{Fill: Color{1, 0, 0, alpha}, Halo: Color{0, 0, 0, alpha}},
	})

	s.Add(Style{
		Name: "100000",
		Line: &LineSymbol{Color: Color{1, 1, 0, alpha}, Width: 3},
		Text: &TextSymbol{Fill: Color{1, 1, 0, alpha}, Halo: Color{0, 0, 0, alpha}},
	})
	s.Alias(SQID, "100000")

	s.Add(Style{Name: "10000", Line: &LineSymbol{Color: Color{0, 1, 0, alpha}, Width: 2}})
	s.Add(Style{Name: "1000", Line: &LineSymbol{Color: Color{0.5, 0.5, 1, alpha}, Width: 2}})
	s.Add(Style{Name: "100", Line: &LineSymbol{Color: Color{1, 1, 1, alpha}, Width: 1}})
	s.Add(Style{Name: "10", Line: &LineSymbol{Color: Color{1, 1, 1, alpha}, Width: 1}})
	s.Add(Style{Name: "1", Line: &LineSymbol{Color: Color{1, 1, 1, alpha}, Width: 0.5}})
}

// Default returns a sheet with the built-in symbology.
func Default() *Sheet {
	s := NewSheet()
	s.SetUpDefaults()
	return s
}
