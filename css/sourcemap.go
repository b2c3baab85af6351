package css

import "encoding/json"

// SourceMap is a source map v3 skeleton tracking which fragments contributed
// to the serialized output and in what order. Mapping generation proper is
// left to downstream tooling - only origin bookkeeping happens here.
type SourceMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

func newSourceMap(to string, frags []Fragment) *SourceMap {
	m := &SourceMap{
		Version:        3,
		File:           to,
		Sources:        make([]string, 0, len(frags)),
		SourcesContent: make([]string, 0, len(frags)),
		Names:          []string{},
	}
	for _, f := range frags {
		m.Sources = append(m.Sources, f.From)
		m.SourcesContent = append(m.SourcesContent, f.Text)
	}
	return m
}

// String returns the JSON encoding of the map.
func (m *SourceMap) String() string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}
