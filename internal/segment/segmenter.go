package segment

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mkravets/memsieve/internal/model"
)

// Format identifies how a document should be segmented
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
)

// textFields is the ordered set of JSON fields that conventionally carry
// memory text. Order matters: fragments are emitted in this order.
var textFields = []string{
	"content", "description", "text", "message",
	"summary", "insight", "reflection",
}

var (
	headerRe = regexp.MustCompile(`(?m)^(#{2,3})\s+(.+)$`)
	dateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// Segmenter converts one document into an ordered sequence of fragments
// with provenance metadata. It is a pure transform over the provided
// content: no I/O, no shared state.
type Segmenter struct {
	minSectionChars int
	minFieldChars   int
}

// NewSegmenter creates a segmenter with the given size thresholds
func NewSegmenter(cfg model.IngestConfig) *Segmenter {
	minSection := cfg.MinSectionChars
	if minSection <= 0 {
		minSection = 100
	}
	minField := cfg.MinFieldChars
	if minField <= 0 {
		minField = 50
	}
	return &Segmenter{
		minSectionChars: minSection,
		minFieldChars:   minField,
	}
}

// FormatForFile maps a file extension to a segmentation format.
// The second return value is false for unsupported extensions.
func FormatForFile(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".json":
		return FormatJSON, true
	case ".txt":
		return FormatText, true
	case ".html", ".htm":
		return FormatHTML, true
	default:
		return "", false
	}
}

// BaseMetadata derives document-level metadata from the file path:
// source file name, file type, an inferred YYYY-MM-DD date and a memory
// type guessed from path keywords.
func BaseMetadata(path string) map[string]any {
	name := filepath.Base(path)
	meta := map[string]any{
		"source_file": name,
		"source_path": path,
		"file_type":   filepath.Ext(path),
	}

	if date := dateRe.FindString(name); date != "" {
		meta["date"] = date
		meta["temporal_markers"] = true
	}

	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "consciousness") || strings.Contains(lower, "awareness"):
		meta["memory_type"] = "consciousness"
	case strings.Contains(lower, "decision") || strings.Contains(lower, "choice"):
		meta["memory_type"] = "decision_making"
	case strings.Contains(lower, "breakthrough") || strings.Contains(lower, "insight"):
		meta["memory_type"] = "breakthrough"
	case strings.Contains(lower, "collaboration") || strings.Contains(lower, "interaction"):
		meta["memory_type"] = "social"
	default:
		meta["memory_type"] = "general"
	}

	return meta
}

// Segment splits document content into fragments according to its format.
// Errors are recoverable per-document: the caller records them and moves
// on to the next document.
func (s *Segmenter) Segment(content string, format Format, base map[string]any) ([]model.Fragment, error) {
	if base == nil {
		base = map[string]any{}
	}

	switch format {
	case FormatMarkdown:
		return s.segmentMarkdown(content, base), nil
	case FormatJSON:
		return s.segmentJSON(content, base)
	case FormatText:
		return s.segmentText(content, base), nil
	case FormatHTML:
		text, err := VisibleText(content)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		return s.segmentText(text, base), nil
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// segmentMarkdown splits on level-2/level-3 headers. The body following
// each header becomes one fragment tagged with the header text; bodies
// shorter than the section minimum are structurally unsubstantial and
// dropped. Preamble text before the first header is kept if substantial.
func (s *Segmenter) segmentMarkdown(content string, base map[string]any) []model.Fragment {
	var fragments []model.Fragment

	matches := headerRe.FindAllStringSubmatchIndex(content, -1)

	emit := func(title, body string) {
		body = strings.TrimSpace(body)
		if len(body) < s.minSectionChars {
			return
		}
		meta := cloneMeta(base)
		meta["section_title"] = title
		meta["fragment_type"] = "markdown_section"
		meta["character_count"] = len(body)
		fragments = append(fragments, s.newFragment(body, meta, base))
	}

	if len(matches) == 0 {
		emit("", content)
		return fragments
	}

	// Preamble before the first header
	emit("", content[:matches[0][0]])

	for i, m := range matches {
		title := strings.TrimSpace(content[m[4]:m[5]])
		bodyStart := m[1]
		bodyEnd := len(content)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		emit(title, content[bodyStart:bodyEnd])
	}

	return fragments
}

// segmentJSON accepts a top-level object or a list of objects and emits
// one fragment per conventional text-bearing field. Sibling scalar fields
// ride along in metadata under a json_ prefix.
func (s *Segmenter) segmentJSON(content string, base map[string]any) ([]model.Fragment, error) {
	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	var fragments []model.Fragment
	switch v := parsed.(type) {
	case map[string]any:
		fragments = append(fragments, s.fragmentsFromObject(v, base)...)
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				fragments = append(fragments, s.fragmentsFromObject(obj, base)...)
			}
		}
	default:
		return nil, fmt.Errorf("json root must be an object or a list of objects")
	}

	return fragments, nil
}

func (s *Segmenter) fragmentsFromObject(obj map[string]any, base map[string]any) []model.Fragment {
	var fragments []model.Fragment

	for _, field := range textFields {
		text, ok := obj[field].(string)
		if !ok || len(text) < s.minFieldChars {
			continue
		}

		meta := cloneMeta(base)
		meta["json_field"] = field
		meta["fragment_type"] = "json_content"

		// Carry sibling scalars along, namespaced to avoid collisions
		for key, value := range obj {
			if key == field {
				continue
			}
			switch value.(type) {
			case string, float64, bool:
				meta["json_"+key] = value
			}
		}

		frag := s.newFragment(text, meta, base)
		if ts, ok := obj["timestamp"].(string); ok {
			frag.Timestamp = ts
		} else if date, ok := obj["date"].(string); ok {
			frag.Timestamp = date
		}
		fragments = append(fragments, frag)
	}

	return fragments
}

// segmentText splits on blank-line-delimited paragraphs
func (s *Segmenter) segmentText(content string, base map[string]any) []model.Fragment {
	var fragments []model.Fragment

	for i, paragraph := range strings.Split(content, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) < s.minSectionChars {
			continue
		}
		meta := cloneMeta(base)
		meta["paragraph_index"] = i
		meta["fragment_type"] = "text_paragraph"
		fragments = append(fragments, s.newFragment(paragraph, meta, base))
	}

	return fragments
}

// newFragment builds a fragment with the structural flags the scorer
// reads: emotional content and causal reasoning presence.
func (s *Segmenter) newFragment(content string, meta map[string]any, base map[string]any) model.Fragment {
	meta["emotional_context"] = HasEmotionalContent(content)
	meta["causal_chain"] = HasCausalReasoning(content)

	frag := model.Fragment{
		ID:       model.FragmentID(content),
		Content:  content,
		Metadata: meta,
	}
	if src, ok := base["source_file"].(string); ok {
		frag.Source = src
	}
	if date, ok := base["date"].(string); ok {
		frag.Timestamp = date
	}
	return frag
}

func cloneMeta(base map[string]any) map[string]any {
	meta := make(map[string]any, len(base)+6)
	for k, v := range base {
		meta[k] = v
	}
	return meta
}
