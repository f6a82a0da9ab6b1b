package chunk

import (
	"bytes"
	"context"
	"regexp"
	"strings"
)

// StructuralChunker splits source files into structural chunks using
// tree-sitter grammars, one LanguageConfig per supported language.
type StructuralChunker struct {
	parser   *Parser
	registry *LanguageRegistry

	parseFailures int
}

// NewStructuralChunker creates a chunker bound to the default language
// registry.
func NewStructuralChunker() *StructuralChunker {
	return NewStructuralChunkerWithRegistry(DefaultRegistry())
}

// NewStructuralChunkerWithRegistry creates a chunker bound to a custom
// language registry.
func NewStructuralChunkerWithRegistry(registry *LanguageRegistry) *StructuralChunker {
	return &StructuralChunker{
		parser:   NewParserWithRegistry(registry),
		registry: registry,
	}
}

// Close releases the underlying parser.
func (c *StructuralChunker) Close() {
	c.parser.Close()
}

// SupportedExtensions returns every extension the chunker can parse
// structurally. Anything else falls back to a single raw chunk.
func (c *StructuralChunker) SupportedExtensions() []string {
	return c.registry.SupportedExtensions()
}

// ParseFailureCount returns how many Chunk calls fell back to a raw chunk
// because the language was unsupported or the parser errored outright.
func (c *StructuralChunker) ParseFailureCount() int {
	return c.parseFailures
}

// Chunk splits one file into structural chunks. Unsupported languages and
// parse failures both produce a single KindRaw chunk spanning the whole
// file rather than an error, so callers can always index something.
func (c *StructuralChunker) Chunk(ctx context.Context, file *FileInput) ([]*Chunk, error) {
	config, ok := c.registry.GetByName(file.Language)
	if !ok {
		c.parseFailures++
		return []*Chunk{rawChunk(file)}, nil
	}

	tree, err := c.parser.Parse(ctx, file.Content, file.Language)
	if err != nil {
		c.parseFailures++
		return []*Chunk{rawChunk(file)}, nil
	}

	occ := newOccurrenceTracker()
	var chunks []*Chunk
	c.extract(tree.Root, config, file, occ, &chunks, false)

	if len(chunks) == 0 {
		return []*Chunk{rawChunk(file)}, nil
	}
	return chunks, nil
}

// extract walks n looking for nodes matching config's type tables,
// emitting one Chunk per match. inContainer is true while descending
// through an impl/class/trait/interface body, which disambiguates node
// types (Rust's function_item) that serve as both free functions and
// methods depending on nesting.
func (c *StructuralChunker) extract(n *Node, config *LanguageConfig, file *FileInput, occ *occurrenceTracker, out *[]*Chunk, inContainer bool) {
	if n == nil {
		return
	}

	isMethod := matchesType(n.Type, config.MethodTypes) && matcherOK(config, n)
	isFunction := matchesType(n.Type, config.FunctionTypes) && matcherOK(config, n)

	switch {
	case matchesType(n.Type, config.ContainerTypes):
		*out = append(*out, containerChunk(n, config, file, occ))
		for _, child := range n.Children {
			c.extract(child, config, file, occ, out, true)
		}
		return

	case isMethod && isFunction:
		kind := KindFunction
		if inContainer {
			kind = KindMethod
		}
		*out = append(*out, leafChunk(n, config, file, occ, kind))
		return

	case isMethod:
		*out = append(*out, leafChunk(n, config, file, occ, KindMethod))
		return

	case isFunction:
		*out = append(*out, leafChunk(n, config, file, occ, KindFunction))
		return

	case matchesType(n.Type, config.TypeTypes):
		*out = append(*out, leafChunk(n, config, file, occ, KindType))
		return

	case matchesType(n.Type, config.ConstantTypes):
		*out = append(*out, leafChunk(n, config, file, occ, KindConstant))
		return

	case matchesType(n.Type, config.ImportTypes):
		*out = append(*out, importChunk(n, config, file, occ))
		return

	case matchesType(n.Type, config.MacroTypes):
		*out = append(*out, leafChunk(n, config, file, occ, KindMacro))
		return
	}

	for _, child := range n.Children {
		c.extract(child, config, file, occ, out, inContainer)
	}
}

func matchesType(t string, types []string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func matcherOK(config *LanguageConfig, n *Node) bool {
	if config.FunctionMatcher == nil {
		return true
	}
	return config.FunctionMatcher(n)
}

func containerChunk(n *Node, config *LanguageConfig, file *FileInput, occ *occurrenceTracker) *Chunk {
	name := config.NameExtractor(n, file.Content)
	content := n.GetContent(file.Content)

	return &Chunk{
		FilePath:   file.Path,
		Language:   file.Language,
		Kind:       KindContainer,
		Name:       name,
		Occurrence: occ.next(KindContainer, name),
		Signature:  signatureToBrace(content),
		Content:    firstNLines(content, ContainerPreviewLines),
		StartLine:  int(n.StartPoint.Row) + 1,
		EndLine:    int(n.EndPoint.Row) + 1,
		StartByte:  n.StartByte,
		EndByte:    n.EndByte,
	}
}

func leafChunk(n *Node, config *LanguageConfig, file *FileInput, occ *occurrenceTracker, kind Kind) *Chunk {
	name := config.NameExtractor(n, file.Content)
	content := n.GetContent(file.Content)

	return &Chunk{
		FilePath:   file.Path,
		Language:   file.Language,
		Kind:       kind,
		Name:       name,
		Occurrence: occ.next(kind, name),
		Signature:  signatureToBrace(content),
		Content:    content,
		StartLine:  int(n.StartPoint.Row) + 1,
		EndLine:    int(n.EndPoint.Row) + 1,
		StartByte:  n.StartByte,
		EndByte:    n.EndByte,
	}
}

func importChunk(n *Node, config *LanguageConfig, file *FileInput, occ *occurrenceTracker) *Chunk {
	var name string
	if config.ImportNameExtractor != nil {
		name = config.ImportNameExtractor(n, file.Content)
	}
	content := n.GetContent(file.Content)

	return &Chunk{
		FilePath:   file.Path,
		Language:   file.Language,
		Kind:       KindImport,
		Name:       name,
		Occurrence: occ.next(KindImport, name),
		Content:    content,
		StartLine:  int(n.StartPoint.Row) + 1,
		EndLine:    int(n.EndPoint.Row) + 1,
		StartByte:  n.StartByte,
		EndByte:    n.EndByte,
	}
}

func rawChunk(file *FileInput) *Chunk {
	lineCount := bytes.Count(file.Content, []byte("\n")) + 1
	return &Chunk{
		FilePath:  file.Path,
		Language:  file.Language,
		Kind:      KindRaw,
		Content:   string(file.Content),
		StartLine: 1,
		EndLine:   lineCount,
		StartByte: 0,
		EndByte:   uint32(len(file.Content)),
	}
}

// signatureToBrace returns the text up to (but not including) the first
// opening brace, trimmed of trailing whitespace and with internal
// whitespace runs collapsed; for brace-less declarations (Rust trait
// method signatures, C prototypes) it returns the whole trimmed
// content. Newlines are preserved so a signature with a multi-line
// parameter list still reads as one declaration per line rather than
// being squashed onto a single line.
func signatureToBrace(content string) string {
	if idx := strings.IndexByte(content, '{'); idx >= 0 {
		return collapseWhitespace(strings.TrimRight(content[:idx], " \t\n\r"))
	}
	return collapseWhitespace(strings.TrimSpace(content))
}

var internalWhitespaceRun = regexp.MustCompile(`[ \t]+`)

// collapseWhitespace collapses runs of spaces/tabs within each line down
// to a single space, trimming each line's edges, while leaving newlines
// (and therefore line count) untouched.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = internalWhitespaceRun.ReplaceAllString(line, " ")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func firstNLines(s string, n int) string {
	lines := strings.SplitN(s, "\n", n+1)
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

// occurrenceTracker assigns the Occurrence index for chunks that share a
// (Kind, Name) pair within one file.
type occurrenceTracker struct {
	counts map[string]int
}

func newOccurrenceTracker() *occurrenceTracker {
	return &occurrenceTracker{counts: make(map[string]int)}
}

func (o *occurrenceTracker) next(kind Kind, name string) int {
	key := string(kind) + "\x00" + name
	idx := o.counts[key]
	o.counts[key]++
	return idx
}
