package syntax

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

type nodeFlags uint8

const (
	flagMissing nodeFlags = 1 << iota
	flagContainsAnnotations
	flagContainsDiagnostics
	flagContainsSkippedText
	flagContainsStructuredTrivia
)

// inherited are the flags a parent picks up from its children.
const inherited = flagContainsAnnotations | flagContainsDiagnostics | flagContainsSkippedText | flagContainsStructuredTrivia

// GreenNode is an immutable, position-independent syntax element. Nodes,
// tokens and trivia all share this type and are told apart by Kind.
//
// A green node has no parent and no position, so a single instance may
// appear in any number of trees. It must never be modified after
// construction; every With method returns a copy.
type GreenNode struct {
	kind      Kind
	flags     nodeFlags
	fullWidth int
	hash      uint64

	// tokens and unstructured trivia
	text string

	// nodes; a nil slot is an omitted optional element
	slots []*GreenNode

	// tokens
	leading  []*GreenNode
	trailing []*GreenNode

	// structured trivia
	structure *GreenNode

	diagnostics []Diagnostic
	annotations []*Annotation
}

// NewNode builds an interior node. It panics when kind is not a node kind
// or when the number of slots does not match the kind's arity.
func NewNode(kind Kind, slots ...*GreenNode) *GreenNode {
	if !kind.IsNode() {
		panic(fmt.Sprintf("syntax: NewNode called with non-node kind %s", kind))
	}
	if arity := kind.Arity(); arity != variadic && arity != len(slots) {
		panic(fmt.Sprintf("syntax: %s takes %d slots, got %d", kind, arity, len(slots)))
	}
	for i, s := range slots {
		if s != nil && s.kind.IsTrivia() {
			panic(fmt.Sprintf("syntax: %s slot %d holds trivia %s", kind, i, s.kind))
		}
	}
	g := &GreenNode{kind: kind, slots: slices.Clone(slots)}
	g.finish()
	return g
}

// NewList builds a list node. Lists have any number of slots.
func NewList(elems ...*GreenNode) *GreenNode {
	return NewNode(KindList, elems...)
}

// NewToken builds a token with its leading and trailing trivia.
func NewToken(kind Kind, text string, leading, trailing []*GreenNode) *GreenNode {
	if !kind.IsToken() {
		panic(fmt.Sprintf("syntax: NewToken called with non-token kind %s", kind))
	}
	checkTrivia(leading)
	checkTrivia(trailing)
	g := &GreenNode{
		kind:     kind,
		text:     text,
		leading:  slices.Clone(leading),
		trailing: slices.Clone(trailing),
	}
	g.finish()
	return g
}

// NewMissingToken builds a zero-width token standing in for one the
// parser expected but did not find.
func NewMissingToken(kind Kind, leading, trailing []*GreenNode) *GreenNode {
	if !kind.IsToken() {
		panic(fmt.Sprintf("syntax: NewMissingToken called with non-token kind %s", kind))
	}
	checkTrivia(leading)
	checkTrivia(trailing)
	g := &GreenNode{
		kind:     kind,
		flags:    flagMissing,
		leading:  slices.Clone(leading),
		trailing: slices.Clone(trailing),
	}
	g.finish()
	return g
}

// NewTrivia builds unstructured trivia such as whitespace or a comment.
func NewTrivia(kind Kind, text string) *GreenNode {
	if !kind.IsTrivia() || kind.IsStructuredTrivia() {
		panic(fmt.Sprintf("syntax: NewTrivia called with kind %s", kind))
	}
	g := &GreenNode{kind: kind, text: text}
	g.finish()
	return g
}

// NewStructuredTrivia builds trivia whose content is itself a node.
func NewStructuredTrivia(kind Kind, structure *GreenNode) *GreenNode {
	if !kind.IsStructuredTrivia() {
		panic(fmt.Sprintf("syntax: NewStructuredTrivia called with kind %s", kind))
	}
	if structure == nil || !structure.kind.IsNode() {
		panic("syntax: structured trivia requires a node")
	}
	g := &GreenNode{kind: kind, structure: structure}
	g.finish()
	return g
}

func checkTrivia(list []*GreenNode) {
	for _, t := range list {
		if t == nil || !t.kind.IsTrivia() {
			panic("syntax: token trivia must be non-nil trivia")
		}
	}
}

// finish computes the cached width, flags and content hash. It runs once,
// before the node is published.
func (g *GreenNode) finish() {
	width := len(g.text)
	flags := g.flags & flagMissing
	h := mixString(mixUint(fnvOffset, uint64(g.kind)), g.text)
	if flags&flagMissing != 0 {
		h = mixUint(h, 1)
	}

	add := func(c *GreenNode) {
		if c == nil {
			h = mixUint(h, 0)
			return
		}
		width += c.fullWidth
		flags |= c.flags & inherited
		h = mixUint(h, c.hash)
	}
	for _, s := range g.slots {
		add(s)
	}
	for _, t := range g.leading {
		add(t)
	}
	h = mixUint(h, 0xff)
	for _, t := range g.trailing {
		add(t)
	}
	if g.structure != nil {
		add(g.structure)
		flags |= flagContainsStructuredTrivia
	}
	if g.kind == KindSkippedTokensTrivia {
		flags |= flagContainsSkippedText
	}
	if len(g.annotations) > 0 {
		flags |= flagContainsAnnotations
	}
	if len(g.diagnostics) > 0 {
		flags |= flagContainsDiagnostics
	}

	g.fullWidth = width
	g.flags = flags
	g.hash = h
}

func (g *GreenNode) Kind() Kind {
	return g.kind
}

func (g *GreenNode) IsToken() bool {
	return g.kind.IsToken()
}

func (g *GreenNode) IsTrivia() bool {
	return g.kind.IsTrivia()
}

func (g *GreenNode) IsNode() bool {
	return g.kind.IsNode()
}

func (g *GreenNode) IsMissing() bool {
	return g.flags&flagMissing != 0
}

// FullWidth is the length of the element's text including all trivia.
func (g *GreenNode) FullWidth() int {
	return g.fullWidth
}

// Width is the length of the element's text without its outermost leading
// and trailing trivia.
func (g *GreenNode) Width() int {
	return g.fullWidth - g.LeadingTriviaWidth() - g.TrailingTriviaWidth()
}

func (g *GreenNode) LeadingTriviaWidth() int {
	if g.kind.IsToken() {
		return triviaWidth(g.leading)
	}
	if first := g.firstTerminal(); first != nil {
		return triviaWidth(first.leading)
	}
	return 0
}

func (g *GreenNode) TrailingTriviaWidth() int {
	if g.kind.IsToken() {
		return triviaWidth(g.trailing)
	}
	if last := g.lastTerminal(); last != nil {
		return triviaWidth(last.trailing)
	}
	return 0
}

func triviaWidth(list []*GreenNode) int {
	w := 0
	for _, t := range list {
		w += t.fullWidth
	}
	return w
}

// firstTerminal returns the first token with a non-zero full width.
func (g *GreenNode) firstTerminal() *GreenNode {
	if g.kind.IsToken() {
		return g
	}
	for _, s := range g.slots {
		if s != nil && s.fullWidth > 0 {
			return s.firstTerminal()
		}
	}
	return nil
}

func (g *GreenNode) lastTerminal() *GreenNode {
	if g.kind.IsToken() {
		return g
	}
	for i := len(g.slots) - 1; i >= 0; i-- {
		if s := g.slots[i]; s != nil && s.fullWidth > 0 {
			return s.lastTerminal()
		}
	}
	return nil
}

func (g *GreenNode) SlotCount() int {
	return len(g.slots)
}

// Slot returns the child in slot i, which may be nil.
func (g *GreenNode) Slot(i int) *GreenNode {
	return g.slots[i]
}

// SlotOffset returns the offset of slot i from the start of the node.
func (g *GreenNode) SlotOffset(i int) int {
	offset := 0
	for _, s := range g.slots[:i] {
		if s != nil {
			offset += s.fullWidth
		}
	}
	return offset
}

// TokenText returns the text of a token or unstructured trivia, without
// any trivia.
func (g *GreenNode) TokenText() string {
	return g.text
}

func (g *GreenNode) LeadingTrivia() []*GreenNode {
	return slices.Clone(g.leading)
}

func (g *GreenNode) TrailingTrivia() []*GreenNode {
	return slices.Clone(g.trailing)
}

// Structure returns the node carried by structured trivia, or nil.
func (g *GreenNode) Structure() *GreenNode {
	return g.structure
}

func (g *GreenNode) ContainsAnnotations() bool {
	return g.flags&flagContainsAnnotations != 0
}

func (g *GreenNode) ContainsDiagnostics() bool {
	return g.flags&flagContainsDiagnostics != 0
}

func (g *GreenNode) ContainsSkippedText() bool {
	return g.flags&flagContainsSkippedText != 0
}

func (g *GreenNode) ContainsStructuredTrivia() bool {
	return g.flags&flagContainsStructuredTrivia != 0
}

// FullText reconstructs the exact source text of the element.
func (g *GreenNode) FullText() string {
	var b strings.Builder
	b.Grow(g.fullWidth)
	g.writeTo(&b)
	return b.String()
}

// Text is FullText without the outermost leading and trailing trivia.
func (g *GreenNode) Text() string {
	full := g.FullText()
	return full[g.LeadingTriviaWidth() : len(full)-g.TrailingTriviaWidth()]
}

func (g *GreenNode) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	g.writeTo(&b)
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func (g *GreenNode) writeTo(b *strings.Builder) {
	switch {
	case g.structure != nil:
		g.structure.writeTo(b)
	case g.kind.IsToken():
		for _, t := range g.leading {
			t.writeTo(b)
		}
		b.WriteString(g.text)
		for _, t := range g.trailing {
			t.writeTo(b)
		}
	case g.kind.IsTrivia():
		b.WriteString(g.text)
	default:
		for _, s := range g.slots {
			if s != nil {
				s.writeTo(b)
			}
		}
	}
}

// GetAnnotations returns the element's own annotations in the order they
// were attached. The result is never nil.
func (g *GreenNode) GetAnnotations() []*Annotation {
	if len(g.annotations) == 0 {
		return []*Annotation{}
	}
	return slices.Clone(g.annotations)
}

func (g *GreenNode) GetAnnotationsOfKind(kind string) []*Annotation {
	result := []*Annotation{}
	for _, a := range g.annotations {
		if a.kind == kind {
			result = append(result, a)
		}
	}
	return result
}

// HasAnnotation reports whether ann is attached to the element itself.
func (g *GreenNode) HasAnnotation(ann *Annotation) bool {
	for _, a := range g.annotations {
		if a == ann {
			return true
		}
	}
	return false
}

func (g *GreenNode) HasAnnotationsOfKind(kind string) bool {
	for _, a := range g.annotations {
		if a.kind == kind {
			return true
		}
	}
	return false
}

// WithAdditionalAnnotations returns a copy of g whose annotation list is
// g's list followed by anns. Duplicates are kept. With no annotations to
// add, g itself is returned.
func (g *GreenNode) WithAdditionalAnnotations(anns ...*Annotation) *GreenNode {
	if len(anns) == 0 {
		return g
	}
	merged := make([]*Annotation, 0, len(g.annotations)+len(anns))
	merged = append(merged, g.annotations...)
	merged = append(merged, anns...)
	return g.withAnnotations(merged)
}

// WithAnnotations returns a copy of g carrying exactly anns.
func (g *GreenNode) WithAnnotations(anns ...*Annotation) *GreenNode {
	return g.withAnnotations(slices.Clone(anns))
}

// WithoutAnnotations returns a copy of g with every occurrence of anns
// removed. When none of them are attached, g is returned.
func (g *GreenNode) WithoutAnnotations(anns ...*Annotation) *GreenNode {
	kept := make([]*Annotation, 0, len(g.annotations))
	for _, a := range g.annotations {
		if !slices.Contains(anns, a) {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(g.annotations) {
		return g
	}
	return g.withAnnotations(kept)
}

func (g *GreenNode) withAnnotations(anns []*Annotation) *GreenNode {
	for _, a := range anns {
		if a == nil {
			panic("syntax: nil annotation")
		}
	}
	c := g.clone()
	c.annotations = anns
	c.finish()
	return c
}

// GetDiagnostics returns the element's own diagnostics, with offsets
// relative to the element.
func (g *GreenNode) GetDiagnostics() []Diagnostic {
	return slices.Clone(g.diagnostics)
}

// WithDiagnostics returns a copy of g whose own diagnostics are replaced
// by diags.
func (g *GreenNode) WithDiagnostics(diags ...Diagnostic) *GreenNode {
	c := g.clone()
	c.diagnostics = slices.Clone(diags)
	c.finish()
	return c
}

// WithSlot returns a copy of the node with slot i replaced. Annotations
// and diagnostics of the node are kept.
func (g *GreenNode) WithSlot(i int, child *GreenNode) *GreenNode {
	if g.slots[i] == child {
		return g
	}
	slots := slices.Clone(g.slots)
	slots[i] = child
	return g.withSlots(slots)
}

func (g *GreenNode) withSlots(slots []*GreenNode) *GreenNode {
	if !g.kind.IsNode() {
		panic(fmt.Sprintf("syntax: %s has no slots", g.kind))
	}
	if arity := g.kind.Arity(); arity != variadic && arity != len(slots) {
		panic(fmt.Sprintf("syntax: %s takes %d slots, got %d", g.kind, arity, len(slots)))
	}
	c := g.clone()
	c.slots = slots
	c.finish()
	return c
}

func (g *GreenNode) WithLeadingTrivia(trivia ...*GreenNode) *GreenNode {
	g.mustBeToken("WithLeadingTrivia")
	checkTrivia(trivia)
	c := g.clone()
	c.leading = slices.Clone(trivia)
	c.finish()
	return c
}

func (g *GreenNode) WithTrailingTrivia(trivia ...*GreenNode) *GreenNode {
	g.mustBeToken("WithTrailingTrivia")
	checkTrivia(trivia)
	c := g.clone()
	c.trailing = slices.Clone(trivia)
	c.finish()
	return c
}

// withTriviaAt replaces the trivia at index i, counting leading trivia
// first and trailing trivia after.
func (g *GreenNode) withTriviaAt(i int, trivia *GreenNode) *GreenNode {
	if i < len(g.leading) {
		leading := slices.Clone(g.leading)
		leading[i] = trivia
		return g.WithLeadingTrivia(leading...)
	}
	trailing := slices.Clone(g.trailing)
	trailing[i-len(g.leading)] = trivia
	return g.WithTrailingTrivia(trailing...)
}

func (g *GreenNode) withStructure(structure *GreenNode) *GreenNode {
	if g.structure == nil {
		panic(fmt.Sprintf("syntax: %s is not structured trivia", g.kind))
	}
	c := g.clone()
	c.structure = structure
	c.finish()
	return c
}

func (g *GreenNode) mustBeToken(op string) {
	if !g.kind.IsToken() {
		panic(fmt.Sprintf("syntax: %s called on %s", op, g.kind))
	}
}

func (g *GreenNode) clone() *GreenNode {
	c := *g
	c.flags &= flagMissing
	return &c
}

// IsEquivalentTo reports whether g and other have the same kind, text and
// shape. Annotations and diagnostics are ignored.
func (g *GreenNode) IsEquivalentTo(other *GreenNode) bool {
	if g == other {
		return true
	}
	if g == nil || other == nil {
		return false
	}
	if g.hash != other.hash || g.kind != other.kind || g.fullWidth != other.fullWidth ||
		g.IsMissing() != other.IsMissing() || g.text != other.text {
		return false
	}
	return equivalentLists(g.slots, other.slots) &&
		equivalentLists(g.leading, other.leading) &&
		equivalentLists(g.trailing, other.trailing) &&
		g.structure.IsEquivalentTo(other.structure)
}

func equivalentLists(a, b []*GreenNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].IsEquivalentTo(b[i]) {
			return false
		}
	}
	return true
}

func (g *GreenNode) String() string {
	return g.FullText()
}

const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

func mixUint(h, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		h ^= v & 0xff
		h *= fnvPrime
		v >>= 8
	}
	return h
}

func mixString(h uint64, s string) uint64 {
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}
