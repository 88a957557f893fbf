package parser

import (
	"fmt"
	"io"

	"github.com/dhamidi/greentree/syntax"
)

type Option func(*Parser)

// WithoutDocComments keeps /** */ comments as plain block comments
// instead of structured trivia.
func WithoutDocComments() Option {
	return func(p *Parser) {
		p.docComments = false
	}
}

// Parser is a recursive-descent parser for a subset of Java that emits a
// green tree through a syntax.Builder. It never fails: missing tokens are
// inserted with zero width and unexpected tokens are skipped into
// structured trivia, both carrying diagnostics.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	docComments bool

	lexemes []lexeme
	pos     int
	b       *syntax.Builder
	skipped []*syntax.GreenNode
}

func newParser(opts []Option) *Parser {
	p := &Parser{docComments: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a compilation unit. The full text of the result is always
// exactly src.
func Parse(src string, opts ...Option) *syntax.GreenNode {
	p := newParser(opts)
	p.lexemes = scan(src, p.docComments)
	p.b = syntax.NewBuilder()
	p.parseCompilationUnit()
	return p.b.Finish()
}

// ParseTree is Parse wrapped in a red root.
func ParseTree(src string, opts ...Option) *syntax.SyntaxNode {
	return syntax.NewRoot(Parse(src, opts...))
}

// ParseReader reads r to the end and parses it.
func ParseReader(r io.Reader, opts ...Option) (*syntax.GreenNode, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return Parse(string(data), opts...), nil
}

func (p *Parser) current() *lexeme {
	return &p.lexemes[p.pos]
}

func (p *Parser) kind() syntax.Kind {
	return p.lexemes[p.pos].kind
}

func (p *Parser) peekKind(n int) syntax.Kind {
	if p.pos+n >= len(p.lexemes) {
		return syntax.KindEOF
	}
	return p.lexemes[p.pos+n].kind
}

func (p *Parser) at(kind syntax.Kind) bool {
	return p.kind() == kind
}

func (p *Parser) atAny(kinds ...syntax.Kind) bool {
	for _, k := range kinds {
		if p.at(k) {
			return true
		}
	}
	return false
}

// greenToken builds the green token for lx, prefixing any pending skipped
// tokens to its leading trivia.
func (p *Parser) greenToken(lx *lexeme) *syntax.GreenNode {
	leading := lx.leading
	if len(p.skipped) > 0 {
		leading = append([]*syntax.GreenNode{p.flushSkipped()}, leading...)
	}
	return syntax.NewToken(lx.kind, lx.text, leading, lx.trailing)
}

// bump consumes the current token. The EOF token is never passed.
func (p *Parser) bump() {
	p.b.Token(p.greenToken(p.current()))
	if p.pos < len(p.lexemes)-1 {
		p.pos++
	}
}

// expect consumes a token of the given kind or emits a missing one.
func (p *Parser) expect(kind syntax.Kind) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	p.missing(kind)
	return false
}

func (p *Parser) missing(kind syntax.Kind) {
	p.b.Missing(kind, "expected "+describe(kind))
}

// skip sets the current token aside; it is attached to the next consumed
// token as skipped-tokens trivia.
func (p *Parser) skip() {
	lx := p.current()
	p.skipped = append(p.skipped, syntax.NewToken(lx.kind, lx.text, lx.leading, lx.trailing))
	if p.pos < len(p.lexemes)-1 {
		p.pos++
	}
}

func (p *Parser) flushSkipped() *syntax.GreenNode {
	first := p.skipped[0]
	node := syntax.NewNode(syntax.KindSkippedTokens, p.skipped...)
	node = node.WithDiagnostics(syntax.NewError(
		first.LeadingTriviaWidth(), node.Width(), "unexpected %s", describeToken(first)))
	p.skipped = nil
	return syntax.NewStructuredTrivia(syntax.KindSkippedTokensTrivia, node)
}

func describe(kind syntax.Kind) string {
	if text := kind.FixedText(); text != "" {
		return "'" + text + "'"
	}
	switch kind {
	case syntax.KindIdentifier:
		return "identifier"
	case syntax.KindEOF:
		return "end of file"
	}
	return kind.String()
}

func describeToken(g *syntax.GreenNode) string {
	if g.Kind().FixedText() != "" {
		return describe(g.Kind())
	}
	return fmt.Sprintf("%s %q", describe(g.Kind()), g.TokenText())
}

func (p *Parser) parseCompilationUnit() {
	p.b.StartNode(syntax.KindCompilationUnit)
	if p.at(syntax.KindPackage) {
		p.parsePackageDecl()
	} else {
		p.b.Nil()
	}

	p.b.StartNode(syntax.KindList)
	for p.at(syntax.KindImport) {
		p.parseImportDecl()
	}
	p.b.FinishList()

	p.b.StartNode(syntax.KindList)
	for !p.at(syntax.KindEOF) {
		if p.atTypeDeclStart() {
			p.parseTypeDecl()
			continue
		}
		p.skip()
	}
	p.b.FinishList()

	p.bump()
	p.b.FinishNode()
}

func (p *Parser) parsePackageDecl() {
	p.b.StartNode(syntax.KindPackageDecl)
	p.bump()
	p.parseQualifiedName(false)
	p.expect(syntax.KindSemicolon)
	p.b.FinishNode()
}

func (p *Parser) parseImportDecl() {
	p.b.StartNode(syntax.KindImportDecl)
	p.bump()
	if p.at(syntax.KindStatic) {
		p.bump()
	} else {
		p.b.Nil()
	}
	p.parseQualifiedName(true)
	p.expect(syntax.KindSemicolon)
	p.b.FinishNode()
}

// parseQualifiedName parses a.b.c as nested QualifiedName nodes around a
// Name. With allowStar, the last segment may be '*'.
func (p *Parser) parseQualifiedName(allowStar bool) {
	cp := p.b.Checkpoint()
	p.b.StartNode(syntax.KindName)
	p.expect(syntax.KindIdentifier)
	p.b.FinishNode()
	for p.at(syntax.KindDot) {
		next := p.peekKind(1)
		if next != syntax.KindIdentifier && !(allowStar && next == syntax.KindStar) {
			break
		}
		p.b.StartNodeAt(cp, syntax.KindQualifiedName)
		p.bump()
		p.bump()
		p.b.FinishNode()
	}
}

var modifiers = []syntax.Kind{
	syntax.KindPublic, syntax.KindProtected, syntax.KindPrivate,
	syntax.KindStatic, syntax.KindFinal, syntax.KindAbstract,
}

var primitiveTypes = []syntax.Kind{
	syntax.KindInt, syntax.KindLong, syntax.KindDouble,
	syntax.KindBoolean, syntax.KindChar,
}

func (p *Parser) atModifier() bool {
	return p.atAny(modifiers...)
}

func (p *Parser) atTypeDeclStart() bool {
	return p.atModifier() || p.atAny(syntax.KindClass, syntax.KindInterface)
}

func (p *Parser) atTypeStart() bool {
	return p.at(syntax.KindIdentifier) || p.atAny(primitiveTypes...)
}

// atMemberStart reports whether the current token can begin a class
// member.
func (p *Parser) atMemberStart() bool {
	return p.atTypeDeclStart() || p.atTypeStart() || p.at(syntax.KindVoid)
}

func (p *Parser) parseModifiers() {
	p.b.StartNode(syntax.KindList)
	for p.atModifier() {
		p.bump()
	}
	p.b.FinishList()
}

func (p *Parser) parseTypeDecl() {
	cp := p.b.Checkpoint()
	p.parseModifiers()
	p.parseTypeDeclAt(cp)
}

// parseTypeDeclAt parses a class or interface whose modifiers have been
// emitted since cp.
func (p *Parser) parseTypeDeclAt(cp syntax.Checkpoint) {
	if p.at(syntax.KindInterface) {
		p.b.StartNodeAt(cp, syntax.KindInterfaceDecl)
		p.bump()
		p.expect(syntax.KindIdentifier)
		p.parseTypeBody()
		p.b.FinishNode()
		return
	}

	p.b.StartNodeAt(cp, syntax.KindClassDecl)
	p.expect(syntax.KindClass)
	p.expect(syntax.KindIdentifier)
	if p.at(syntax.KindExtends) {
		p.b.StartNode(syntax.KindExtendsClause)
		p.bump()
		p.parseType()
		p.b.FinishNode()
	} else {
		p.b.Nil()
	}
	p.parseTypeBody()
	p.b.FinishNode()
}

// parseTypeBody parses { members }. Without an opening brace no members
// are parsed, so that the tokens that follow are read at the outer level.
func (p *Parser) parseTypeBody() {
	if !p.at(syntax.KindLBrace) {
		p.missing(syntax.KindLBrace)
		p.b.Nil()
		p.missing(syntax.KindRBrace)
		return
	}
	p.bump()
	p.b.StartNode(syntax.KindList)
	for !p.atAny(syntax.KindRBrace, syntax.KindEOF) {
		if p.atMemberStart() {
			p.parseMember()
			continue
		}
		p.skip()
	}
	p.b.FinishList()
	p.expect(syntax.KindRBrace)
}

func (p *Parser) parseMember() {
	cp := p.b.Checkpoint()
	p.parseModifiers()

	switch {
	case p.atAny(syntax.KindClass, syntax.KindInterface):
		p.parseTypeDeclAt(cp)

	case p.at(syntax.KindIdentifier) && p.peekKind(1) == syntax.KindLParen:
		p.b.StartNodeAt(cp, syntax.KindConstructorDecl)
		p.bump()
		p.parseParameters()
		p.parseBlock()
		p.b.FinishNode()

	default:
		p.parseType()
		if p.at(syntax.KindIdentifier) && p.peekKind(1) == syntax.KindLParen {
			p.b.StartNodeAt(cp, syntax.KindMethodDecl)
			p.bump()
			p.parseParameters()
			if p.at(syntax.KindLBrace) {
				p.parseBlock()
			} else {
				p.expect(syntax.KindSemicolon)
			}
			p.b.FinishNode()
			return
		}
		p.b.StartNodeAt(cp, syntax.KindFieldDecl)
		p.parseDeclarators()
		p.expect(syntax.KindSemicolon)
		p.b.FinishNode()
	}
}

func (p *Parser) parseType() {
	cp := p.b.Checkpoint()
	p.b.StartNode(syntax.KindType)
	switch {
	case p.atAny(primitiveTypes...) || p.at(syntax.KindVoid):
		p.bump()
	case p.at(syntax.KindIdentifier):
		p.parseQualifiedName(false)
	default:
		p.b.Missing(syntax.KindIdentifier, "expected type")
	}
	p.b.FinishNode()

	for p.at(syntax.KindLBracket) && p.peekKind(1) == syntax.KindRBracket {
		p.b.StartNodeAt(cp, syntax.KindArrayType)
		p.bump()
		p.bump()
		p.b.FinishNode()
	}
}

func (p *Parser) parseParameters() {
	p.b.StartNode(syntax.KindParameters)
	p.expect(syntax.KindLParen)
	p.b.StartNode(syntax.KindList)
	for p.atTypeStart() || p.at(syntax.KindFinal) {
		p.b.StartNode(syntax.KindParameter)
		p.parseModifiers()
		p.parseType()
		p.expect(syntax.KindIdentifier)
		p.b.FinishNode()
		if !p.at(syntax.KindComma) {
			break
		}
		p.bump()
	}
	p.b.FinishList()
	p.expect(syntax.KindRParen)
	p.b.FinishNode()
}

// parseDeclarators parses one or more comma-separated declarators.
func (p *Parser) parseDeclarators() {
	p.b.StartNode(syntax.KindList)
	p.parseVariableDeclarator()
	for p.at(syntax.KindComma) {
		p.bump()
		p.parseVariableDeclarator()
	}
	p.b.FinishList()
}

func (p *Parser) parseVariableDeclarator() {
	p.b.StartNode(syntax.KindVariableDeclarator)
	p.expect(syntax.KindIdentifier)
	if p.at(syntax.KindAssign) {
		p.b.StartNode(syntax.KindInitializer)
		p.bump()
		p.parseExpression()
		p.b.FinishNode()
	} else {
		p.b.Nil()
	}
	p.b.FinishNode()
}
