package parser

import "github.com/dhamidi/greentree/syntax"

// atMemberOnlyStart reports tokens that can begin a member but never a
// statement. A block that runs into one is assumed to be unclosed.
func (p *Parser) atMemberOnlyStart() bool {
	return p.atTypeDeclStart() || p.at(syntax.KindVoid)
}

func (p *Parser) atStatementStart() bool {
	switch p.kind() {
	case syntax.KindLBrace, syntax.KindSemicolon, syntax.KindIf,
		syntax.KindWhile, syntax.KindReturn:
		return true
	}
	return p.atAny(primitiveTypes...) || p.atExpressionStart()
}

func (p *Parser) parseBlock() {
	p.b.StartNode(syntax.KindBlock)
	p.expect(syntax.KindLBrace)
	p.b.StartNode(syntax.KindList)
	for !p.atAny(syntax.KindRBrace, syntax.KindEOF) && !p.atMemberOnlyStart() {
		if p.atStatementStart() {
			p.parseStatement()
			continue
		}
		p.skip()
	}
	p.b.FinishList()
	p.expect(syntax.KindRBrace)
	p.b.FinishNode()
}

func (p *Parser) parseStatement() {
	switch p.kind() {
	case syntax.KindLBrace:
		p.parseBlock()
	case syntax.KindSemicolon:
		p.b.StartNode(syntax.KindEmptyStmt)
		p.bump()
		p.b.FinishNode()
	case syntax.KindIf:
		p.parseIfStatement()
	case syntax.KindWhile:
		p.b.StartNode(syntax.KindWhileStmt)
		p.bump()
		p.parseCondition()
		p.parseEmbeddedStatement()
		p.b.FinishNode()
	case syntax.KindReturn:
		p.b.StartNode(syntax.KindReturnStmt)
		p.bump()
		if p.atExpressionStart() {
			p.parseExpression()
		} else {
			p.b.Nil()
		}
		p.expect(syntax.KindSemicolon)
		p.b.FinishNode()
	default:
		if p.atLocalVarDecl() {
			p.b.StartNode(syntax.KindLocalVarDecl)
			p.parseType()
			p.parseDeclarators()
			p.expect(syntax.KindSemicolon)
			p.b.FinishNode()
			return
		}
		p.b.StartNode(syntax.KindExprStmt)
		p.parseExpression()
		p.expect(syntax.KindSemicolon)
		p.b.FinishNode()
	}
}

func (p *Parser) parseIfStatement() {
	p.b.StartNode(syntax.KindIfStmt)
	p.bump()
	p.parseCondition()
	p.parseEmbeddedStatement()
	if p.at(syntax.KindElse) {
		p.b.StartNode(syntax.KindElseClause)
		p.bump()
		p.parseEmbeddedStatement()
		p.b.FinishNode()
	} else {
		p.b.Nil()
	}
	p.b.FinishNode()
}

// parseCondition parses the parenthesized condition of if and while as
// three slots: (, expression, ).
func (p *Parser) parseCondition() {
	p.expect(syntax.KindLParen)
	p.parseExpression()
	p.expect(syntax.KindRParen)
}

// parseEmbeddedStatement parses the body of if, else and while. When no
// statement can start here, an empty statement with a missing ';' stands
// in for it.
func (p *Parser) parseEmbeddedStatement() {
	if p.atStatementStart() {
		p.parseStatement()
		return
	}
	p.b.StartNode(syntax.KindEmptyStmt)
	p.b.Missing(syntax.KindSemicolon, "expected statement")
	p.b.FinishNode()
}

// atLocalVarDecl looks ahead for Type Identifier, where Type is a
// primitive or a possibly qualified name followed by any number of [].
func (p *Parser) atLocalVarDecl() bool {
	if p.atAny(primitiveTypes...) {
		return true
	}
	if !p.at(syntax.KindIdentifier) {
		return false
	}
	i := 1
	for p.peekKind(i) == syntax.KindDot && p.peekKind(i+1) == syntax.KindIdentifier {
		i += 2
	}
	for p.peekKind(i) == syntax.KindLBracket && p.peekKind(i+1) == syntax.KindRBracket {
		i += 2
	}
	return p.peekKind(i) == syntax.KindIdentifier
}
