package parser

import "github.com/dhamidi/greentree/syntax"

var binaryPrecedence = map[syntax.Kind]int{
	syntax.KindOr:      1,
	syntax.KindAnd:     2,
	syntax.KindEQ:      3,
	syntax.KindNE:      3,
	syntax.KindLT:      4,
	syntax.KindLE:      4,
	syntax.KindGT:      4,
	syntax.KindGE:      4,
	syntax.KindPlus:    5,
	syntax.KindMinus:   5,
	syntax.KindStar:    6,
	syntax.KindSlash:   6,
	syntax.KindPercent: 6,
}

var literals = []syntax.Kind{
	syntax.KindIntLiteral, syntax.KindFloatLiteral, syntax.KindCharLiteral,
	syntax.KindStringLiteral, syntax.KindTrue, syntax.KindFalse, syntax.KindNull,
}

func (p *Parser) atExpressionStart() bool {
	switch p.kind() {
	case syntax.KindIdentifier, syntax.KindThis, syntax.KindNew, syntax.KindLParen,
		syntax.KindNot, syntax.KindMinus, syntax.KindPlus:
		return true
	}
	return p.atAny(literals...)
}

// parseExpression parses an assignment, which is right associative, or
// any expression of higher precedence.
func (p *Parser) parseExpression() {
	cp := p.b.Checkpoint()
	p.parseBinary(0)
	if p.at(syntax.KindAssign) {
		p.b.StartNodeAt(cp, syntax.KindAssignExpr)
		p.bump()
		p.parseExpression()
		p.b.FinishNode()
	}
}

// parseBinary parses operators binding tighter than minPrec, left to
// right.
func (p *Parser) parseBinary(minPrec int) {
	cp := p.b.Checkpoint()
	p.parseUnary()
	for {
		prec := binaryPrecedence[p.kind()]
		if prec <= minPrec {
			return
		}
		p.b.StartNodeAt(cp, syntax.KindBinaryExpr)
		p.bump()
		p.parseBinary(prec)
		p.b.FinishNode()
	}
}

func (p *Parser) parseUnary() {
	if p.atAny(syntax.KindNot, syntax.KindMinus, syntax.KindPlus) {
		p.b.StartNode(syntax.KindUnaryExpr)
		p.bump()
		p.parseUnary()
		p.b.FinishNode()
		return
	}
	p.parsePostfix()
}

func (p *Parser) parsePostfix() {
	cp := p.b.Checkpoint()
	p.parsePrimary()
	for {
		switch p.kind() {
		case syntax.KindLParen:
			p.b.StartNodeAt(cp, syntax.KindCallExpr)
			p.parseArguments()
			p.b.FinishNode()
		case syntax.KindDot:
			p.b.StartNodeAt(cp, syntax.KindFieldAccess)
			p.bump()
			p.expect(syntax.KindIdentifier)
			p.b.FinishNode()
		default:
			return
		}
	}
}

func (p *Parser) parsePrimary() {
	switch {
	case p.atAny(literals...):
		p.b.StartNode(syntax.KindLiteral)
		p.bump()
		p.b.FinishNode()
	case p.at(syntax.KindIdentifier):
		p.b.StartNode(syntax.KindName)
		p.bump()
		p.b.FinishNode()
	case p.at(syntax.KindThis):
		p.b.StartNode(syntax.KindThisExpr)
		p.bump()
		p.b.FinishNode()
	case p.at(syntax.KindLParen):
		p.b.StartNode(syntax.KindParenExpr)
		p.bump()
		p.parseExpression()
		p.expect(syntax.KindRParen)
		p.b.FinishNode()
	case p.at(syntax.KindNew):
		p.b.StartNode(syntax.KindNewExpr)
		p.bump()
		p.parseType()
		p.parseArguments()
		p.b.FinishNode()
	default:
		p.b.StartNode(syntax.KindName)
		p.b.Missing(syntax.KindIdentifier, "expected expression")
		p.b.FinishNode()
	}
}

func (p *Parser) parseArguments() {
	p.b.StartNode(syntax.KindArguments)
	p.expect(syntax.KindLParen)
	p.b.StartNode(syntax.KindList)
	if p.atExpressionStart() {
		p.parseExpression()
		for p.at(syntax.KindComma) {
			p.bump()
			p.parseExpression()
		}
	}
	p.b.FinishList()
	p.expect(syntax.KindRParen)
	p.b.FinishNode()
}
