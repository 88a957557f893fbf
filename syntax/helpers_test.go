package syntax

func ws(s string) *GreenNode {
	return NewTrivia(KindWhitespaceTrivia, s)
}

func tok(kind Kind, text string, trailing ...*GreenNode) *GreenNode {
	return NewToken(kind, text, nil, trailing)
}

// classDecl builds `class <name> { }` followed by a single space.
func classDecl(name string) *GreenNode {
	return NewNode(KindClassDecl,
		nil,
		tok(KindClass, "class", ws(" ")),
		tok(KindIdentifier, name, ws(" ")),
		nil,
		tok(KindLBrace, "{", ws(" ")),
		nil,
		tok(KindRBrace, "}", ws(" ")),
	)
}

func compilationUnit(types ...*GreenNode) *GreenNode {
	var list *GreenNode
	if len(types) > 0 {
		list = NewList(types...)
	}
	return NewNode(KindCompilationUnit, nil, nil, list, tok(KindEOF, ""))
}
