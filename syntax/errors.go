package syntax

import "errors"

var (
	// ErrInvalidArgument indicates a nil root, annotation or other argument
	// that an operation requires to be present.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotDescendant indicates that the node, token or trivia passed to a
	// Replace operation does not belong to the tree it was replaced in.
	ErrNotDescendant = errors.New("not a descendant of the receiver")
)
