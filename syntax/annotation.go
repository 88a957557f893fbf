package syntax

import (
	"fmt"
	"sync/atomic"
)

var lastAnnotationID atomic.Uint64

// Annotation is an opaque tag that can be attached to any node, token or
// trivia. Two annotations are the same only if they are the same pointer;
// kind and data are informational and never used for lookup by identity.
type Annotation struct {
	id   uint64
	kind string
	data string
}

func NewAnnotation(kind, data string) *Annotation {
	return &Annotation{
		id:   lastAnnotationID.Add(1),
		kind: kind,
		data: data,
	}
}

func (a *Annotation) ID() uint64 {
	return a.id
}

func (a *Annotation) Kind() string {
	return a.kind
}

func (a *Annotation) Data() string {
	return a.data
}

func (a *Annotation) String() string {
	if a.data == "" {
		return fmt.Sprintf("#%d(%s)", a.id, a.kind)
	}
	return fmt.Sprintf("#%d(%s: %s)", a.id, a.kind, a.data)
}

// CopyAnnotations returns to with the local annotations of from appended.
// When from carries no annotations, to is returned unchanged. The copy is
// not idempotent: calling it twice appends the annotations twice.
func CopyAnnotations(from, to *GreenNode) *GreenNode {
	if from == nil || to == nil || len(from.annotations) == 0 {
		return to
	}
	return to.WithAdditionalAnnotations(from.annotations...)
}
