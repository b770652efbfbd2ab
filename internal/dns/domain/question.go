package domain

import "fmt"

// Question represents a single entry of a DNS query section: the name
// being asked about plus the record type and class requested.
type Question struct {
	Name  Name
	Type  RRType
	Class RRClass
}

// NewQuestion returns a question with the conventional defaults: the
// root name, type A, class IN. Callers refine it with the With*
// builders.
func NewQuestion() Question {
	return Question{Type: RRTypeA, Class: RRClassIN}
}

// WithName returns a copy of the question asking about n.
func (q Question) WithName(n Name) Question {
	q.Name = n
	return q
}

// WithType returns a copy of the question with the record type set.
func (q Question) WithType(t RRType) Question {
	q.Type = t
	return q
}

// WithClass returns a copy of the question with the class set.
func (q Question) WithClass(c RRClass) Question {
	q.Class = c
	return q
}

// Validate checks whether the Question fields are semantically valid.
func (q Question) Validate() error {
	if !q.Type.IsValid() {
		return fmt.Errorf("unsupported RRType: %d", uint16(q.Type))
	}
	if !q.Class.IsValid() {
		return fmt.Errorf("unsupported RRClass: %d", uint16(q.Class))
	}
	return nil
}
