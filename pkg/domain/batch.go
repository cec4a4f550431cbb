package domain

import "github.com/go-faster/jx"

// ItemError describes why one input of a batch could not be canonicalized.
type ItemError struct {
	Code    string
	Message string
}

// Encode writes the error as {"code": ..., "message": ...}.
func (ie ItemError) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("code")
	e.Str(ie.Code)
	e.FieldStart("message")
	e.Str(ie.Message)
	e.ObjEnd()
}

// BatchItem is the outcome for one input of a batch. Exactly one of Result
// and Error is set.
type BatchItem struct {
	Input  string
	Result *Canonical
	Error  *ItemError
}

// Encode writes the item as a JSON object.
func (b BatchItem) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("input")
	e.Str(b.Input)
	e.FieldStart("result")
	if b.Result != nil {
		b.Result.Encode(e)
	} else {
		e.Null()
	}
	e.FieldStart("error")
	if b.Error != nil {
		b.Error.Encode(e)
	} else {
		e.Null()
	}
	e.ObjEnd()
}

// Equivalence is the outcome of comparing two addresses.
type Equivalence struct {
	A          Canonical
	B          Canonical
	Equivalent bool
}

// Encode writes the comparison with both canonical keys.
func (eq Equivalence) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("equivalent")
	e.Bool(eq.Equivalent)
	e.FieldStart("a")
	e.Str(eq.A.Unique)
	e.FieldStart("b")
	e.Str(eq.B.Unique)
	e.ObjEnd()
}
