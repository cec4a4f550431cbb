package v1handler

import (
	"fmt"
	"net/http"

	"unaliaser/pkg/domain"
	"unaliaser/pkg/serrors"

	"github.com/go-faster/jx"
)

// CanonicalizeRequest is the body of POST /v1/canonicalize.
type CanonicalizeRequest struct {
	Email string
}

// Decode reads the request from body.
func (req *CanonicalizeRequest) Decode(body []byte) error {
	var seen bool
	if err := decodeObject(body, func(d *jx.Decoder, key string) error {
		if key != "email" {
			return d.Skip()
		}
		seen = true
		email, err := decodeEmail(d, "email")
		req.Email = email

		return err
	}); err != nil {
		return err
	}
	if !seen {
		return serrors.With(serrors.ErrBadRequest, "email is required")
	}

	return nil
}

// BatchRequest is the body of POST /v1/canonicalize/batch.
type BatchRequest struct {
	Emails []string
}

// Decode reads the request from body.
func (req *BatchRequest) Decode(body []byte) error {
	var seen bool
	if err := decodeObject(body, func(d *jx.Decoder, key string) error {
		if key != "emails" {
			return d.Skip()
		}
		seen = true
		if d.Next() != jx.Array {
			return serrors.With(serrors.ErrBadRequest, "emails must be an array")
		}

		return d.Arr(func(d *jx.Decoder) error {
			email, err := decodeEmail(d, fmt.Sprintf("emails[%d]", len(req.Emails)))
			if err != nil {
				return err
			}
			req.Emails = append(req.Emails, email)

			return nil
		})
	}); err != nil {
		return err
	}
	if !seen {
		return serrors.With(serrors.ErrBadRequest, "emails is required")
	}

	return nil
}

// EquivalenceRequest is the body of POST /v1/equivalence.
type EquivalenceRequest struct {
	A string
	B string
}

// Decode reads the request from body.
func (req *EquivalenceRequest) Decode(body []byte) error {
	var seenA, seenB bool
	if err := decodeObject(body, func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "a":
			seenA = true
			req.A, err = decodeEmail(d, "a")
		case "b":
			seenB = true
			req.B, err = decodeEmail(d, "b")
		default:
			err = d.Skip()
		}

		return err
	}); err != nil {
		return err
	}
	if !seenA || !seenB {
		return serrors.With(serrors.ErrBadRequest, "a and b are required")
	}

	return nil
}

// Canonicalize handles POST /v1/canonicalize.
func (h Handler) Canonicalize(w http.ResponseWriter, r *http.Request) {
	var req CanonicalizeRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	res, err := h.deps.Canonicalizer.Canonicalize(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(r.Context(), w, http.StatusOK, res.Encode)
}

// CanonicalizeBatch handles POST /v1/canonicalize/batch.
func (h Handler) CanonicalizeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	items, err := h.deps.Canonicalizer.CanonicalizeBatch(r.Context(), req.Emails)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(r.Context(), w, http.StatusOK, func(e *jx.Encoder) {
		encodeItems(e, items)
	})
}

// Equivalence handles POST /v1/equivalence.
func (h Handler) Equivalence(w http.ResponseWriter, r *http.Request) {
	var req EquivalenceRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, r, err)

		return
	}

	res, err := h.deps.Canonicalizer.Equivalent(r.Context(), req.A, req.B)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(r.Context(), w, http.StatusOK, res.Encode)
}

type decoder interface {
	Decode(body []byte) error
}

func (h Handler) decode(w http.ResponseWriter, r *http.Request, req decoder) error {
	body, err := h.readBody(w, r)
	if err != nil {
		return err
	}

	return req.Decode(body)
}

func encodeItems(e *jx.Encoder, items []domain.BatchItem) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range items {
		item.Encode(e)
	}
	e.ArrEnd()
	e.ObjEnd()
}
