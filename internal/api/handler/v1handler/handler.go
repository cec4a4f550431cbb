// Package v1handler implements the v1 JSON API on top of the
// canonicalization service.
package v1handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"unaliaser/internal/canonicalizer"
	"unaliaser/pkg/logger"
	"unaliaser/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// DefaultMaxBodyBytes limits request bodies when Deps.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 1 << 20

// Deps are the collaborators of Handler.
type Deps struct {
	Canonicalizer canonicalizer.Canonicalizer
	// MaxBodyBytes limits the size of request bodies.
	MaxBodyBytes int64
}

// Handler serves the v1 endpoints.
type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Handler{deps: deps}
}

// Error is the body of every non 2xx response.
type Error struct {
	Code    string
	Message string
}

// Encode writes the error as {"code": ..., "message": ...}.
func (e Error) Encode(enc *jx.Encoder) {
	enc.ObjStart()
	enc.FieldStart("code")
	enc.Str(e.Code)
	enc.FieldStart("message")
	enc.Str(e.Message)
	enc.ObjEnd()
}

// ErrorStatusCode pairs an Error with its HTTP status code.
type ErrorStatusCode struct {
	StatusCode int
	Response   Error
}

var statusByKind = map[serrors.Kind]int{ //nolint: gochecknoglobals
	serrors.ErrInvalidFormat: http.StatusBadRequest,
	serrors.ErrBadRequest:    http.StatusBadRequest,
	serrors.ErrUnauthorized:  http.StatusUnauthorized,
	serrors.ErrLookup:        http.StatusBadGateway,
	serrors.ErrTimeout:       http.StatusGatewayTimeout,
	serrors.ErrInternal:      http.StatusInternalServerError,
}

var defaultMessages = map[serrors.Kind]string{ //nolint: gochecknoglobals
	serrors.ErrInvalidFormat: "invalid email address",
	serrors.ErrBadRequest:    "bad request",
	serrors.ErrUnauthorized:  "unauthorized",
	serrors.ErrLookup:        "MX lookup failed",
	serrors.ErrTimeout:       "request timed out",
	serrors.ErrInternal:      "internal error",
}

// NewError maps err to the response sent to the client. Internal errors are
// logged and never expose their cause.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	status, known := statusByKind[kind]
	if !known {
		kind, status = serrors.ErrInternal, http.StatusInternalServerError
	}

	message := defaultMessages[kind]
	var se *serrors.Error
	if kind != serrors.ErrInternal && errors.As(err, &se) && se.Message() != "" {
		message = se.Message()
	}

	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.String("code", kind.Error()), zap.Error(err))
	} else {
		logger.Debug(ctx, "request rejected", zap.String("code", kind.Error()), zap.Error(err))
	}

	return &ErrorStatusCode{
		StatusCode: status,
		Response:   Error{Code: kind.Error(), Message: message},
	}
}

// Routes returns the v1 endpoints. Paths are relative to the server root.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/canonicalize", h.Canonicalize)
	mux.HandleFunc("POST /v1/canonicalize/batch", h.CanonicalizeBatch)
	mux.HandleFunc("POST /v1/equivalence", h.Equivalence)

	return mux
}

func (h Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(r.Context(), w, res.StatusCode, res.Response.Encode)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, encode func(*jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		logger.Debug(ctx, "could not write response", zap.Error(err))
	}
}

// readBody returns the request body, enforcing the configured size limit.
func (h Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.deps.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err,
				"request body exceeds %d bytes", tooLarge.Limit)
		}

		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
	}

	return body, nil
}

// decodeObject walks the top level JSON object of body, calling field for
// every key. Syntax errors are reported as bad requests; errors returned by
// field keep their kind.
func decodeObject(body []byte, field func(d *jx.Decoder, key string) error) error {
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return serrors.With(serrors.ErrBadRequest, "request body must be a JSON object")
	}

	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		return field(d, string(key))
	}); err != nil {
		if serrors.KindOf(err) != nil {
			return err
		}

		return serrors.Wrap(serrors.ErrBadRequest, err, "malformed JSON body")
	}

	return nil
}

// decodeEmail reads a JSON string holding an email address. Any other JSON
// type is an invalid email, not a malformed request.
func decodeEmail(d *jx.Decoder, name string) (string, error) {
	switch tt := d.Next(); tt {
	case jx.String:
	case jx.Invalid:
		return "", fmt.Errorf("malformed JSON value for %s", name)
	default:
		return "", serrors.With(serrors.ErrInvalidFormat, "%s must be a string, got %s", name, tt)
	}

	s, err := d.Str()
	if err != nil {
		return "", fmt.Errorf("could not decode %s: %w", name, err)
	}

	return s, nil
}
