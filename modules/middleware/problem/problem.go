// Package problem writes RFC 7807 problem documents, the error body of
// every non-2xx response.
package problem

import (
	"encoding/json"
	"maps"
	"net/http"
)

const ContentType = "application/problem+json"

// Problem is an RFC 7807 document. Extensions are flattened into the top
// level object next to the standard members.
type Problem struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Status        int            `json:"status"`
	Detail        string         `json:"detail,omitempty"`
	Instance      string         `json:"instance,omitempty"`
	Code          string         `json:"code,omitempty"`
	InvalidParams []InvalidParam `json:"invalidParams,omitempty"`

	Extensions map[string]any `json:"-"`
}

type InvalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type Option func(*Problem)

// New builds a 500 unless an option says otherwise. An empty title is
// filled from the status text.
func New(opts ...Option) *Problem {
	p := &Problem{
		Type:   "about:blank",
		Status: http.StatusInternalServerError,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	if p.Title == "" {
		p.Title = "Unknown Error"
	}
	return p
}

func (p Problem) MarshalJSON() ([]byte, error) {
	type plain Problem
	if len(p.Extensions) == 0 {
		return json.Marshal(plain(p))
	}

	base, err := json.Marshal(plain(p))
	if err != nil {
		return nil, err
	}
	merged := make(map[string]any, len(p.Extensions)+8)
	maps.Copy(merged, p.Extensions)
	// standard members win over extensions of the same name
	var std map[string]any
	if err := json.Unmarshal(base, &std); err != nil {
		return nil, err
	}
	maps.Copy(merged, std)
	return json.Marshal(merged)
}

func Write(w http.ResponseWriter, p *Problem) {
	if p == nil {
		p = Internal("server error")
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func WithStatus(status int) Option {
	return func(p *Problem) { p.Status = status }
}

func WithTitle(title string) Option {
	return func(p *Problem) { p.Title = title }
}

func WithDetail(detail string) Option {
	return func(p *Problem) { p.Detail = detail }
}

func WithType(typ string) Option {
	return func(p *Problem) { p.Type = typ }
}

func WithInstance(instance string) Option {
	return func(p *Problem) { p.Instance = instance }
}

// WithCode attaches a stable, machine-readable error code.
func WithCode(code string) Option {
	return func(p *Problem) { p.Code = code }
}

func WithInvalidParam(name, reason string) Option {
	return func(p *Problem) {
		p.InvalidParams = append(p.InvalidParams, InvalidParam{Name: name, Reason: reason})
	}
}

func WithExtension(key string, value any) Option {
	return func(p *Problem) {
		if p.Extensions == nil {
			p.Extensions = map[string]any{}
		}
		p.Extensions[key] = value
	}
}

func withStatus(status int, detail string, opts []Option) *Problem {
	return New(append([]Option{WithStatus(status), WithDetail(detail)}, opts...)...)
}

func BadRequest(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusBadRequest, detail, opts)
}

func Unauthorized(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusUnauthorized, detail, opts)
}

func Forbidden(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusForbidden, detail, opts)
}

func NotFound(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusNotFound, detail, opts)
}

func MethodNotAllowed(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusMethodNotAllowed, detail, opts)
}

func Conflict(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusConflict, detail, opts)
}

func PreconditionFailed(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusPreconditionFailed, detail, opts)
}

func PayloadTooLarge(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusRequestEntityTooLarge, detail, opts)
}

func UnsupportedMediaType(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusUnsupportedMediaType, detail, opts)
}

func TooManyRequests(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusTooManyRequests, detail, opts)
}

func Internal(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusInternalServerError, detail, opts)
}

func ServiceUnavailable(detail string, opts ...Option) *Problem {
	return withStatus(http.StatusServiceUnavailable, detail, opts)
}
