// Package plugin adapts the import rewrite to the host plugin boundary: one
// JSON exchange envelope in, one JSON envelope out.
package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sheinsight/lockmodule/pkg/lockmodule"
	"github.com/sheinsight/lockmodule/pkg/uast/pkg/node"
)

// Sentinel errors for envelope decoding.
var (
	ErrMalformedRequest = errors.New("plugin: malformed request")
	ErrMissingProgram   = errors.New("plugin: request has no program")
)

// Metadata is the per-file context the host attaches to a request.
type Metadata struct {
	Filename  string  `json:"filename,omitempty"`
	Env       string  `json:"env,omitempty"`
	RawConfig *string `json:"plugin_config,omitempty"`
}

// PluginConfig implements lockmodule.ConfigSource. A nil receiver or an
// omitted plugin_config field means no payload was provided.
func (meta *Metadata) PluginConfig() (string, bool) {
	if meta == nil || meta.RawConfig == nil {
		return "", false
	}

	return *meta.RawConfig, true
}

// Request is the envelope the host sends for one file.
type Request struct {
	Program  *node.Node `json:"program"`
	Metadata Metadata   `json:"metadata"`
}

// Response carries the transformed program, or an error describing why the
// request never reached the transform.
type Response struct {
	Program *node.Node `json:"program,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Handle runs the transform for one decoded request.
func Handle(req *Request) (*Response, error) {
	if req == nil || req.Program == nil {
		return nil, ErrMissingProgram
	}

	program := lockmodule.Transform(req.Program, &req.Metadata)

	return &Response{Program: program}, nil
}

// Decode reads one request envelope from r.
func Decode(r io.Reader) (*Request, error) {
	var req Request

	dec := json.NewDecoder(r)

	err := dec.Decode(&req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	if !errors.Is(dec.Decode(&struct{}{}), io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after envelope", ErrMalformedRequest)
	}

	return &req, nil
}

// Serve decodes one request from r, transforms it and writes the response to
// w. Boundary failures are reported inside the response; the returned error
// is only set when the response itself could not be written.
func Serve(r io.Reader, w io.Writer) error {
	resp, err := serve(r)
	if err != nil {
		resp = &Response{Error: err.Error()}
	}

	enc := json.NewEncoder(w)

	encErr := enc.Encode(resp)
	if encErr != nil {
		return fmt.Errorf("plugin: write response: %w", encErr)
	}

	return nil
}

func serve(r io.Reader) (*Response, error) {
	req, err := Decode(r)
	if err != nil {
		return nil, err
	}

	return Handle(req)
}
