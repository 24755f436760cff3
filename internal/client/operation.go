package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/mark3labs/swaggerc/internal/logging"
	"github.com/mark3labs/swaggerc/internal/spec"
)

// Operation is one callable endpoint. It does not change after construction
// and may be invoked concurrently.
type Operation struct {
	nickname  string
	method    string
	uri       string
	websocket bool
	params    []spec.Parameter
	decl      *spec.Operation
	transport Transport
	logger    logging.Logger
}

func newOperation(uri string, op *spec.Operation, transport Transport, logger logging.Logger) *Operation {
	params := make([]spec.Parameter, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		if p != nil {
			params = append(params, *p)
		}
	}
	return &Operation{
		nickname:  op.Nickname,
		method:    op.HTTPMethod,
		uri:       uri,
		websocket: op.IsWebsocket,
		params:    params,
		decl:      op,
		transport: transport,
		logger:    logger.With("operation", op.Nickname),
	}
}

func (o *Operation) Nickname() string  { return o.nickname }
func (o *Operation) Method() string    { return o.method }
func (o *Operation) IsWebsocket() bool { return o.websocket }

// URI is the unexpanded template, basePath followed by the api path.
func (o *Operation) URI() string { return o.uri }

// Declaration returns the document node the operation was built from. Treat
// it as read-only.
func (o *Operation) Declaration() *spec.Operation { return o.decl }

func (o *Operation) String() string { return "Operation(" + o.nickname + ")" }

// Request is a bound call: the expanded URI and the arguments sorted into
// query and body.
type Request struct {
	Method string
	URI    string
	Query  url.Values
	// Body is nil when no body parameter was supplied. Supplying one, even an
	// empty map, makes it non-nil.
	Body map[string]any
}

// Result carries the transport's answer. Exactly one field is set.
type Result struct {
	// Response is the HTTP response, untouched. The caller closes its body.
	Response *http.Response
	// Conn is the open session for websocket operations. The caller closes it.
	Conn *websocket.Conn
}

// Bind matches args against the declared parameters in declaration order.
// args is not modified. A nil value counts as absent. Slice values are joined
// with commas.
func (o *Operation) Bind(args map[string]any) (*Request, error) {
	remaining := make(map[string]any, len(args))
	for k, v := range args {
		remaining[k] = v
	}
	req := &Request{Method: o.method, URI: o.uri, Query: url.Values{}}

	for _, p := range o.params {
		v, ok := remaining[p.Name]
		if ok && v == nil {
			delete(remaining, p.Name)
			ok = false
		}
		if !ok {
			if p.Required {
				return nil, &BindingError{Code: MissingParameter, Nickname: o.nickname, Params: []string{p.Name}}
			}
			continue
		}
		delete(remaining, p.Name)

		switch p.ParamType {
		case spec.ParamPath:
			req.URI = strings.ReplaceAll(req.URI, "{"+p.Name+"}", url.PathEscape(argString(v)))
		case spec.ParamQuery:
			req.Query.Set(p.Name, argString(v))
		case spec.ParamBody:
			fields, ok := bodyFields(v)
			if !ok {
				return nil, &BindingError{Code: InvalidBody, Nickname: o.nickname, Params: []string{p.Name}}
			}
			if req.Body == nil {
				req.Body = make(map[string]any, len(fields))
			}
			for k, fv := range fields {
				req.Body[k] = fv
			}
		default:
			return nil, &BindingError{
				Code:      UnsupportedParamType,
				Nickname:  o.nickname,
				Params:    []string{p.Name},
				ParamType: string(p.ParamType),
			}
		}
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for k := range remaining {
			names = append(names, k)
		}
		sort.Strings(names)
		return nil, &BindingError{Code: UnexpectedParameter, Nickname: o.nickname, Params: names}
	}
	return req, nil
}

// Invoke binds args and performs the call. Websocket operations dial the
// upgraded URI and return Result.Conn; all others return Result.Response.
// Transport errors are returned unwrapped.
func (o *Operation) Invoke(ctx context.Context, args map[string]any) (*Result, error) {
	req, err := o.Bind(args)
	if err != nil {
		return nil, err
	}
	logger := o.logger.With("call_id", uuid.NewString())

	if o.websocket {
		if req.Body != nil {
			return nil, &UnsupportedError{Nickname: o.nickname, Reason: "sending body data with websockets is not supported"}
		}
		uri := websocketURI(req.URI)
		logger.Info("connect", "uri", uri, "query", req.Query.Encode())
		conn, err := o.transport.Connect(ctx, uri, req.Query)
		if err != nil {
			return nil, err
		}
		return &Result{Conn: conn}, nil
	}

	var (
		body   []byte
		header http.Header
	)
	if req.Body != nil {
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body for %q: %w", o.nickname, err)
		}
		header = http.Header{}
		header.Set("Content-Type", "application/json")
		header.Set("Accept", "application/json")
	}
	logger.Info("request", "method", req.Method, "uri", req.URI, "query", req.Query.Encode())
	resp, err := o.transport.Request(ctx, req.Method, req.URI, req.Query, body, header)
	if err != nil {
		return nil, err
	}
	return &Result{Response: resp}, nil
}

// Call is Invoke for plain HTTP operations.
func (o *Operation) Call(ctx context.Context, args map[string]any) (*http.Response, error) {
	if o.websocket {
		return nil, &UnsupportedError{Nickname: o.nickname, Reason: "websocket operation; use Connect"}
	}
	res, err := o.Invoke(ctx, args)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}

// Connect is Invoke for websocket operations.
func (o *Operation) Connect(ctx context.Context, args map[string]any) (*websocket.Conn, error) {
	if !o.websocket {
		return nil, &UnsupportedError{Nickname: o.nickname, Reason: "not a websocket operation; use Call"}
	}
	res, err := o.Invoke(ctx, args)
	if err != nil {
		return nil, err
	}
	return res.Conn, nil
}

// websocketURI rewrites http to ws and https to wss.
func websocketURI(uri string) string {
	switch {
	case strings.HasPrefix(uri, "https:"):
		return "wss:" + strings.TrimPrefix(uri, "https:")
	case strings.HasPrefix(uri, "http:"):
		return "ws:" + strings.TrimPrefix(uri, "http:")
	}
	return uri
}

// argString renders an argument for a path or query slot. Lists become one
// comma-joined string.
func argString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

func bodyFields(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return m, true
	}
	return nil, false
}
