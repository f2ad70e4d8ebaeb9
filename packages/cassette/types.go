package cassette

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Request is a recorded HTTP request.
type Request struct {
	Method  string            `yaml:"method" json:"method"`
	URL     string            `yaml:"url" json:"url"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty" json:"body,omitempty"`
}

// Status is the status line of a recorded response.
type Status struct {
	HTTPVersion string `yaml:"http_version,omitempty" json:"http_version,omitempty"`
	Code        int    `yaml:"code" json:"code"`
	Message     string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Response is a recorded HTTP response.
type Response struct {
	Status  Status            `yaml:"status" json:"status"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty" json:"body,omitempty"`
}

// Interaction is a single request/response pair on a cassette.
type Interaction struct {
	Request  Request  `yaml:"request" json:"request"`
	Response Response `yaml:"response" json:"response"`
}

// NewRequest captures req. The body is read and replaced on req so it can
// still be sent; callers that do not own req should pass a clone.
func NewRequest(req *http.Request) (Request, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return Request{}, fmt.Errorf("reading request body: %w", err)
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	return Request{
		Method:  req.Method,
		URL:     req.URL.String(),
		Headers: flattenHeaders(req.Header),
		Body:    string(body),
	}, nil
}

// NewResponse captures resp. The body is read and replaced so resp can
// still be returned to the caller.
func NewResponse(resp *http.Response) (Response, error) {
	var body []byte
	if resp.Body != nil {
		var err error
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return Response{}, fmt.Errorf("reading response body: %w", err)
		}
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	return Response{
		Status: Status{
			HTTPVersion: strings.TrimPrefix(resp.Proto, "HTTP/"),
			Code:        resp.StatusCode,
			Message:     statusMessage(resp),
		},
		Headers: flattenHeaders(resp.Header),
		Body:    string(body),
	}, nil
}

// HTTPResponse builds a response to req from the recording.
func (r Response) HTTPResponse(req *http.Request) *http.Response {
	header := make(http.Header, len(r.Headers))
	for k, v := range r.Headers {
		header.Set(k, v)
	}

	message := r.Status.Message
	if message == "" {
		message = http.StatusText(r.Status.Code)
	}
	version := r.Status.HTTPVersion
	if version == "" {
		version = "1.1"
	}
	major, minor, ok := http.ParseHTTPVersion("HTTP/" + version)
	if !ok {
		major, minor = 1, 1
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", r.Status.Code, message),
		StatusCode:    r.Status.Code,
		Proto:         "HTTP/" + version,
		ProtoMajor:    major,
		ProtoMinor:    minor,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}

func statusMessage(resp *http.Response) string {
	prefix := fmt.Sprintf("%d ", resp.StatusCode)
	if msg, ok := strings.CutPrefix(resp.Status, prefix); ok {
		return msg
	}
	return http.StatusText(resp.StatusCode)
}

// flattenHeaders keeps the first value of every header.
func flattenHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	result := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) > 0 {
			result[http.CanonicalHeaderKey(key)] = values[0]
		}
	}
	return result
}

// DefaultSanitizedHeaders are redacted from recorded requests unless the
// recorder is given its own list.
var DefaultSanitizedHeaders = []string{"Authorization", "Cookie", "X-Api-Key", "Api-Key"}

// Sanitized returns a copy of r with the named headers replaced by a
// placeholder such as "{{X_API_KEY}}". Names are compared case-insensitively.
func (r Request) Sanitized(names []string) Request {
	if len(r.Headers) == 0 || len(names) == 0 {
		return r
	}
	headers := make(map[string]string, len(r.Headers))
	for key, value := range r.Headers {
		headers[key] = value
		for _, s := range names {
			if strings.EqualFold(key, s) {
				headers[key] = "{{" + strings.ToUpper(strings.ReplaceAll(key, "-", "_")) + "}}"
				break
			}
		}
	}
	r.Headers = headers
	return r
}
