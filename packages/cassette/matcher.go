package cassette

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

// Request matcher names.
const (
	MatchMethod      = "method"
	MatchURL         = "url"
	MatchHost        = "host"
	MatchPath        = "path"
	MatchQueryString = "query_string"
	MatchBody        = "body"
	MatchPostFields  = "post_fields"
	MatchHeaders     = "headers"
)

// ErrUnknownMatcher is returned for an unrecognized matcher name.
var ErrUnknownMatcher = errors.New("unknown request matcher")

// Matcher reports whether a live request matches a recorded one.
type Matcher func(recorded, live Request) bool

// DefaultMatchers lists every built-in matcher in evaluation order.
var DefaultMatchers = []string{
	MatchMethod,
	MatchURL,
	MatchHost,
	MatchPath,
	MatchQueryString,
	MatchBody,
	MatchPostFields,
	MatchHeaders,
}

var matchers = map[string]Matcher{
	MatchMethod: func(a, b Request) bool {
		return a.Method == b.Method
	},
	MatchURL: func(a, b Request) bool {
		return a.URL == b.URL
	},
	MatchHost: func(a, b Request) bool {
		return parseURL(a.URL).Host == parseURL(b.URL).Host
	},
	MatchPath: func(a, b Request) bool {
		return parseURL(a.URL).Path == parseURL(b.URL).Path
	},
	MatchQueryString: func(a, b Request) bool {
		return sameValues(parseURL(a.URL).Query(), parseURL(b.URL).Query())
	},
	MatchBody:       matchBody,
	MatchPostFields: matchPostFields,
	MatchHeaders: func(a, b Request) bool {
		if len(a.Headers) == 0 && len(b.Headers) == 0 {
			return true
		}
		return reflect.DeepEqual(a.Headers, b.Headers)
	},
}

// LookupMatchers resolves matcher names. An unknown name is an error.
func LookupMatchers(names []string) ([]Matcher, error) {
	result := make([]Matcher, 0, len(names))
	for _, name := range names {
		m, ok := matchers[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownMatcher, name)
		}
		result = append(result, m)
	}
	return result, nil
}

// Matches reports whether live matches recorded under every matcher.
func Matches(recorded, live Request, ms []Matcher) bool {
	for _, m := range ms {
		if !m(recorded, live) {
			return false
		}
	}
	return true
}

// matchBody compares JSON bodies structurally and anything else byte for
// byte.
func matchBody(a, b Request) bool {
	if a.Body == b.Body {
		return true
	}
	if !gjson.Valid(a.Body) || !gjson.Valid(b.Body) {
		return false
	}
	return reflect.DeepEqual(gjson.Parse(a.Body).Value(), gjson.Parse(b.Body).Value())
}

func matchPostFields(a, b Request) bool {
	return sameValues(postFields(a), postFields(b))
}

func postFields(r Request) url.Values {
	ct := ""
	for k, v := range r.Headers {
		if http.CanonicalHeaderKey(k) == "Content-Type" {
			ct = v
			break
		}
	}
	if !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		return nil
	}
	values, err := url.ParseQuery(r.Body)
	if err != nil {
		return nil
	}
	return values
}

func sameValues(a, b url.Values) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func parseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
