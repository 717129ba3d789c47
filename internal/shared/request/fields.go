package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var ErrMalformedBody = errors.New("malformed request body")

// Fields reads the named fields from a JSON object or a form body as raw
// strings. Missing fields come back as "". Scalars in JSON are rendered as
// their literal text; null is "".
func Fields(c *gin.Context, names ...string) (map[string]string, error) {
	raw := make(map[string]string, len(names))

	if c.ContentType() == binding.MIMEJSON {
		var body map[string]any
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		for _, name := range names {
			s, err := scalar(body[name])
			if err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", ErrMalformedBody, name, err)
			}
			raw[name] = s
		}
		return raw, nil
	}

	for _, name := range names {
		raw[name] = c.PostForm(name)
	}
	return raw, nil
}

func scalar(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	default:
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(t)
		return "", fmt.Errorf("expected a scalar, got %s", strings.TrimSpace(buf.String()))
	}
}
