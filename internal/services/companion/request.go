package companion

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dualidade/internal/platform/errors"
)

// maxBodyBytes bounds request bodies; notes are the largest payload.
const maxBodyBytes = 1 << 20

// formBinder fills a request value from url-encoded or multipart forms.
type formBinder interface {
	bindForm(url.Values) error
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// bind decodes a JSON body into dst, or the form values when the request
// is not JSON. An empty JSON body leaves dst unchanged. Malformed bodies are
// reported with code.
func bind(w http.ResponseWriter, r *http.Request, dst formBinder, code apperrors.Code) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if isJSON(r) {
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(dst); err != nil && err != io.EOF {
			return apperrors.Wrap(code, "invalid json body", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return apperrors.Wrap(code, "invalid form body", err)
	}
	return dst.bindForm(r.Form)
}

// formInt parses the named field when present. Blank values leave dst
// unchanged.
func formInt(values url.Values, name string, dst *int) error {
	raw, ok := values[name]
	if !ok || len(raw) == 0 || strings.TrimSpace(raw[0]) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(raw[0], "+")))
	if err != nil {
		return invalidField(name, err)
	}
	*dst = n
	return nil
}

func formString(values url.Values, name string, dst *string) {
	if raw, ok := values[name]; ok && len(raw) > 0 {
		*dst = strings.TrimSpace(raw[0])
	}
}

func invalidField(name string, cause error) error {
	return &apperrors.Error{
		Code:     apperrors.CodeCharacterInvalidField,
		Message:  fmt.Sprintf("invalid value for %s", name),
		Metadata: map[string]string{"Field": name},
		Cause:    cause,
	}
}

func wantsWait(r *http.Request) bool {
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	return wait
}
