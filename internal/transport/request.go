package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/colhub/hubsync/pkg/errors"
)

// maxErrorBody bounds how much of a failed response ends up in an error message.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure.
// 401 and 403 become AuthenticationError; any other non-200 status becomes APIError.
func DecodeResponse(resp *http.Response, target any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &errors.AuthenticationError{
			Message: http.StatusText(resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		return &errors.APIError{
			StatusCode: resp.StatusCode,
			Message:    truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
