package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// keyErrorCode is the error code of a body that asks for another server key.
const keyErrorCode = "key"

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := resp.Body()
	message := strings.TrimSpace(string(body))

	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if parsed.Get("error").String() == keyErrorCode {
			if keyID := parsed.Get("key_id"); keyID.Exists() {
				return &KeyRotationError{KeyID: keyID.String()}
			}
		}
		if m := parsed.Get("message"); m.Exists() {
			message = m.String()
		} else if e := parsed.Get("error"); e.Exists() {
			message = e.String()
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuth, message)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case code == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, message)
	case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrNetwork, code, message)
	default:
		return fmt.Errorf("http %d: %s", code, message)
	}
}
