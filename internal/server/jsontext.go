package server

import (
	"encoding/json"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/Heidric/hmacsign/internal/customerrors"
	"github.com/Heidric/hmacsign/internal/model"
)

type rawSignRequest struct {
	Message json.RawMessage `json:"message"`
	Key     json.RawMessage `json:"key"`
}

// decodeSignRequest parses a /sign/json body without the U+FFFD substitution
// encoding/json applies to invalid UTF-8 and unpaired surrogate escapes:
// such text is rejected with ErrInvalidText.
func decodeSignRequest(body []byte) (model.SignRequest, error) {
	var req model.SignRequest

	if !utf8.Valid(body) {
		return req, errors.Wrap(customerrors.ErrInvalidText, "body")
	}

	var raw rawSignRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return req, customerrors.ErrInvalidBody
	}

	message, err := unquoteText(raw.Message, "message")
	if err != nil {
		return req, err
	}
	req.Message = message

	if len(raw.Key) > 0 && string(raw.Key) != "null" {
		key, err := unquoteText(raw.Key, "key")
		if err != nil {
			return req, err
		}
		req.Key = &key
	}

	return req, nil
}

func unquoteText(raw json.RawMessage, field string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if err := checkSurrogates(raw); err != nil {
		return "", errors.Wrap(err, field)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Wrap(customerrors.ErrInvalidBody, field)
	}
	return s, nil
}

// checkSurrogates reports a \u escape naming a surrogate half that is not
// part of a high/low pair.
func checkSurrogates(raw []byte) error {
	for i := 0; i < len(raw); {
		if raw[i] != '\\' || i+1 >= len(raw) {
			i++
			continue
		}
		if raw[i+1] != 'u' {
			i += 2
			continue
		}

		r, ok := escapedRune(raw, i)
		if !ok {
			// Left for json.Unmarshal to reject.
			i += 2
			continue
		}
		i += 6

		switch {
		case r >= 0xd800 && r < 0xdc00:
			if low, ok := escapedRune(raw, i); ok && utf16.DecodeRune(r, low) != utf8.RuneError {
				i += 6
				continue
			}
			return customerrors.ErrInvalidText
		case r >= 0xdc00 && r <= 0xdfff:
			return customerrors.ErrInvalidText
		}
	}
	return nil
}

// escapedRune decodes the \uXXXX escape starting at raw[i].
func escapedRune(raw []byte, i int) (rune, bool) {
	if i+6 > len(raw) || raw[i] != '\\' || raw[i+1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(raw[i+2:i+6]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
