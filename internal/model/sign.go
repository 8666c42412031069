package model

// SignRequest is the body of POST /sign/json.
// A nil Key selects the server's configured key; a non-nil empty Key is the
// empty HMAC key.
type SignRequest struct {
	Message string  `json:"message"`
	Key     *string `json:"key,omitempty"`
}

// SignResponse echoes the signed message with its hex encoded HMAC-SHA256.
type SignResponse struct {
	Message string `json:"message"`
	Digest  string `json:"digest"`
}
