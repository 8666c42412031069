package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Heidric/hmacsign/internal/customerrors"
	"github.com/Heidric/hmacsign/internal/model"
)

func (s *Server) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// readBody reads at most maxBodySize bytes, reporting overflow as
// ErrBodyTooLarge.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, customerrors.ErrBodyTooLarge
		}
		return nil, customerrors.ErrInvalidBody
	}
	return body, nil
}

// signHandler signs the raw request body with the server key.
func (s *Server) signHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeSignError(w, r, err)
		return
	}

	digest, err := s.signer.Sign(r.Context(), string(body))
	if err != nil {
		s.writeSignError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, digest)
}

func (s *Server) signJSONHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeSignError(w, r, err)
		return
	}

	req, err := decodeSignRequest(body)
	if err != nil {
		s.writeSignError(w, r, err)
		return
	}

	var digest string
	if req.Key != nil {
		digest, err = s.signer.SignWithKey(r.Context(), req.Message, *req.Key)
	} else {
		digest, err = s.signer.Sign(r.Context(), req.Message)
	}
	if err != nil {
		s.writeSignError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(model.SignResponse{
		Message: req.Message,
		Digest:  digest,
	})
}

func (s *Server) writeSignError(w http.ResponseWriter, r *http.Request, err error) {
	status := customerrors.StatusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("sign failed")
		customerrors.WriteError(w, status, "")
		return
	}
	customerrors.WriteError(w, status, err.Error())
}

func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	customerrors.WriteError(w, http.StatusNotFound, "")
}

func (s *Server) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	customerrors.WriteError(w, http.StatusMethodNotAllowed, "")
}
