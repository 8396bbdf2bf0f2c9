package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ContentTypeMsgpack is the media type of msgpack request and response bodies.
const ContentTypeMsgpack = "application/msgpack"

// Envelope wraps every API payload.
type Envelope struct {
	Data     interface{}    `json:"data" msgpack:"data"`
	Metadata map[string]any `json:"metadata" msgpack:"metadata"`
}

// ErrorBody is the payload of a failed request.
type ErrorBody struct {
	Error string `json:"error" msgpack:"error"`
}

func wantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack)
}

// WriteData writes data inside the standard envelope, encoded as msgpack when
// the client accepts it and as JSON otherwise.
func WriteData(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, data interface{}) {
	write(w, r, log, status, Envelope{
		Data: data,
		Metadata: map[string]any{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// WriteError writes an error body.
func WriteError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, err error) {
	write(w, r, log, status, ErrorBody{Error: err.Error()})
}

func write(w http.ResponseWriter, r *http.Request, log zerolog.Logger, status int, body interface{}) {
	if wantsMsgpack(r) {
		payload, err := msgpack.Marshal(body)
		if err != nil {
			log.Error().Err(err).Msg("Failed to encode msgpack response")
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", ContentTypeMsgpack)
		w.WriteHeader(status)
		_, _ = w.Write(payload)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// DecodeRequest decodes a JSON or msgpack request body into v, depending on
// its Content-Type. Bodies larger than maxBytes are rejected with an error
// wrapping *http.MaxBytesError.
func DecodeRequest(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	body := &limitedBody{ReadCloser: http.MaxBytesReader(w, r.Body, maxBytes)}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), ContentTypeMsgpack) {
		if err = msgpack.NewDecoder(body).Decode(v); err != nil {
			err = fmt.Errorf("invalid msgpack body: %w", err)
		}
	} else {
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err = dec.Decode(v); err != nil {
			err = fmt.Errorf("invalid JSON body: %w", err)
		}
	}

	if body.tooLarge != nil {
		return fmt.Errorf("request body too large: %w", body.tooLarge)
	}
	return err
}

// DecodeStatus maps a DecodeRequest error to its HTTP status.
func DecodeStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// limitedBody remembers the limit error, whatever the decoder does with it.
type limitedBody struct {
	io.ReadCloser
	tooLarge *http.MaxBytesError
}

func (b *limitedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && b.tooLarge == nil {
		errors.As(err, &b.tooLarge)
	}
	return n, err
}
