package jose

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Algorithm identifiers understood by the backend.
const (
	AlgRSAOAEP256 = "RSA-OAEP-256" // key wrapping: RSAES-OAEP with SHA-256
	EncA256GCM    = "A256GCM"      // content encryption: AES-256-GCM
	AlgPS256      = "PS256"        // signature: RSASSA-PSS with SHA-256

	TypeJOSE        = "JOSE"
	ContentTypeJWE  = "JWE"
	ContentTypeJSON = "JSON"
)

// Segment counts of the two compact forms.
const (
	SignedSegments    = 3 // header.payload.signature
	EncryptedSegments = 5 // header.encryptedKey.iv.ciphertext.tag
)

var segmentEncoding = base64.RawURLEncoding.Strict()

// Header is the protected header shared by the signed and encrypted forms.
// Field order is the order the backend receives.
type Header struct {
	Algorithm   string   `json:"alg"`
	Encryption  string   `json:"enc,omitempty"`
	Type        string   `json:"typ,omitempty"`
	ContentType string   `json:"cty,omitempty"`
	Critical    []string `json:"crit,omitempty"`
}

// Compact is a period-delimited list of base64url segments, the first of
// which is the protected header. Segments are kept in their encoded form so
// signing inputs and AAD are reproduced exactly as received.
type Compact struct {
	segments []string
}

// NewCompact encodes header and parts into a compact value.
func NewCompact(header []byte, parts ...[]byte) Compact {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, encodeSegment(header))
	for _, p := range parts {
		segments = append(segments, encodeSegment(p))
	}
	return Compact{segments: segments}
}

// ParseCompact splits s and checks it has exactly n segments, each valid base64url.
func ParseCompact(s string, n int) (Compact, error) {
	segments := strings.Split(s, ".")
	if len(segments) != n {
		return Compact{}, ErrMalformed
	}
	for _, seg := range segments {
		if _, err := segmentEncoding.DecodeString(seg); err != nil {
			return Compact{}, errors.Join(ErrMalformed, err)
		}
	}
	return Compact{segments: segments}, nil
}

// String returns the wire form.
func (c Compact) String() string {
	return strings.Join(c.segments, ".")
}

// Len returns the number of segments.
func (c Compact) Len() int { return len(c.segments) }

// Protected returns the encoded protected header, used as GCM additional data.
func (c Compact) Protected() string {
	if len(c.segments) == 0 {
		return ""
	}
	return c.segments[0]
}

// SigningInput returns "header.payload" for the signed form.
func (c Compact) SigningInput() string {
	if len(c.segments) < 2 {
		return c.Protected()
	}
	return c.segments[0] + "." + c.segments[1]
}

// Segment decodes the i-th segment.
func (c Compact) Segment(i int) ([]byte, error) {
	if i < 0 || i >= len(c.segments) {
		return nil, ErrMalformed
	}
	b, err := segmentEncoding.DecodeString(c.segments[i])
	if err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	return b, nil
}

// Header decodes the protected header and rejects critical extensions,
// none of which are implemented.
func (c Compact) Header() (Header, error) {
	raw, err := c.Segment(0)
	if err != nil {
		return Header{}, err
	}
	var h Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return Header{}, errors.Join(ErrMalformed, err)
	}
	if len(h.Critical) > 0 {
		return Header{}, ErrCriticalHeader
	}
	return h, nil
}

// with returns a copy of c with parts appended.
func (c Compact) with(parts ...[]byte) Compact {
	segments := make([]string, 0, len(c.segments)+len(parts))
	segments = append(segments, c.segments...)
	for _, p := range parts {
		segments = append(segments, encodeSegment(p))
	}
	return Compact{segments: segments}
}

func encodeSegment(b []byte) string {
	return segmentEncoding.EncodeToString(b)
}
