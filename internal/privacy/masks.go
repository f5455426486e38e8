// Package privacy implements the column-masking stage applied to sampled
// rows before they reach a writer.
package privacy

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/DNAi-inc/DNUDS/internal/format"
	"github.com/DNAi-inc/DNUDS/internal/util"
)

// Kind names one of the four supported mask kinds.
type Kind string

const (
	Hash     Kind = "hash"
	Redact   Kind = "redact"
	Truncate Kind = "truncate"
	Bucket   Kind = "bucket"
)

// Mask is a parameterized, total function from a value to a replacement.
type Mask struct {
	Kind   Kind
	Params map[string]string
}

// NewMask validates kind and params up front, so a rule never fails at
// row-application time.
func NewMask(kind Kind, params map[string]string) (*Mask, error) {
	switch kind {
	case Hash:
		algo := params["algorithm"]
		if algo == "" {
			algo = "sha256"
		}
		switch algo {
		case "sha256", "sha1", "md5":
		default:
			return nil, util.NewError(util.KindInvalidConfig, fmt.Sprintf("unsupported hash algorithm %q", algo))
		}
	case Redact, Truncate, Bucket:
	default:
		return nil, util.NewError(util.KindInvalidConfig, fmt.Sprintf("unknown mask kind %q", kind))
	}
	return &Mask{Kind: kind, Params: params}, nil
}

// Apply transforms a single value under the mask's kind and parameters.
func (m *Mask) Apply(v format.Value) format.Value {
	switch m.Kind {
	case Hash:
		return m.applyHash(v)
	case Redact:
		token := m.Params["token"]
		if token == "" {
			token = "[REDACTED]"
		}
		return format.Text(token)
	case Truncate:
		return m.applyTruncate(v)
	case Bucket:
		return m.applyBucket(v)
	default:
		return v
	}
}

func (m *Mask) applyHash(v format.Value) format.Value {
	if v.IsNull() {
		return format.Text("")
	}
	algo := m.Params["algorithm"]
	if algo == "" {
		algo = "sha256"
	}
	data := []byte(v.String())
	var sum []byte
	switch algo {
	case "sha1":
		h := sha1.Sum(data)
		sum = h[:]
	case "md5":
		h := md5.Sum(data)
		sum = h[:]
	default:
		h := sha256.Sum256(data)
		sum = h[:]
	}
	return format.Text(hex.EncodeToString(sum))
}

func (m *Mask) applyTruncate(v format.Value) format.Value {
	if v.IsNull() {
		return format.Text("")
	}
	maxLen := 4
	if s, ok := m.Params["max_length"]; ok {
		if n, err := strconv.Atoi(s); err == nil {
			maxLen = n
		}
	}
	runes := []rune(v.String())
	if len(runes) <= maxLen {
		return format.Text(string(runes))
	}
	return format.Text(string(runes[:maxLen]) + "...")
}

func (m *Mask) applyBucket(v format.Value) format.Value {
	f, ok := v.Float64()
	if v.IsNull() || !ok {
		return format.Text("")
	}
	size := 10.0
	if s, ok := m.Params["bucket_size"]; ok {
		if n, err := strconv.ParseFloat(s, 64); err == nil && n > 0 {
			size = n
		}
	}
	start := math.Floor(f/size) * size
	end := start + size - 1
	return format.Text(fmt.Sprintf("%s-%s", formatBucketBound(start), formatBucketBound(end)))
}

func formatBucketBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
