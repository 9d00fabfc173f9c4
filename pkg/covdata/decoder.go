// Package covdata decodes per line coverage payloads and condenses them into
// display blocks and line statistics.
package covdata

import (
	"encoding/base64"
	"errors"
	"math"
	"strconv"

	"github.com/LambdaTest/neuron/pkg/errs"
)

// Symbol is the coverage of one source line. Non-negative values are hit counts.
type Symbol int64

const (
	// Neutral marks a line that carries no code.
	Neutral Symbol = -1
	// Ignored marks a line excluded from coverage by the producer.
	Ignored Symbol = -2
)

// Byte classes of the raw format.
const (
	neutralMarker   = 0x00
	missedMarker    = 0x15
	ignoredMarker   = 0x1B
	separatorMarker = 0x1E
)

// IsCount reports whether s is a hit count rather than a marker.
func (s Symbol) IsCount() bool {
	return s >= 0
}

func (s Symbol) String() string {
	switch s {
	case Neutral:
		return "neutral"
	case Ignored:
		return "ignored"
	}
	return strconv.FormatInt(int64(s), 10)
}

// Decoder turns a raw coverage payload into symbols one byte at a time.
// The zero value is ready to use.
type Decoder struct {
	pending    int64
	hasPending bool
	offset     int
	out        []Symbol
}

// Feed consumes one byte.
func (d *Decoder) Feed(b byte) error {
	off := d.offset
	d.offset++
	switch {
	case b >= '0' && b <= '9':
		d.hasPending = true
		digit := int64(b - '0')
		if d.pending > (math.MaxInt64-digit)/10 {
			d.pending = math.MaxInt64
			return nil
		}
		d.pending = d.pending*10 + digit
	case b == separatorMarker:
		d.flush()
	case b == neutralMarker:
		d.flush()
		d.out = append(d.out, Neutral)
	case b == ignoredMarker:
		d.flush()
		d.out = append(d.out, Ignored)
	case b == missedMarker:
		d.flush()
		d.out = append(d.out, 0)
	default:
		return &errs.DecodeError{Byte: b, Offset: off}
	}
	return nil
}

func (d *Decoder) flush() {
	if !d.hasPending {
		return
	}
	d.out = append(d.out, Symbol(d.pending))
	d.pending = 0
	d.hasPending = false
}

// Finish flushes a trailing hit count and returns the symbols decoded so far.
func (d *Decoder) Finish() []Symbol {
	d.flush()
	return d.out
}

// Reset clears the output and the pending digits so the decoder can be reused.
func (d *Decoder) Reset() {
	d.pending = 0
	d.hasPending = false
	d.offset = 0
	d.out = d.out[:0]
}

// NeedsBase64 reports whether payload carries none of the control bytes the raw
// format reserves, in which case it is treated as base64 text. LF, VT and CR do
// not count as reserved.
func NeedsBase64(payload []byte) bool {
	for _, b := range payload {
		if b <= 0x09 || b == 0x0C || (b >= 0x0E && b <= 0x1F) {
			return false
		}
	}
	return true
}

// Decode returns the symbols of a payload, base64 decoding it first when it looks like text.
func Decode(payload []byte) ([]Symbol, error) {
	raw := payload
	if NeedsBase64(payload) {
		buf := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
		n, err := base64.StdEncoding.Decode(buf, payload)
		if err != nil {
			decodeErr := &errs.DecodeError{Base64: true}
			var corrupt base64.CorruptInputError
			if errors.As(err, &corrupt) {
				decodeErr.Offset = int(corrupt)
				if decodeErr.Offset < len(payload) {
					decodeErr.Byte = payload[decodeErr.Offset]
				}
			}
			return nil, decodeErr
		}
		raw = buf[:n]
	}

	d := &Decoder{out: make([]Symbol, 0, len(raw)/2+1)}
	for _, b := range raw {
		if err := d.Feed(b); err != nil {
			return nil, err
		}
	}
	return d.Finish(), nil
}

// Encode writes symbols in the raw format. Zero counts use the missed marker.
func Encode(symbols []Symbol) []byte {
	out := make([]byte, 0, len(symbols)*2)
	for _, s := range symbols {
		switch {
		case s == Neutral:
			out = append(out, neutralMarker)
		case s == Ignored:
			out = append(out, ignoredMarker)
		case s == 0:
			out = append(out, missedMarker)
		case s > 0:
			out = strconv.AppendInt(out, int64(s), 10)
			out = append(out, separatorMarker)
		}
	}
	return out
}
