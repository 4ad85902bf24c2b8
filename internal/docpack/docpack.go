// Package docpack turns the client-facing copy of an agreement into a
// compact, content-addressed archive.
//
// An archive is a deterministic CBOR encoding of a Document, optionally
// compressed, behind a small header:
//
//	[1 byte compression][uvarint uncompressed length][body]
//
// The same Document always packs to the same bytes, so the checksum of an
// archive identifies the published content.
package docpack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"vahq/internal/structure"
)

// Document is what the client saw when an agreement was published.
type Document struct {
	InstanceID  string              `json:"instance_id"`
	TemplateID  string              `json:"template_id"`
	ClientID    string              `json:"client_id"`
	Title       string              `json:"title"`
	Version     int64               `json:"version"`
	PublishedAt time.Time           `json:"published_at"`
	Structure   structure.Structure `json:"structure"`
}

// maxDocumentSize bounds the length header so a corrupt archive cannot
// trigger a huge allocation.
const maxDocumentSize = 64 << 20

var ErrCorrupt = errors.New("corrupt document archive")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	encMode, err = opts.EncMode()
	if err != nil {
		panic("docpack: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("docpack: CBOR decoder initialization failed: " + err.Error())
	}
}

// Pack encodes doc and compresses it with c. When compression would not
// shrink the body, the archive is stored uncompressed.
func Pack(doc Document, c Compression) ([]byte, error) {
	raw, err := encMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	body, err := compress(raw, c)
	if errors.Is(err, errIncompressible) {
		c, body, err = CompressionNone, raw, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+binary.MaxVarintLen64+len(body))
	out = append(out, byte(c))
	out = binary.AppendUvarint(out, uint64(len(raw)))
	return append(out, body...), nil
}

// Unpack reverses Pack.
func Unpack(data []byte) (*Document, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}
	c := Compression(data[0])
	size, n := binary.Uvarint(data[1:])
	if n <= 0 || size > maxDocumentSize {
		return nil, fmt.Errorf("%w: bad length header", ErrCorrupt)
	}

	raw, err := decompress(data[1+n:], c, int(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var doc Document
	if err := decMode.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding document: %w", ErrCorrupt, err)
	}
	return &doc, nil
}
