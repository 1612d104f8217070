package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/sparsevec/column"
	"github.com/hupe1980/sparsevec/internal/conv"
)

const (
	// Magic identifies frames (ASCII: "SPV1").
	Magic = 0x53505631

	// Version is the current frame format version.
	Version uint32 = 1

	// HeaderSize is the size of the frame header in bytes.
	HeaderSize = 32

	// MaxPayloadSize bounds the uncompressed payload of a single frame.
	MaxPayloadSize = 1 << 30

	// maxLZ4Ratio bounds the expansion of an LZ4 block.
	maxLZ4Ratio = 256
)

// Layout identifies the column shape carried by a frame.
type Layout uint8

const (
	LayoutList   Layout = 1
	LayoutSparse Layout = 2
)

var (
	// ErrInvalidMagic is returned when a frame has an invalid magic number.
	ErrInvalidMagic = errors.New("frame: invalid magic number")

	// ErrInvalidVersion is returned when a frame has an unsupported version.
	ErrInvalidVersion = errors.New("frame: unsupported format version")

	// ErrCorrupted is returned when a frame fails checksum or structural validation.
	ErrCorrupted = errors.New("frame: corrupted")

	// ErrUnsupported is returned for columns a frame cannot carry.
	ErrUnsupported = errors.New("frame: unsupported column")

	// ErrTooLarge is returned when a payload exceeds MaxPayloadSize.
	ErrTooLarge = errors.New("frame: payload too large")
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// Header is the fixed 32-byte frame header.
type Header struct {
	Magic       uint32
	Version     uint32
	Layout      Layout
	Kind        column.Kind
	Compression Compression
	Rows        uint64
	RawSize     uint32
	StoredSize  uint32 // 0 means uncompressed
	Checksum    uint32
}

func (h *Header) marshal() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	buf[8] = byte(h.Layout)
	buf[9] = byte(h.Kind)
	buf[10] = byte(h.Compression)
	binary.LittleEndian.PutUint64(buf[12:20], h.Rows)
	binary.LittleEndian.PutUint32(buf[20:24], h.RawSize)
	binary.LittleEndian.PutUint32(buf[24:28], h.StoredSize)
	h.Checksum = crc32.Checksum(buf[:28], crc32cTable)
	binary.LittleEndian.PutUint32(buf[28:32], h.Checksum)
	return buf
}

func (h *Header) unmarshal(buf []byte) error {
	h.Magic = binary.LittleEndian.Uint32(buf[0:4])
	if h.Magic != Magic {
		return ErrInvalidMagic
	}
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	if h.Version > Version {
		return ErrInvalidVersion
	}
	h.Checksum = binary.LittleEndian.Uint32(buf[28:32])
	if crc32.Checksum(buf[:28], crc32cTable) != h.Checksum {
		return fmt.Errorf("%w: header checksum mismatch", ErrCorrupted)
	}
	h.Layout = Layout(buf[8])
	h.Kind = column.Kind(buf[9])
	h.Compression = Compression(buf[10])
	h.Rows = binary.LittleEndian.Uint64(buf[12:20])
	h.RawSize = binary.LittleEndian.Uint32(buf[20:24])
	h.StoredSize = binary.LittleEndian.Uint32(buf[24:28])
	return h.checkSizes()
}

// checkSizes rejects sizes no writer produces, before anything is allocated.
func (h *Header) checkSizes() error {
	switch {
	case h.RawSize > MaxPayloadSize:
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, h.RawSize, MaxPayloadSize)
	case h.StoredSize > h.RawSize:
		return fmt.Errorf("%w: stored size %d exceeds raw size %d", ErrCorrupted, h.StoredSize, h.RawSize)
	case h.StoredSize != 0 && h.Compression == CompressionLZ4 && uint64(h.RawSize) > uint64(h.StoredSize)*maxLZ4Ratio:
		return fmt.Errorf("%w: lz4 raw size %d from %d stored bytes", ErrCorrupted, h.RawSize, h.StoredSize)
	}
	return nil
}

// Write serializes a list or sparse column of int32, int64, float32 or
// float64 values to w.
func Write(w io.Writer, arr column.Array, c Compression) error {
	var (
		payload []byte
		layout  Layout
		err     error
	)
	switch a := arr.(type) {
	case *column.List[int32]:
		payload, err = encodeList(a)
		layout = LayoutList
	case *column.List[int64]:
		payload, err = encodeList(a)
		layout = LayoutList
	case *column.List[float32]:
		payload, err = encodeList(a)
		layout = LayoutList
	case *column.List[float64]:
		payload, err = encodeList(a)
		layout = LayoutList
	case *column.Sparse[int32]:
		payload, err = encodeSparse(a)
		layout = LayoutSparse
	case *column.Sparse[int64]:
		payload, err = encodeSparse(a)
		layout = LayoutSparse
	case *column.Sparse[float32]:
		payload, err = encodeSparse(a)
		layout = LayoutSparse
	case *column.Sparse[float64]:
		payload, err = encodeSparse(a)
		layout = LayoutSparse
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, arr)
	}
	if err != nil {
		return err
	}

	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(payload), MaxPayloadSize)
	}
	rawSize, err := conv.Uint32(len(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	}

	stored, err := compress(payload, c)
	if err != nil {
		return err
	}
	h := Header{
		Magic:       Magic,
		Version:     Version,
		Layout:      layout,
		Kind:        valueKind(arr),
		Compression: c,
		Rows:        uint64(arr.Len()), //nolint:gosec
		RawSize:     rawSize,
	}
	if stored != nil {
		h.StoredSize = uint32(len(stored)) //nolint:gosec // smaller than payload
	} else {
		stored = payload
	}

	if _, err := w.Write(h.marshal()); err != nil {
		return err
	}
	if _, err := w.Write(stored); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, crc32.Checksum(stored, crc32cTable))
}

func valueKind(arr column.Array) column.Kind {
	dt := arr.DataType()
	if k, ok := dt.SparseValueKind(); ok {
		return k
	}
	return dt.Elem.Kind
}

// Read deserializes one frame from r.
func Read(r io.Reader) (column.Array, error) {
	hbuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hbuf); err != nil {
		return nil, err
	}
	var h Header
	if err := h.unmarshal(hbuf); err != nil {
		return nil, err
	}

	size := h.RawSize
	if h.StoredSize != 0 {
		size = h.StoredSize
	}
	stored, err := readPayload(r, size)
	if err != nil {
		return nil, err
	}
	var sum uint32
	if err := binary.Read(r, binary.LittleEndian, &sum); err != nil {
		return nil, fmt.Errorf("%w: trailer: %w", ErrCorrupted, err)
	}
	if crc32.Checksum(stored, crc32cTable) != sum {
		return nil, fmt.Errorf("%w: payload checksum mismatch", ErrCorrupted)
	}

	payload := stored
	if h.StoredSize != 0 {
		if payload, err = decompress(stored, h.Compression, int(h.RawSize)); err != nil {
			return nil, err
		}
	}

	rows, err := conv.Int(h.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	switch h.Kind {
	case column.KindInt32:
		return decode[int32](h.Layout, payload, rows)
	case column.KindInt64:
		return decode[int64](h.Layout, payload, rows)
	case column.KindFloat32:
		return decode[float32](h.Layout, payload, rows)
	case column.KindFloat64:
		return decode[float64](h.Layout, payload, rows)
	default:
		return nil, fmt.Errorf("%w: value kind %s", ErrUnsupported, h.Kind)
	}
}

// readPayload reads exactly size bytes. The buffer grows with the bytes
// actually received, so a header announcing more than the stream holds
// fails without allocating the announced size.
func readPayload(r io.Reader, size uint32) ([]byte, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrCorrupted, err)
	}
	if n != int64(size) {
		return nil, fmt.Errorf("%w: payload: %w", ErrCorrupted, io.ErrUnexpectedEOF)
	}
	return buf.Bytes(), nil
}

func decode[T column.Numeric](layout Layout, payload []byte, rows int) (column.Array, error) {
	p := &payloadReader{buf: payload}
	var (
		arr column.Array
		err error
	)
	switch layout {
	case LayoutList:
		var l *column.List[T]
		if l, err = decodeList[T](p, rows); err == nil {
			arr = l
		}
	case LayoutSparse:
		var s *column.Sparse[T]
		if s, err = decodeSparse[T](p, rows); err == nil {
			arr = s
		}
	default:
		return nil, fmt.Errorf("%w: layout %d", ErrUnsupported, layout)
	}
	if err != nil {
		return nil, err
	}
	if p.off != len(p.buf) {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", ErrCorrupted, len(p.buf)-p.off)
	}
	return arr, nil
}

func encodeList[T column.Numeric](l *column.List[T]) ([]byte, error) {
	var (
		buf []byte
		err error
	)
	if buf, err = appendName(buf, l.Name()); err != nil {
		return nil, err
	}
	if buf, err = appendBitmap(buf, l.RowValidity().Bitmap()); err != nil {
		return nil, err
	}
	offsets := l.Offsets()
	for i := 1; i < len(offsets); i++ {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(offsets[i]-offsets[i-1])) //nolint:gosec
	}
	if buf, err = appendBitmap(buf, l.ElemValidity().Bitmap()); err != nil {
		return nil, err
	}
	return binary.Append(buf, binary.LittleEndian, l.Values())
}

func decodeList[T column.Numeric](p *payloadReader, rows int) (*column.List[T], error) {
	name := p.name()
	rowNulls := p.bitmap()
	offsets := p.offsets(rows)
	elemNulls := p.bitmap()
	if p.err != nil {
		return nil, p.err
	}
	if offsets[rows] > p.remaining() {
		return nil, fmt.Errorf("%w: %d values exceed payload", ErrCorrupted, offsets[rows])
	}
	values := make([]T, offsets[rows])
	p.values(values)
	if p.err != nil {
		return nil, p.err
	}
	l, err := column.NewList(name, offsets, values, column.ValidityFromBitmap(rowNulls), column.ValidityFromBitmap(elemNulls))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	return l, nil
}

func encodeSparse[T column.Numeric](s *column.Sparse[T]) ([]byte, error) {
	var (
		buf []byte
		err error
	)
	if buf, err = appendName(buf, s.Name()); err != nil {
		return nil, err
	}
	if buf, err = appendBitmap(buf, s.Validity().Bitmap()); err != nil {
		return nil, err
	}
	for _, d := range s.Dims() {
		buf = binary.LittleEndian.AppendUint32(buf, d)
	}
	offsets := s.Offsets()
	for i := 1; i < len(offsets); i++ {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(offsets[i]-offsets[i-1])) //nolint:gosec
	}
	if buf, err = binary.Append(buf, binary.LittleEndian, s.Indices()); err != nil {
		return nil, err
	}
	return binary.Append(buf, binary.LittleEndian, s.Values())
}

func decodeSparse[T column.Numeric](p *payloadReader, rows int) (*column.Sparse[T], error) {
	name := p.name()
	nulls := p.bitmap()
	dims := make([]uint32, 0, min(rows, p.remaining()/4))
	for range rows {
		dims = append(dims, p.u32())
		if p.err != nil {
			return nil, p.err
		}
	}
	offsets := p.offsets(rows)
	if p.err != nil {
		return nil, p.err
	}
	nnz := offsets[rows]
	if nnz > p.remaining() {
		return nil, fmt.Errorf("%w: %d entries exceed payload", ErrCorrupted, nnz)
	}
	indices := make([]uint32, nnz)
	p.values(indices)
	values := make([]T, nnz)
	p.values(values)
	if p.err != nil {
		return nil, p.err
	}
	s, err := column.NewSparse(name, dims, offsets, indices, values, column.ValidityFromBitmap(nulls))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	return s, nil
}

func appendName(buf []byte, name string) ([]byte, error) {
	if len(name) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: column name longer than %d bytes", ErrUnsupported, math.MaxUint16)
	}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(name)))
	return append(buf, name...), nil
}

func appendBitmap(buf []byte, bm *roaring.Bitmap) ([]byte, error) {
	data, err := bm.ToBytes()
	if err != nil {
		return nil, err
	}
	n, err := conv.Uint32(len(data))
	if err != nil {
		return nil, err
	}
	buf = binary.LittleEndian.AppendUint32(buf, n)
	return append(buf, data...), nil
}

// payloadReader reads sequential fields from a payload. The first error
// sticks; later reads return zero values.
type payloadReader struct {
	buf []byte
	off int
	err error
}

func (p *payloadReader) remaining() int { return len(p.buf) - p.off }

func (p *payloadReader) next(n int) []byte {
	if p.err != nil {
		return nil
	}
	if n < 0 || n > p.remaining() {
		p.err = fmt.Errorf("%w: truncated payload", ErrCorrupted)
		return nil
	}
	b := p.buf[p.off : p.off+n]
	p.off += n
	return b
}

func (p *payloadReader) u32() uint32 {
	b := p.next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (p *payloadReader) name() string {
	b := p.next(2)
	if b == nil {
		return ""
	}
	return string(p.next(int(binary.LittleEndian.Uint16(b))))
}

func (p *payloadReader) bitmap() *roaring.Bitmap {
	n := p.u32()
	data := p.next(int(n))
	if p.err != nil {
		return nil
	}
	bm := roaring.New()
	if err := bm.UnmarshalBinary(data); err != nil {
		p.err = fmt.Errorf("%w: null mask: %w", ErrCorrupted, err)
		return nil
	}
	return bm
}

// offsets reads rows u32 lengths and returns prefix-summed offsets.
func (p *payloadReader) offsets(rows int) []int {
	if p.err != nil {
		return nil
	}
	if rows > p.remaining()/4 {
		p.err = fmt.Errorf("%w: truncated payload", ErrCorrupted)
		return nil
	}
	offsets := make([]int, rows+1)
	for i := range rows {
		offsets[i+1] = offsets[i] + int(p.u32())
	}
	return offsets
}

func (p *payloadReader) values(dst any) {
	if p.err != nil {
		return
	}
	n, err := binary.Decode(p.buf[p.off:], binary.LittleEndian, dst)
	if err != nil {
		p.err = fmt.Errorf("%w: values: %w", ErrCorrupted, err)
		return
	}
	p.off += n
}
