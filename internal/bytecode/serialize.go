package bytecode

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"math"

	"github.com/pkg/errors"

	"github.com/orus-lang/orus/internal/value"
)

// On-disk chunk cache layout (spec.md section 6 "Embedded chunk
// layout"): a header with magic bytes, major/minor version, and a CRC;
// followed by the constant pool serialized tagwise; followed by the
// code stream; followed by the line/column tables. All multi-byte
// integers are little-endian, per spec. The module loader treats the
// resulting bytes as an opaque cache entry keyed by module identity
// (see internal/interp/loader.go); this package only implements the
// byte layout itself.
const (
	magic       uint32 = 0x4F52_5553 // "ORUS"
	versionMajor uint16 = 1
	versionMinor uint16 = 0
)

var (
	ErrBadMagic       = errors.New("bytecode: bad cache magic")
	ErrVersionMismatch = errors.New("bytecode: cache version mismatch")
	ErrChecksum       = errors.New("bytecode: cache checksum mismatch")
)

// constTag is the on-disk discriminant for a serialized constant.
type constTag byte

const (
	tagNil constTag = iota
	tagBool
	tagI32
	tagI64
	tagU32
	tagU64
	tagF64
	tagString
)

// SerializeChunk serializes c into the cache format described above.
func SerializeChunk(c *Chunk) []byte {
	var body bytes.Buffer

	writeU32(&body, uint32(len(c.Constants)))
	for _, v := range c.Constants {
		writeConstant(&body, v)
	}

	writeU32(&body, uint32(len(c.Code)))
	body.Write(c.Code)

	writeU32(&body, uint32(len(c.Lines)))
	for _, l := range c.Lines {
		writeU32(&body, uint32(l))
	}
	for _, col := range c.Columns {
		writeU32(&body, uint32(col))
	}

	writeString(&body, c.Name)

	checksum := crc32.ChecksumIEEE(body.Bytes())

	var out bytes.Buffer
	writeU32(&out, magic)
	writeU16(&out, versionMajor)
	writeU16(&out, versionMinor)
	writeU32(&out, checksum)
	out.Write(body.Bytes())
	return out.Bytes()
}

// DeserializeChunk parses a byte stream produced by SerializeChunk, validating magic,
// version, and checksum before trusting the payload.
func DeserializeChunk(data []byte) (*Chunk, error) {
	if len(data) < 12 {
		return nil, ErrBadMagic
	}
	r := bytes.NewReader(data)
	var gotMagic uint32
	var major, minor uint16
	var checksum uint32
	readU32(r, &gotMagic)
	if gotMagic != magic {
		return nil, ErrBadMagic
	}
	readU16(r, &major)
	readU16(r, &minor)
	if major != versionMajor {
		return nil, errors.Wrapf(ErrVersionMismatch, "cache major=%d want=%d", major, versionMajor)
	}
	readU32(r, &checksum)

	body := data[12:]
	if crc32.ChecksumIEEE(body) != checksum {
		return nil, ErrChecksum
	}

	br := bytes.NewReader(body)
	c := NewChunk("")

	var nConst uint32
	readU32(br, &nConst)
	for i := uint32(0); i < nConst; i++ {
		v, err := readConstant(br)
		if err != nil {
			return nil, errors.Wrap(err, "bytecode: decode constant")
		}
		c.Constants = append(c.Constants, v)
	}

	var codeLen uint32
	readU32(br, &codeLen)
	code := make([]byte, codeLen)
	br.Read(code)
	c.Code = code

	var lineLen uint32
	readU32(br, &lineLen)
	c.Lines = make([]int32, lineLen)
	for i := range c.Lines {
		var l uint32
		readU32(br, &l)
		c.Lines[i] = int32(l)
	}
	c.Columns = make([]int32, lineLen)
	for i := range c.Columns {
		var col uint32
		readU32(br, &col)
		c.Columns[i] = int32(col)
	}

	name, err := readString(br)
	if err != nil {
		return nil, errors.Wrap(err, "bytecode: decode name")
	}
	c.Name = name

	return c, nil
}

func writeConstant(w *bytes.Buffer, v value.Value) {
	switch v.Kind() {
	case value.KindNil:
		w.WriteByte(byte(tagNil))
	case value.KindBool:
		w.WriteByte(byte(tagBool))
		b, _ := v.AsBool()
		if b {
			w.WriteByte(1)
		} else {
			w.WriteByte(0)
		}
	case value.KindI32:
		w.WriteByte(byte(tagI32))
		n, _ := v.AsI32()
		writeU32(w, uint32(n))
	case value.KindI64:
		w.WriteByte(byte(tagI64))
		n, _ := v.AsI64()
		writeU64(w, uint64(n))
	case value.KindU32:
		w.WriteByte(byte(tagU32))
		n, _ := v.AsU32()
		writeU32(w, n)
	case value.KindU64:
		w.WriteByte(byte(tagU64))
		n, _ := v.AsU64()
		writeU64(w, n)
	case value.KindF64:
		w.WriteByte(byte(tagF64))
		f, _ := v.AsF64()
		writeU64(w, math.Float64bits(f))
	case value.KindObject:
		obj, _ := v.AsObject()
		if obj != nil && obj.Kind == value.ObjString {
			w.WriteByte(byte(tagString))
			writeString(w, obj.Str.String())
		} else {
			// Only scalar and string literals may appear in the constant
			// pool; compiler-emitted arrays/structs are built at runtime.
			w.WriteByte(byte(tagNil))
		}
	}
}

func readConstant(r *bytes.Reader) (value.Value, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return value.Nil, err
	}
	switch constTag(tagByte) {
	case tagNil:
		return value.Nil, nil
	case tagBool:
		b, _ := r.ReadByte()
		return value.Bool(b != 0), nil
	case tagI32:
		var n uint32
		readU32(r, &n)
		return value.I32(int32(n)), nil
	case tagI64:
		var n uint64
		readU64(r, &n)
		return value.I64(int64(n)), nil
	case tagU32:
		var n uint32
		readU32(r, &n)
		return value.U32(n), nil
	case tagU64:
		var n uint64
		readU64(r, &n)
		return value.U64(n), nil
	case tagF64:
		var n uint64
		readU64(r, &n)
		return value.F64(math.Float64frombits(n)), nil
	case tagString:
		s, err := readString(r)
		if err != nil {
			return value.Nil, err
		}
		return value.FromObject(value.NewStringObject(s)), nil
	default:
		return value.Nil, errors.Errorf("bytecode: unknown constant tag %d", tagByte)
	}
}

func writeU16(w *bytes.Buffer, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.Write(buf[:])
}

func writeU32(w *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.Write(buf[:])
}

func writeU64(w *bytes.Buffer, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.Write(buf[:])
}

func writeString(w *bytes.Buffer, s string) {
	writeU32(w, uint32(len(s)))
	w.WriteString(s)
}

func readU16(r *bytes.Reader, out *uint16) {
	var buf [2]byte
	r.Read(buf[:])
	*out = binary.LittleEndian.Uint16(buf[:])
}

func readU32(r *bytes.Reader, out *uint32) {
	var buf [4]byte
	r.Read(buf[:])
	*out = binary.LittleEndian.Uint32(buf[:])
}

func readU64(r *bytes.Reader, out *uint64) {
	var buf [8]byte
	r.Read(buf[:])
	*out = binary.LittleEndian.Uint64(buf[:])
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	readU32(r, &n)
	buf := make([]byte, n)
	if _, err := r.Read(buf); err != nil && n > 0 {
		return "", err
	}
	return string(buf), nil
}
