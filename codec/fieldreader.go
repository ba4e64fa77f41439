package codec

import "github.com/aseform/asefile/binaryio"

// fieldReader sequences a run of primitive reads against a single
// error check at the end, the same shape as the classic errWriter
// idiom: once a read fails, every subsequent call is a no-op that
// keeps returning the zero value.
type fieldReader struct {
	r   *binaryio.Reader
	err error
}

func newFieldReader(r *binaryio.Reader) *fieldReader {
	return &fieldReader{r: r}
}

func (f *fieldReader) byte_() byte {
	if f.err != nil {
		return 0
	}
	v, err := f.r.ReadByte()
	f.err = err
	return v
}

func (f *fieldReader) word() uint16 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.ReadWord()
	f.err = err
	return v
}

func (f *fieldReader) short() int16 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.ReadShort()
	f.err = err
	return v
}

func (f *fieldReader) dword() uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.ReadDword()
	f.err = err
	return v
}

func (f *fieldReader) long() int32 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.ReadLong()
	f.err = err
	return v
}

func (f *fieldReader) string_() string {
	if f.err != nil {
		return ""
	}
	v, err := f.r.ReadString()
	f.err = err
	return v
}

func (f *fieldReader) bytes(n int) []byte {
	if f.err != nil {
		return nil
	}
	v, err := f.r.ReadBytes(n)
	f.err = err
	return v
}

func (f *fieldReader) skip(n int64) {
	if f.err != nil {
		return
	}
	f.err = f.r.Skip(n)
}

// done reports the first error encountered, wrapped into the codec
// taxonomy, or nil.
func (f *fieldReader) done() error {
	return wrapBinaryErr(f.err)
}
