package disk

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// PageID identifies a page within the single backing file. Pages are
// addressed by PageID * PageSize byte offset.
type PageID int64

// InvalidPageID marks an unset or sentinel page reference.
const InvalidPageID PageID = -1

// PageSize is the fixed size, in bytes, of every page on disk and in
// the buffer pool's frames.
const PageSize = 4096

// Page . menyimpan data satu page di dalam memori buffer (also disimpan di disk).
type Page struct {
	bb *bytes.Buffer
}

func NewPage(size int) *Page {
	bb := bytes.NewBuffer(make([]byte, size))
	return &Page{bb}
}

func NewPageFromByteSlice(b []byte) *Page {
	return &Page{bytes.NewBuffer(b)}
}

func (p *Page) GetInt(offset int32) int32 {
	return int32(binary.LittleEndian.Uint32(p.bb.Bytes()[offset:]))
}

// PutInt. set int ke byte array page di posisi = offset.
func (p *Page) PutInt(offset int32, val int32) {
	binary.LittleEndian.PutUint32(p.bb.Bytes()[offset:], uint32(val))
}

func (p *Page) PutUint16(offset int32, val uint16) {
	binary.LittleEndian.PutUint16(p.bb.Bytes()[offset:], val)
}

func (p *Page) GetUint16(offset int32) uint16 {
	return binary.LittleEndian.Uint16(p.bb.Bytes()[offset:])
}

func (p *Page) PutUint64(offset int32, val uint64) {
	binary.LittleEndian.PutUint64(p.bb.Bytes()[offset:], val)
}

func (p *Page) GetUint64(offset int32) uint64 {
	return binary.LittleEndian.Uint64(p.bb.Bytes()[offset:])
}

// PutPageID / GetPageID. page ids ditulis sebagai int64 little-endian.
func (p *Page) PutPageID(offset int32, id PageID) {
	p.PutUint64(offset, uint64(id))
}

func (p *Page) GetPageID(offset int32) PageID {
	return PageID(p.GetUint64(offset))
}

// GetBytes. return byte array dari byte array page di posisi = offset. di awal ada panjang bytes nya sehingga buat read bytes tinggal baca buffer page[offset+4:offset+4+length]
func (p *Page) GetBytes(offset int32) []byte {
	length := p.GetInt(offset)
	b := make([]byte, length)
	copy(b, p.bb.Bytes()[offset+4:offset+4+length])
	return b
}

// PutBytes. set byte array ke byte array page di posisi = offset.
func (p *Page) PutBytes(offset int32, b []byte) (int, error) {
	if offset+4+int32(len(b)) > int32(len(p.bb.Bytes())) {
		return 0, errors.New("put bytes out of bound")
	}
	p.PutInt(offset, int32(len(b)))
	copy(p.bb.Bytes()[offset+4:], b)
	return len(b) + 4, nil
}

// GetString. return string dari byte array page di posisi= offset.
func (p *Page) GetString(offset int32) string {
	return string(p.GetBytes(offset))
}

// PutString. set string ke byte array page di posisi = offset.
func (p *Page) PutString(offset int32, s string) {
	p.PutBytes(offset, []byte(s))
}

func (p *Page) PutBool(offset int32, val bool) {
	var bitSetVar uint64
	if val {
		bitSetVar = 1
	}
	p.bb.Bytes()[offset] = byte(bitSetVar)
}

func (p *Page) GetBool(offset int32) bool {
	return p.bb.Bytes()[offset] == byte(1)
}

func (p *Page) Contents() []byte {
	return p.bb.Bytes()
}

// Reset. zero semua byte di page, dipakai waktu frame dipakai ulang oleh page baru.
func (p *Page) Reset() {
	b := p.bb.Bytes()
	for i := range b {
		b[i] = 0
	}
}

// CopyFrom. replace isi page dengan byte slice lain (harus berukuran sama).
func (p *Page) CopyFrom(src []byte) {
	copy(p.bb.Bytes(), src)
}
