// Package vault implements the system-file manager (salts and encrypted
// policy config, one per store) and the item-file manager (per-item
// name-hiding CRUD) that together form the core of the password store.
package vault

import (
	"github.com/narwhaltorpedo/pwm/internal/pwmerrors"
)

// Fixed field sizes shared by both on-disk record types.
const (
	SaltSize  = 32
	TagSize   = 16
	NonceSize = 12
)

// System record field sizes and total size. Byte layout:
//
//	offset 0    32:  fileSalt
//	offset 32   32:  nameSalt
//	offset 64   32:  cfgSalt
//	offset 96   16:  cfgTag
//	offset 112   4:  cfgCT
const (
	cfgCTSize    = 4
	SystemRecordSize = SaltSize + SaltSize + SaltSize + TagSize + cfgCTSize // 116
)

// SystemRecord is the in-memory form of the store-wide system file.
type SystemRecord struct {
	FileSalt [SaltSize]byte
	NameSalt [SaltSize]byte
	CfgSalt  [SaltSize]byte
	CfgTag   [TagSize]byte
	CfgCT    [cfgCTSize]byte
}

// Encode serializes r into its fixed 116-byte on-disk form.
func (r *SystemRecord) Encode() []byte {
	buf := make([]byte, SystemRecordSize)
	off := 0
	off += copy(buf[off:], r.FileSalt[:])
	off += copy(buf[off:], r.NameSalt[:])
	off += copy(buf[off:], r.CfgSalt[:])
	off += copy(buf[off:], r.CfgTag[:])
	copy(buf[off:], r.CfgCT[:])
	return buf
}

// DecodeSystemRecord parses the fixed 116-byte on-disk system record.
func DecodeSystemRecord(buf []byte) (*SystemRecord, error) {
	if len(buf) != SystemRecordSize {
		return nil, pwmerrors.NewCorruptionError("system", "system record has the wrong size", nil)
	}
	r := &SystemRecord{}
	off := 0
	off += copy(r.FileSalt[:], buf[off:off+SaltSize])
	off += copy(r.NameSalt[:], buf[off:off+SaltSize])
	off += copy(r.CfgSalt[:], buf[off:off+SaltSize])
	off += copy(r.CfgTag[:], buf[off:off+TagSize])
	copy(r.CfgCT[:], buf[off:off+cfgCTSize])
	return r, nil
}

// Item record field sizes and total size. Byte layout:
//
//	offset 0    12:  nameNonce
//	offset 12   16:  nameTag
//	offset 28  100:  nameCT
//	offset 128  32:  dataSalt
//	offset 160  16:  dataTag
//	offset 176 600:  dataCT
const (
	ItemNamePlaintextSize = 100
	ItemDataPlaintextSize = 600

	ItemRecordSize = NonceSize + TagSize + ItemNamePlaintextSize + SaltSize + TagSize + ItemDataPlaintextSize // 776

	MaxItemNameLen  = 100
	MaxUsernameLen  = 100
	MaxPasswordLen  = 64
	MaxOtherInfoLen = 300

	// FilenameBufSize is the size of the derived-filename buffer (64 hex
	// characters plus a terminator in the reference's C buffer sizing).
	FilenameBufSize = 65
)

// ItemRecord is the in-memory form of a single item file.
type ItemRecord struct {
	NameNonce [NonceSize]byte
	NameTag   [TagSize]byte
	NameCT    [ItemNamePlaintextSize]byte
	DataSalt  [SaltSize]byte
	DataTag   [TagSize]byte
	DataCT    [ItemDataPlaintextSize]byte
}

// Encode serializes r into its fixed 776-byte on-disk form.
func (r *ItemRecord) Encode() []byte {
	buf := make([]byte, ItemRecordSize)
	off := 0
	off += copy(buf[off:], r.NameNonce[:])
	off += copy(buf[off:], r.NameTag[:])
	off += copy(buf[off:], r.NameCT[:])
	off += copy(buf[off:], r.DataSalt[:])
	off += copy(buf[off:], r.DataTag[:])
	copy(buf[off:], r.DataCT[:])
	return buf
}

// DecodeItemRecord parses the fixed 776-byte on-disk item record.
func DecodeItemRecord(buf []byte) (*ItemRecord, error) {
	if len(buf) != ItemRecordSize {
		return nil, pwmerrors.NewCorruptionError("", "item record has the wrong size", nil)
	}
	r := &ItemRecord{}
	off := 0
	off += copy(r.NameNonce[:], buf[off:off+NonceSize])
	off += copy(r.NameTag[:], buf[off:off+TagSize])
	off += copy(r.NameCT[:], buf[off:off+ItemNamePlaintextSize])
	off += copy(r.DataSalt[:], buf[off:off+SaltSize])
	off += copy(r.DataTag[:], buf[off:off+TagSize])
	copy(r.DataCT[:], buf[off:off+ItemDataPlaintextSize])
	return r, nil
}
