package base

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/minio/sha256-simd"
)

var LogFingerprint = NewLogCategory("Fingerprint")

/***************************************
 * Fingerprint
 ***************************************/

type Fingerprint [sha256.Size]byte

func (x Fingerprint) Slice() []byte {
	return x[:]
}
func (x Fingerprint) String() string {
	return hex.EncodeToString(x[:])
}
func (x Fingerprint) ShortString() string {
	return hex.EncodeToString(x[:8])
}
func (x Fingerprint) Valid() bool {
	for _, it := range x {
		if it != 0 {
			return true
		}
	}
	return false
}
func (d *Fingerprint) Set(str string) (err error) {
	var data []byte
	if data, err = hex.DecodeString(str); err == nil {
		if len(data) == sha256.Size {
			copy(d[:], data)
			return nil
		} else {
			err = fmt.Errorf("fingerprint: unexpected string length '%s'", str)
		}
	}
	return err
}
func (x Fingerprint) MarshalText() ([]byte, error) {
	buf := [sha256.Size * 2]byte{}
	hex.Encode(buf[:], x[:])
	return buf[:], nil
}
func (x *Fingerprint) UnmarshalText(data []byte) error {
	return x.Set(UnsafeStringFromBytes(data))
}

/***************************************
 * Digest helpers
 ***************************************/

// FingerprintWriter hashes everything written by the callback, seeded with another fingerprint.
func FingerprintWriter(each func(w io.Writer) error, seed Fingerprint) (result Fingerprint, err error) {
	var digester hash.Hash = sha256.New()
	if _, err = digester.Write(seed[:]); err != nil {
		return
	}
	if err = each(digester); err != nil {
		return
	}
	copy(result[:], digester.Sum(nil))
	return
}

func StringFingerprint(in string) Fingerprint {
	return sha256.Sum256(UnsafeBytesFromString(in))
}
