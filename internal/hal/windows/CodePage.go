package windows

import (
	"fmt"
	"unicode/utf8"

	"github.com/poppolopoppo/msvcenv/internal/base"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

/***************************************
 * Text decoding
 ***************************************/

// TextDecoder turns raw console output into text, parsing never sees undecoded bytes.
type TextDecoder interface {
	DecodeText(raw []byte) (string, error)
	fmt.Stringer
}

const CODEPAGE_UTF8 uint32 = 65001

type utf8Decoder struct{}

func (utf8Decoder) String() string { return "utf-8" }
func (utf8Decoder) DecodeText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		base.LogDebug(LogWindows, "decode: output is not valid utf-8")
	}
	return string(raw), nil
}

var Utf8TextDecoder TextDecoder = utf8Decoder{}

type encodingDecoder struct {
	codePage uint32
	encoding encoding.Encoding
}

func (x encodingDecoder) String() string {
	return fmt.Sprintf("cp%d", x.codePage)
}
func (x encodingDecoder) DecodeText(raw []byte) (string, error) {
	decoded, err := x.encoding.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode: code page %d: %w", x.codePage, err)
	}
	return base.UnsafeStringFromBytes(decoded), nil
}

var codePageEncodings = map[uint32]encoding.Encoding{
	437:  charmap.CodePage437,
	850:  charmap.CodePage850,
	852:  charmap.CodePage852,
	855:  charmap.CodePage855,
	858:  charmap.CodePage858,
	860:  charmap.CodePage860,
	862:  charmap.CodePage862,
	863:  charmap.CodePage863,
	865:  charmap.CodePage865,
	866:  charmap.CodePage866,
	874:  charmap.Windows874,
	932:  japanese.ShiftJIS,
	936:  simplifiedchinese.GBK,
	949:  korean.EUCKR,
	950:  traditionalchinese.Big5,
	1250: charmap.Windows1250,
	1251: charmap.Windows1251,
	1252: charmap.Windows1252,
	1253: charmap.Windows1253,
	1254: charmap.Windows1254,
	1255: charmap.Windows1255,
	1256: charmap.Windows1256,
	1257: charmap.Windows1257,
	1258: charmap.Windows1258,
}

func NewCodePageDecoder(codePage uint32) (TextDecoder, error) {
	if codePage == CODEPAGE_UTF8 {
		return Utf8TextDecoder, nil
	}
	if enc, ok := codePageEncodings[codePage]; ok {
		return encodingDecoder{codePage: codePage, encoding: enc}, nil
	}
	return nil, fmt.Errorf("decode: unsupported code page %d", codePage)
}

// OEMTextDecoder follows the console code page of this machine, unknown code pages fall back on utf-8.
func OEMTextDecoder() TextDecoder {
	codePage := GetOEMCodePage()
	decoder, err := NewCodePageDecoder(codePage)
	if err != nil {
		base.LogWarning(LogWindows, "%v, fallback on utf-8", err)
		return Utf8TextDecoder
	}
	base.LogDebug(LogWindows, "decode: using oem code page %v", decoder)
	return decoder
}
