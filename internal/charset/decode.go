package charset

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// UTF8 is the canonical label for UTF-8.
const UTF8 = "utf-8"

var (
	// ErrUnsupported reports a label with no known decoder.
	ErrUnsupported = errors.New("unsupported encoding")
	// ErrInvalid reports bytes that are not valid in the requested encoding.
	ErrInvalid = errors.New("invalid byte sequence")
)

var decoders = map[string]encoding.Encoding{
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"windows-1253": charmap.Windows1253,
	"windows-1254": charmap.Windows1254,
	"windows-1255": charmap.Windows1255,
	"windows-1256": charmap.Windows1256,
	"windows-1257": charmap.Windows1257,
	"windows-1258": charmap.Windows1258,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
	"iso-8859-3":   charmap.ISO8859_3,
	"iso-8859-4":   charmap.ISO8859_4,
	"iso-8859-5":   charmap.ISO8859_5,
	"iso-8859-6":   charmap.ISO8859_6,
	"iso-8859-7":   charmap.ISO8859_7,
	"iso-8859-8":   charmap.ISO8859_8,
	"iso-8859-9":   charmap.ISO8859_9,
	"iso-8859-10":  charmap.ISO8859_10,
	"iso-8859-13":  charmap.ISO8859_13,
	"iso-8859-14":  charmap.ISO8859_14,
	"iso-8859-15":  charmap.ISO8859_15,
	"iso-8859-16":  charmap.ISO8859_16,
	"koi8-r":       charmap.KOI8R,
	"koi8-u":       charmap.KOI8U,
	"maccyrillic":  charmap.MacintoshCyrillic,
	"macintosh":    charmap.Macintosh,
	"ibm855":       charmap.CodePage855,
	"ibm866":       charmap.CodePage866,
	"tis-620":      charmap.Windows874,
	"windows-874":  charmap.Windows874,
	"shiftjis":     japanese.ShiftJIS,
	"euc-jp":       japanese.EUCJP,
	"iso-2022-jp":  japanese.ISO2022JP,
	"euc-kr":       korean.EUCKR,
	"big5":         traditionalchinese.Big5,
	"gb2312":       simplifiedchinese.GBK,
	"gbk":          simplifiedchinese.GBK,
	"gb18030":      simplifiedchinese.GB18030,
	"hz-gb-2312":   simplifiedchinese.HZGB2312,
}

var aliases = map[string]string{
	"utf8":           UTF8,
	"ascii":          UTF8,
	"us-ascii":       UTF8,
	"shift_jis":      "shiftjis",
	"shift-jis":      "shiftjis",
	"sjis":           "shiftjis",
	"cp932":          "shiftjis",
	"euc_jp":         "euc-jp",
	"euc_kr":         "euc-kr",
	"cp949":          "euc-kr",
	"gb-18030":       "gb18030",
	"big-5":          "big5",
	"cp1250":         "windows-1250",
	"cp1251":         "windows-1251",
	"cp1252":         "windows-1252",
	"cp1253":         "windows-1253",
	"cp1254":         "windows-1254",
	"cp1255":         "windows-1255",
	"cp1256":         "windows-1256",
	"cp1257":         "windows-1257",
	"cp1258":         "windows-1258",
	"latin-1":        "iso-8859-1",
	"latin1":         "iso-8859-1",
	"x-mac-cyrillic": "maccyrillic",
	"cp855":          "ibm855",
	"cp866":          "ibm866",
	"hz":             "hz-gb-2312",
}

// Normalize canonicalizes an encoding label: lower case, underscores in
// ISO names replaced, a "-sig" BOM suffix dropped and common aliases folded.
func Normalize(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.TrimSuffix(label, "-sig")
	if strings.HasPrefix(label, "iso8859") {
		label = "iso-8859" + strings.TrimPrefix(label, "iso8859")
	}
	if strings.HasPrefix(label, "iso-8859_") {
		label = "iso-8859-" + strings.TrimPrefix(label, "iso-8859_")
	}
	if canonical, ok := aliases[label]; ok {
		return canonical
	}
	return label
}

// Supported reports whether label can be decoded.
func Supported(label string) bool {
	_, err := lookup(Normalize(label))
	return err == nil
}

func lookup(label string) (encoding.Encoding, error) {
	if label == UTF8 {
		return nil, nil
	}
	if enc, ok := decoders[label]; ok {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, label)
	}
	return enc, nil
}

// Decode converts line from the named encoding to UTF-8. A line that does
// not map cleanly (invalid UTF-8, or replacement characters produced by a
// legacy decoder) is rejected with ErrInvalid.
func Decode(label string, line []byte) (string, error) {
	label = Normalize(label)
	enc, err := lookup(label)
	if err != nil {
		return "", err
	}
	if enc == nil {
		if !utf8.Valid(line) {
			return "", fmt.Errorf("%w for %s", ErrInvalid, label)
		}
		return string(line), nil
	}
	out, err := enc.NewDecoder().Bytes(line)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %v", ErrInvalid, label, err)
	}
	if strings.ContainsRune(string(out), utf8.RuneError) {
		return "", fmt.Errorf("%w for %s", ErrInvalid, label)
	}
	return string(out), nil
}
