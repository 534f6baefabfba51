package charset

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"UTF-8", "utf-8"},
		{"utf-8-sig", "utf-8"},
		{"Shift_JIS", "shiftjis"},
		{"GB-18030", "gb18030"},
		{"ISO8859-5", "iso-8859-5"},
		{"iso-8859_2", "iso-8859-2"},
		{" Windows-1252 ", "windows-1252"},
		{"cp1251", "windows-1251"},
		{"mac_farsi", "mac_farsi"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		input   []byte
		want    string
		wantErr error
	}{
		{"utf8", "utf-8", []byte("caf\xc3\xa9"), "café", nil},
		{"utf8 rejects latin1", "utf-8", []byte("caf\xe9"), "", ErrInvalid},
		{"windows-1252", "windows-1252", []byte("caf\xe9 \x93ok\x94"), "café “ok”", nil},
		{"latin1", "iso-8859-1", []byte("na\xefve"), "naïve", nil},
		{"koi8-r", "koi8-r", []byte{0xd0, 0xd2, 0xc9, 0xd7, 0xc5, 0xd4}, "привет", nil},
		{"shift-jis", "shift_jis", []byte{0x82, 0xa0}, "あ", nil},
		{"shift-jis truncated", "shiftjis", []byte{0x82}, "", ErrInvalid},
		{"gb2312 via gbk", "gb2312", []byte{0xc4, 0xe3, 0xba, 0xc3}, "你好", nil},
		{"unknown label", "klingon-8", []byte("x"), "", ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.label, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Decode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	for _, label := range []string{"utf-8", "big5", "euc-kr", "hz-gb-2312", "tis-620", "IBM866"} {
		if !Supported(label) {
			t.Errorf("expected %q to be supported", label)
		}
	}
	if Supported("georgian-ps-nonexistent") {
		t.Error("expected unknown label to be unsupported")
	}
}
