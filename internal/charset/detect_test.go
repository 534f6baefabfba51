package charset

import (
	"errors"
	"io"
	"strings"
	"testing"
)

const japaneseSRT = "1\n00:00:01,000 --> 00:00:02,000\nこんにちは、元気ですか。\n\n2\n00:00:03,000 --> 00:00:04,000\nはい、とても元気です。ありがとう。\n"

func TestDetectReplaysInput(t *testing.T) {
	det := Detector{SampleBytes: 16}
	found, replay, err := det.Detect(strings.NewReader(japaneseSRT), nil)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if found.Label != UTF8 {
		t.Fatalf("Label = %q, want utf-8", found.Label)
	}
	if found.Confidence <= 70 {
		t.Fatalf("Confidence = %d", found.Confidence)
	}
	data, err := io.ReadAll(replay)
	if err != nil {
		t.Fatalf("read replay: %v", err)
	}
	if string(data) != japaneseSRT {
		t.Fatalf("replay lost bytes:\n%q\nwant\n%q", data, japaneseSRT)
	}
}

func TestDetectDisallowed(t *testing.T) {
	det := Detector{}
	found, replay, err := det.Detect(strings.NewReader(japaneseSRT), []string{"Shift_JIS", "euc-jp"})
	if !errors.Is(err, ErrDisallowed) {
		t.Fatalf("error = %v, want ErrDisallowed", err)
	}
	if found.Label != UTF8 {
		t.Fatalf("Label = %q", found.Label)
	}
	if data, _ := io.ReadAll(replay); string(data) != japaneseSRT {
		t.Fatal("replay must be usable after a disallowed detection")
	}
}

func TestDetectNoText(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:02,000\n"
	_, replay, err := Detector{}.Detect(strings.NewReader(input), nil)
	if !errors.Is(err, ErrLowConfidence) {
		t.Fatalf("error = %v, want ErrLowConfidence", err)
	}
	if data, _ := io.ReadAll(replay); string(data) != input {
		t.Fatalf("replay = %q", data)
	}
}

func TestDetectASCIIOnly(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:02,000\nHello world.\n\n2\n00:00:03,000 --> 00:00:04,000\nHow are you?\n"
	cases := []struct {
		name  string
		allow []string
		want  string
	}{
		{"no allow-list", nil, UTF8},
		{"utf-8 allowed", []string{"windows-1252", "utf-8"}, UTF8},
		{"legacy only", []string{"windows-1251"}, "windows-1251"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, replay, err := Detector{SampleBytes: 8}.Detect(strings.NewReader(input), tc.allow)
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if found.Label != tc.want {
				t.Fatalf("Label = %q, want %q", found.Label, tc.want)
			}
			if data, _ := io.ReadAll(replay); string(data) != input {
				t.Fatalf("replay = %q", data)
			}
		})
	}
}
