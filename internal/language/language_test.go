package language

import "testing"

func TestSupported_KnownCodes(t *testing.T) {
	for _, code := range []string{"hi", "ta", "bn", "en", "brx", "sat"} {
		if !Supported(code) {
			t.Errorf("Supported(%q) = false, want true", code)
		}
	}
}

func TestSupported_UnknownCodes(t *testing.T) {
	for _, code := range []string{"", "auto", "ja", "fr", "HI"} {
		if Supported(code) {
			t.Errorf("Supported(%q) = true, want false", code)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("hi"); got != "Hindi" {
		t.Errorf("Name(hi) = %q, want %q", got, "Hindi")
	}
	if got := Name("xx"); got != "" {
		t.Errorf("Name(xx) = %q, want empty", got)
	}
}

func TestCodes_SortedAndComplete(t *testing.T) {
	codes := Codes()
	if len(codes) != 23 {
		t.Errorf("len(Codes()) = %d, want 23", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("Codes() not sorted at index %d: %q >= %q", i, codes[i-1], codes[i])
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	m := All()
	m["hi"] = "mutated"
	if Name("hi") != "Hindi" {
		t.Error("All() should return a copy, not the internal map")
	}
}

func TestDetect_Scripts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"devanagari", "नमस्ते दुनिया", "hi"},
		{"bengali", "আমার নাম", "bn"},
		{"tamil", "வணக்கம்", "ta"},
		{"telugu", "నమస్కారం", "te"},
		{"gurmukhi", "ਸਤ ਸ੍ਰੀ ਅਕਾਲ", "pa"},
		{"ascii english", "welding safety manual", "en"},
		{"mixed mostly hindi", "नमस्ते hello नमस्ते फिर से", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.text)
			if got.Language != tt.want {
				t.Errorf("Detect(%q).Language = %q, want %q", tt.text, got.Language, tt.want)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("Confidence = %f, want in (0, 1]", got.Confidence)
			}
		})
	}
}

func TestDetect_NoLetters(t *testing.T) {
	got := Detect("12345 !!! ")
	if got.Language != "unknown" {
		t.Errorf("Detect on digits = %q, want unknown", got.Language)
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %f, want 0", got.Confidence)
	}
}
