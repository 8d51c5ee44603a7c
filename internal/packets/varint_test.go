package packets

import (
	"bytes"
	"testing"
)

func TestEncodeRemainingLength(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		expected []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"127", 127, []byte{0x7F}},
		{"128", 128, []byte{0x80, 0x01}},
		{"16383", 16383, []byte{0xFF, 0x7F}},
		{"16384", 16384, []byte{0x80, 0x80, 0x01}},
		{"2097151", 2097151, []byte{0xFF, 0xFF, 0x7F}},
		{"2097152", 2097152, []byte{0x80, 0x80, 0x80, 0x01}},
		{"268435455", 268435455, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EncodeRemainingLength(tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(result, tt.expected) {
				t.Errorf("EncodeRemainingLength(%d) = %v, want %v", tt.value, result, tt.expected)
			}
		})
	}

	if _, err := EncodeRemainingLength(268435456); err == nil {
		t.Error("expected error encoding value above MaxRemainingLength")
	}
	if _, err := EncodeRemainingLength(-1); err == nil {
		t.Error("expected error encoding negative value")
	}
}

func TestDecodeRemainingLength(t *testing.T) {
	tests := []struct {
		name         string
		input        []byte
		value        int
		consumed     int
		status       VarIntStatus
	}{
		{"zero", []byte{0x00}, 0, 1, VarIntOK},
		{"127", []byte{0x7F}, 127, 1, VarIntOK},
		{"128", []byte{0x80, 0x01}, 128, 2, VarIntOK},
		{"16383", []byte{0xFF, 0x7F}, 16383, 2, VarIntOK},
		{"16384", []byte{0x80, 0x80, 0x01}, 16384, 3, VarIntOK},
		{"268435455", []byte{0xFF, 0xFF, 0xFF, 0x7F}, 268435455, 4, VarIntOK},
		{"empty needs more", []byte{}, 0, 0, VarIntNeedMore},
		{"truncated needs more", []byte{0x80}, 0, 0, VarIntNeedMore},
		{"truncated 3 bytes needs more", []byte{0x80, 0x80, 0x80}, 0, 0, VarIntNeedMore},
		{"four continuation bytes then terminator malformed", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}, 0, 0, VarIntMalformed},
		{"trailing garbage still decodes prefix", []byte{0x7F, 0xAA, 0xBB}, 127, 1, VarIntOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, consumed, status := DecodeRemainingLength(tt.input)
			if status != tt.status {
				t.Fatalf("status = %v, want %v", status, tt.status)
			}
			if status != VarIntOK {
				return
			}
			if value != tt.value || consumed != tt.consumed {
				t.Errorf("got (%d, %d), want (%d, %d)", value, consumed, tt.value, tt.consumed)
			}
		})
	}
}

func TestRemainingLengthRoundTrip(t *testing.T) {
	values := []int{0, 1, 127, 128, 16383, 16384, 2097151, 2097152, 268435455}

	for _, val := range values {
		encoded, err := EncodeRemainingLength(val)
		if err != nil {
			t.Fatalf("encode %d: %v", val, err)
		}
		decoded, consumed, status := DecodeRemainingLength(encoded)
		if status != VarIntOK {
			t.Fatalf("decode %d: status %v", val, status)
		}
		if decoded != val || consumed != len(encoded) {
			t.Errorf("round trip %d: got (%d, %d), want (%d, %d)", val, decoded, consumed, val, len(encoded))
		}
	}
}

// Feeding a valid encoding one byte at a time must report VarIntNeedMore at
// every prefix shorter than the full encoding, and VarIntOK only once the
// final byte (continuation bit clear) arrives.
func TestDecodeRemainingLengthSplitFeed(t *testing.T) {
	full := []byte{0x80, 0x80, 0x80, 0x01} // 2097152, the longest non-edge case
	for i := 1; i < len(full); i++ {
		_, _, status := DecodeRemainingLength(full[:i])
		if status != VarIntNeedMore {
			t.Errorf("prefix length %d: status = %v, want VarIntNeedMore", i, status)
		}
	}
	value, consumed, status := DecodeRemainingLength(full)
	if status != VarIntOK || value != 2097152 || consumed != 4 {
		t.Errorf("full buffer: got (%d, %d, %v)", value, consumed, status)
	}
}
