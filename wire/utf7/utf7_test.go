package utf7

import "testing"

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii passthrough", "INBOX", "INBOX"},
		{"ascii with space", "Sent Items", "Sent Items"},
		{"empty", "", ""},
		{"lone ampersand", "&", "&-"},
		{"ampersand mid-word", "Tom & Jerry", "Tom &- Jerry"},
		{"repeated ampersands", "A&B&C", "A&-B&-C"},
		{"german umlaut", "Entwürfe", "Entw&APw-rfe"},
		{"japanese", "日本語", "&ZeVnLIqe-"},
		{"mixed ascii and shifted", "INBOX.日本語", "INBOX.&ZeVnLIqe-"},
		{"euro sign", "€", "&IKw-"},
		{"emoji surrogate pair", "\U0001F600", "&2D3eAA-"},
		{"shifted then ampersand", "é&", "&AOk-&-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in); got != tt.want {
				t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii passthrough", "INBOX", "INBOX"},
		{"empty", "", ""},
		{"escaped ampersand", "&-", "&"},
		{"ampersand mid-word", "Tom &- Jerry", "Tom & Jerry"},
		{"german umlaut", "Entw&APw-rfe", "Entwürfe"},
		{"japanese", "&ZeVnLIqe-", "日本語"},
		{"euro sign", "&IKw-", "€"},
		{"emoji surrogate pair", "&2D3eAA-", "\U0001F600"},
		{"adjacent sections", "&AOk-&-x", "é&x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if err != nil {
				t.Fatalf("Decode(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"dangling shift", "&"},
		{"unterminated section", "&ZeVnLIqe"},
		{"invalid base64", "&!!!-"},
		{"odd utf16 bytes", "&AA-"},
		{"lone high surrogate", "&2D0-"},
		{"lone low surrogate", "&3gA-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := Decode(tt.in); err == nil {
				t.Errorf("Decode(%q) = %q, want error", tt.in, got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	names := []string{
		"INBOX",
		"Sent Items",
		"Entwürfe",
		"日本語/受信箱",
		"Tom & Jerry",
		"&&&",
		"café & thé",
		"\U0001F600\U0001D11E",
		"mixéd&ASCII.tail",
	}
	for _, name := range names {
		encoded := Encode(name)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(Encode(%q)) = %q: %v", name, encoded, err)
		}
		if decoded != name {
			t.Errorf("round trip %q -> %q -> %q", name, encoded, decoded)
		}
	}
}
