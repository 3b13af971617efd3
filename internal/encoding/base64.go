package encoding

import "strings"

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const padChar = '='

// EncodedLen returns the length of the padded base64 encoding of n bytes
func EncodedLen(n int) int {
	return (n + 2) / 3 * 4
}

// Encode converts raw bytes into a padded base64 string using the standard alphabet.
// The design tool sandbox has no base64 helper, so frames are encoded here before
// they are handed to the UI or posted to the proxy.
func Encode(src []byte) string {
	if len(src) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(EncodedLen(len(src)))

	i := 0
	for ; i+3 <= len(src); i += 3 {
		chunk := uint(src[i])<<16 | uint(src[i+1])<<8 | uint(src[i+2])
		sb.WriteByte(alphabet[chunk>>18&0x3F])
		sb.WriteByte(alphabet[chunk>>12&0x3F])
		sb.WriteByte(alphabet[chunk>>6&0x3F])
		sb.WriteByte(alphabet[chunk&0x3F])
	}

	switch len(src) - i {
	case 1:
		chunk := uint(src[i]) << 16
		sb.WriteByte(alphabet[chunk>>18&0x3F])
		sb.WriteByte(alphabet[chunk>>12&0x3F])
		sb.WriteByte(padChar)
		sb.WriteByte(padChar)
	case 2:
		chunk := uint(src[i])<<16 | uint(src[i+1])<<8
		sb.WriteByte(alphabet[chunk>>18&0x3F])
		sb.WriteByte(alphabet[chunk>>12&0x3F])
		sb.WriteByte(alphabet[chunk>>6&0x3F])
		sb.WriteByte(padChar)
	}

	return sb.String()
}

// DataURL wraps the encoded bytes in a data URL for the given mime type
func DataURL(mimeType string, src []byte) string {
	return "data:" + mimeType + ";base64," + Encode(src)
}

// StripDataURL removes a leading "data:<mime>;base64," prefix.
// Strings without the prefix are returned unchanged.
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	idx := strings.Index(s, ";base64,")
	if idx < 0 {
		return s
	}
	return s[idx+len(";base64,"):]
}
