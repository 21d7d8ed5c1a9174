package event

import (
	"strconv"

	"sigil/internal/domain"
)

const hexDigits = "0123456789abcdef"

// CanonicalBytes returns the serialization whose SHA-256 is the event id.
func CanonicalBytes(u domain.UnsignedEvent) []byte {
	buf := make([]byte, 0, 96+len(u.PubKey)+len(u.Content))
	buf = append(buf, "[0,"...)
	buf = appendString(buf, u.PubKey)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, u.CreatedAt, 10)
	buf = append(buf, ',')
	buf = strconv.AppendUint(buf, uint64(u.Kind), 10)
	buf = append(buf, ',')
	buf = appendTags(buf, u.Tags)
	buf = append(buf, ',')
	buf = appendString(buf, u.Content)
	return append(buf, ']')
}

func appendTags(buf []byte, tags [][]string) []byte {
	buf = append(buf, '[')
	for i, tag := range tags {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for j, v := range tag {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = appendString(buf, v)
		}
		buf = append(buf, ']')
	}
	return append(buf, ']')
}

// appendString writes s as a JSON string. Only the quote, the backslash and
// control bytes are escaped; every other byte, including non-ASCII UTF-8,
// is copied verbatim.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if c < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
				continue
			}
			buf = append(buf, c)
		}
	}
	return append(buf, '"')
}
