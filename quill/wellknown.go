package quill

import (
	"strconv"
	"strings"
	"time"
)

// Well-known message shapes with a non-struct JSON representation.
// Both are expressed purely through the registry extension point; the
// field-by-field algorithms never special-case them.
const (
	DurationFullName  = "google.protobuf.Duration"
	TimestampFullName = "google.protobuf.Timestamp"
)

const (
	maxDurationSeconds = 315576000000
	minTimestampSecs   = -62135596800  // 0001-01-01T00:00:00Z
	maxTimestampSecs   = 253402300799  // 9999-12-31T23:59:59Z
)

var defaultFormats = NewRegistry(map[string]Format{
	DurationFullName:  DurationFormat(),
	TimestampFullName: TimestampFormat(),
})

// DefaultFormats returns the registry pre-seeded with the duration and
// timestamp overrides. It is shared and read-only.
func DefaultFormats() *Registry {
	return defaultFormats
}

// DurationDescriptor returns the canonical duration schema: seconds
// (int64, field 1) and nanos (int32, field 2).
func DurationDescriptor() *MessageDescriptor {
	return durationDesc
}

// TimestampDescriptor returns the canonical timestamp schema, which
// shares the duration's field shape.
func TimestampDescriptor() *MessageDescriptor {
	return timestampDesc
}

var durationDesc = secondsNanosDescriptor(DurationFullName)
var timestampDesc = secondsNanosDescriptor(TimestampFullName)

func secondsNanosDescriptor(fullName string) *MessageDescriptor {
	return &MessageDescriptor{
		FullName: fullName,
		Fields: []*FieldDescriptor{
			{Number: 1, Name: "seconds", Kind: FieldInt64},
			{Number: 2, Name: "nanos", Kind: FieldInt32},
		},
	}
}

// DurationFormat returns the custom JSON mapping for durations: a
// signed decimal seconds count with up to nanosecond fraction and an
// "s" suffix, e.g. "3s", "-1.5s", "0.000000001s".
func DurationFormat() Format {
	return Format{Write: writeDuration, Parse: parseDuration}
}

// TimestampFormat returns the custom JSON mapping for timestamps: an
// RFC 3339 UTC string with up to nanosecond fraction.
func TimestampFormat() Format {
	return Format{Write: writeTimestamp, Parse: parseTimestamp}
}

func writeDuration(m *Message) (*JSONValue, error) {
	secs, nanos, err := secondsNanos(m)
	if err != nil {
		return nil, err
	}
	if secs < -maxDurationSeconds || secs > maxDurationSeconds {
		return nil, formatErrorf("%s: seconds %d out of range", m.desc.FullName, secs)
	}
	if nanos <= -1e9 || nanos >= 1e9 {
		return nil, formatErrorf("%s: nanos %d out of range", m.desc.FullName, nanos)
	}
	if secs != 0 && nanos != 0 && (secs < 0) != (nanos < 0) {
		return nil, formatErrorf("%s: seconds and nanos have opposing signs", m.desc.FullName)
	}

	var sb strings.Builder
	if secs < 0 || nanos < 0 {
		sb.WriteByte('-')
		secs, nanos = -secs, -nanos
	}
	sb.WriteString(strconv.FormatInt(secs, 10))
	sb.WriteString(fraction(nanos))
	sb.WriteByte('s')
	return StringJSON(sb.String()), nil
}

func parseDuration(j *JSONValue, desc *MessageDescriptor) (*Message, error) {
	s, err := j.AsStr()
	if err != nil {
		return nil, formatErrorf("%s: expected string, found %s", desc.FullName, j.Type())
	}
	body, ok := strings.CutSuffix(s, "s")
	if !ok || body == "" {
		return nil, formatErrorf("%s: invalid duration %q", desc.FullName, s)
	}
	neg := strings.HasPrefix(body, "-")
	body = strings.TrimPrefix(body, "-")

	// Past the optional leading minus, only digits and one dot may
	// appear; a sign inside either part would smuggle in a mixed-sign
	// seconds/nanos pair the writer refuses to emit.
	secText, fracText, hasFrac := strings.Cut(body, ".")
	if !allDigits(secText) {
		return nil, formatErrorf("%s: invalid duration %q", desc.FullName, s)
	}
	secs, err := strconv.ParseInt(secText, 10, 64)
	if err != nil {
		return nil, wrapFormatError(err, "%s: invalid duration %q", desc.FullName, s)
	}
	var nanos int64
	if hasFrac {
		if len(fracText) == 0 || len(fracText) > 9 || !allDigits(fracText) {
			return nil, formatErrorf("%s: invalid duration fraction in %q", desc.FullName, s)
		}
		nanos, err = strconv.ParseInt(fracText+strings.Repeat("0", 9-len(fracText)), 10, 64)
		if err != nil {
			return nil, wrapFormatError(err, "%s: invalid duration %q", desc.FullName, s)
		}
	}
	if secs > maxDurationSeconds {
		return nil, formatErrorf("%s: duration %q out of range", desc.FullName, s)
	}
	if neg {
		secs, nanos = -secs, -nanos
	}
	return secondsNanosMessage(desc, secs, int32(nanos)), nil
}

func writeTimestamp(m *Message) (*JSONValue, error) {
	secs, nanos, err := secondsNanos(m)
	if err != nil {
		return nil, err
	}
	if secs < minTimestampSecs || secs > maxTimestampSecs {
		return nil, formatErrorf("%s: seconds %d out of range", m.desc.FullName, secs)
	}
	if nanos < 0 || nanos >= 1e9 {
		return nil, formatErrorf("%s: nanos %d out of range", m.desc.FullName, nanos)
	}
	t := time.Unix(secs, int64(nanos)).UTC()
	return StringJSON(t.Format("2006-01-02T15:04:05") + fraction(nanos) + "Z"), nil
}

func parseTimestamp(j *JSONValue, desc *MessageDescriptor) (*Message, error) {
	s, err := j.AsStr()
	if err != nil {
		return nil, formatErrorf("%s: expected string, found %s", desc.FullName, j.Type())
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, wrapFormatError(err, "%s: invalid timestamp %q", desc.FullName, s)
	}
	secs := t.Unix()
	if secs < minTimestampSecs || secs > maxTimestampSecs {
		return nil, formatErrorf("%s: timestamp %q out of range", desc.FullName, s)
	}
	return secondsNanosMessage(desc, secs, int32(t.Nanosecond())), nil
}

// secondsNanos reads the (seconds, nanos) pair off a well-known shape
// by field number, so caller-supplied descriptors work as long as the
// numbering matches.
func secondsNanos(m *Message) (int64, int32, error) {
	var secs int64
	var nanos int32
	if v := m.Get(m.desc.FieldByNumber(1)); !v.IsEmpty() {
		n, err := v.AsInt64()
		if err != nil {
			return 0, 0, wrapFormatError(err, "%s: seconds", m.desc.FullName)
		}
		secs = n
	}
	if v := m.Get(m.desc.FieldByNumber(2)); !v.IsEmpty() {
		n, err := v.AsInt32()
		if err != nil {
			return 0, 0, wrapFormatError(err, "%s: nanos", m.desc.FullName)
		}
		nanos = n
	}
	return secs, nanos, nil
}

func secondsNanosMessage(desc *MessageDescriptor, secs int64, nanos int32) *Message {
	m := NewMessage(desc)
	if secs != 0 {
		m.Set(desc.FieldByNumber(1), Int64(secs))
	}
	if nanos != 0 {
		m.Set(desc.FieldByNumber(2), Int32(nanos))
	}
	return m
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// fraction renders nanos as a decimal fraction trimmed to 3, 6, or 9
// digits, or "" when zero.
func fraction(nanos int32) string {
	if nanos == 0 {
		return ""
	}
	frac := strconv.FormatInt(int64(nanos)+1e9, 10)[1:]
	for strings.HasSuffix(frac, "000") {
		frac = frac[:len(frac)-3]
	}
	return "." + frac
}
