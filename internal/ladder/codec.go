package ladder

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

// EncodePositional renders p as a comma-separated list: one milestone per
// track in catalog order, then the escaped display name and team. The result
// is suitable for a URL fragment.
//
// Commas are not escaped, so a display name containing a comma does not
// round-trip. A display name that spells a registered team whose track count
// is one less than the milestone count is read back as the team field, with
// the last milestone taken as the name.
func EncodePositional(p Profile) string {
	ordered := p.Ordered()
	fields := make([]string, 0, len(ordered)+2)
	for _, m := range ordered {
		fields = append(fields, strconv.Itoa(int(m)))
	}
	fields = append(fields, escapeURI(p.identity.DisplayName), escapeURI(p.Team()))
	return strings.Join(fields, ",")
}

// DecodePositional parses a positional encoding. The catalog is chosen from
// the trailing team field when its track count matches the number of fields;
// otherwise currentTeam's catalog is used. The name and team fields are
// optional. Any other field count is malformed.
//
// The decoded profile carries only a display name; callers attach the
// username.
func DecodePositional(reg *tracks.Registry, currentTeam, s string) (Profile, error) {
	s = strings.TrimPrefix(s, "#")
	fields := strings.Split(s, ",")

	cat := reg.ForTeam(currentTeam)
	if len(fields) >= 2 {
		if team, err := url.PathUnescape(fields[len(fields)-1]); err == nil {
			if c, ok := reg.Lookup(team); ok && c.Len()+2 == len(fields) {
				cat = c
			}
		}
	}

	n := cat.Len()
	var name string
	switch len(fields) {
	case n:
	case n + 1, n + 2:
		var err error
		name, err = url.PathUnescape(fields[n])
		if err != nil {
			return Profile{}, &MalformedEncodingError{Reason: "display name", Err: err}
		}
		if len(fields) == n+2 {
			team, err := url.PathUnescape(fields[n+1])
			if err != nil {
				return Profile{}, &MalformedEncodingError{Reason: "team", Err: err}
			}
			// An unregistered team keeps the current catalog.
			if target, ok := reg.Lookup(team); ok {
				if target.Len() != n {
					return Profile{}, &MalformedEncodingError{
						Reason: fmt.Sprintf("team %q has %d tracks, encoding has %d", target.Team(), target.Len(), n),
					}
				}
				cat = target
			}
		}
	default:
		return Profile{}, &MalformedEncodingError{
			Reason: fmt.Sprintf("%d fields for a %d-track catalog", len(fields), n),
		}
	}

	p := blankProfile(cat, Identity{DisplayName: name})
	for i, id := range cat.IDs() {
		p.milestones[id] = ParseMilestone(fields[i])
	}
	return p, nil
}

// escapeURI percent-encodes s the way a browser's encodeURI does: letters,
// digits and -_.!~*'() pass through, as do the URI reserved characters
// ;,/?:@&=+$#. Everything else is encoded byte by byte as UTF-8.
func escapeURI(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepURIByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func keepURIByte(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'();,/?:@&=+$#", c) >= 0
}
