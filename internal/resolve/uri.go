package resolve

import (
	"net/url"
	"strings"
)

// NormalizeURI resolves ref against base following RFC-3986-style
// reference resolution (§4.E "URI normalization"), then strips dot
// segments and drops any fragment, returning the base-document URI a
// DocRegistry entry would be keyed on.
//
// Fragment-only refs ("#/a/b") are treated as same-document: NormalizeURI
// returns base with any fragment removed. Scheme-relative refs ("//host/path") inherit
// the base's scheme.
func NormalizeURI(base, ref string) (string, error) {
	if ref == "" || strings.HasPrefix(ref, "#") {
		return stripFragment(base), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}

	resolved := baseURL.ResolveReference(refURL)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	resolved.Path = cleanDotSegments(resolved.Path)

	return resolved.String(), nil
}

// SplitFragment separates a $ref into its base-URI portion and its
// fragment (without the leading '#'), e.g. "schemas/other.json#/components/
// schemas/Foo" -> ("schemas/other.json", "/components/schemas/Foo").
func SplitFragment(ref string) (base, fragment string) {
	i := strings.IndexByte(ref, '#')
	if i < 0 {
		return ref, ""
	}

	return ref[:i], ref[i+1:]
}

func stripFragment(uri string) string {
	base, _ := SplitFragment(uri)

	return base
}

// cleanDotSegments implements RFC 3986 §5.2.4 for a URL path, respecting
// the leading slash (authority boundary) rather than using path.Clean
// (which would strip a meaningful trailing slash and mishandle an empty
// path).
func cleanDotSegments(p string) string {
	if p == "" {
		return p
	}

	trailingSlash := strings.HasSuffix(p, "/")
	segments := strings.Split(p, "/")
	out := make([]string, 0, len(segments))

	for _, seg := range segments {
		switch seg {
		case ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != "" {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}

	result := strings.Join(out, "/")
	if trailingSlash && !strings.HasSuffix(result, "/") {
		result += "/"
	}

	return result
}

// UnescapeJSONPointerToken reverses JSON Pointer escaping for one path
// segment: "~1" -> "/", "~0" -> "~" (§4.E "find_component").
func UnescapeJSONPointerToken(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}

	var b strings.Builder

	for i := 0; i < len(token); i++ {
		if token[i] == '~' && i+1 < len(token) {
			switch token[i+1] {
			case '1':
				b.WriteByte('/')
				i++

				continue
			case '0':
				b.WriteByte('~')
				i++

				continue
			}
		}

		b.WriteByte(token[i])
	}

	return b.String()
}
