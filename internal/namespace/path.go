package namespace

import "strings"

// sep separates path segments.
const sep = "."

// splitPath splits a dot-separated path into segments.
// The empty path is valid and yields no segments (it names the root).
// Any empty segment (leading, trailing, or doubled dots) is an error.
func splitPath(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	segments := strings.Split(path, sep)
	for _, seg := range segments {
		if seg == "" {
			return nil, ErrInvalidPath
		}
	}
	return segments, nil
}

// normalize resolves a path to root-relative segments plus the
// fully-qualified form. A first segment equal to the root name is
// treated as the fully-qualified spelling and stripped.
func (r *Registry) normalize(path string) ([]string, string, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, "", err
	}
	if len(segments) > 0 && segments[0] == r.root.name {
		segments = segments[1:]
	}
	fq := r.root.name
	if len(segments) > 0 {
		fq += sep + strings.Join(segments, sep)
	}
	return segments, fq, nil
}
