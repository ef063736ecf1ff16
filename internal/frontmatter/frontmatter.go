// Package frontmatter reads and writes markdown notes that open with a YAML
// block fenced by --- lines. The markdown report renderer writes them and
// answers files may be kept as such notes.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// split separates a note into its raw YAML block and the body that follows.
// The note must start with a fence line; both LF and CRLF line endings are
// accepted.
func split(data []byte) (meta []byte, body []byte, err error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte(fence+"\n")) {
		return nil, nil, fmt.Errorf("frontmatter: note does not start with %s", fence)
	}
	rest := data[len(fence)+1:]

	var end int
	switch {
	case bytes.HasPrefix(rest, []byte(fence+"\n")):
		end = 0
	default:
		idx := bytes.Index(rest, []byte("\n"+fence+"\n"))
		if idx < 0 {
			if !bytes.HasSuffix(rest, []byte("\n"+fence)) {
				return nil, nil, fmt.Errorf("frontmatter: closing %s not found", fence)
			}
			return rest[:len(rest)-len(fence)-1], nil, nil
		}
		end = idx + 1
	}
	return rest[:end], rest[end+len(fence)+1:], nil
}

// Decode splits data and unmarshals the YAML block into v, returning the body.
func Decode(data []byte, v any) ([]byte, error) {
	meta, body, err := split(data)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(meta, v); err != nil {
		return nil, fmt.Errorf("frontmatter: decode: %w", err)
	}
	return body, nil
}

// Write renders v as the YAML block of a new note followed by body.
func Write(v any, body string) ([]byte, error) {
	meta, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: encode: %w", err)
	}
	var buf bytes.Buffer
	buf.Grow(len(meta) + len(body) + 2*len(fence) + 3)
	buf.WriteString(fence + "\n")
	buf.Write(meta)
	buf.WriteString(fence + "\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
	}
	return buf.Bytes(), nil
}
