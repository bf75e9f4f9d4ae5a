package codegen

import (
	"fmt"
	"strings"

	"github.com/gregLibert/apdugen/pkg/apdu"
)

// Emitter renders the text artifacts of one command at a time.
// It keeps no state between commands.
type Emitter struct {
	opts Options
}

// NewEmitter returns an Emitter for opts.
func NewEmitter(opts Options) *Emitter {
	return &Emitter{opts: opts}
}

// FuncName is the generated function name of cmd.
func (e *Emitter) FuncName(cmd apdu.Command) string {
	return e.opts.Prefix + cmd.Name
}

// Comment renders the documentation block placed above the declaration.
func (e *Emitter) Comment(cmd apdu.Command) string {
	lines := []string{
		"/** " + e.FuncName(cmd),
		" *",
		" * " + cComment(cmd.Description),
		" *",
	}
	for _, p := range cmd.Payload {
		lines = append(lines, fmt.Sprintf(" * @param %s[in] %s [%d:%s]", p.Name, cComment(p.Description), p.Index, p.Tag))
		if p.Type.IsBuffer() {
			lines = append(lines, fmt.Sprintf(" * @param %sLen[in] Length of %s", p.Name, p.Name))
		}
	}
	for _, p := range cmd.Response {
		lines = append(lines, fmt.Sprintf(" * @param %s[out] %s [%d:%s]", p.Name, cComment(p.Description), p.Index, p.Tag))
		if p.Type.IsBuffer() {
			lines = append(lines, fmt.Sprintf(" * @param p%sLen[in,out] Length for %s", p.Name, p.Name))
		}
	}
	lines = append(lines, " */", "")
	return strings.Join(lines, "\n")
}

// Signature renders the function signature without terminator or body.
// Payload parameters come first, then response parameters, both in index order.
func (e *Emitter) Signature(cmd apdu.Command) string {
	lines := []string{fmt.Sprintf("%s %s(", e.opts.StatusType, e.FuncName(cmd))}
	for _, p := range cmd.Payload {
		if p.Type.IsBuffer() {
			lines = append(lines,
				fmt.Sprintf("    const uint8_t *%s,", p.Name),
				fmt.Sprintf("    size_t %sLen,", p.Name))
			continue
		}
		lines = append(lines, fmt.Sprintf("    %s %s,", p.Type.Descriptor().StorageType, p.Name))
	}
	for _, p := range cmd.Response {
		if p.Type.IsBuffer() {
			lines = append(lines,
				fmt.Sprintf("    uint8_t *%s,", p.Name),
				fmt.Sprintf("    size_t *p%sLen,", p.Name))
			continue
		}
		lines = append(lines, fmt.Sprintf("    %s *p%s,", p.Type.Descriptor().StorageType, p.Name))
	}

	last := len(lines) - 1
	if last == 0 {
		lines[0] += "void)"
	} else {
		lines[last] = strings.TrimSuffix(lines[last], ",") + ")"
	}
	return strings.Join(lines, "\n")
}

// Declaration renders the prototype placed in the header file.
func (e *Emitter) Declaration(cmd apdu.Command) string {
	return e.Signature(cmd) + ";"
}

// Definition renders the signature followed by the braced body.
func (e *Emitter) Definition(cmd apdu.Command) string {
	return e.Signature(cmd) + "\n{\n" + e.Body(cmd) + "}\n"
}

var (
	cStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	cFormatEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "%", "%%")
)

// cString escapes s for use inside a C string literal.
func cString(s string) string {
	return cStringEscaper.Replace(s)
}

// cFormat escapes s for use inside a printf-style C format literal.
func cFormat(s string) string {
	return cFormatEscaper.Replace(s)
}

// cComment keeps s from closing the C comment it is placed in.
func cComment(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}
