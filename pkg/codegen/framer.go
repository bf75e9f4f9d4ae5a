package codegen

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/gregLibert/apdugen/pkg/apdu"
)

var (
	declHeaderTmpl = template.Must(template.New("decl_header").Parse(`{{.Banner}}


#ifndef {{.IncludeGuard}}
#define {{.IncludeGuard}}

#include "{{.Include}}"

`))
	declFooterTmpl = template.Must(template.New("decl_footer").Parse(`
#endif /* {{.IncludeGuard}} */
`))
	implHeaderTmpl = template.Must(template.New("impl_header").Parse(`{{.Banner}}


/* ********************************************************* */
/* ** Auto Generated *************************************** */
/* ********************************************************* */

`))
)

// Framer writes the declaration and implementation streams side by side.
// Commands appear in both streams in the order they are added.
type Framer struct {
	decl    io.Writer
	impl    io.Writer
	opts    Options
	emitter *Emitter
	count   int
}

// NewFramer returns a Framer writing declarations to decl and definitions to impl.
func NewFramer(decl, impl io.Writer, opts Options) *Framer {
	return &Framer{decl: decl, impl: impl, opts: opts, emitter: NewEmitter(opts)}
}

// Count is the number of commands added so far.
func (f *Framer) Count() int {
	return f.count
}

// Begin writes the banner and preamble of both streams.
func (f *Framer) Begin() error {
	data := f.templateData()
	if err := declHeaderTmpl.Execute(f.decl, data); err != nil {
		return fmt.Errorf("failed to write declaration preamble: %w", err)
	}
	if err := implHeaderTmpl.Execute(f.impl, data); err != nil {
		return fmt.Errorf("failed to write implementation preamble: %w", err)
	}
	return nil
}

// Add appends one command to both streams.
func (f *Framer) Add(cmd apdu.Command) error {
	if _, err := io.WriteString(f.decl, f.emitter.Comment(cmd)+f.emitter.Declaration(cmd)+"\n\n"); err != nil {
		return fmt.Errorf("failed to write declaration of %s: %w", cmd.Name, err)
	}

	def := fmt.Sprintf("/* %s */\n%s\n", cComment(cmd.AppletVersion), f.emitter.Definition(cmd))
	if _, err := io.WriteString(f.impl, def); err != nil {
		return fmt.Errorf("failed to write definition of %s: %w", cmd.Name, err)
	}

	f.count++
	return nil
}

// End closes the include guard of the declaration stream.
func (f *Framer) End() error {
	if err := declFooterTmpl.Execute(f.decl, f.templateData()); err != nil {
		return fmt.Errorf("failed to write declaration postamble: %w", err)
	}
	return nil
}

func (f *Framer) templateData() Options {
	data := f.opts
	data.Banner = strings.TrimRight(data.Banner, "\n")
	return data
}
