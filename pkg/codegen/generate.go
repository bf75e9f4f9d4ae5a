package codegen

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/gregLibert/apdugen/pkg/apdu"
	"github.com/gregLibert/apdugen/pkg/table"
)

// Job names the input table and the two files produced from it.
type Job struct {
	Table string
	Decl  string
	Impl  string
}

// Generate reads job.Table and writes job.Decl and job.Impl.
//
// Both outputs are staged next to their targets and only moved into place
// once every command has been assembled and written. On any error the
// staged files are removed and existing outputs are left untouched.
// It returns the number of commands generated.
func Generate(ctx context.Context, job Job, opts Options, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = log.Default()
	}

	in, err := os.Open(job.Table)
	if err != nil {
		return 0, fmt.Errorf("failed to open table: %w", err)
	}
	defer in.Close()

	rows, err := table.NewReader(in)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", job.Table, err)
	}

	decl, err := stage(job.Decl)
	if err != nil {
		return 0, err
	}
	defer decl.discard()

	impl, err := stage(job.Impl)
	if err != nil {
		return 0, err
	}
	defer impl.discard()

	framer := NewFramer(decl.w, impl.w, opts)
	if err := framer.Begin(); err != nil {
		return 0, err
	}

	err = apdu.Assemble(ctxSource{ctx: ctx, src: rows}, func(cmd apdu.Command) error {
		logger.Debug("command", "name", cmd.Name, "payload", len(cmd.Payload),
			"response", len(cmd.Response), "tx", TransmitPrimitive(cmd))
		return framer.Add(cmd)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", job.Table, err)
	}

	if err := framer.End(); err != nil {
		return 0, err
	}
	// Finish both before publishing either.
	for _, s := range []*staged{decl, impl} {
		if err := s.finish(); err != nil {
			return 0, err
		}
	}
	for _, s := range []*staged{decl, impl} {
		if err := s.publish(); err != nil {
			return 0, err
		}
	}

	return framer.Count(), nil
}

// ctxSource stops a row source once ctx is done.
type ctxSource struct {
	ctx context.Context
	src apdu.RowSource
}

func (c ctxSource) Next() (table.Row, error) {
	if err := c.ctx.Err(); err != nil {
		return table.Row{}, err
	}
	return c.src.Next()
}

// staged is an output written to a temporary sibling of its target.
type staged struct {
	target string
	file   *os.File
	w      *bufio.Writer
	closed bool
	done   bool
}

func stage(target string) (*staged, error) {
	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return nil, fmt.Errorf("failed to create output for %s: %w", target, err)
	}
	return &staged{target: target, file: f, w: bufio.NewWriter(f)}, nil
}

// finish flushes and closes the staged file.
func (s *staged) finish() error {
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.target, err)
	}
	if err := s.file.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to set mode of %s: %w", s.target, err)
	}
	s.closed = true
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", s.target, err)
	}
	return nil
}

// publish renames the finished file over the target.
func (s *staged) publish() error {
	if err := os.Rename(s.file.Name(), s.target); err != nil {
		return fmt.Errorf("failed to publish %s: %w", s.target, err)
	}
	s.done = true
	return nil
}

// discard removes the staged file unless it was committed.
func (s *staged) discard() {
	if s.done {
		return
	}
	if !s.closed {
		_ = s.file.Close()
	}
	_ = os.Remove(s.file.Name())
}
