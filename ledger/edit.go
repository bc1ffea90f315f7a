package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/internal/logger"
)

// Editor lets the user modify a file.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// CommandEditor runs an external editor attached to the terminal.
type CommandEditor struct {
	Command string // the editor command line, the file path is appended to it
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewCommandEditor returns an editor running command attached to the terminal.
func NewCommandEditor(command string) CommandEditor {
	return CommandEditor{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e CommandEditor) Edit(ctx context.Context, path string) error {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return errors.New("no editor configured")
	}
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = e.Stdin, e.Stdout, e.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", e.Command, err)
	}
	return nil
}

const banner = `# Manual balances: one row per account and date.
# Dates are YYYY-MM-DD, or RFC 3339 for a specific time. Lines starting with # are ignored.
`

// Edit lets the user edit the manual ledger at path with editor.
//
// The current content is copied in a temporary file which is handed to the
// editor. When the editor returns, every row is parsed and validated again,
// and the ledger is saved only if they are all valid. Otherwise the ledger is
// left untouched, and the returned error names the temporary file holding the
// edits so that they are not lost.
//
// A missing ledger is created.
func Edit(ctx context.Context, path string, editor Editor) ([]budget.Snapshot, error) {
	log := logger.FromContext(ctx)

	current, err := os.ReadFile(path)
	exists := err == nil
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str(logger.FieldPath, path).Msg("manual ledger does not exist, it will be created")
		current = []byte(strings.Join(header, ",") + "\n")
	} else if err != nil {
		return nil, fmt.Errorf("cannot read manual ledger %q: %w", path, err)
	}

	tmp, err := os.CreateTemp("", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+"-*.csv")
	if err != nil {
		return nil, fmt.Errorf("cannot create a temporary file to edit: %w", err)
	}
	original := append([]byte(banner), current...)
	_, err = tmp.Write(original)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("cannot prepare %q for edition: %w", tmp.Name(), err)
	}

	if err := editor.Edit(ctx, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	edited, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("cannot read edited file %q: %w", tmp.Name(), err)
	}

	entries, err := Decode(bytes.NewReader(edited), tmp.Name())
	if err == nil {
		err = Validate(entries, tmp.Name())
	}
	if err != nil {
		return nil, fmt.Errorf("manual ledger %q left unchanged, edits are kept in %q: %w", path, tmp.Name(), err)
	}
	os.Remove(tmp.Name())

	if exists && bytes.Equal(edited, original) {
		log.Info().Str(logger.FieldPath, path).Msg("no change")
		return entries, nil
	}
	if err := Save(path, entries); err != nil {
		return nil, err
	}
	log.Info().Str(logger.FieldPath, path).Int(logger.FieldRows, len(entries)).Msg("manual ledger saved")
	return entries, nil
}
