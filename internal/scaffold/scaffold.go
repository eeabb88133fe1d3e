package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ecruz165/ansible-scaffold/internal/platform"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DefaultDirMode is applied to every created directory.
	DefaultDirMode os.FileMode = 0755
	// DefaultFileMode is applied to every written file.
	DefaultFileMode os.FileMode = 0644

	templateSuffix = ".tmpl"
)

// Options control how a project is written.
type Options struct {
	Fs       afero.Fs    // Defaults to the OS filesystem
	DirMode  os.FileMode // Defaults to DefaultDirMode
	FileMode os.FileMode // Defaults to DefaultFileMode
	DryRun   bool        // Plan only, touch nothing
	Logger   *zap.Logger // Defaults to a no-op logger
}

// Result holds the outcome of a scaffold run. Directories and Files are
// slash-separated paths relative to BasePath, in creation order.
type Result struct {
	BasePath    string
	Directories []string
	Files       []string
	DryRun      bool
}

// templateData holds the variables available to .tmpl skeleton files.
type templateData struct {
	ProjectName string
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.DirMode == 0 {
		o.DirMode = DefaultDirMode
	}
	if o.FileMode == 0 {
		o.FileMode = DefaultFileMode
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// CreateProject writes the Ansible project skeleton under the absolute form of
// projectName. Existing directories are reused and existing files overwritten.
// Progress lines are written to w. A failure part way through leaves whatever
// was already written in place.
func CreateProject(w io.Writer, projectName string, opts Options) (*Result, error) {
	if projectName == "" {
		return nil, errors.New("project name must not be empty")
	}

	layout, err := DefaultLayout()
	if err != nil {
		return nil, err
	}

	opts = opts.withDefaults()
	log := opts.Logger

	base, err := filepath.Abs(projectName)
	if err != nil {
		return nil, fmt.Errorf("resolving project path %q: %w", projectName, err)
	}

	fmt.Fprintf(w, "Creating Ansible project: %s\n", projectName)
	log.Debug("scaffolding project",
		zap.String("name", projectName),
		zap.String("base", base),
		zap.Bool("dry_run", opts.DryRun))

	result := &Result{BasePath: base, DryRun: opts.DryRun}

	for _, dir := range layout.Directories {
		target := filepath.Join(base, filepath.FromSlash(dir))
		if !opts.DryRun {
			if err := opts.Fs.MkdirAll(target, opts.DirMode); err != nil {
				return result, fmt.Errorf("creating directory %s: %w", target, err)
			}
			log.Debug("created directory", zap.String("path", target))
		}
		result.Directories = append(result.Directories, dir)
	}

	data := templateData{ProjectName: projectName}
	for _, f := range layout.Files {
		content, err := render(f.Source, data)
		if err != nil {
			return result, err
		}

		target := filepath.Join(base, filepath.FromSlash(f.Path))
		if !opts.DryRun {
			if err := writeFile(opts, target, content); err != nil {
				return result, err
			}
			log.Debug("wrote file", zap.String("path", target), zap.Int("bytes", len(content)))
		}
		result.Files = append(result.Files, f.Path)
	}

	if !opts.DryRun {
		fmt.Fprintf(w, "Project '%s' created successfully at %s\n", projectName, base)
	}
	return result, nil
}

// render returns the final content of a skeleton file: .tmpl sources are
// executed with text/template, everything else is taken verbatim (Jinja
// markers in .j2 and .yml files must survive). The result is trimmed and
// ends with exactly one newline.
func render(source string, data templateData) ([]byte, error) {
	raw, err := readSource(source)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", source, err)
	}

	if strings.HasSuffix(source, templateSuffix) {
		tmpl, err := template.New(filepath.Base(source)).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", source, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", source, err)
		}
		raw = buf.Bytes()
	}

	return normalize(raw), nil
}

// normalize trims surrounding whitespace and appends a single trailing newline.
func normalize(content []byte) []byte {
	trimmed := bytes.TrimSpace(content)
	out := make([]byte, 0, len(trimmed)+1)
	out = append(out, trimmed...)
	return append(out, '\n')
}

func writeFile(opts Options, target string, content []byte) error {
	if err := opts.Fs.MkdirAll(filepath.Dir(target), opts.DirMode); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(target), err)
	}
	if err := afero.WriteFile(opts.Fs, target, content, opts.FileMode); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	// WriteFile keeps the mode of a file that already existed.
	if err := platform.Chmod(opts.Fs, target, opts.FileMode); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", target, err)
	}
	return nil
}
