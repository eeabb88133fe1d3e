package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed layout.yaml
var layoutBytes []byte

//go:embed schema/layout.schema.json
var schemaBytes []byte

//go:embed skeleton
var skeletonFS embed.FS

const skeletonRoot = "skeleton"

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)

	defaultLayout    *Layout
	defaultLayoutErr error
	layoutOnce       sync.Once
)

// Layout is the fixed set of directories and files written into a new project.
// All paths are slash-separated and relative to the project root.
type Layout struct {
	Directories []string    `yaml:"directories"`
	Files       []FileEntry `yaml:"files"`
}

// FileEntry maps a project-relative output path to its source under skeleton/.
type FileEntry struct {
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
}

// ValidationIssue represents a single schema violation in a layout document.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/files/3/source")
	Message string
	Keyword string
}

// LayoutError reports that a layout document does not satisfy the layout schema.
type LayoutError struct {
	Issues []ValidationIssue
}

func (e *LayoutError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msg := issue.Message
		if issue.Path != "" {
			msg = issue.Path + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return "invalid layout: " + strings.Join(msgs, "; ")
}

// DefaultLayout returns the embedded Ansible project layout. It is parsed and
// validated once.
func DefaultLayout() (*Layout, error) {
	layoutOnce.Do(func() {
		defaultLayout, defaultLayoutErr = ParseLayout(layoutBytes)
	})
	return defaultLayout, defaultLayoutErr
}

// ParseLayout decodes a YAML layout document, validates it against the layout
// schema and checks that every file source exists in the embedded skeleton.
func ParseLayout(data []byte) (*Layout, error) {
	if err := validateLayout(data); err != nil {
		return nil, err
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	for _, f := range l.Files {
		if _, err := fs.Stat(skeletonFS, path.Join(skeletonRoot, f.Source)); err != nil {
			return nil, fmt.Errorf("layout entry %s: source %s: %w", f.Path, f.Source, err)
		}
	}

	return &l, nil
}

// readSource returns the raw bytes of a skeleton file.
func readSource(source string) ([]byte, error) {
	return fs.ReadFile(skeletonFS, path.Join(skeletonRoot, source))
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("layout.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("layout.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

func validateLayout(data []byte) error {
	schema, err := getSchema()
	if err != nil {
		return fmt.Errorf("loading layout schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing layout: %w", err)
	}

	// Round-trip through JSON so the validator sees json.Number values.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("converting layout to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("preparing layout for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []ValidationIssue
	collectIssues(ve, &issues)
	if len(issues) == 0 {
		issues = []ValidationIssue{{Message: ve.Error()}}
	}
	return &LayoutError{Issues: issues}
}

// collectIssues walks the error tree and keeps leaf errors only.
func collectIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	p := ""
	if len(ve.InstanceLocation) > 0 {
		p = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword := ""
	msg := ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}
	if keyword == "allOf" || keyword == "$ref" || keyword == "" {
		return
	}

	*issues = append(*issues, ValidationIssue{Path: p, Message: msg, Keyword: keyword})
}
