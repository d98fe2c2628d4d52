package alogger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FilterConfig is one entry of a configuration document's "filters"
// sequence.
type FilterConfig struct {
	Name                   string   `yaml:"name"`
	Type                   string   `yaml:"type"`
	Mode                   string   `yaml:"mode"`
	FilteringErrors        bool     `yaml:"filtering_errors"`
	FollowThreadContext    bool     `yaml:"follow_thread_context"`
	FilteringNonameModules bool     `yaml:"filtering_noname_modules"`
	Level                  string   `yaml:"level"`
	Modules                []string `yaml:"modules"`
	Functions              []string `yaml:"functions"`
	Files                  []string `yaml:"files"`
	Threads                []int    `yaml:"threads"`
	Contents               []string `yaml:"contents"`
}

// SaverConfig is one entry of a configuration document's "savers"
// sequence. The reference format only describes file-backed savers here
// — stdout/stderr/syslog sinks are wired in code, not config.
type SaverConfig struct {
	Name        string   `yaml:"name"`
	Active      *bool    `yaml:"active"`
	Level       string   `yaml:"level"`
	MaxLineSize int      `yaml:"max_line_size"`
	File        string   `yaml:"file"`
	Continue    *bool    `yaml:"continue"`
	Filters     []string `yaml:"filters"`
}

// Document is a parsed configuration document: top-level "filters" and
// "savers" sequences.
type Document struct {
	Filters []FilterConfig `yaml:"filters"`
	Savers  []SaverConfig  `yaml:"savers"`
}

// LoadConfig parses a YAML configuration document.
func LoadConfig(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "alogger: decode configuration document")
	}
	return &doc, nil
}

// Apply hydrates doc's filters and savers and wires them onto l. A
// malformed entry does not abort the whole document: it is skipped and
// reported back as one element of the returned slice, so the logger
// always ends up in a usable, partially-configured state.
func Apply(l *Logger, doc *Document) []error {
	var errs []error

	filters := make(map[string]*Filter, len(doc.Filters))
	for _, fc := range doc.Filters {
		f, err := buildFilter(fc)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "filter %q", fc.Name))
			continue
		}
		filters[fc.Name] = f
	}

	for _, sc := range doc.Savers {
		sink, err := buildSaver(sc)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "saver %q", sc.Name))
			continue
		}
		for _, fname := range sc.Filters {
			f, ok := filters[fname]
			if !ok {
				errs = append(errs, errors.Wrapf(ErrConfig, "saver %q: unknown filter %q", sc.Name, fname))
				continue
			}
			sink.AddFilter(f)
		}
		if sc.Active != nil {
			sink.SetActive(*sc.Active)
		}
		l.AddSink(sink)
	}

	return errs
}

func buildFilter(fc FilterConfig) (*Filter, error) {
	if fc.Name == "" {
		return nil, errors.Wrap(ErrFilterConstruct, "missing name")
	}

	mode := Include
	if strings.EqualFold(fc.Mode, "exclude") {
		mode = Exclude
	}

	var f *Filter
	switch fc.Type {
	case "module_name":
		f = NewModuleFilter(fc.Name, mode)
		for _, m := range fc.Modules {
			f.AddModule(m)
		}
	case "log_level":
		f = NewLevelFilter(fc.Name, mode, LevelFromString(fc.Level))
		for _, m := range fc.Modules {
			f.AddModule(m)
		}
	case "func_name":
		f = NewFunctionFilter(fc.Name, mode)
		for _, fn := range fc.Functions {
			f.AddFunction(fn)
		}
	case "file_name":
		f = NewFileFilter(fc.Name, mode)
		for _, file := range fc.Files {
			f.AddFile(file)
		}
	case "thread_id":
		f = NewThreadFilter(fc.Name, mode)
		for _, tid := range fc.Threads {
			f.AddThread(tid)
		}
	case "content":
		f = NewContentFilter(fc.Name, mode)
		for _, c := range fc.Contents {
			f.AddContent(c)
		}
	default:
		return nil, errors.Wrapf(ErrFilterConstruct, "unknown filter type %q", fc.Type)
	}

	f.SetFilteringErrors(fc.FilteringErrors)
	f.SetFollowThreadContext(fc.FollowThreadContext)
	f.SetFilteringNoNameModules(fc.FilteringNonameModules)
	return f, nil
}

func buildSaver(sc SaverConfig) (*SinkFile, error) {
	if sc.Name == "" {
		return nil, errors.Wrap(ErrSaverConstruct, "missing name")
	}
	if sc.File == "" {
		return nil, errors.Wrap(ErrSaverConstruct, "missing file")
	}

	level := Info
	if sc.Level != "" {
		level = LevelFromString(sc.Level)
	}
	cont := true
	if sc.Continue != nil {
		cont = *sc.Continue
	}

	sink, err := NewSinkFile(sc.Name, expandPath(sc.File), level, cont)
	if err != nil {
		return nil, errors.Wrap(err, "open sink file")
	}
	if sc.MaxLineSize > 0 {
		sink.SetMaxLineSize(sc.MaxLineSize)
	}
	return sink, nil
}

// expandPath resolves the small set of path tokens the configuration
// binder recognizes: a leading "~/" via HOME (or USERPROFILE on
// Windows), and the "ProgramData/", "AppData/", and "Temp/" prefixes via
// their matching environment variables. Anything else passes through
// unchanged.
func expandPath(p string) string {
	switch {
	case strings.HasPrefix(p, "~/"):
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE")
		}
		if home != "" {
			return filepath.Join(home, p[2:])
		}
	case strings.HasPrefix(p, "ProgramData/"):
		if v := os.Getenv("PROGRAMDATA"); v != "" {
			return filepath.Join(v, strings.TrimPrefix(p, "ProgramData/"))
		}
	case strings.HasPrefix(p, "AppData/"):
		if v := os.Getenv("APPDATA"); v != "" {
			return filepath.Join(v, strings.TrimPrefix(p, "AppData/"))
		}
	case strings.HasPrefix(p, "Temp/"):
		if v := os.Getenv("TEMP"); v != "" {
			return filepath.Join(v, strings.TrimPrefix(p, "Temp/"))
		}
		return filepath.Join(os.TempDir(), strings.TrimPrefix(p, "Temp/"))
	}
	return p
}
