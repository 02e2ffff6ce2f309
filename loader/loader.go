package loader

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/panyam/pgcl/ast"
)

// ConfigExt is the extension of the config file read next to a program.
const ConfigExt = ".toml"

// LoadResult holds the outcome of loading a batch of files.
type LoadResult struct {
	Programs map[string]*ast.Program // keyed by the requested path
	Errors   []error
}

// Loader reads program files and the config next to them.  Built programs
// are kept until Forget or Reset so each file is parsed once.
type Loader struct {
	parser Parser
	fs     FileSystem
	config ast.ProgramConfig
	logger *slog.Logger

	// MaxErrors bounds the errors kept by LoadFiles.  0 means no limit.
	MaxErrors int

	mutex  sync.Mutex
	loaded map[string]*ast.Program
}

// NewLoader creates a loader reading from fs.  config is used for programs
// without a config file of their own.  A nil logger means slog.Default().
func NewLoader(parser Parser, fs FileSystem, config ast.ProgramConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		parser: parser,
		fs:     fs,
		config: config,
		logger: logger,
		loaded: make(map[string]*ast.Program),
	}
}

// ConfigPath is where the config of a program file lives: the same path
// with its extension replaced by ConfigExt.
func ConfigPath(file string) string {
	return strings.TrimSuffix(file, path.Ext(file)) + ConfigExt
}

// Load returns the program stored at file.  If a config file sits next to
// it, that config replaces the loader's default one.
func (l *Loader) Load(file string) (*ast.Program, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if prog, ok := l.loaded[file]; ok {
		return prog, nil
	}

	cfg, err := l.configFor(file)
	if err != nil {
		return nil, err
	}
	content, err := l.fs.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %w", file, err)
	}
	prog, err := l.parser.Parse(bytes.NewReader(content), file, cfg, ast.WithLogger(l.logger.With("file", file)))
	if err != nil {
		return nil, err
	}
	l.loaded[file] = prog
	l.logger.Debug("Loaded program", "file", file, "declarations", len(prog.Declarations), "instructions", len(prog.Instructions))
	return prog, nil
}

func (l *Loader) configFor(file string) (ast.ProgramConfig, error) {
	cfgPath := ConfigPath(file)
	if cfgPath == file || !l.fs.Exists(cfgPath) {
		return l.config, nil
	}
	data, err := l.fs.ReadFile(cfgPath)
	if err != nil {
		return l.config, fmt.Errorf("could not read '%s': %w", cfgPath, err)
	}
	cfg, err := ast.ParseConfig(data)
	if err != nil {
		return l.config, fmt.Errorf("in '%s': %w", cfgPath, err)
	}
	return cfg, nil
}

// LoadFiles loads every file, carrying on past failures.  The returned
// error joins everything in the result's Errors.
func (l *Loader) LoadFiles(files ...string) (*LoadResult, error) {
	result := &LoadResult{Programs: make(map[string]*ast.Program)}
	collector := &ErrorCollector{MaxErrors: l.MaxErrors}
	for _, file := range files {
		prog, err := l.Load(file)
		if err != nil {
			collector.AddErrors(err)
			if collector.Full() {
				break
			}
			continue
		}
		result.Programs[file] = prog
	}
	result.Errors = collector.Errors
	return result, collector.Err()
}

// Forget drops the cached program of file so the next Load reads it again.
func (l *Loader) Forget(file string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	delete(l.loaded, file)
}

func (l *Loader) Reset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.loaded = make(map[string]*ast.Program)
}
