package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fpath-go/internal/codec"
	"fpath-go/internal/config"
	"fpath-go/internal/encryption"
	"fpath-go/internal/fpath"
	"fpath-go/internal/fs"
)

// Options carries the collaborators NewApp does not build from config.
type Options struct {
	// Registry receives the enabled codecs. Nil means a fresh registry.
	Registry *codec.Registry
	// Passphrase unlocks the age private key on the first encrypted read.
	Passphrase encryption.PassphraseFunc
	// Filesystem backs every path operation. Nil means the OS filesystem.
	Filesystem fpath.Filesystem
	// Codecs adds parsers next to the built-in ones, replacing any with the
	// same name. They are subject to the enabled list like the rest.
	Codecs map[string]codec.Codec
}

// App is the application layer between the CLI and fpath.Manager.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and closes the log file on Close.
type App struct {
	cfg       *config.Config
	fsys      fpath.Filesystem
	registry  *codec.Registry
	encryptor encryption.Encryptor
	manager   *fpath.Manager
	logger    *slog.Logger
	op        *Operation
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "mkdir", "write").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation, parameters string, opts Options) (*App, error) {
	fsys := opts.Filesystem
	if fsys == nil {
		fsys = fs.NewOSFilesystem()
	}
	registry := opts.Registry
	if registry == nil {
		registry = codec.NewRegistry()
	}

	dirMode, err := cfg.Filesystem.DirPerm()
	if err != nil {
		return nil, fmt.Errorf("reading dir_mode: %w", err)
	}
	fileMode, err := cfg.Filesystem.FilePerm()
	if err != nil {
		return nil, fmt.Errorf("reading file_mode: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption, fsys)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	available := codec.Builtin()
	available[encryption.CodecName] = encryption.NewCodec(enc, opts.Passphrase)
	for name, c := range opts.Codecs {
		available[name] = c
	}
	enabled, err := codec.Select(available, cfg.Codecs.Enabled)
	if err != nil {
		return nil, fmt.Errorf("selecting codecs: %w", err)
	}
	if err := registry.Configure(enabled); err != nil {
		return nil, fmt.Errorf("configuring codecs: %w", err)
	}

	op := NewOperation(operation, parameters)
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger.Debug("operation started", "operation", op.Name, "parameters", op.Parameters)

	manager := fpath.NewManager(fsys, registry, &slogAdapter{l: logger},
		fpath.WithDirMode(dirMode), fpath.WithFileMode(fileMode))

	return &App{
		cfg:       cfg,
		fsys:      fsys,
		registry:  registry,
		encryptor: enc,
		manager:   manager,
		logger:    logger,
		op:        op,
		logFile:   logFile,
	}, nil
}

// Operation returns the operation this App was created for.
func (a *App) Operation() *Operation { return a.op }

// Codecs returns the names of the registered parsers.
func (a *App) Codecs() []string { return a.registry.Names() }

// resolve turns a raw CLI argument into an absolute path. A leading "~"
// expands to the home directory.
func (a *App) resolve(raw string) (fpath.Path, error) {
	if raw == "~" || strings.HasPrefix(raw, "~"+fpath.Separator) {
		home, err := fpath.Home()
		if err != nil {
			return fpath.Path{}, err
		}
		return home.Resolve(fpath.Str(strings.TrimPrefix(strings.TrimPrefix(raw, "~"), fpath.Separator)))
	}
	return fpath.NewFromStrings(raw).Resolve()
}

// EnsureDir creates the directory at rawPath and any missing parents.
func (a *App) EnsureDir(rawPath string) (fpath.Path, error) {
	p, err := a.resolve(rawPath)
	if err != nil {
		return fpath.Path{}, a.fail(err)
	}
	p, err = a.manager.EnsureDir(p)
	return p, a.fail(err)
}

// List returns the sorted immediate children of rawPath.
func (a *App) List(rawPath string) ([]fpath.Path, error) {
	p, err := a.resolve(rawPath)
	if err != nil {
		return nil, a.fail(err)
	}
	children, err := a.manager.List(p)
	return children, a.fail(err)
}

// TreeEntry is one line of Tree output.
type TreeEntry struct {
	Path  fpath.Path
	Rel   string
	Depth int
	IsDir bool
}

// Tree walks rawPath in pre-order. When useIgnore is set, entries matching
// the configured patterns or the root's ignore file are skipped along with
// their subtrees.
func (a *App) Tree(rawPath string, useIgnore bool) ([]TreeEntry, error) {
	root, err := a.resolve(rawPath)
	if err != nil {
		return nil, a.fail(err)
	}

	var entries []TreeEntry
	visit := func(entry fpath.Path) error {
		st, err := a.manager.Stat(entry)
		if err != nil {
			return err
		}
		rel, err := root.Relative(fpath.Of(entry))
		if err != nil {
			return err
		}
		entries = append(entries, TreeEntry{
			Path:  entry,
			Rel:   rel.String(),
			Depth: len(rel.Split()) - 1,
			IsDir: st != nil && st.IsDir(),
		})
		return nil
	}

	if useIgnore {
		patterns := append([]string{}, a.cfg.Filesystem.Ignore...)
		isDir, err := a.manager.IsDir(root)
		if err != nil {
			return nil, a.fail(err)
		}
		if isDir {
			fromFile, err := fs.LoadIgnoreFile(a.manager, root)
			if err != nil {
				return nil, a.fail(err)
			}
			patterns = append(patterns, fromFile...)
		}
		visit = fs.NewIgnoreMatcher(patterns).Filter(root, visit)
	}

	if err := a.manager.Recurse(root, visit); err != nil {
		return nil, a.fail(err)
	}
	return entries, nil
}

// Stat probes rawPath. It returns nil and no error when nothing exists there.
func (a *App) Stat(rawPath string) (*fpath.StatResult, error) {
	p, err := a.resolve(rawPath)
	if err != nil {
		return nil, a.fail(err)
	}
	st, err := a.manager.Stat(p)
	return st, a.fail(err)
}

// Read returns the content of rawPath decoded with parser, or nil when the
// file does not exist.
func (a *App) Read(rawPath, parser string) (any, error) {
	p, err := a.resolve(rawPath)
	if err != nil {
		return nil, a.fail(err)
	}
	v, err := a.manager.Read(p, fpath.ReadOptions{Parser: parser})
	return v, a.fail(err)
}

// Write stores data at rawPath. With a structured parser the input is first
// decoded with the same codec, so the file is re-encoded in canonical form.
// The age parser encrypts the input bytes as they are.
func (a *App) Write(rawPath string, data []byte, parser string) (fpath.Path, error) {
	p, err := a.resolve(rawPath)
	if err != nil {
		return fpath.Path{}, a.fail(err)
	}

	var value any = data
	if parser != "" && parser != encryption.CodecName {
		if a.registry.Serializer(parser) == nil {
			return fpath.Path{}, a.fail(&fpath.Error{
				Code:    fpath.CodeInvalidSerializer,
				Op:      "write",
				Path:    p.String(),
				Message: fmt.Sprintf("No serializer registered for parser %q", parser),
			})
		}
		decode := a.registry.Deserializer(parser)
		if decode == nil {
			return fpath.Path{}, a.fail(&fpath.Error{
				Code:    fpath.CodeInvalidDeserializer,
				Op:      "write",
				Path:    p.String(),
				Message: fmt.Sprintf("No deserializer registered for parser %q; cannot parse the input", parser),
			})
		}
		if value, err = decode(data); err != nil {
			return fpath.Path{}, a.fail(fmt.Errorf("parsing %s input: %w", parser, err))
		}
	}

	p, err = a.manager.Write(p, value, fpath.WriteOptions{Parser: parser})
	return p, a.fail(err)
}

// Copy copies rawSrc to rawDst. Directories are copied recursively.
func (a *App) Copy(rawSrc, rawDst string) (fpath.Path, error) {
	src, err := a.resolve(rawSrc)
	if err != nil {
		return fpath.Path{}, a.fail(err)
	}
	dst, err := a.resolve(rawDst)
	if err != nil {
		return fpath.Path{}, a.fail(err)
	}
	p, err := a.manager.Copy(src, dst)
	return p, a.fail(err)
}

// SetupKeys generates the age key pair protected by passphrase.
// It refuses to overwrite existing keys.
func (a *App) SetupKeys(passphrase string) error {
	if a.encryptor.IsConfigured() {
		return a.fail(fmt.Errorf("encryption keys already exist"))
	}
	if err := a.encryptor.Setup(passphrase); err != nil {
		return a.fail(fmt.Errorf("setting up encryption: %w", err))
	}
	a.logger.Info("encryption keys created",
		"public_key", a.cfg.Encryption.PublicKeyPath,
		"private_key", a.cfg.Encryption.PrivateKeyPath)
	return nil
}

// fail records err against the operation and logs it. It returns err
// unchanged so callers can wrap their return statements.
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}
	a.op.Fail()
	a.logger.Error("operation failed", "operation", a.op.Name, "code", fpath.Code(err), "error", err)
	return err
}

// Close logs the operation result and closes the log file.
func (a *App) Close() error {
	a.logger.Debug("operation finished", "operation", a.op.Name, "status", a.op.Status)
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
