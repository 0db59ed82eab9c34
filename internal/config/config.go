package config

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	bherrors "github.com/thoreinstein/borg-helper/internal/errors"
	"github.com/thoreinstein/borg-helper/internal/paths"
	"github.com/thoreinstein/borg-helper/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = "borg-helper"

// ConfigPathsEnv is the environment variable holding a colon-separated list
// of additional config files, loaded after (and overriding) the built-in
// search path.
const ConfigPathsEnv = "BORG_HELPER_CONFIGS"

// DefaultBinary is the borg binary used when no config overrides it.
const DefaultBinary = "borg"

// Repository is one named backup destination. Every field is optional;
// pointer fields distinguish "never set by any config" from "set to an empty
// string". Fields can be overwritten by later config sources but never unset.
type Repository struct {
	Location   *string           `json:"repository" toml:"repository" yaml:"repository"`
	Passphrase *string           `json:"passphrase" toml:"passphrase" yaml:"passphrase"`
	SSHKey     *string           `json:"ssh_key" toml:"ssh_key" yaml:"ssh_key"`
	Aliases    map[string]string `json:"aliases" toml:"aliases" yaml:"aliases"`
}

// merge overlays the fields of in onto r, field by field. A nil field in
// the incoming document leaves the stored value untouched; the aliases table
// is replaced wholesale when present, not merged entry by entry.
func (r *Repository) merge(in *Repository) {
	if in == nil {
		return
	}
	if in.Location != nil {
		r.Location = in.Location
	}
	if in.Passphrase != nil {
		r.Passphrase = in.Passphrase
	}
	if in.SSHKey != nil {
		r.SSHKey = in.SSHKey
	}
	if in.Aliases != nil {
		r.Aliases = in.Aliases
	}
}

// document is the schema of a single config file. All keys are optional.
type document struct {
	BorgBinary   string                 `json:"borg_binary" toml:"borg_binary" yaml:"borg_binary"`
	Aliases      map[string]string      `json:"aliases" toml:"aliases" yaml:"aliases"`
	Repositories map[string]*Repository `json:"repositories" toml:"repositories" yaml:"repositories"`
}

// State is the merged configuration for one run. It is populated by
// sequential config loads at startup and read-only afterwards, except for
// the AskBeforeExecute flag which the -i CLI option sets.
type State struct {
	// BorgBinary is the borg executable to invoke.
	BorgBinary string

	// Repositories maps repository names to their merged profiles.
	Repositories map[string]*Repository

	// Aliases is the global command alias table.
	Aliases map[string]string

	// AskBeforeExecute requires interactive confirmation before every dispatch.
	AskBeforeExecute bool
}

// NewState returns an empty State with the built-in defaults applied.
func NewState() *State {
	return &State{
		BorgBinary:   DefaultBinary,
		Repositories: make(map[string]*Repository),
		Aliases:      make(map[string]string),
	}
}

// Repository returns the profile for name, or nil if no config defined it.
func (s *State) Repository(name string) *Repository {
	return s.Repositories[name]
}

// SearchPaths returns every candidate config path for this run, lowest to
// highest precedence: the built-in locations followed by the entries of
// ConfigPathsEnv. Every entry is tilde-expanded. None of the paths need to
// exist.
func SearchPaths() []string {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), AppName+".json"))
	}
	candidates = append(candidates,
		"/etc/"+AppName+".json",
		filepath.Join(paths.ConfigHome(), AppName+".json"),
		AppName+".json",
	)

	for _, p := range strings.Split(os.Getenv(ConfigPathsEnv), ":") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		candidates = append(candidates, paths.ExpandTilde(p))
	}

	return candidates
}

// Load builds the merged State from the given config files, in order.
// Missing files are skipped; a file that exists but fails to parse aborts
// the load with an error naming the file. Each file is applied atomically:
// it is fully decoded before any of it is merged.
func Load(candidates []string) (*State, error) {
	state := NewState()
	for _, path := range candidates {
		if err := state.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// LoadFile merges one config file into the state. A missing file is not an
// error; everything else (unreadable, oversized, malformed) is fatal.
func (s *State) LoadFile(path string) error {
	slog.Debug("trying to load config", "path", path)

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Non-existing files are fine, every candidate path is optional.
			slog.Debug("config file not found", "path", path)
			return nil
		}
		return errors.Wrapf(err, "reading config %s", path)
	}

	var doc document
	if err := decode(path, data, &doc); err != nil {
		return errors.Wrapf(errors.Mark(err, bherrors.ErrInvalidConfig), "parsing config %s", path)
	}

	s.apply(&doc)
	return nil
}

// decode unmarshals data according to the file extension. TOML and YAML
// files are supported as a convenience; everything else is treated as JSON,
// matching the built-in search path.
func decode(path string, data []byte, doc *document) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, doc)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, doc)
	default:
		return json.Unmarshal(data, doc)
	}
}

// apply merges a fully decoded document into the state.
func (s *State) apply(doc *document) {
	if doc.BorgBinary != "" {
		s.BorgBinary = doc.BorgBinary
		slog.Debug("using borg binary override", "binary", s.BorgBinary)
	}

	slog.Debug("config contains aliases", "count", len(doc.Aliases))
	for name, value := range doc.Aliases {
		slog.Debug("adding alias", "name", name)
		s.Aliases[name] = value
	}

	slog.Debug("config contains repositories", "count", len(doc.Repositories))
	for name, repo := range doc.Repositories {
		slog.Debug("adding repository", "name", name)
		existing, ok := s.Repositories[name]
		if !ok {
			// A profile exists as an entry from its first mention, even
			// when the mentioning config sets no fields.
			existing = &Repository{}
			s.Repositories[name] = existing
		}
		existing.merge(repo)
	}
}
