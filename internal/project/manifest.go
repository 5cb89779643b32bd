package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Manifest is a loaded facet.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the facet.toml layout.
type Config struct {
	Project    ProjectConfig    `toml:"project"`
	Build      BuildConfig      `toml:"build"`
	Processors ProcessorsConfig `toml:"processors"`
	Trace      TraceConfig      `toml:"trace"`
}

type ProjectConfig struct {
	Name    string   `toml:"name" validate:"required"`
	Sources []string `toml:"sources" validate:"required,min=1,dive,required"`
}

type BuildConfig struct {
	Jobs           int    `toml:"jobs" validate:"gte=0,lte=256"`
	MaxDiagnostics int    `toml:"max-diagnostics" validate:"gte=1,lte=65535"`
	TrackingOut    string `toml:"tracking-out"`
	// WarningsAsErrors fails a unit on any tracking warning.
	WarningsAsErrors bool `toml:"warnings-as-errors"`
}

type ProcessorsConfig struct {
	Enabled []string `toml:"enabled" validate:"dive,required"`
}

// TraceConfig provides defaults for the --trace flags.
type TraceConfig struct {
	Level  string `toml:"level" validate:"omitempty,oneof=off error phase detail debug"`
	Mode   string `toml:"mode" validate:"omitempty,oneof=stream ring both"`
	Output string `toml:"output"`
}

// Defaults returns the configuration used when no manifest exists.
func Defaults() Config {
	return Config{
		Project: ProjectConfig{Sources: []string{"."}},
		Build:   BuildConfig{MaxDiagnostics: 100},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	b.WriteString(": invalid manifest:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses and validates facet.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// FindAndLoad looks for facet.toml above startDir. ok is false when none exists.
func FindAndLoad(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

func loadConfig(path string) (Config, error) {
	cfg := Defaults()
	cfg.Project.Sources = nil
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return Config{}, fmt.Errorf("%s: missing [project]", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("project", "sources") {
		cfg.Project.Sources = []string{"."}
	}
	cfg.Project.Name = strings.TrimSpace(cfg.Project.Name)
	if err := cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and returns a *ValidationError.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{Path: ManifestName}
	for _, fe := range fieldErrs {
		verr.Issues = append(verr.Issues, describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " must be provided"
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range (%s %s)", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %q", field, fe.Tag())
}
