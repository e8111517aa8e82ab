package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"taskflow/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultOwner          = "john.doe@example.com"
	EnvConfigPath         = "TASKFLOW_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Add            string `toml:"add"`
	Search         string `toml:"search"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	NextFilter     string `toml:"next_filter"`
	PrevFilter     string `toml:"prev_filter"`
	MarkTodo       string `toml:"mark_todo"`
	MarkInProgress string `toml:"mark_in_progress"`
	MarkCompleted  string `toml:"mark_completed"`
	Sidebar        string `toml:"sidebar"`
	Logout         string `toml:"logout"`
}

type Config struct {
	Owner         string   `toml:"owner"`
	DefaultFilter string   `toml:"default_filter"`
	Seed          bool     `toml:"seed"`
	SeedFile      string   `toml:"seed_file"`
	LogFile       string   `toml:"log_file"`
	Providers     []string `toml:"providers"`
	Keys          Keymap   `toml:"keys"`
}

// ResolveConfigPath picks $TASKFLOW_CONFIG, then the user config dir, then
// the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "taskflow", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse %s: %w", path, err)
	}
	if cfg.Owner == "" {
		cfg.Owner = DefaultOwner
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = defaultProviders()
	}
	cfg.Keys = cfg.Keys.withDefaults()
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default is the configuration written on first launch.
func Default() Config {
	return Config{
		Owner:         DefaultOwner,
		DefaultFilter: string(task.FilterAll),
		Seed:          true,
		Providers:     defaultProviders(),
		Keys:          defaultKeymap(),
	}
}

func defaultProviders() []string {
	return []string{"google", "github", "microsoft"}
}

func defaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		Up:             "k",
		Down:           "j",
		Add:            "n",
		Search:         "/",
		Delete:         "d",
		Confirm:        "enter",
		Cancel:         "esc",
		NextFilter:     "tab",
		PrevFilter:     "shift+tab",
		MarkTodo:       "t",
		MarkInProgress: "p",
		MarkCompleted:  "c",
		Sidebar:        "s",
		Logout:         "x",
	}
}

// withDefaults fills keys a partial [keys] table left empty.
func (k Keymap) withDefaults() Keymap {
	d := defaultKeymap()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Add, d.Add)
	fill(&k.Search, d.Search)
	fill(&k.Delete, d.Delete)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.NextFilter, d.NextFilter)
	fill(&k.PrevFilter, d.PrevFilter)
	fill(&k.MarkTodo, d.MarkTodo)
	fill(&k.MarkInProgress, d.MarkInProgress)
	fill(&k.MarkCompleted, d.MarkCompleted)
	fill(&k.Sidebar, d.Sidebar)
	fill(&k.Logout, d.Logout)
	return k
}

type seedFile struct {
	Tasks []task.Task `toml:"tasks" yaml:"tasks"`
}

// SeedTasks returns the tasks a new session starts with: nothing when
// seeding is off, the seed file when one is set, the built-in set otherwise.
func (c Config) SeedTasks() ([]task.Task, error) {
	if !c.Seed {
		return nil, nil
	}
	if c.SeedFile == "" {
		return task.Seed(), nil
	}
	return LoadSeedFile(c.SeedFile)
}

// LoadSeedFile reads a TOML seed file, or YAML when the extension is .yaml or .yml.
func LoadSeedFile(path string) ([]task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	unmarshal := toml.Unmarshal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	}
	var sf seedFile
	if err := unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("could not parse seed file %s: %w", path, err)
	}
	seen := map[int]struct{}{}
	for i, t := range sf.Tasks {
		if _, ok := seen[t.ID]; ok {
			return nil, fmt.Errorf("seed file %s: duplicate task id %d", path, t.ID)
		}
		seen[t.ID] = struct{}{}

		checked, err := checkSeedTask(t)
		if err != nil {
			return nil, fmt.Errorf("seed file %s: task %d: %w", path, t.ID, err)
		}
		sf.Tasks[i] = checked
	}
	return sf.Tasks, nil
}

// checkSeedTask normalizes t and rejects what a created task could never hold.
func checkSeedTask(t task.Task) (task.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return t, errors.New("title cannot be empty")
	}

	status, ok := task.ParseStatus(string(t.Status))
	if !ok {
		return t, fmt.Errorf("invalid status %q, want one of %s", t.Status, choices(task.Statuses()))
	}
	t.Status = status

	priority, ok := task.ParsePriority(string(t.Priority))
	if !ok {
		return t, fmt.Errorf("invalid priority %q, want one of %s", t.Priority, choices(task.Priorities()))
	}
	t.Priority = priority

	shared := []string{}
	for _, email := range t.SharedWith {
		var added bool
		if shared, added = task.AddCollaborator(shared, email); !added {
			return t, fmt.Errorf("invalid or duplicate shared_with entry %q", email)
		}
	}
	t.SharedWith = shared
	return t, nil
}

func choices[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
