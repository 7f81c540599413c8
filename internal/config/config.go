package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Question store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Global configuration structure.
type Global struct {
	ClientName string `mapstructure:"client_name" yaml:"client_name"`
	StudyName  string `mapstructure:"study_name" yaml:"study_name"`

	// Respondent data
	DataFile     string   `mapstructure:"data_file" yaml:"data_file"`
	SheetName    string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	IndexColumns []string `mapstructure:"index_columns" yaml:"index_columns"`
	TextColumns  []string `mapstructure:"text_columns" yaml:"text_columns"`

	// Question and banner definitions
	QuestionStore string `mapstructure:"question_store" yaml:"question_store"`
	QuestionsFile string `mapstructure:"questions_file" yaml:"questions_file"`
	SQLitePath    string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	BannersFile   string `mapstructure:"banners_file" yaml:"banners_file"`

	// Output
	OutputDir        string `mapstructure:"output_dir" yaml:"output_dir"`
	OutputPrefix     string `mapstructure:"output_prefix" yaml:"output_prefix"`
	LatestOutputName string `mapstructure:"latest_output_name" yaml:"latest_output_name"`

	Workers   int    `mapstructure:"workers" yaml:"workers"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Dir returns ~/.tabloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLOOM")
	v.AutomaticEnv()

	v.SetDefault("client_name", "PEERLESS INSIGHTS")
	v.SetDefault("study_name", "DTV-010 Feature Prioritization")
	v.SetDefault("data_file", "Final_CE_10042023_V3.csv")
	v.SetDefault("sheet_name", "")
	v.SetDefault("index_columns", []string{"record", "uuid"})
	v.SetDefault("text_columns", []string{"date", "markers", "record", "uuid"})
	v.SetDefault("question_store", StoreJSON)
	v.SetDefault("questions_file", "questions_master.json")
	v.SetDefault("sqlite_path", "questions.db")
	v.SetDefault("banners_file", "")
	v.SetDefault("output_dir", ".")
	v.SetDefault("output_prefix", "")
	v.SetDefault("latest_output_name", "tabs_output.csv")
	v.SetDefault("workers", 0)
	v.SetDefault("log_format", "console")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the commands cannot act on.
func (c *Global) Validate() error {
	switch c.QuestionStore {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("invalid question_store: %s (use json or sqlite)", c.QuestionStore)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	return nil
}

// Set assigns one key from its string form, as given to "config set".
func (c *Global) Set(key, val string) error {
	switch key {
	case "client_name":
		c.ClientName = val
	case "study_name":
		c.StudyName = val
	case "data_file":
		c.DataFile = val
	case "sheet_name":
		c.SheetName = val
	case "index_columns":
		c.IndexColumns = splitList(val)
	case "text_columns":
		c.TextColumns = splitList(val)
	case "question_store":
		switch strings.ToLower(val) {
		case StoreJSON:
			c.QuestionStore = StoreJSON
		case StoreSQLite, "sqlite3":
			c.QuestionStore = StoreSQLite
		default:
			return fmt.Errorf("invalid question_store: %s (use json or sqlite)", val)
		}
	case "questions_file":
		c.QuestionsFile = val
	case "sqlite_path":
		c.SQLitePath = val
	case "banners_file":
		c.BannersFile = val
	case "output_dir":
		c.OutputDir = val
	case "output_prefix":
		c.OutputPrefix = val
	case "latest_output_name":
		c.LatestOutputName = val
	case "workers":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for workers: %v", val)
		}
		c.Workers = i
	case "log_format":
		switch strings.ToLower(val) {
		case "console", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
