package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Pg    Pg    `yaml:"pg"`
	Redis Redis `yaml:"redis"`

	Listen string `yaml:"listen"`

	Logging Logging `yaml:"logging"`

	ThreadsPerPage int `yaml:"threads_per_page"`
	PostsPerPage   int `yaml:"posts_per_page"`

	VotesPerHour int           `yaml:"votes_per_hour"` // vote rate limit per user
	VoteWindow   time.Duration `yaml:"vote_window"`

	StatsTTL time.Duration `yaml:"stats_ttl"` // expiry for cached aggregate counts
}

type Logging struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
}

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

// WithDefaults fills the knobs the yaml may omit.
func (p *Public) WithDefaults() {
	if p.Listen == "" {
		p.Listen = ":8080"
	}
	if p.ThreadsPerPage == 0 {
		p.ThreadsPerPage = 20
	}
	if p.PostsPerPage == 0 {
		p.PostsPerPage = 10
	}
	if p.VotesPerHour == 0 {
		p.VotesPerHour = 10
	}
	if p.VoteWindow == 0 {
		p.VoteWindow = time.Hour
	}
	if p.StatsTTL == 0 {
		p.StatsTTL = 10 * time.Minute
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	public.WithDefaults()

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
