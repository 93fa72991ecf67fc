package config

import (
	"errors"
	"flag"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	APIBaseURL      string
	CredentialsFile string
	RequestTimeout  time.Duration
	Debug           bool
}

// ParseFlags reads configuration from command line flags, falling back to
// environment variables (optionally loaded from a .env file) for the values
// that are usually deployment-specific.
func ParseFlags() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", "127.0.0.1", "preview listen host name (default 127.0.0.1)")
	var port uint
	flag.UintVar(&port, "port", 8080, "preview listen port number (default 8080)")
	flag.StringVar(&cfg.APIBaseURL, "api-url", os.Getenv("FORMBENCH_API_URL"), "base URL of the forms API")
	flag.StringVar(&cfg.CredentialsFile, "credentials", defaultCredentialsFile(), "path to the stored credentials file")
	var timeout uint
	flag.UintVar(&timeout, "timeout", 30, "API request timeout in seconds (default 30)")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.RequestTimeout = time.Duration(timeout) * time.Second

	if cfg.APIBaseURL == "" {
		err = errors.New("missing parameter -api-url (or FORMBENCH_API_URL)")
		return
	}
	if _, err = url.Parse(cfg.APIBaseURL); err != nil {
		return
	}

	return
}

func defaultCredentialsFile() string {
	if f := os.Getenv("FORMBENCH_CREDENTIALS"); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".formbench.json"
	}
	return home + "/.formbench.json"
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
