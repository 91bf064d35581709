package botcfg

import "fmt"
import "log"
import "strconv"
import "strings"
import "time"

import "gopkg.in/gcfg.v1"

type Config struct {
	TGBot struct {
		Token string
	}

	Proxy_SOCKS5 struct {
		Server string
		User   string
		Pass   string
	}

	Redis struct {
		Server string
		DB     int
		Pass   string
	}

	Storage struct {
		Dir string
	}

	Digest struct {
		Time string // "HH:MM" UTC, default delivery time for owners without their own
	}
}

func Read(filename string) (Config, error) {
	log.Printf("Reading configuration from: %s", filename)

	var cfg Config

	err := gcfg.ReadFileInto(&cfg, filename)
	if err != nil {
		log.Printf("Could not correctly parse configuration file: %s; error: %s", filename, err)
		return cfg, err
	}

	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "user_files"
	}
	if cfg.Digest.Time == "" {
		cfg.Digest.Time = "09:00"
	}

	log.Printf("Configuration has been successfully read from %s: %+v", filename, cfg)
	return cfg, nil
}

// ParseDailyTime converts "HH:MM" to an offset from UTC midnight.
func ParseDailyTime(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("daily time '%s' is not in HH:MM format", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("daily time '%s' has bad hour part", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("daily time '%s' has bad minute part", s)
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, nil
}
