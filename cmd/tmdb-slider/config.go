package main

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type config struct {
	BindAddr             string        `json:"bindAddr"`
	Port                 int           `json:"port"`
	SettingsPath         string        `json:"settingsPath"`
	APIKey               string        `json:"-"`
	BaseURLtmdb          string        `json:"baseURLtmdb"`
	Language             string        `json:"language"`
	Timeout              time.Duration `json:"timeout"`
	CacheAge             time.Duration `json:"cacheAge"`
	CacheBackend         string        `json:"cacheBackend"`
	CachePath            string        `json:"cachePath"`
	StoragePath          string        `json:"storagePath"`
	RedisAddr            string        `json:"redisAddr"`
	RedisCreds           string        `json:"-"`
	SocksProxyAddr       string        `json:"socksProxyAddr"`
	PurgeCacheOnShutdown bool          `json:"purgeCacheOnShutdown"`
	LogLevel             string        `json:"logLevel"`
	LogEncoding          string        `json:"logEncoding"`
	EnvPrefix            string        `json:"envPrefix"`
}

func parseConfig(logger *zap.Logger) config {
	result := config{}

	// Flags
	var (
		bindAddr             = flag.String("bindAddr", "localhost", `Local interface address to bind to. "localhost" only allows access from the local host. "0.0.0.0" binds to all network interfaces.`)
		port                 = flag.Int("port", 8080, "Port to listen on")
		settingsPath         = flag.String("settingsPath", "", `Path to the settings file. Files with a ".toml" extension are read as TOML, all others as JSON. A missing file leads to the default settings. An empty value will lead to 'os.UserConfigDir()+"/tmdb-slider/settings.json"'.`)
		apiKey               = flag.String("apiKey", "", "TMDb API key (v3) or read access token (v4). Takes precedence over the API key in the settings file.")
		baseURLtmdb          = flag.String("baseURLtmdb", "https://api.themoviedb.org/3/", "Base URL for the TMDb API")
		language             = flag.String("language", "en-US", "Language for TMDb responses")
		timeout              = flag.Duration("timeout", 15*time.Second, "Timeout for requests to TMDb. The format must be acceptable by Go's 'time.ParseDuration()', for example \"15s\".")
		cacheAge             = flag.Duration("cacheAge", time.Hour, "Max age of cached TMDb responses. The format must be acceptable by Go's 'time.ParseDuration()', for example \"1h\". \"0s\" disables caching.")
		cacheBackend         = flag.String("cacheBackend", "memory", `Cache for TMDb responses. Can be "memory" (go-cache, persisted to a file in regular intervals), "badger" (BadgerDB) or "redis".`)
		cachePath            = flag.String("cachePath", "", `Path for loading the persisted in-memory cache on startup and persisting it in regular intervals. An empty value will lead to 'os.UserCacheDir()+"/tmdb-slider/cache"'.`)
		storagePath          = flag.String("storagePath", "", `Path for storing the data of the BadgerDB cache. An empty value will lead to 'os.UserCacheDir()+"/tmdb-slider/badger"'.`)
		redisAddr            = flag.String("redisAddr", "localhost:6379", `Redis host and port, for example "localhost:6379". Only used with cacheBackend "redis".`)
		redisCreds           = flag.String("redisCreds", "", `Credentials for Redis. Password for Redis version 5 and older, username and password for Redis version 6 and newer. Use the colon character (":") for separating username and password. This implies you can't use a colon in the password when using Redis version 5 or older.`)
		socksProxyAddr       = flag.String("socksProxyAddr", "", "SOCKS5 proxy address for accessing TMDb, for example \"127.0.0.1:9050\"")
		purgeCacheOnShutdown = flag.Bool("purgeCacheOnShutdown", false, "Remove all cached TMDb responses when shutting down")
		logLevel             = flag.String("logLevel", "info", `Log level to show only logs with the given and more severe levels. Can be "debug", "info", "warn", "error".`)
		logEncoding          = flag.String("logEncoding", "console", `Log encoding. Can be "console" or "json", where "json" makes more sense when using centralized logging solutions like ELK, Graylog or Loki.`)
		envPrefix            = flag.String("envPrefix", "", "Prefix for environment variables")
	)

	flag.Parse()

	if *envPrefix != "" && !strings.HasSuffix(*envPrefix, "_") {
		*envPrefix += "_"
	}
	result.EnvPrefix = *envPrefix

	// Only overwrite the values by their env var counterparts that have not been set (and that *are* set via env var).
	var err error
	if !isArgSet("bindAddr") {
		if val, ok := os.LookupEnv(*envPrefix + "BIND_ADDR"); ok {
			*bindAddr = val
		}
	}
	result.BindAddr = *bindAddr

	if !isArgSet("port") {
		if val, ok := os.LookupEnv(*envPrefix + "PORT"); ok {
			if *port, err = strconv.Atoi(val); err != nil {
				logger.Fatal("Couldn't convert environment variable from string to int", zap.Error(err), zap.String("envVar", "PORT"))
			}
		}
	}
	result.Port = *port

	if !isArgSet("settingsPath") {
		if val, ok := os.LookupEnv(*envPrefix + "SETTINGS_PATH"); ok {
			*settingsPath = val
		}
	}
	result.SettingsPath = *settingsPath

	if !isArgSet("apiKey") {
		if val, ok := os.LookupEnv(*envPrefix + "API_KEY"); ok {
			*apiKey = val
		}
	}
	result.APIKey = *apiKey

	if !isArgSet("baseURLtmdb") {
		if val, ok := os.LookupEnv(*envPrefix + "BASE_URL_TMDB"); ok {
			*baseURLtmdb = val
		}
	}
	result.BaseURLtmdb = *baseURLtmdb

	if !isArgSet("language") {
		if val, ok := os.LookupEnv(*envPrefix + "LANGUAGE"); ok {
			*language = val
		}
	}
	result.Language = *language

	if !isArgSet("timeout") {
		if val, ok := os.LookupEnv(*envPrefix + "TIMEOUT"); ok {
			if *timeout, err = time.ParseDuration(val); err != nil {
				logger.Fatal("Couldn't convert environment variable from string to time.Duration", zap.Error(err), zap.String("envVar", "TIMEOUT"))
			}
		}
	}
	result.Timeout = *timeout

	if !isArgSet("cacheAge") {
		if val, ok := os.LookupEnv(*envPrefix + "CACHE_AGE"); ok {
			if *cacheAge, err = time.ParseDuration(val); err != nil {
				logger.Fatal("Couldn't convert environment variable from string to time.Duration", zap.Error(err), zap.String("envVar", "CACHE_AGE"))
			}
		}
	}
	result.CacheAge = *cacheAge

	if !isArgSet("cacheBackend") {
		if val, ok := os.LookupEnv(*envPrefix + "CACHE_BACKEND"); ok {
			*cacheBackend = val
		}
	}
	result.CacheBackend = *cacheBackend

	if !isArgSet("cachePath") {
		if val, ok := os.LookupEnv(*envPrefix + "CACHE_PATH"); ok {
			*cachePath = val
		}
	}
	result.CachePath = *cachePath

	if !isArgSet("storagePath") {
		if val, ok := os.LookupEnv(*envPrefix + "STORAGE_PATH"); ok {
			*storagePath = val
		}
	}
	result.StoragePath = *storagePath

	if !isArgSet("redisAddr") {
		if val, ok := os.LookupEnv(*envPrefix + "REDIS_ADDR"); ok {
			*redisAddr = val
		}
	}
	result.RedisAddr = *redisAddr

	if !isArgSet("redisCreds") {
		if val, ok := os.LookupEnv(*envPrefix + "REDIS_CREDS"); ok {
			*redisCreds = val
		}
	}
	result.RedisCreds = *redisCreds

	if !isArgSet("socksProxyAddr") {
		if val, ok := os.LookupEnv(*envPrefix + "SOCKS_PROXY_ADDR"); ok {
			*socksProxyAddr = val
		}
	}
	result.SocksProxyAddr = *socksProxyAddr

	if !isArgSet("purgeCacheOnShutdown") {
		if val, ok := os.LookupEnv(*envPrefix + "PURGE_CACHE_ON_SHUTDOWN"); ok {
			if *purgeCacheOnShutdown, err = strconv.ParseBool(val); err != nil {
				logger.Fatal("Couldn't convert environment variable from string to bool", zap.Error(err), zap.String("envVar", "PURGE_CACHE_ON_SHUTDOWN"))
			}
		}
	}
	result.PurgeCacheOnShutdown = *purgeCacheOnShutdown

	if !isArgSet("logLevel") {
		if val, ok := os.LookupEnv(*envPrefix + "LOG_LEVEL"); ok {
			*logLevel = val
		}
	}
	result.LogLevel = *logLevel

	if !isArgSet("logEncoding") {
		if val, ok := os.LookupEnv(*envPrefix + "LOG_ENCODING"); ok {
			*logEncoding = val
		}
	}
	result.LogEncoding = *logEncoding

	return result
}

func (c *config) validate(logger *zap.Logger) {
	if c.SettingsPath == "" {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			logger.Fatal("Couldn't determine user config directory via `os.UserConfigDir()`", zap.Error(err))
		}
		c.SettingsPath = filepath.Join(userConfigDir, "tmdb-slider/settings.json")
	} else {
		c.SettingsPath = filepath.Clean(c.SettingsPath)
	}

	switch c.CacheBackend {
	case "memory":
		if c.CachePath == "" {
			userCacheDir, err := os.UserCacheDir()
			if err != nil {
				logger.Fatal("Couldn't determine user cache directory via `os.UserCacheDir()`", zap.Error(err))
			}
			c.CachePath = filepath.Join(userCacheDir, "tmdb-slider/cache")
		} else {
			c.CachePath = filepath.Clean(c.CachePath)
		}
		// If the dir doesn't exist, it's created when the file is written.
	case "badger":
		if c.StoragePath == "" {
			userCacheDir, err := os.UserCacheDir()
			if err != nil {
				logger.Fatal("Couldn't determine user cache directory via `os.UserCacheDir()`", zap.Error(err))
			}
			c.StoragePath = filepath.Join(userCacheDir, "tmdb-slider/badger")
		} else {
			c.StoragePath = filepath.Clean(c.StoragePath)
		}
		// If the dir doesn't exist, BadgerDB creates it when writing its DB files.
	case "redis":
		if c.RedisAddr == "" {
			logger.Fatal("Using Redis requires setting redisAddr")
		}
	default:
		logger.Fatal(`cacheBackend must be one of "memory", "badger" or "redis"`, zap.String("cacheBackend", c.CacheBackend))
	}

	if c.BaseURLtmdb == "" {
		logger.Fatal("baseURLtmdb must not be empty")
	}
	if c.Timeout <= 0 {
		logger.Fatal("timeout must be positive", zap.Duration("timeout", c.Timeout))
	}
	if c.CacheAge < 0 {
		logger.Fatal("cacheAge must not be negative", zap.Duration("cacheAge", c.CacheAge))
	}

	if c.LogEncoding != "console" && c.LogEncoding != "json" {
		logger.Fatal(`logEncoding must be one of "console" or "json"`, zap.String("logEncoding", c.LogEncoding))
	}
}

// isArgSet returns true if the argument you're looking for is actually set as command line argument.
// Pass without "-" prefix.
func isArgSet(arg string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == arg {
			found = true
		}
	})
	return found
}
