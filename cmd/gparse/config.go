package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/graeme-hill/combparse-go/lib"
)

type appConfig struct {
	GrammarFile string
	GrammarName string
	DSN         string
	Engine      lib.Config
}

// newViper reads settings from flags, GPARSE_* environment variables and an
// optional gparse.yaml, in that order of precedence.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("GPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("gparse")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

func loadConfig(flags *pflag.FlagSet) (appConfig, error) {
	v, err := newViper(flags)
	if err != nil {
		return appConfig{}, err
	}

	logger, err := newLogger(v.GetString("log-level"), v.GetString("log-format"))
	if err != nil {
		return appConfig{}, err
	}

	engineConfig := lib.DefaultConfig()
	engineConfig.LenientGrammar = v.GetBool("lenient-grammar")
	engineConfig.Limits = lib.Limits{
		MaxSteps: v.GetInt("max-steps"),
		MaxDepth: v.GetInt("max-depth"),
	}
	engineConfig.Logger = logger

	return appConfig{
		GrammarFile: v.GetString("grammar"),
		GrammarName: v.GetString("grammar-name"),
		DSN:         v.GetString("dsn"),
		Engine:      engineConfig,
	}, nil
}

func newLogger(level string, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %v", level)
	}
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format: %v", format)
	}
	return logger, nil
}

// resolveGrammar picks the grammar text: a stored grammar when
// --grammar-name is given, else --grammar, else the built-in one.
func resolveGrammar(ctx context.Context, cfg appConfig) (string, error) {
	if cfg.GrammarName != "" {
		if cfg.DSN == "" {
			return "", errors.New("--grammar-name needs --dsn")
		}
		store, err := lib.OpenGrammarStore(ctx, cfg.DSN)
		if err != nil {
			return "", err
		}
		defer store.Close()
		return store.Get(ctx, cfg.GrammarName)
	}
	if cfg.GrammarFile != "" {
		return lib.ReadGrammarFile(cfg.GrammarFile)
	}
	return lib.DefaultGrammar, nil
}

func readSource(path string) (string, error) {
	if path == "-" {
		bytes, err := io.ReadAll(os.Stdin)
		return string(bytes), err
	}
	bytes, err := os.ReadFile(path)
	return string(bytes), err
}
