// Command cleanarchguard checks that schedule packages only import inward:
// domain and importer never reach services, and services never reach
// infrastructure.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/schedule-import/pkg/logging"
)

type config struct {
	Version        int      `yaml:"version"`
	Root           string   `yaml:"root"`
	IgnoreTests    bool     `yaml:"ignore_tests"`
	IgnorePackages []string `yaml:"ignore_packages"`
	Aliases        struct {
		Domain         []string `yaml:"domain"`
		Application    []string `yaml:"application"`
		Interfaces     []string `yaml:"interfaces"`
		Infrastructure []string `yaml:"infrastructure"`
	} `yaml:"aliases"`
}

var errViolations = errors.New("layering check failed")

func main() {
	log := logging.New(logrus.InfoLevel, "text", os.Stderr)
	if err := newRootCmd(log).Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	var (
		configPath string
		debug      bool
	)
	cmd := &cobra.Command{
		Use:           "cleanarchguard",
		Short:         "Check import direction between schedule layers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			var debugOut io.Writer
			if debug {
				debugOut = cmd.ErrOrStderr()
			}
			violations, err := check(cfg, debugOut)
			if err != nil {
				return err
			}
			for _, v := range violations {
				log.Warn(v)
			}
			if len(violations) > 0 {
				return fmt.Errorf("%w: %d violation(s)", errViolations, len(violations))
			}
			log.Info("layering check passed")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", ".gocleanarch.yml", "Config file; missing means defaults")
	cmd.Flags().BoolVar(&debug, "debug", false, "Print go-cleanarch debug output")
	return cmd
}

func loadConfig(path string) (*config, error) {
	cfg := &config{IgnoreTests: true}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	if cfg.Root == "" {
		cfg.Root = "modules"
	}
	return cfg, nil
}

// check runs go-cleanarch over cfg.Root and returns its violations.
func check(cfg *config, debugOut io.Writer) ([]string, error) {
	if cfg.Root == "" {
		return nil, errors.New("root must not be empty")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	if debugOut != nil {
		cleanarch.Log.SetOutput(debugOut)
	}

	ok, errs, err := cleanarch.NewValidator(layerAliases(cfg)).Validate(root, cfg.IgnoreTests, cfg.IgnorePackages)
	if err != nil {
		return nil, fmt.Errorf("run go-cleanarch: %w", err)
	}
	if ok {
		return nil, nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return msgs, nil
}

var (
	// importer builds domain entities from rows and imports nothing but the domain.
	defaultDomainAliases         = []string{"domain", "entity", "importer"}
	defaultApplicationAliases    = []string{"services"}
	defaultInterfacesAliases     = []string{"controllers", "presentation"}
	defaultInfrastructureAliases = []string{"infrastructure"}
)

func layerAliases(cfg *config) map[string]cleanarch.Layer {
	aliases := map[string]cleanarch.Layer{}
	applyAliases(aliases, cfg.Aliases.Domain, defaultDomainAliases, cleanarch.LayerDomain)
	applyAliases(aliases, cfg.Aliases.Application, defaultApplicationAliases, cleanarch.LayerApplication)
	applyAliases(aliases, cfg.Aliases.Interfaces, defaultInterfacesAliases, cleanarch.LayerInterfaces)
	applyAliases(aliases, cfg.Aliases.Infrastructure, defaultInfrastructureAliases, cleanarch.LayerInfrastructure)
	return aliases
}

func applyAliases(dst map[string]cleanarch.Layer, custom, defaults []string, layer cleanarch.Layer) {
	candidates := defaults
	if len(custom) > 0 {
		candidates = custom
	}
	for _, alias := range candidates {
		if alias = strings.TrimSpace(alias); alias != "" {
			dst[alias] = layer
		}
	}
}
