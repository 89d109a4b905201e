//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aac2alac/cmd"
	"aac2alac/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	dir        string
	configPath string
	cfg        *config.Config
	found      bool
	output     *bytes.Buffer
	err        error
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			dir:        dir,
			configPath: filepath.Join(dir, "config.yaml"),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext != nil {
			os.RemoveAll(SharedConfigContext.dir)
		}
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^a configuration file containing:$`, aConfigurationFileContaining)
	ctx.Step(`^no configuration file$`, noConfigurationFile)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^the configuration should have loaded from defaults$`, theConfigurationShouldHaveLoadedFromDefaults)
	ctx.Step(`^loading should fail mentioning "([^"]*)"$`, loadingShouldFailMentioning)
	ctx.Step(`^I run config set "([^"]*)" "([^"]*)"$`, iRunConfigSet)
	ctx.Step(`^I run config get "([^"]*)"$`, iRunConfigGet)
	ctx.Step(`^I run config list$`, iRunConfigList)
	ctx.Step(`^the config command should fail$`, theConfigCommandShouldFail)
	ctx.Step(`^the config output should contain "([^"]*)"$`, theConfigOutputShouldContain)
	ctx.Step(`^the configuration should have "([^"]*)" set to "([^"]*)"$`, theConfigurationShouldHaveSetTo)
}

func aConfigurationFileContaining(doc *godog.DocString) error {
	c := SharedConfigContext
	return os.WriteFile(c.configPath, []byte(doc.Content), 0644)
}

func noConfigurationFile() error {
	return nil
}

func iLoadTheConfiguration() error {
	c := SharedConfigContext
	c.cfg, c.found, c.err = config.LoadOrDefault(c.configPath)
	return nil
}

func theConfigurationShouldHaveLoadedFromDefaults() error {
	c := SharedConfigContext
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	if c.found {
		return fmt.Errorf("expected no config file to be found")
	}
	if *c.cfg != *config.Default() {
		return fmt.Errorf("expected defaults, got %+v", *c.cfg)
	}
	return nil
}

func loadingShouldFailMentioning(text string) error {
	c := SharedConfigContext
	if c.err == nil {
		return fmt.Errorf("expected loading to fail")
	}
	if !strings.Contains(c.err.Error(), text) {
		return fmt.Errorf("expected error to mention %q, got: %v", text, c.err)
	}
	return nil
}

func (c *configContext) current() (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(c.configPath)
	return cfg, err
}

func iRunConfigSet(key, value string) error {
	c := SharedConfigContext
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, c.output)
	return nil
}

func iRunConfigGet(key string) error {
	c := SharedConfigContext
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigGetWithDependencies(cfg, c.configPath, key, c.output)
	return nil
}

func iRunConfigList() error {
	c := SharedConfigContext
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigListWithDependencies(cfg, c.configPath, c.output)
	return nil
}

func theConfigCommandShouldFail() error {
	if SharedConfigContext.err == nil {
		return fmt.Errorf("expected the command to fail")
	}
	return nil
}

func theConfigOutputShouldContain(text string) error {
	c := SharedConfigContext
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func theConfigurationShouldHaveSetTo(key, expected string) error {
	c := SharedConfigContext
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	got, err := config.NewConfigManager(cfg, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, got)
	}
	return nil
}
