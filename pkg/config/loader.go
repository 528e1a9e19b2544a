package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tabkit/tabkit/pkg/errors"
)

// Load reads a job configuration from a YAML file. Values of the form
// ${VAR_NAME} are substituted from the environment before parsing.
func Load(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is caller-controlled
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file").
			WithDetail("file", path)
	}

	jc := NewJobConfig("")
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), jc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
			WithDetail("file", path)
	}

	if err := jc.Validate(); err != nil {
		return nil, err
	}
	return jc, nil
}

// Save writes a job configuration to a YAML file.
func Save(path string, jc *JobConfig) error {
	data, err := yaml.Marshal(jc)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to write config file").
			WithDetail("file", path)
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		content = content[:start] + os.Getenv(varName) + content[end+1:]
	}
	return content
}
