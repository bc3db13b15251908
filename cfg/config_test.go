// Copyright 2024 The gcsclient Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfg

import (
	"os"
	"testing"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	flagSet *pflag.FlagSet
	v       *viper.Viper
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (t *ConfigTestSuite) SetupTest() {
	t.flagSet = pflag.NewFlagSet("gcsc", pflag.ContinueOnError)
	var err error
	t.v, err = BindFlags(t.flagSet)
	require.NoError(t.T(), err)
}

func (t *ConfigTestSuite) unmarshal() Config {
	var config Config
	err := t.v.Unmarshal(&config, viper.DecodeHook(DecodeHook()), func(decoderConfig *mapstructure.DecoderConfig) {
		decoderConfig.TagName = "yaml"
	})
	require.NoError(t.T(), err)
	return config
}

func (t *ConfigTestSuite) TestDefaults() {
	require.NoError(t.T(), t.flagSet.Parse(nil))

	config := t.unmarshal()

	assert.Equal(t.T(), "", config.GcsConnection.Endpoint)
	assert.Equal(t.T(), "", config.GcsConnection.KeyFile)
	assert.Equal(t.T(), time.Duration(0), config.GcsConnection.HttpClientTimeout)
	assert.Equal(t.T(), 0, config.GcsConnection.MaxConnsPerHost)
	assert.Equal(t.T(), 100, config.GcsConnection.MaxIdleConnsPerHost)
	assert.Equal(t.T(), "http1", config.GcsConnection.ClientProtocol)
	assert.Equal(t.T(), 5, config.Retries.MaxRetries)
	assert.Equal(t.T(), 1*time.Second, config.Retries.InitialDelay)
	assert.Equal(t.T(), 32*time.Second, config.Retries.MaxDelay)
	assert.Equal(t.T(), 2.0, config.Retries.Multiplier)
	assert.Equal(t.T(), 5*time.Minute, config.Retries.MaxElapsed)
	assert.True(t.T(), config.Retries.Randomize)
	assert.False(t.T(), config.Retries.Disabled)
	assert.Equal(t.T(), "", config.Logging.FilePath)
	assert.Equal(t.T(), "text", config.Logging.Format)
	assert.Equal(t.T(), "INFO", config.Logging.Severity)

	assert.NoError(t.T(), ValidateConfig(&config))
}

func (t *ConfigTestSuite) TestFlagOverrides() {
	require.NoError(t.T(), t.flagSet.Parse([]string{
		"--endpoint=http://localhost:9000/storage/v1",
		"--key-file=/tmp/key.json",
		"--client-protocol=http2",
		"--max-retries=2",
		"--retry-initial-delay=100ms",
		"--max-retry-sleep=4s",
		"--retry-multiplier=1.5",
		"--disable-retries",
		"--log-format=json",
		"--log-severity=TRACE",
	}))

	config := t.unmarshal()

	assert.Equal(t.T(), "http://localhost:9000/storage/v1", config.GcsConnection.Endpoint)
	assert.Equal(t.T(), "/tmp/key.json", config.GcsConnection.KeyFile)
	assert.Equal(t.T(), "http2", config.GcsConnection.ClientProtocol)
	assert.Equal(t.T(), 2, config.Retries.MaxRetries)
	assert.Equal(t.T(), 100*time.Millisecond, config.Retries.InitialDelay)
	assert.Equal(t.T(), 4*time.Second, config.Retries.MaxDelay)
	assert.Equal(t.T(), 1.5, config.Retries.Multiplier)
	assert.True(t.T(), config.Retries.Disabled)
	assert.Equal(t.T(), "json", config.Logging.Format)
	assert.Equal(t.T(), "TRACE", config.Logging.Severity)

	assert.NoError(t.T(), ValidateConfig(&config))
}

func (t *ConfigTestSuite) TestConfigFileValuesApply() {
	require.NoError(t.T(), t.flagSet.Parse(nil))
	t.v.SetConfigType("yaml")
	file := t.T().TempDir() + "/config.yaml"
	yaml := []byte("retries:\n  max-retries: 9\n  initial-delay: 250ms\nlogging:\n  severity: ERROR\n")
	require.NoError(t.T(), os.WriteFile(file, yaml, 0o644))
	t.v.SetConfigFile(file)
	require.NoError(t.T(), t.v.ReadInConfig())

	config := t.unmarshal()

	assert.Equal(t.T(), 9, config.Retries.MaxRetries)
	assert.Equal(t.T(), 250*time.Millisecond, config.Retries.InitialDelay)
	assert.Equal(t.T(), "ERROR", config.Logging.Severity)
	// Untouched knobs keep their flag defaults.
	assert.Equal(t.T(), 32*time.Second, config.Retries.MaxDelay)
}

func (t *ConfigTestSuite) TestFlagsOverrideConfigFile() {
	require.NoError(t.T(), t.flagSet.Parse([]string{"--max-retries=1"}))
	t.v.SetConfigType("yaml")
	file := t.T().TempDir() + "/config.yaml"
	require.NoError(t.T(), os.WriteFile(file, []byte("retries:\n  max-retries: 9\n"), 0o644))
	t.v.SetConfigFile(file)
	require.NoError(t.T(), t.v.ReadInConfig())

	config := t.unmarshal()

	assert.Equal(t.T(), 1, config.Retries.MaxRetries)
}

func (t *ConfigTestSuite) TestValidateConfigRejections() {
	base := func() *Config {
		require.NoError(t.T(), t.flagSet.Parse(nil))
		config := t.unmarshal()
		return &config
	}

	config := base()
	config.GcsConnection.ClientProtocol = "spdy"
	assert.ErrorContains(t.T(), ValidateConfig(config), "client-protocol")

	config = base()
	config.Retries.MaxRetries = -1
	assert.ErrorContains(t.T(), ValidateConfig(config), "max-retries")

	config = base()
	config.Retries.InitialDelay = -time.Second
	assert.ErrorContains(t.T(), ValidateConfig(config), "negative")

	config = base()
	config.Retries.InitialDelay = time.Minute
	config.Retries.MaxDelay = time.Second
	assert.ErrorContains(t.T(), ValidateConfig(config), "exceeds")

	config = base()
	config.Retries.Multiplier = 0.5
	assert.ErrorContains(t.T(), ValidateConfig(config), "multiplier")

	config = base()
	config.Logging.Severity = "VERBOSE"
	assert.ErrorContains(t.T(), ValidateConfig(config), "severity")

	config = base()
	config.Logging.Format = "xml"
	assert.ErrorContains(t.T(), ValidateConfig(config), "format")
}
