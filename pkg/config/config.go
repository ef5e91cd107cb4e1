/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

type MonitorConfig struct {
	Address     string `json:"address,omitempty"`
	MonitorPort int    `json:"monitorPort,omitempty"`
	FramePort   int    `json:"framePort,omitempty"`
	TerminalRT  uint8  `json:"terminalRT"`
}

type ApiConfig struct {
	Address string `json:"address,omitempty"`
	Port    int    `json:"port,omitempty"`
}

type Config struct {
	*MonitorConfig `json:"monitor,omitempty"`
	*ApiConfig     `json:"api,omitempty"`
	LogLevel       string `json:"logLevel,omitempty"`
	CapturePath    string `json:"capturePath,omitempty"`
	filepath       string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = os.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

// Load reads the config file over the current values. A missing file is not
// an error, the defaults stay in effect.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

// SetPath overrides where the config file and its sibling state files live.
func (c *Config) SetPath(path string) {
	c.filepath = path
}

// Path returns the config file location.
func (c *Config) Path() string {
	return c.filepath
}

// MonitorAddr returns the host:port the bus-monitor record listener binds.
func (c *Config) MonitorAddr() string {
	return fmt.Sprintf("%s:%d", c.MonitorConfig.Address, c.MonitorConfig.MonitorPort)
}

// FrameAddr returns the host:port the raw frame listener binds.
func (c *Config) FrameAddr() string {
	return fmt.Sprintf("%s:%d", c.MonitorConfig.Address, c.MonitorConfig.FramePort)
}

// ApiAddr returns the host:port the HTTP API binds.
func (c *Config) ApiAddr() string {
	return fmt.Sprintf("%s:%d", c.ApiConfig.Address, c.ApiConfig.Port)
}

// JournalPath returns the path of the bbolt journal database.
func (c *Config) JournalPath() string {
	return filepath.Join(filepath.Dir(c.filepath), JournalFile)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultCapturePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, CaptureDir)
}

func NewDefaultConfig() *Config {
	return &Config{
		MonitorConfig: &MonitorConfig{
			Address:     DefaultAddress,
			MonitorPort: DefaultMonitorPort,
			FramePort:   DefaultFramePort,
			TerminalRT:  DefaultTerminalRT,
		},
		ApiConfig: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		LogLevel:    DefaultLogLevel,
		CapturePath: DefaultCapturePath(),
		filepath:    DefaultConfigPath(),
	}
}
