/*
Copyright 2026, The ptpd Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	flag_ "flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/dragosmaftei/ptpd/utils"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var (
	configFlag = flag_.String("config_file", "", "path to config")
	dumpconfig = flag_.Bool("dump_config", false, "dump config")
)

func init() {
	// override default usage message by ours
	flag_.CommandLine.Usage = PrintDefaults
}

func isZeroValue(flag *flag_.Flag, value string) bool {
	/* took from flag/flag.go */

	// Build a zero value of the flag's Value type, and see if the
	// result of calling its String method equals the value passed in.
	// This works unless the Value type is itself an interface type.
	typ := reflect.TypeOf(flag.Value)
	var z reflect.Value
	if typ.Kind() == reflect.Ptr {
		z = reflect.New(typ.Elem())
	} else {
		z = reflect.Zero(typ)
	}
	if value == z.Interface().(flag_.Value).String() {
		return true
	}

	switch value {
	case "false", "", "0":
		return true
	}
	return false
}

// PrintDefaults prints flags of CommandLine with -/-- prefix depending on name length
func PrintDefaults() {
	PrintFlags(flag_.CommandLine, os.Stderr)
}

// PrintFlags writes usage of every flag of set into output
func PrintFlags(set *flag_.FlagSet, output io.Writer) {
	/* took from flag/flag.go and overrided arg display format (-/--) */
	set.VisitAll(func(flag *flag_.Flag) {
		var s string
		if len(flag.Name) > 2 {
			s = fmt.Sprintf("  --%s", flag.Name)
		} else {
			s = fmt.Sprintf("  -%s", flag.Name)
		}
		if len(s) <= 4 {
			// space, space, '-', 'x'.
			s += "\t"
		} else {
			s += "\n    \t"
		}
		s += flag.Usage
		if !isZeroValue(flag, flag.DefValue) {
			getter, ok := flag.Value.(flag_.Getter)
			if !ok {
				return
			}
			if _, ok := getter.Get().(string); ok {
				s += fmt.Sprintf(" (default %q)", flag.DefValue)
			} else {
				s += fmt.Sprintf(" (default %v)", flag.DefValue)
			}
		}
		fmt.Fprint(output, s, "\n")
	})
}

// GenerateYaml writes every flag of set as commented yaml option
func GenerateYaml(set *flag_.FlagSet, output io.Writer, useDefault bool) {
	set.VisitAll(func(flag *flag_.Flag) {
		value := flag.Value.String()
		if useDefault {
			value = flag.DefValue
		}
		fmt.Fprintf(output, "# %v\n%v: %v\n\n", flag.Usage, flag.Name, value)
	})
}

// DumpConfig writes flags with default values as yaml into configPath
func DumpConfig(configPath string, useDefault bool) error {
	absPath, err := utils.AbsPath(configPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0744); err != nil {
		return err
	}
	file, err := os.Create(absPath)
	if err != nil {
		return err
	}
	defer file.Close()

	GenerateYaml(flag_.CommandLine, file, useDefault)
	log.Infof("Config dumped to %s", configPath)
	return nil
}

// ParseFlags parses args into set and then fills flags which weren't passed from yaml file configPath. Missing file
// is not an error
func ParseFlags(set *flag_.FlagSet, args []string, configPath string) error {
	if err := set.Parse(args); err != nil {
		return err
	}
	if configPath == "" {
		return nil
	}
	configPath, err := utils.AbsPath(configPath)
	if err != nil {
		return err
	}
	exists, err := utils.FileExists(configPath)
	if err != nil || !exists {
		return err
	}
	data, err := utils.ReadFile(configPath)
	if err != nil {
		return err
	}
	yamlConfig := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return err
	}
	setArgs := make(map[string]bool)
	set.Visit(func(flag *flag_.Flag) {
		setArgs[flag.Name] = true
	})
	var setErr error
	set.VisitAll(func(flag *flag_.Flag) {
		if setArgs[flag.Name] || setErr != nil {
			return
		}
		// nested sections belong to service config, not to flags
		if value, ok := yamlConfig[flag.Name]; ok && value != nil {
			switch value.(type) {
			case map[interface{}]interface{}, []interface{}:
				return
			}
			setErr = set.Set(flag.Name, fmt.Sprintf("%v", value))
		}
	})
	return setErr
}

// Parse loads flags of CommandLine from os.Args and yaml config. --config_file overrides configPath. With
// --dump_config the defaults are written into config and the process exits
func Parse(configPath, serviceName string) error {
	log.WithField("service", serviceName).Debugln("Parsing config")
	if err := flag_.CommandLine.Parse(os.Args[1:]); err != nil {
		return err
	}
	if *configFlag != "" {
		configPath = *configFlag
	}
	if err := ParseFlags(flag_.CommandLine, os.Args[1:], configPath); err != nil {
		return err
	}
	if *dumpconfig {
		if err := DumpConfig(configPath, true); err != nil {
			return err
		}
		os.Exit(0)
	}
	return nil
}

// ConfigPath returns path passed with --config_file or defaultPath
func ConfigPath(defaultPath string) string {
	if *configFlag != "" {
		return *configFlag
	}
	return defaultPath
}
