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

// Package cmd contains shared settings and helpers of ptpd command line utilities.
package cmd

import "fmt"

// Service names
const (
	ServiceKeymaker = "ptp-keymaker"
	ServiceInspect  = "ptp-inspect"
)

// Defaults shared by utilities
const (
	DefaultChainLength          = 3600
	DefaultKeymakerOutput       = "configs/ptp-chain.yaml"
	DefaultPrometheusListenAddr = "127.0.0.1:9399"
)

// GetConfigPathByName returns default path of service config
func GetConfigPathByName(name string) string {
	return fmt.Sprintf("configs/%s.yaml", name)
}
