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
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dragosmaftei/ptpd/logging"
	"github.com/dragosmaftei/ptpd/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// DefaultNetworkTimeout of prometheus http server
const DefaultNetworkTimeout = 5 * time.Second

// RunPrometheusHTTPHandler run in goroutine http server that listens on address and exports prometheus metrics
func RunPrometheusHTTPHandler(address string) (net.Listener, *http.Server, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Handler: mux, ReadTimeout: DefaultNetworkTimeout, WriteTimeout: DefaultNetworkTimeout}
	go func() {
		log.WithField("address", listener.Addr().String()).Infoln("Start prometheus http handler")
		err := server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantStartListenConnections).WithError(err).Errorln("Error from HTTP server that process prometheus metrics")
		}
	}()
	return listener, server, nil
}

// serviceNameToLabelFormat convert service name to lower case and remove all '-'
// ex. ptp-inspect will be changed to ptpinspect
func serviceNameToLabelFormat(serviceName string) string {
	const replaceAll = -1
	return strings.ToLower(strings.Replace(serviceName, "-", "", replaceAll))
}

var (
	majorVersionGauge *prometheus.GaugeVec
	minorVersionGauge *prometheus.GaugeVec
	patchVersionGauge *prometheus.GaugeVec
	buildInfoCounter  *prometheus.CounterVec
)

// BuildInfoVersionLabel label of build info metric
const BuildInfoVersionLabel = "version"

// exportVersionMetric set values for version metrics
func exportVersionMetric(version *utils.Version) {
	majorVersionGauge.With(nil).Set(version.MajorAsFloat64())
	minorVersionGauge.With(nil).Set(version.MinorAsFloat64())
	patchVersionGauge.With(nil).Set(version.PatchAsFloat64())
}

var registerVersionMetricsLock = sync.Once{}

// RegisterVersionMetrics set and register metrics with current version value
func RegisterVersionMetrics(serviceName string, version *utils.Version) {
	registerVersionMetricsLock.Do(func() {
		labelServiceName := serviceNameToLabelFormat(serviceName)
		majorVersionGauge = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: fmt.Sprintf("%s_version_major", labelServiceName),
				Help: "Major number of version",
			}, []string{})
		minorVersionGauge = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: fmt.Sprintf("%s_version_minor", labelServiceName),
				Help: "Minor number of version",
			}, []string{})
		patchVersionGauge = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: fmt.Sprintf("%s_version_patch", labelServiceName),
				Help: "Patch number of version",
			}, []string{})
		prometheus.MustRegister(majorVersionGauge, minorVersionGauge, patchVersionGauge)
		exportVersionMetric(version)
	})
}

var registerBuildInfoLock = sync.Once{}

// RegisterBuildInfoMetrics set and register metrics with build info
func RegisterBuildInfoMetrics(serviceName string, version *utils.Version) {
	registerBuildInfoLock.Do(func() {
		buildInfoCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%s_build_info", serviceNameToLabelFormat(serviceName)),
				Help: "Build info",
			}, []string{BuildInfoVersionLabel})
		prometheus.MustRegister(buildInfoCounter)
		// increment on start only once
		buildInfoCounter.With(prometheus.Labels{BuildInfoVersionLabel: version.String()}).Inc()
	})
}
