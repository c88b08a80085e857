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

// Package main is entry point for ptp-inspect utility. ptp-inspect decodes PTP messages given as hex, as file with one
// hex packet per line or as pcap capture, prints them and, when security association is configured, replays them
// through one security context and prints verdicts including messages released from the delayed buffer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dragosmaftei/ptpd/cmd"
	"github.com/dragosmaftei/ptpd/config"
	"github.com/dragosmaftei/ptpd/logging"
	"github.com/dragosmaftei/ptpd/security"
	"github.com/dragosmaftei/ptpd/utils"
	log "github.com/sirupsen/logrus"
)

var (
	defaultConfigPath = cmd.GetConfigPathByName(cmd.ServiceInspect)
	serviceName       = cmd.ServiceInspect
)

func main() {
	packetHex := flag.String("packet", "", "PTP message in hex")
	packetFile := flag.String("packet_file", "", "File with one hex PTP message per line")
	pcapFile := flag.String("pcap_file", "", "pcap capture with PTP over UDP ports 319/320 or ethernet type 0x88F7")
	role := flag.String("role", "", "Port role selecting accept insecure policy: master or slave. Overrides config")
	logFormat := flag.String("log_format", "", "Logging format: plaintext or json. Overrides config")
	debug := flag.Bool("d", false, "Turn on debug logging")
	prometheusAddress := flag.String("prometheus_metrics_address", "", "Address of HTTP endpoint exporting metrics after replay, e.g. "+cmd.DefaultPrometheusListenAddr)

	logging.SetLogLevel(logging.LogVerbose)
	if err := cmd.Parse(defaultConfigPath, serviceName); err != nil {
		log.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantReadServiceConfig).
			Errorln("Can't parse args")
		os.Exit(1)
	}

	serviceConfig, err := loadConfig(cmd.ConfigPath(defaultConfigPath))
	if err != nil {
		log.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorWrongConfiguration).
			Errorln("Invalid config")
		os.Exit(1)
	}
	if *logFormat != "" {
		serviceConfig.Log.Format = *logFormat
	}
	if *debug {
		serviceConfig.Log.Level = config.LogLevelDebug
	}
	if err := serviceConfig.Log.Apply(serviceName); err != nil {
		log.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorWrongParam).
			Errorln("Invalid log settings")
		os.Exit(1)
	}
	logger := log.WithField("service", serviceName)

	packets, err := loadPackets(*packetHex, *packetFile, *pcapFile)
	if err != nil {
		logger.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantReadCapture).
			Errorln("Can't read packets")
		os.Exit(1)
	}

	worker := &inspector{output: os.Stdout, role: serviceConfig.Transport.PortRole()}
	if *role != "" {
		worker.role, err = security.ParseRole(*role)
		if err != nil {
			logger.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorWrongParam).
				Errorln("Invalid --role")
			os.Exit(1)
		}
	}
	exitHandler := cmd.NewExitHandler()
	if serviceConfig.Security != nil {
		worker.context, err = newSecurityContext(serviceConfig, logger)
		if err != nil {
			os.Exit(1)
		}
		exitHandler.AddDeferFunc(cmd.NewPriorityFunc(worker.context.Close, cmd.Last))
	}

	security.RegisterMetrics()
	result := worker.run(logging.SetLoggerToContext(context.Background(), logger), packets)
	printSummary(worker, result)

	if *prometheusAddress == "" {
		if worker.context != nil {
			worker.context.Close()
		}
		return
	}
	version, err := utils.GetParsedVersion()
	if err != nil {
		logger.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorGeneral).Errorln("Can't parse version")
		exitHandler.ExitOne()
	}
	cmd.RegisterVersionMetrics(serviceName, version)
	cmd.RegisterBuildInfoMetrics(serviceName, version)
	listener, server, err := cmd.RunPrometheusHTTPHandler(*prometheusAddress)
	if err != nil {
		logger.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantStartListenConnections).
			Errorln("Can't start prometheus http handler")
		exitHandler.ExitOne()
	}
	exitHandler.AddListener(listener)
	exitHandler.AddCallback(cmd.NewPriorityFunc(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cmd.DefaultNetworkTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Warningln("Can't stop prometheus http handler")
		}
	}, cmd.Indifferent))
	logger.WithField(logging.FieldKeyEventCode, logging.EventCodeGeneral).Infoln("Metrics exported until interrupted")
	exitHandler.WaitForExitSystemSignal()
}

func loadConfig(path string) (*config.Config, error) {
	exists, err := utils.FileExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newSecurityContext builds security context of configured port and logs the reason of failure
func newSecurityContext(serviceConfig *config.Config, logger *log.Entry) (*security.Context, error) {
	settings, err := serviceConfig.Security.Settings()
	if err != nil {
		logger.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantReadKeys).
			Errorln("Can't load key material")
		return nil, err
	}
	defer utils.ZeroizeSymmetricKey(settings.Key)
	port, err := serviceConfig.Transport.PortSettings()
	if err != nil {
		logger.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorWrongConfiguration).
			Errorln("Invalid transport config")
		return nil, err
	}
	ctx, err := security.NewContext(settings, security.WithLogger(logger.WithField(logging.FieldKeyPort, port.PortIdentity.String())))
	if err != nil {
		logger.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantStartService).
			Errorln("Can't initialize security context")
		return nil, err
	}
	return ctx, nil
}

func loadPackets(packetHex, packetFile, pcapFile string) ([][]byte, error) {
	switch {
	case packetHex != "":
		packet, err := utils.DecodeHex(packetHex)
		if err != nil {
			return nil, err
		}
		return [][]byte{packet}, nil
	case packetFile != "":
		file, err := os.Open(packetFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return readHexPackets(file)
	case pcapFile != "":
		file, err := os.Open(pcapFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return readCapturePackets(file)
	}
	return nil, fmt.Errorf("%w: pass --packet, --packet_file or --pcap_file", ErrNoPackets)
}

func printSummary(worker *inspector, result summary) {
	verdicts := make([]string, 0, len(result))
	for verdict := range result {
		verdicts = append(verdicts, verdict)
	}
	sort.Strings(verdicts)
	fmt.Fprintln(worker.output, "summary:")
	for _, verdict := range verdicts {
		fmt.Fprintf(worker.output, "  %s: %d\n", verdict, result[verdict])
	}
	if worker.context == nil {
		return
	}
	fmt.Fprintf(worker.output, "  pending: %d\n", worker.context.Pending())
	fmt.Fprintf(worker.output, "  counters: %+v\n", worker.context.Counters())
}
