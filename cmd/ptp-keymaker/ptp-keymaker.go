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

// Package main is entry point for ptp-keymaker utility. ptp-keymaker generates TESLA key chain from random seed, hex
// seed or master key from environment, writes it to yaml file and prints the trust anchor which receivers should be
// configured with.
package main

import (
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dragosmaftei/ptpd/cmd"
	"github.com/dragosmaftei/ptpd/config"
	"github.com/dragosmaftei/ptpd/logging"
	"github.com/dragosmaftei/ptpd/security"
	"github.com/dragosmaftei/ptpd/utils"
	log "github.com/sirupsen/logrus"
)

var (
	defaultConfigPath = cmd.GetConfigPathByName(cmd.ServiceKeymaker)
	serviceName       = cmd.ServiceKeymaker
)

func main() {
	seedHex := flag.String("seed", "", "Chain seed in hex")
	masterKeyEnv := flag.String("master_key_env", "", "Environment variable with hex master key used to derive seed")
	keyID := flag.Uint("key_id", 0, "Key ID mixed into seed derived from master key")
	chainLength := flag.Int("chain_length", cmd.DefaultChainLength, "Count of intervals covered by chain")
	output := flag.String("output", cmd.DefaultKeymakerOutput, "Path of yaml file with generated chain")
	receiverOutput := flag.String("receiver_output", "", "Path of yaml file with trust anchor only, for receivers")
	debug := flag.Bool("d", false, "Turn on debug logging")

	logging.SetLogLevel(logging.LogVerbose)
	if err := cmd.Parse(defaultConfigPath, serviceName); err != nil {
		log.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantReadServiceConfig).
			Errorln("Can't parse args")
		os.Exit(1)
	}
	if *debug {
		logging.SetLogLevel(logging.LogDebug)
	}
	logging.SetServiceName(logging.CreateFormatter(logging.PlaintextFormatString), serviceName)

	seed, err := loadSeed(*seedHex, *masterKeyEnv, uint32(*keyID))
	if err != nil {
		log.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantLoadMasterKey).
			Errorln("Can't load chain seed")
		os.Exit(1)
	}
	defer utils.ZeroizeSymmetricKey(seed)

	chain, err := security.GenerateChain(seed, *chainLength)
	if err != nil {
		log.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantGenerateChain).
			Errorln("Can't generate key chain")
		os.Exit(1)
	}
	defer chain.Zeroize()

	file := config.NewChainFile(uint32(*keyID), chain)
	if err := file.Write(*output); err != nil {
		log.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantWriteKeys).
			WithField("path", *output).Errorln("Can't write key chain")
		os.Exit(1)
	}
	log.WithField("path", *output).Infof("Key chain of %d intervals saved", chain.Length())
	if *receiverOutput != "" {
		if err := file.Receiver().Write(*receiverOutput); err != nil {
			log.WithError(err).WithField(logging.FieldKeyEventCode, logging.EventCodeErrorCantWriteKeys).
				WithField("path", *receiverOutput).Errorln("Can't write trust anchor")
			os.Exit(1)
		}
	}
	fmt.Printf("%x\n", chain.Anchor())
}

// loadSeed returns seed from hex, derives it from master key in environment, or generates random one
func loadSeed(seedHex, masterKeyEnv string, keyID uint32) ([]byte, error) {
	switch {
	case seedHex != "" && masterKeyEnv != "":
		return nil, errors.New("--seed and --master_key_env are mutually exclusive")
	case seedHex != "":
		return utils.DecodeHex(seedHex)
	case masterKeyEnv != "":
		master, err := utils.DecodeHex(os.Getenv(masterKeyEnv))
		if err != nil {
			return nil, err
		}
		defer utils.ZeroizeSymmetricKey(master)
		return security.DeriveSeed(master, keyID)
	}
	seed := make([]byte, security.KeyLength)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return seed, nil
}
