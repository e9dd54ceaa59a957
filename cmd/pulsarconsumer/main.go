// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command pulsarconsumer is a demo binary: it wires a ManagedConsumer from
// flags/env and prints the payload of every message it receives. It is not
// part of the client library.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pepper-iot/pulsar-client-go/core/client"
	"github.com/pepper-iot/pulsar-client-go/core/manage"
	"github.com/pepper-iot/pulsar-client-go/pkg/log"
)

func main() {
	var (
		addr         = flag.String("addr", envOr("PULSAR_ADDR", "localhost:6650"), "broker address (host:port)")
		topic        = flag.String("topic", os.Getenv("PULSAR_TOPIC"), "topic to subscribe to")
		subName      = flag.String("subscription", os.Getenv("PULSAR_SUBSCRIPTION"), "subscription name")
		subMode      = flag.String("sub-mode", "exclusive", "subscription mode: exclusive, shared, or failover")
		earliest     = flag.Bool("earliest", false, "start the subscription cursor at the earliest available message")
		queueSize    = flag.Int("queue-size", 1000, "receiver queue size")
		logFile      = flag.String("log-file", "", "path to a rotating log file; stderr if empty")
		packetTrace  = flag.Bool("packet-trace", false, "enable the gopacket-based frame-boundary tracer")
		netdiagIface = flag.String("netdiag-iface", "", "interface to sniff for -packet-trace; defaults to the loopback hint")
	)
	flag.Parse()

	if *topic == "" || *subName == "" {
		log.Fallback.Fatal("both -topic and -subscription are required")
	}

	logger := log.New(log.Config{FilePath: *logFile})
	log.SetDefault(logger)

	mode, err := parseSubMode(*subMode)
	if err != nil {
		log.Fallback.Fatal(err)
	}

	pool := manage.NewClientPool(logger)
	errs := make(chan error, 16)
	go func() {
		for err := range errs {
			logger.WithError(err).Warn("managed consumer background error")
		}
	}()

	cfg := manage.ConsumerConfig{
		ClientConfig: manage.ClientConfig{
			ClientConfig: client.ClientConfig{
				Addr:         *addr,
				PacketTrace:  *packetTrace,
				NetdiagIface: *netdiagIface,
			},
			Errs: errs,
		},
		Topic:     *topic,
		Name:      *subName,
		SubMode:   mode,
		Earliest:  *earliest,
		QueueSize: *queueSize,
	}

	mc := manage.NewManagedConsumer(pool, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("consuming topic=%s subscription=%s mode=%s", *topic, *subName, *subMode)

	for {
		message, err := mc.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.WithError(err).Warn("receive failed")
			continue
		}

		fmt.Printf("%s %s\n", message.ID, message.Payload)

		ackCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mc.Ack(ackCtx, message); err != nil {
			logger.WithError(err).Warn("ack failed")
		}
		cancel()
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.Close(closeCtx); err != nil {
		logger.WithError(err).Warn("close failed")
	}
}

func parseSubMode(s string) (manage.SubscriptionMode, error) {
	switch s {
	case "exclusive":
		return manage.SubscriptionModeExclusive, nil
	case "shared":
		return manage.SubscriptionModeShard, nil
	case "failover":
		return manage.SubscriptionModeFailover, nil
	default:
		return 0, fmt.Errorf("unrecognized -sub-mode %q", s)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
