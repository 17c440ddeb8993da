// tickos-mon attaches to a serial port and prints the kernel trace stream.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"tickos/host/monitor"
	"tickos/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	verbose = flag.Bool("verbose", false, "Enable debug output")
)

func main() {
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		log.WithError(err).Error("connect failed")
		os.Exit(1)
	}
	defer port.Close()

	log.WithField("device", *device).Info("monitoring trace stream")
	m := monitor.New(port, log)
	if err := m.Run(); err != nil {
		log.WithError(err).Error("stream closed")
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"frames": m.Frames,
		"events": m.Events,
	}).Info("stream ended")
}
