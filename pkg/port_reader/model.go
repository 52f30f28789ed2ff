package port_reader

import (
	"io"
	"regexp"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/rs/zerolog"
)

type P1Reader struct {
	port     string
	baudrate uint
	logger   zerolog.Logger

	// Swappable for tests
	open       func(serial.OpenOptions) (io.ReadWriteCloser, error)
	retryDelay time.Duration
}

// Cumulative registers, all in kWh except gas
var registerPatterns = map[string]*regexp.Regexp{
	"consumption_day":   regexp.MustCompile(`1-0:1\.8\.1\((\d+\.\d+)\*kWh\)`),
	"consumption_night": regexp.MustCompile(`1-0:1\.8\.2\((\d+\.\d+)\*kWh\)`),
	"production_day":    regexp.MustCompile(`1-0:2\.8\.1\((\d+\.\d+)\*kWh\)`),
	"production_night":  regexp.MustCompile(`1-0:2\.8\.2\((\d+\.\d+)\*kWh\)`),
	"gas":               regexp.MustCompile(`0-1:24\.2\.3\(\d{12}[WS]\)\((\d+\.\d+)\*m3\)`),
}

var timestampPattern = regexp.MustCompile(`0-0:1\.0\.0\((\d{12})([WS])\)`)
