package port_reader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/NotCoffee418/household_power/pkg/types"
	"github.com/jacobsa/go-serial/serial"
	"github.com/rs/zerolog"
	"github.com/sigurn/crc16"
)

const maxConsecutiveErrors = 10

// DSMR telegram clocks are local Belgian/Dutch time, the suffix tells DST apart.
var (
	winterTime = time.FixedZone("CET", 1*60*60)
	summerTime = time.FixedZone("CEST", 2*60*60)
)

// Use CRC16_ARC which matches the DSMR specification
var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// Initialize a new P1Reader client.
func NewP1Reader(port string, baudrate uint, logger zerolog.Logger) *P1Reader {
	return &P1Reader{
		port:     port,
		baudrate: baudrate,
		logger:   logger,
		open: func(options serial.OpenOptions) (io.ReadWriteCloser, error) {
			return serial.Open(options)
		},
		retryDelay: time.Second,
	}
}

// Run reads telegrams and hands every valid standing to handleStanding until ctx
// is done. Invalid telegrams are skipped; ten read errors in a row end the run.
func (p *P1Reader) Run(ctx context.Context, handleStanding func(standing *types.MeterStanding)) error {
	port, err := p.open(serial.OpenOptions{
		PortName:        p.port,
		BaudRate:        p.baudrate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	p.logger.Info().Str("port", p.port).Msg("connected to P1 port")

	// Closing the port unblocks a pending read
	stop := context.AfterFunc(ctx, func() { port.Close() })
	defer func() {
		if stop() {
			port.Close()
		}
		p.logger.Info().Msg("disconnected from P1 port")
	}()

	reader := bufio.NewReader(port)
	consecutiveErrors := 0
	var lastError error

	for consecutiveErrors < maxConsecutiveErrors {
		telegram, err := readTelegram(reader)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			consecutiveErrors++
			lastError = err
			p.logger.Warn().Err(err).
				Int("errors", consecutiveErrors).
				Int("max_errors", maxConsecutiveErrors).
				Msg("error reading telegram")
			select {
			case <-time.After(p.retryDelay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		consecutiveErrors = 0

		standing, err := ParseTelegram(telegram)
		if err != nil {
			p.logger.Warn().Err(err).Msg("skipping telegram")
			continue
		}
		handleStanding(standing)
	}

	return fmt.Errorf("%w: %v", ErrTooManyErrors, lastError)
}

func readTelegram(reader *bufio.Reader) (string, error) {
	var buffer strings.Builder
	var inTelegram bool

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}

		if strings.HasPrefix(line, "/") {
			// Start of telegram
			buffer.Reset()
			buffer.WriteString(line)
			inTelegram = true
		} else if inTelegram {
			buffer.WriteString(line)
			if strings.HasPrefix(strings.TrimSpace(line), "!") {
				// End of telegram
				return buffer.String(), nil
			}
		}
	}
}

// ValidateCRC checks the CRC16 trailing the '!' against everything before it,
// the '!' included.
func ValidateCRC(telegram string) bool {
	parts := strings.Split(telegram, "!")
	if len(parts) != 2 || len(parts[1]) < 4 {
		return false
	}

	data := parts[0] + "!"
	givenCRC := parts[1][:4]
	calcCRC := fmt.Sprintf("%04X", crc16.Checksum([]byte(data), crcTable))

	return strings.ToUpper(givenCRC) == calcCRC
}

// ParseTelegram extracts the cumulative registers of a DSMR telegram.
// A telegram without a clock line is stamped with the current time.
func ParseTelegram(telegram string) (*types.MeterStanding, error) {
	if !ValidateCRC(telegram) {
		return nil, ErrInvalidCRC
	}

	standing := &types.MeterStanding{
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}

	if match := timestampPattern.FindStringSubmatch(telegram); match != nil {
		zone := winterTime
		if match[2] == "S" {
			zone = summerTime
		}
		ts, err := time.ParseInLocation("060102150405", match[1], zone)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadTimestamp, err)
		}
		standing.Timestamp = ts.UTC()
	}

	setters := map[string]*float64{
		"consumption_day":   &standing.ConsumptionDayKWH,
		"consumption_night": &standing.ConsumptionNightKWH,
		"production_day":    &standing.ProductionDayKWH,
		"production_night":  &standing.ProductionNightKWH,
		"gas":               &standing.GasM3,
	}

	found := 0
	for register, target := range setters {
		match := registerPatterns[register].FindStringSubmatch(telegram)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", register, err)
		}
		*target = value
		if register != "gas" {
			found++
		}
	}
	if found == 0 {
		return nil, ErrNoRegisters
	}

	return standing, nil
}
