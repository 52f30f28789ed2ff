package port_reader

import "errors"

var (
	ErrInvalidCRC    = errors.New("port_reader: invalid telegram crc")
	ErrNoRegisters   = errors.New("port_reader: telegram has no electricity registers")
	ErrTooManyErrors = errors.New("port_reader: too many consecutive read errors")
	ErrBadTimestamp  = errors.New("port_reader: malformed telegram timestamp")
)
