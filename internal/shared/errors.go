package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Gateway errors. Connection and creation failures are fatal and abort
	// the run; not-found and add failures are recoverable and downgrade the
	// run to a partial success.
	ErrGatewayConnection = fmt.Errorf("gateway connection failed")
	ErrGatewayClosed     = fmt.Errorf("gateway not connected")
	ErrGatewayResponse   = fmt.Errorf("malformed gateway response")
	ErrPlaylistCreation  = fmt.Errorf("playlist creation failed")
	ErrTrackNotFound     = fmt.Errorf("track not found")
	ErrTrackAdd          = fmt.Errorf("failed to add tracks")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Persistence errors
	ErrRunNotFound = fmt.Errorf("run not found")
)
