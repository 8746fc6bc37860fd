package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigUnreadable is returned when the configuration file cannot be read from disk.
	ErrConfigUnreadable = zerr.New("failed to read configuration file")

	// ErrConfigMalformed is returned when the configuration file does not parse into a mapping.
	ErrConfigMalformed = zerr.New("failed to parse configuration file")

	// ErrScopeNotMapping is returned when a command's configuration scope resolves to anything other than a mapping.
	ErrScopeNotMapping = zerr.New("configuration scope is not a mapping")

	// ErrScopeIndirection is returned when a scope alias points at a key that is missing or not a mapping.
	ErrScopeIndirection = zerr.New("configuration scope alias cannot be resolved")

	// ErrUnknownCommand is returned when a requested command is not present in the registry.
	ErrUnknownCommand = zerr.New("unknown command")

	// ErrDuplicateCommand is returned when registering a command under a name that is already taken.
	ErrDuplicateCommand = zerr.New("command already registered")

	// ErrReservedCommandName is returned when registering a command under the built-in show name.
	ErrReservedCommandName = zerr.New("command name 'show' is reserved")

	// ErrMissingOutputPath is returned when neither the configuration nor the command line names a result file.
	ErrMissingOutputPath = zerr.New("no result file configured")

	// ErrCommandFailed is returned when a command handler reports an error during execution.
	ErrCommandFailed = zerr.New("command execution failed")

	// ErrSetupFailed is returned when the registry's setup hook reports an error.
	ErrSetupFailed = zerr.New("pipeline setup failed")

	// ErrUnsupportedType is returned by the durable encoder for values it cannot represent losslessly.
	ErrUnsupportedType = zerr.New("unsupported value type")

	// ErrMalformedArray is returned when an array's payload does not match its declared dtype and shape.
	ErrMalformedArray = zerr.New("malformed array payload")

	// ErrStoreReadFailed is returned when an existing result file cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read result file")

	// ErrStoreDecodeFailed is returned when a result file does not contain a JSON mapping.
	ErrStoreDecodeFailed = zerr.New("failed to decode result file")

	// ErrStoreWriteFailed is returned when the result file cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write result file")

	// ErrInvalidRepeat is returned when the repeat setting is not a positive integer.
	ErrInvalidRepeat = zerr.New("repeat must be a positive integer")
)
