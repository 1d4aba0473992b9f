package core

// Error is a constant error raised by the core itself.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrNoChannels        = Error("no converter channels configured")
	ErrTooManyChannels   = Error("too many converter channels")
	ErrBufferSize        = Error("buffer size must be a non-zero multiple of the channel count")
	ErrSampleInterval    = Error("sample interval must be non-zero")
	ErrTimerFrequency    = Error("timer base frequency must be non-zero")
	ErrResolution        = Error("unsupported converter resolution")
	ErrVoltageScale      = Error("invalid voltage scale")
	ErrScaleGain         = Error("voltage scale does not invert the channel gain")
	ErrGain              = Error("unsupported channel gain")
	ErrAcquisitionTime   = Error("unsupported acquisition time")
	ErrReductionBudget   = Error("buffer reduction exceeds buffer fill period")
	ErrMissingDriver     = Error("missing peripheral driver")
	ErrResourceExhausted = CodeNoMem
)

// Code is a peripheral driver status. Values follow the nrfx numbering so
// codes logged on hardware and in simulation read the same.
type Code uint32

const (
	CodeSuccess            Code = 0x0BAD0000
	CodeInternal           Code = 0x0BAD0001
	CodeNoMem              Code = 0x0BAD0002
	CodeNotSupported       Code = 0x0BAD0003
	CodeInvalidParam       Code = 0x0BAD0004
	CodeInvalidState       Code = 0x0BAD0005
	CodeInvalidLength      Code = 0x0BAD0006
	CodeTimeout            Code = 0x0BAD0007
	CodeForbidden          Code = 0x0BAD0008
	CodeNull               Code = 0x0BAD0009
	CodeInvalidAddr        Code = 0x0BAD000A
	CodeBusy               Code = 0x0BAD000B
	CodeAlreadyInitialized Code = 0x0BAD000C
)

func (c Code) Error() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeInternal:
		return "internal error"
	case CodeNoMem:
		return "resource exhausted"
	case CodeNotSupported:
		return "not supported"
	case CodeInvalidParam:
		return "invalid parameter"
	case CodeInvalidState:
		return "invalid state"
	case CodeInvalidLength:
		return "invalid length"
	case CodeTimeout:
		return "timeout"
	case CodeForbidden:
		return "forbidden"
	case CodeNull:
		return "null pointer"
	case CodeInvalidAddr:
		return "invalid address"
	case CodeBusy:
		return "busy"
	case CodeAlreadyInitialized:
		return "already initialized"
	default:
		return "unknown driver error"
	}
}

// StatusCode extracts the driver status from err. Errors that are not a
// Code report CodeInternal.
func StatusCode(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	if c, ok := err.(Code); ok {
		return c
	}
	return CodeInternal
}
