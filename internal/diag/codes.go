package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Derivation-time failures (abort one record's derivation).
	DrvInfo               Code = 1000
	DrvUnsupportedFeature Code = 1001
	DrvInternalBug        Code = 1002
	DrvInvalidDecl        Code = 1003
	DrvDuplicateField     Code = 1004
	DrvFieldOrder         Code = 1005
	DrvVerifyFailed       Code = 1006

	// Runtime faults raised by synthesized methods.
	RunInfo             Code = 2000
	RunIncomparableNone Code = 2001
	RunHashUnsupported  Code = 2002
	RunFault            Code = 2003

	// Input loading.
	IOLoadFileError  Code = 3001
	IOUnknownFormat  Code = 3002
	IODecodeFailure  Code = 3003
	IOEmptyInputList Code = 3004
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	DrvInfo:               "Derivation information",
	DrvUnsupportedFeature: "Unsupported dataclass feature",
	DrvInternalBug:        "Internal synthesis bug",
	DrvInvalidDecl:        "Invalid record declaration",
	DrvDuplicateField:     "Duplicate field",
	DrvFieldOrder:         "Non-default argument follows default argument",
	DrvVerifyFailed:       "Synthesized method rejected by downstream",
	RunInfo:               "Runtime information",
	RunIncomparableNone:   "Cannot compare with None",
	RunHashUnsupported:    "Hashing is not supported",
	RunFault:              "Runtime fault",
	IOLoadFileError:       "Failed to load file",
	IOUnknownFormat:       "Unknown declaration format",
	IODecodeFailure:       "Failed to decode declarations",
	IOEmptyInputList:      "No record declarations given",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DRV%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("RUN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
