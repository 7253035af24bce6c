package nes

import "fmt"

// RomErrorKind distinguishes the ways loading an image can fail (the
// header and size checks in ParseCartridge, or a mapper id NewConsole
// cannot build), so callers can tell a corrupt file from one this emulator
// simply doesn't support.
type RomErrorKind int

const (
	RomReasonOther RomErrorKind = iota
	RomBadMagic
	RomTruncatedHeader
	RomTruncatedBody
	RomUnsupportedMapper
)

// RomError reports a problem found while parsing an iNES image, per the
// error taxonomy every loader in this package returns instead of
// panicking.
type RomError struct {
	Kind   RomErrorKind
	Reason string
}

func (e *RomError) Error() string {
	return fmt.Sprintf("nes: invalid ROM: %s", e.Reason)
}

// SaveStateErrorKind distinguishes the three ways a restore can fail. All
// three are recoverable: the caller should log and keep running the
// console unchanged.
type SaveStateErrorKind int

const (
	SaveStateReasonOther SaveStateErrorKind = iota
	SaveStateMismatchedRom
	SaveStateUnsupportedVersion
	SaveStateCorrupt
)

// SaveStateError reports a problem found while restoring a snapshot —
// wrong ROM, wrong format version, or truncated/corrupt data.
type SaveStateError struct {
	Kind   SaveStateErrorKind
	Reason string
}

func (e *SaveStateError) Error() string {
	return fmt.Sprintf("nes: invalid save state: %s", e.Reason)
}
