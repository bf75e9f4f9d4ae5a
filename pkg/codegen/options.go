// Package codegen renders command definitions as C: a header with one
// documented declaration per command and a source file with one wrapper
// per command that encodes the request TLVs, transmits the APDU, decodes the
// response TLVs and returns the status trailer.
package codegen

// Options names the pieces of the target runtime that generated code refers to.
type Options struct {
	// Prefix is prepended to the command name to form the function name.
	Prefix string
	// StatusType is the return type of every wrapper.
	StatusType string
	// StatusOK and StatusNotOK are the success value of the transmit
	// primitives and the failure value returned when decoding fails.
	StatusOK    string
	StatusNotOK string
	// IncludeGuard and Include frame the declaration file.
	IncludeGuard string
	Include      string
	// TraceMacro gates the per-command debug trace at build time.
	TraceMacro string
	// Banner heads both files. It is written verbatim.
	Banner string
}

// DefaultBanner heads both files unless the banner setting replaces it.
// Copyright and licensing text belongs in that setting.
const DefaultBanner = `/*
 * Generated by apdugen from an APDU command table. Do not edit.
 */`

// DefaultOptions targets the SE05x host library.
func DefaultOptions() Options {
	return Options{
		Prefix:       "Se05x_API_",
		StatusType:   "smStatus_t",
		StatusOK:     "SM_OK",
		StatusNotOK:  "SM_NOT_OK",
		IncludeGuard: "SE050X_APDU_H_INC",
		Include:      "se05x_tlv.h",
		TraceMacro:   "VERBOSE_APDU_LOGS",
		Banner:       DefaultBanner,
	}
}
