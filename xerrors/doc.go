// Package xerrors provides structured error types for the shim.
//
// Errors carry a Phase (where in the object lifecycle the failure happened)
// and a Kind (what went wrong), so callers can match on either without
// string comparison:
//
//	if errors.Is(err, &xerrors.Error{Phase: xerrors.PhaseRegister, Kind: xerrors.KindDuplicateType}) {
//	    // ...
//	}
//
// Construction failures are propagated to callers unchanged; nothing in this
// module retries or rewraps allocator errors.
package xerrors
