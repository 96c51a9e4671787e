package game

import "errors"

// Reason explains why an operation was rejected.
type Reason int

// Rejection reasons.
const (
	ReasonNone Reason = iota
	ReasonInvalidPlacement
	ReasonSessionNotActive
	ReasonQuotaExceeded
	ReasonUnknownToken
	ReasonNothingPlaced
)

// Sentinel errors matching the rejection reasons.
var (
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrSessionNotActive = errors.New("session not active")
	ErrQuotaExceeded    = errors.New("token quota exceeded")
	ErrUnknownToken     = errors.New("unknown token")
	ErrNothingPlaced    = errors.New("nothing placed")
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInvalidPlacement:
		return "invalid-placement"
	case ReasonSessionNotActive:
		return "session-not-active"
	case ReasonQuotaExceeded:
		return "quota-exceeded"
	case ReasonUnknownToken:
		return "unknown-token"
	case ReasonNothingPlaced:
		return "nothing-placed"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error for r, or nil for ReasonNone.
func (r Reason) Err() error {
	switch r {
	case ReasonNone:
		return nil
	case ReasonInvalidPlacement:
		return ErrInvalidPlacement
	case ReasonSessionNotActive:
		return ErrSessionNotActive
	case ReasonQuotaExceeded:
		return ErrQuotaExceeded
	case ReasonUnknownToken:
		return ErrUnknownToken
	case ReasonNothingPlaced:
		return ErrNothingPlaced
	default:
		return errors.New("unknown reason")
	}
}
