package ntru

import "errors"

var (
	// ErrInvalidParams reports parameters that fail validation, or key and
	// signature material whose shape does not agree with the parameters.
	ErrInvalidParams = errors.New("ntru: invalid parameters")
	// ErrKeygenFailure is returned when no invertible F was found within
	// the key generation attempt ceiling.
	ErrKeygenFailure = errors.New("ntru: key generation failed")
	// ErrSignFailure is returned when the rejection-sampling loop exhausts
	// its attempt ceiling. Callers may simply retry.
	ErrSignFailure = errors.New("ntru: signing attempts exhausted")

	// ErrMalformedSignature, ErrChallengeMismatch and ErrNormBound are the
	// reasons CheckSignature reports for a rejected signature.
	ErrMalformedSignature = errors.New("ntru: malformed signature")
	ErrChallengeMismatch  = errors.New("ntru: challenge mismatch")
	ErrNormBound          = errors.New("ntru: signature norm out of bound")
)
