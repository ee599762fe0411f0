package dxcrypto

import "errors"

// Proof rejection reasons. Verification itself is total and returns bool;
// callers translate a false result into one of these so rejections always
// carry a typed reason.
var (
	ErrStarkVerificationFailed = errors.New("handshake proof verification failed")
	ErrSnarkVerificationFailed = errors.New("message proof verification failed")
)
