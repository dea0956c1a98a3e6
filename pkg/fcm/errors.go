package fcm

import "fmt"

// CredentialErrorKind says which step of obtaining an access token failed.
type CredentialErrorKind string

const (
	CredentialMissingFile    CredentialErrorKind = "missing_file"
	CredentialMalformed      CredentialErrorKind = "malformed"
	CredentialSigningFailed  CredentialErrorKind = "signing_failed"
	CredentialExchangeFailed CredentialErrorKind = "exchange_failed"
)

// CredentialError is returned when no bearer token for the gateway can be obtained.
type CredentialError struct {
	Kind CredentialErrorKind
	Err  error
}

func (e *CredentialError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fcm credentials: %s", e.Kind)
	}
	return fmt.Sprintf("fcm credentials: %s: %v", e.Kind, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// Gateway error codes that mean the device token will never work again.
const (
	CodeUnregistered    = "UNREGISTERED"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotFound        = "NOT_FOUND"
)

// IsPermanentCode reports whether a gateway error code marks the token as dead.
func IsPermanentCode(code string) bool {
	switch code {
	case CodeUnregistered, CodeInvalidArgument, CodeNotFound:
		return true
	}
	return false
}

// DeliveryError is returned when the gateway rejected a message.
type DeliveryError struct {
	StatusCode int    // HTTP status, 0 when unknown
	Code       string // structured gateway error code
	Message    string
	Permanent  bool
}

func newDeliveryError(status int, code, message string) *DeliveryError {
	return &DeliveryError{
		StatusCode: status,
		Code:       code,
		Message:    message,
		Permanent:  IsPermanentCode(code),
	}
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("fcm delivery failed: status=%d code=%s: %s", e.StatusCode, e.Code, e.Message)
}
