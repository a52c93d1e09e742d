package ekyc

import "errors"

// Backend validation errors, keyed by response code in ValidationError.
var (
	ErrMissingParameter                   = errors.New("ekyc: missing parameter")
	ErrLicenseOrAppNotFound               = errors.New("ekyc: license or app not found")
	ErrLicenseExpired                     = errors.New("ekyc: license expired")
	ErrMerchantNotFound                   = errors.New("ekyc: merchant not found")
	ErrInvalidSignature                   = errors.New("ekyc: invalid signature")
	ErrAppIDNotFound                      = errors.New("ekyc: app id not found")
	ErrMerchantAccountNotFound            = errors.New("ekyc: merchant account not found")
	ErrMerchantAccountLocked              = errors.New("ekyc: merchant account locked")
	ErrNoPermission                       = errors.New("ekyc: no permission")
	ErrDuplicateUniqueData                = errors.New("ekyc: duplicate unique data")
	ErrDataNotFound                       = errors.New("ekyc: data not found")
	ErrIPBlocked                          = errors.New("ekyc: ip blocked")
	ErrSystemMaintenance                  = errors.New("ekyc: system maintenance")
	ErrTransactionNotFound                = errors.New("ekyc: transaction not found")
	ErrSystemBusy                         = errors.New("ekyc: system busy")
	ErrTransactionNotFoundNoMatchMerchant = errors.New("ekyc: transaction not found for merchant")
	ErrNoMatchedCard                      = errors.New("ekyc: no matched card")
	ErrCheckCertFailed                    = errors.New("ekyc: card certificate check failed")
	ErrPassiveAuth                        = errors.New("ekyc: passive authentication failed")
	ErrUnknown                            = errors.New("ekyc: unknown error")
)

// Client errors.
var (
	ErrMissingConfig = errors.New("ekyc: missing configuration")
	ErrRequest       = errors.New("ekyc: request failed")
	ErrHTTPStatus    = errors.New("ekyc: unexpected http status")
	ErrBadResponse   = errors.New("ekyc: malformed response")
)

var validationErrors = map[string]error{
	"001":              ErrMissingParameter,
	"002":              ErrLicenseOrAppNotFound,
	"003":              ErrLicenseExpired,
	"004":              ErrMerchantNotFound,
	"005":              ErrInvalidSignature,
	"006":              ErrAppIDNotFound,
	"007":              ErrMerchantAccountNotFound,
	"008":              ErrMerchantAccountLocked,
	"009":              ErrNoPermission,
	"010":              ErrDuplicateUniqueData,
	"011":              ErrDataNotFound,
	"012":              ErrIPBlocked,
	"013":              ErrSystemMaintenance,
	"014":              ErrTransactionNotFound,
	"015":              ErrSystemBusy,
	"019":              ErrTransactionNotFoundNoMatchMerchant,
	"NO_MATCHED_CARD":  ErrNoMatchedCard,
	"ERROR_CHECK_CERT": ErrCheckCertFailed,
	"PASSIVE_AUTH_ERR": ErrPassiveAuth,
}

// ValidationError returns the sentinel for a backend response code, or
// ErrUnknown.
func ValidationError(code string) error {
	if err, ok := validationErrors[code]; ok {
		return err
	}
	return ErrUnknown
}
