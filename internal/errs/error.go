package errs

import (
	"errors"
)

var (
	ErrInvalidParam       = errors.New("[hookify] invalid param")
	ErrClientNotFound     = errors.New("[hookify] client not found")
	ErrOrderNotFound      = errors.New("[hookify] order not found")
	ErrDeliveryNotFound   = errors.New("[hookify] delivery not found")
	ErrSecretNotFound     = errors.New("[hookify] client secret not found")
	ErrSecretConflict     = errors.New("[hookify] client secret already exists")
	ErrCallbackDisabled   = errors.New("[hookify] client callback disabled")
	ErrInvalidCallbackUrl = errors.New("[hookify] invalid callback url")
	ErrInvalidEventType   = errors.New("[hookify] invalid event type")
	ErrDuplicateTrigger   = errors.New("[hookify] duplicate delivery trigger")
	ErrRateLimited        = errors.New("[hookify] too many requests")
)
