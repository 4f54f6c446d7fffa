package internal

import "errors"

// ErrMailNotInitialized is returned when no mailer is registered on the app.
var ErrMailNotInitialized = errors.New("courier: mail extension not initialized")
