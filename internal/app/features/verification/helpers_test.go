package verification_test

import "errors"

var errSend = errors.New("provider rejected message")
