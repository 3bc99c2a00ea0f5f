package errs

/*
A error type for waiting on a full pool longer than the acquire timeout
*/
type AcquireTimeoutErr struct {
	msg string
}

func (e AcquireTimeoutErr) Error() string {
	return e.msg
}

func NewAcquireTimeoutErr(cause string) AcquireTimeoutErr {
	return AcquireTimeoutErr{
		msg: cause,
	}
}

func IsAcquireTimeoutErr(e error) bool {
	_, ok := e.(AcquireTimeoutErr)
	return ok
}
