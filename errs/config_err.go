package errs

/*
A error type for invalid pool construction options

Construction fails eagerly: no resource is created before the
options pass validation
*/
type ConfigErr struct {
	msg string
}

func (e ConfigErr) Error() string {
	return e.msg
}

func NewConfigErr(cause string) ConfigErr {
	return ConfigErr{
		msg: cause,
	}
}

func IsConfigErr(e error) bool {
	_, ok := e.(ConfigErr)
	return ok
}
