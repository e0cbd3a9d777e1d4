package usecase

// TechnicalError marks infrastructure failures (store, transport) as opposed
// to validation failures, which carry per-field ValidationError values.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
