package errs

// ErrLockAcquire  function returns err with code "ERR::LOCK::ACQ"
func ErrLockAcquire(err string) Err {
	return Err{
		Code:    "ERR::LOCK::ACQ",
		Message: "Unable to acquire lock: " + err}
}

// ErrQueuePush function returns err with code "ERR::QUEUE::PUSH"
func ErrQueuePush(err string) Err {
	return Err{
		Code:    "ERR::QUEUE::PUSH",
		Message: "Unable to enqueue job: " + err}
}

// ErrStatusReport function returns err with code "ERR::STATUS::REPORT"
func ErrStatusReport(err string) Err {
	return Err{
		Code:    "ERR::STATUS::REPORT",
		Message: "Unable to report commit status: " + err}
}

// ErrContentFetch function returns err with code "ERR::CONTENT::FETCH"
func ErrContentFetch(err string) Err {
	return Err{
		Code:    "ERR::CONTENT::FETCH",
		Message: "Unable to fetch file content: " + err}
}

// ErrStore function returns err with code "ERR::STORE"
func ErrStore(err string) Err {
	return Err{
		Code:    "ERR::STORE",
		Message: "Store operation failed: " + err}
}

// ERR_INVALID_ENVIRONMENT  should be thrown when invalid environment specified
var ERR_INVALID_ENVIRONMENT = Err{
	Code:    "ERR::INV::ENV",
	Message: "Invalid environment specified"}
