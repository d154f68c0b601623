package rod

// StatusError exposes statusError for tests.
var StatusError = statusError
