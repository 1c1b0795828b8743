package resilience

import "fmt"

// Remediation returns the advice shown to the user for err.
func Remediation(err error) string {
	if err == nil {
		return ""
	}
	if _, ok := AsValidationError(err); ok {
		return "Fix the highlighted fields; nothing was sent."
	}
	if IsTimedOut(err) {
		return "The API may be waking up (free tier cold start takes 30-60 seconds). Wait a moment and try again."
	}
	if IsUnreachable(err) {
		return "The API may be sleeping or your connection is down. Check connectivity and try again in 30 seconds."
	}
	if be, ok := AsBackendError(err); ok {
		if IsColdStartStatus(be.StatusCode) {
			return fmt.Sprintf("API returned %d while starting up. Try again in 30 seconds.", be.StatusCode)
		}
		return fmt.Sprintf("API error %d: %s", be.StatusCode, be.Body)
	}
	return "Unexpected error: " + err.Error()
}
