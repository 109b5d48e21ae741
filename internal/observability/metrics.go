package observability

const (
	MCheckoutRequests      MetricKey = "checkout_requests_total"
	MCheckoutDuration      MetricKey = "checkout_duration_seconds"
	MRetryAttempts         MetricKey = "retry_attempts_total"
	MBackgroundReschedules MetricKey = "background_reschedules_total"
	MHTTPRequests          MetricKey = "http_requests_total"
	MHTTPRequestDuration   MetricKey = "http_request_duration_seconds"
)
