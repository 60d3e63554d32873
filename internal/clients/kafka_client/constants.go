package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_RESULTS = "analysis-results" // scored batches headed for the archive
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second

	// READ_TIMEOUT bounds a single poll so an idle topic hands control back
	// to the caller's ticker and context instead of blocking in librdkafka.
	READ_TIMEOUT = 1 * time.Second
)
